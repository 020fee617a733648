// SPDX-License-Identifier: EPL-2.0

package fx

import (
	"fmt"

	"github.com/ik5/audengine/audio"
)

// Pitch scales the virtual sample rate of its input without resampling. The
// downstream converter is responsible for rate matching.
type Pitch struct {
	effect
	factor float64
}

// NewPitch creates a pitch effect. factor must be positive.
func NewPitch(src audio.Reader, factor float64) (*Pitch, error) {
	if factor <= 0 {
		return nil, fmt.Errorf("pitch: factor %g: %w", factor, audio.ErrSpecs)
	}
	return &Pitch{effect: effect{src: src}, factor: factor}, nil
}

func (p *Pitch) Specs() audio.Specs {
	specs := p.src.Specs()
	specs.Rate = audio.SampleRate(float64(specs.Rate) * p.factor)
	return specs
}
