// SPDX-License-Identifier: EPL-2.0

package fx

import (
	"fmt"

	"github.com/ik5/audengine/audio"
)

// ADSR shapes the signal with an attack-decay-sustain envelope. The envelope
// triggers on stream start; release is not driven in this engine, so the
// sustain level holds until the stream ends.
type ADSR struct {
	effect
	attack  float64
	decay   float64
	sustain float32
	release float64
}

// NewADSR creates an ADSR envelope. attack and decay are in seconds, sustain
// is the level held after decay, release is kept for symmetry with the
// classic envelope parameters.
func NewADSR(src audio.Reader, attack, decay float64, sustain float32, release float64) (*ADSR, error) {
	if attack < 0 || decay < 0 || release < 0 || sustain < 0 {
		return nil, fmt.Errorf("adsr: negative parameter: %w", audio.ErrSpecs)
	}
	return &ADSR{
		effect:  effect{src: src},
		attack:  attack,
		decay:   decay,
		sustain: sustain,
		release: release,
	}, nil
}

func (a *ADSR) gain(seconds float64) float32 {
	switch {
	case seconds < a.attack:
		if a.attack == 0 {
			return 1
		}
		return float32(seconds / a.attack)
	case seconds < a.attack+a.decay:
		t := float32((seconds - a.attack) / a.decay)
		return 1 + t*(a.sustain-1)
	default:
		return a.sustain
	}
}

func (a *ADSR) ReadFrames(dst []float32) (int, bool) {
	specs := a.src.Specs()
	channels := specs.Channels.Count()
	position := a.src.Position()

	n, eos := a.src.ReadFrames(dst)

	for frame := range n {
		g := a.gain(float64(position+frame) / float64(specs.Rate))
		for ch := range channels {
			dst[frame*channels+ch] *= g
		}
	}

	return n, eos
}
