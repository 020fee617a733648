// SPDX-License-Identifier: EPL-2.0

package fx

import (
	"fmt"

	"github.com/ik5/audengine/audio"
)

type fadeDirection int

const (
	fadeIn fadeDirection = iota
	fadeOut
)

// Fade applies a linear gain ramp over [start, start+length) seconds. A fade
// in is silent before start and unity after the ramp; a fade out is unity
// before start and silent after the ramp.
type Fade struct {
	effect
	direction fadeDirection
	start     float64
	length    float64
}

func newFade(src audio.Reader, direction fadeDirection, start, length float64) (*Fade, error) {
	if start < 0 || length <= 0 {
		return nil, fmt.Errorf("fade: start %g length %g: %w", start, length, audio.ErrSpecs)
	}
	return &Fade{effect: effect{src: src}, direction: direction, start: start, length: length}, nil
}

// NewFadeIn ramps the gain from 0 to 1 over [start, start+length) seconds.
func NewFadeIn(src audio.Reader, start, length float64) (*Fade, error) {
	return newFade(src, fadeIn, start, length)
}

// NewFadeOut ramps the gain from 1 to 0 over [start, start+length) seconds.
func NewFadeOut(src audio.Reader, start, length float64) (*Fade, error) {
	return newFade(src, fadeOut, start, length)
}

func (f *Fade) gain(seconds float64) float32 {
	var g float64
	switch {
	case seconds < f.start:
		g = 0
	case seconds >= f.start+f.length:
		g = 1
	default:
		g = (seconds - f.start) / f.length
	}

	if f.direction == fadeOut {
		g = 1 - g
	}
	return float32(g)
}

func (f *Fade) ReadFrames(dst []float32) (int, bool) {
	specs := f.src.Specs()
	channels := specs.Channels.Count()
	position := f.src.Position()

	n, eos := f.src.ReadFrames(dst)

	for frame := range n {
		g := f.gain(float64(position+frame) / float64(specs.Rate))
		for ch := range channels {
			dst[frame*channels+ch] *= g
		}
	}

	return n, eos
}
