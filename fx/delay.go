// SPDX-License-Identifier: EPL-2.0

package fx

import (
	"fmt"

	"github.com/ik5/audengine/audio"
)

// Delay prefixes its input with a span of silence.
type Delay struct {
	effect
	delayFrames int
	remaining   int
}

// NewDelay creates a delay of the given number of seconds in the reader's
// own rate.
func NewDelay(src audio.Reader, seconds float64) (*Delay, error) {
	if seconds < 0 {
		return nil, fmt.Errorf("delay: %g seconds: %w", seconds, audio.ErrSpecs)
	}

	frames := int(seconds * float64(src.Specs().Rate))
	return &Delay{effect: effect{src: src}, delayFrames: frames, remaining: frames}, nil
}

func (d *Delay) Length() int {
	length := d.src.Length()
	if length == audio.LengthInfinite {
		return length
	}
	return length + d.delayFrames
}

func (d *Delay) Position() int {
	return d.src.Position() + d.delayFrames - d.remaining
}

func (d *Delay) Seek(frame int) bool {
	if frame < 0 {
		frame = 0
	}
	if frame < d.delayFrames {
		if !d.src.Seek(0) {
			return false
		}
		d.remaining = d.delayFrames - frame
		return true
	}
	if !d.src.Seek(frame - d.delayFrames) {
		return false
	}
	d.remaining = 0
	return true
}

func (d *Delay) ReadFrames(dst []float32) (int, bool) {
	channels := d.src.Specs().Channels.Count()
	want := len(dst) / channels

	silent := min(want, d.remaining)
	for i := range silent * channels {
		dst[i] = 0
	}
	d.remaining -= silent

	if silent == want {
		return want, false
	}

	n, eos := d.src.ReadFrames(dst[silent*channels:])
	return silent + n, eos
}
