// SPDX-License-Identifier: EPL-2.0

package fx

import "github.com/ik5/audengine/audio"

// Volume scales every sample by a constant gain.
type Volume struct {
	effect
	gain float32
}

// NewVolume creates a gain effect over src. Negative gains invert the phase.
func NewVolume(src audio.Reader, gain float32) *Volume {
	return &Volume{effect: effect{src: src}, gain: gain}
}

func (v *Volume) ReadFrames(dst []float32) (int, bool) {
	n, eos := v.src.ReadFrames(dst)

	channels := v.src.Specs().Channels.Count()
	for i := range n * channels {
		dst[i] *= v.gain
	}

	return n, eos
}
