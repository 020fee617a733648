// SPDX-License-Identifier: EPL-2.0

package fx

import (
	"fmt"

	"github.com/ik5/audengine/audio"
)

// Rechannel rematrixes its input into a different speaker layout using the
// fixed layout matrices.
type Rechannel struct {
	effect
	channels audio.Channels
	matrix   [][]float32
	scratch  []float32
}

// NewRechannel creates a rematrixing reader. Unsupported layout pairs fail
// with ErrSpecs.
func NewRechannel(src audio.Reader, channels audio.Channels) (*Rechannel, error) {
	srcChannels := src.Specs().Channels
	matrix, ok := audio.MixingMatrix(srcChannels, channels)
	if !ok {
		return nil, fmt.Errorf("rechannel: no mixing matrix for %s to %s: %w",
			srcChannels, channels, audio.ErrSpecs)
	}

	return &Rechannel{effect: effect{src: src}, channels: channels, matrix: matrix}, nil
}

func (r *Rechannel) Specs() audio.Specs {
	specs := r.src.Specs()
	specs.Channels = r.channels
	return specs
}

func (r *Rechannel) ReadFrames(dst []float32) (int, bool) {
	in := r.src.Specs().Channels.Count()
	out := r.channels.Count()
	want := len(dst) / out

	if cap(r.scratch) < want*in {
		r.scratch = make([]float32, want*in)
	}
	scratch := r.scratch[:want*in]

	n, eos := r.src.ReadFrames(scratch)

	for frame := range n {
		src := scratch[frame*in : (frame+1)*in]
		for i, row := range r.matrix {
			var sum float32
			for j, gain := range row {
				sum += gain * src[j]
			}
			dst[frame*out+i] = sum
		}
	}

	return n, eos
}
