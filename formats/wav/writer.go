// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"

	"github.com/ik5/audengine/audio"
)

// WriteReader drains a finite reader into a PCM WAV stream with the given
// bit depth (16 or 24). Samples are saturated on overflow.
func WriteReader(ws io.WriteSeeker, r audio.Reader, bitDepth int) error {
	if bitDepth != 16 && bitDepth != 24 {
		return fmt.Errorf("wav: %d bit output: %w", bitDepth, ErrUnsupportedWavLayout)
	}

	specs := r.Specs()
	enc := gowav.NewEncoder(ws, int(specs.Rate), bitDepth, specs.Channels.Count(), 1)

	channels := specs.Channels.Count()
	buf := make([]float32, 4096*channels)
	scale := float64(int64(1)<<(bitDepth-1) - 1)

	intBuf := &goaudio.IntBuffer{
		Format:         &goaudio.Format{NumChannels: channels, SampleRate: int(specs.Rate)},
		SourceBitDepth: bitDepth,
	}

	for {
		n, eos := r.ReadFrames(buf)
		if n > 0 {
			intBuf.Data = intBuf.Data[:0]
			for _, s := range buf[:n*channels] {
				if s > 1 {
					s = 1
				} else if s < -1 {
					s = -1
				}
				intBuf.Data = append(intBuf.Data, int(float64(s)*scale))
			}
			if err := enc.Write(intBuf); err != nil {
				return fmt.Errorf("wav: write: %w", err)
			}
		}
		if eos {
			break
		}
	}

	return enc.Close()
}
