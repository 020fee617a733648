// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"fmt"

	"github.com/ik5/audengine/utils"
)

// Converter brings a reader's frames into a target device layout. It
// resamples with cubic interpolation when the rates differ (with a one-pole
// smoothing filter when downsampling) and rematrixes channels with the fixed
// layout matrices. Sample-format conversion happens at the byte boundary via
// EncodeFrames.
//
// Position and Seek stay in source frames; the converter translates its own
// interpolation state.
type Converter struct {
	src      Reader
	target   Specs
	matrix   [][]float32
	ratio    float64 // source frames per output frame
	channels int     // source channel count

	// Ring of 4 source frames for cubic interpolation:
	// frames[0] = t-1, frames[1] = t0, frames[2] = t+1, frames[3] = t+2
	frames   [4][]float32
	hasFrame [4]bool
	primed   bool
	pos      float64

	srcBuf []float32
	mixed  []float32
	eos    bool

	filterState []float32
	useFilter   bool
	filterAlpha float32
}

// NewConverter creates a converter producing frames at target.Rate with
// target.Channels. An unsupported layout pair fails with ErrSpecs.
func NewConverter(src Reader, target DeviceSpecs) (*Converter, error) {
	specs := src.Specs()
	if !specs.Valid() || !target.Specs.Valid() {
		return nil, fmt.Errorf("converter: %w", ErrSpecs)
	}

	var matrix [][]float32
	if specs.Channels != target.Channels {
		m, ok := MixingMatrix(specs.Channels, target.Channels)
		if !ok {
			return nil, fmt.Errorf("converter: no mixing matrix for %s to %s: %w",
				specs.Channels, target.Channels, ErrSpecs)
		}
		matrix = m
	}

	channels := specs.Channels.Count()
	ratio := float64(specs.Rate) / float64(target.Rate)

	c := &Converter{
		src:         src,
		target:      Specs{Rate: target.Rate, Channels: target.Channels},
		matrix:      matrix,
		ratio:       ratio,
		channels:    channels,
		srcBuf:      make([]float32, channels),
		mixed:       make([]float32, channels),
		filterState: make([]float32, channels),
	}

	// One-pole low-pass when downsampling, like the plain resampler.
	if ratio > 1 {
		c.useFilter = true
		c.filterAlpha = 0.5
	}

	for i := range c.frames {
		c.frames[i] = make([]float32, channels)
	}

	return c, nil
}

func (c *Converter) Specs() Specs {
	return c.target
}

func (c *Converter) Length() int {
	return c.src.Length()
}

func (c *Converter) Position() int {
	return c.src.Position()
}

func (c *Converter) Seekable() bool {
	return c.src.Seekable()
}

// Seek repositions the source and discards the interpolation window.
func (c *Converter) Seek(frame int) bool {
	if !c.src.Seek(frame) {
		return false
	}

	c.pos = 0
	c.primed = false
	c.eos = false
	for i := range c.hasFrame {
		c.hasFrame[i] = false
	}
	for i := range c.filterState {
		c.filterState[i] = 0
	}

	return true
}

// fetchFrame shifts the interpolation window and pulls one source frame.
func (c *Converter) fetchFrame() bool {
	copy(c.frames[0], c.frames[1])
	copy(c.frames[1], c.frames[2])
	copy(c.frames[2], c.frames[3])
	c.hasFrame[0] = c.hasFrame[1]
	c.hasFrame[1] = c.hasFrame[2]
	c.hasFrame[2] = c.hasFrame[3]

	if c.eos {
		c.hasFrame[3] = false
		return c.hasFrame[1] && c.hasFrame[2]
	}

	n, eos := c.src.ReadFrames(c.srcBuf)
	if n > 0 {
		copy(c.frames[3], c.srcBuf)
		c.hasFrame[3] = true

		if c.useFilter {
			for ch := range c.channels {
				c.frames[3][ch] = c.filterAlpha*c.frames[3][ch] + (1-c.filterAlpha)*c.filterState[ch]
				c.filterState[ch] = c.frames[3][ch]
			}
		}
	} else {
		c.hasFrame[3] = false
	}
	if eos {
		c.eos = true
	}

	return c.hasFrame[1] && c.hasFrame[2]
}

// prime loads the first three source frames into slots 1..3 so the first
// emitted frame equals the first source frame.
func (c *Converter) prime() bool {
	for i := 1; i < 4; i++ {
		n, eos := c.src.ReadFrames(c.srcBuf)
		if n > 0 {
			copy(c.frames[i], c.srcBuf)
			c.hasFrame[i] = true

			if i == 1 && c.useFilter {
				copy(c.filterState, c.srcBuf)
			}
		}
		if eos {
			c.eos = true
			if i == 1 && n == 0 {
				return false
			}
			// Duplicate the last valid frame into the remaining slots.
			last := i
			if n == 0 {
				last = i - 1
			}
			for j := last + 1; j < 4; j++ {
				copy(c.frames[j], c.frames[last])
				c.hasFrame[j] = c.hasFrame[last]
			}
			break
		}
	}

	c.primed = true
	return c.hasFrame[1]
}

// emit interpolates one source-domain frame at c.pos and rematrixes it into
// dst, which holds one target-layout frame.
func (c *Converter) emit(dst []float32) {
	alpha := float32(c.pos)

	for ch := range c.channels {
		y1 := c.frames[1][ch]
		y2 := c.frames[2][ch]
		y0 := y1
		if c.hasFrame[0] {
			y0 = c.frames[0][ch]
		}
		y3 := y2
		if c.hasFrame[3] {
			y3 = c.frames[3][ch]
		}

		c.mixed[ch] = utils.CubicInterpolate(y0, y1, y2, y3, alpha)
	}

	if c.matrix == nil {
		copy(dst, c.mixed)
		return
	}

	for i, row := range c.matrix {
		var sum float32
		for j, gain := range row {
			sum += gain * c.mixed[j]
		}
		dst[i] = sum
	}
}

func (c *Converter) ReadFrames(dst []float32) (int, bool) {
	outChannels := c.target.Channels.Count()
	want := len(dst) / outChannels
	if want == 0 {
		return 0, c.eos && !c.hasFrame[2]
	}

	if !c.primed {
		if !c.prime() {
			return 0, true
		}
	}

	written := 0
	for written < want {
		for c.pos >= 1 {
			c.pos--
			if !c.fetchFrame() {
				return written, true
			}
		}

		if !c.hasFrame[1] || !c.hasFrame[2] {
			return written, true
		}

		c.emit(dst[written*outChannels : (written+1)*outChannels])
		written++
		c.pos += c.ratio
	}

	return written, false
}
