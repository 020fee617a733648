// SPDX-License-Identifier: EPL-2.0

package fx

import (
	"fmt"
	"math"

	"github.com/ik5/audengine/audio"
)

// IIR is a direct-form-II transposed infinite impulse response filter with
// user-supplied b (feedforward) and a (feedback) coefficients. a[0]
// normalizes the remaining coefficients; an empty a yields an FIR filter.
type IIR struct {
	effect
	b []float32
	a []float32
	// state[ch][k] is the k-th delay register of channel ch.
	state [][]float32
}

// NewIIR creates an IIR filter over src. b must not be empty; a[0] must not
// be zero when a is non-empty.
func NewIIR(src audio.Reader, b, a []float64) (*IIR, error) {
	if len(b) == 0 {
		return nil, fmt.Errorf("iir: empty b coefficients: %w", audio.ErrSpecs)
	}

	norm := 1.0
	if len(a) > 0 {
		if a[0] == 0 {
			return nil, fmt.Errorf("iir: a[0] is zero: %w", audio.ErrSpecs)
		}
		norm = a[0]
	}

	bn := make([]float32, len(b))
	for i, c := range b {
		bn[i] = float32(c / norm)
	}
	an := make([]float32, 0, len(a))
	if len(a) > 1 {
		for _, c := range a[1:] {
			an = append(an, float32(c/norm))
		}
	}

	order := max(len(bn)-1, len(an))
	channels := src.Specs().Channels.Count()
	state := make([][]float32, channels)
	for ch := range state {
		state[ch] = make([]float32, order)
	}

	return &IIR{effect: effect{src: src}, b: bn, a: an, state: state}, nil
}

func (f *IIR) Seek(frame int) bool {
	if !f.src.Seek(frame) {
		return false
	}
	for ch := range f.state {
		for k := range f.state[ch] {
			f.state[ch][k] = 0
		}
	}
	return true
}

func (f *IIR) ReadFrames(dst []float32) (int, bool) {
	channels := len(f.state)
	b := f.b
	n, eos := f.src.ReadFrames(dst)

	for frame := range n {
		for ch := range channels {
			i := frame*channels + ch
			x := dst[i]
			state := f.state[ch]

			y := b[0] * x
			if len(state) > 0 {
				y += state[0]
			}

			for k := range state {
				var next float32
				if k+1 < len(state) {
					next = state[k+1]
				}
				var bk float32
				if k+1 < len(b) {
					bk = b[k+1]
				}
				var ak float32
				if k < len(f.a) {
					ak = f.a[k]
				}
				state[k] = next + bk*x - ak*y
			}

			dst[i] = y
		}
	}

	return n, eos
}

// NewLowpass creates a second order lowpass filter with the given cutoff
// frequency in Hz and resonance Q.
func NewLowpass(src audio.Reader, frequency, q float64) (*IIR, error) {
	if frequency <= 0 || q <= 0 {
		return nil, fmt.Errorf("lowpass: frequency %g q %g: %w", frequency, q, audio.ErrSpecs)
	}

	w0 := 2 * math.Pi * frequency / float64(src.Specs().Rate)
	alpha := math.Sin(w0) / (2 * q)
	cosw0 := math.Cos(w0)

	b := []float64{(1 - cosw0) / 2, 1 - cosw0, (1 - cosw0) / 2}
	a := []float64{1 + alpha, -2 * cosw0, 1 - alpha}
	return NewIIR(src, b, a)
}

// NewHighpass creates a second order highpass filter with the given cutoff
// frequency in Hz and resonance Q.
func NewHighpass(src audio.Reader, frequency, q float64) (*IIR, error) {
	if frequency <= 0 || q <= 0 {
		return nil, fmt.Errorf("highpass: frequency %g q %g: %w", frequency, q, audio.ErrSpecs)
	}

	w0 := 2 * math.Pi * frequency / float64(src.Specs().Rate)
	alpha := math.Sin(w0) / (2 * q)
	cosw0 := math.Cos(w0)

	b := []float64{(1 + cosw0) / 2, -(1 + cosw0), (1 + cosw0) / 2}
	a := []float64{1 + alpha, -2 * cosw0, 1 - alpha}
	return NewIIR(src, b, a)
}
