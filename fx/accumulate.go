// SPDX-License-Identifier: EPL-2.0

package fx

import "github.com/ik5/audengine/audio"

// Accumulate sums positive input differences into a monotonic signal. In
// additive mode negative differences get added too, and positive ones count
// twice. The initial sample carries through as-is.
type Accumulate struct {
	effect
	additive bool
	started  []bool
	prev     []float32
	sum      []float32
}

// NewAccumulate creates an accumulating effect over src.
func NewAccumulate(src audio.Reader, additive bool) *Accumulate {
	channels := src.Specs().Channels.Count()
	return &Accumulate{
		effect:   effect{src: src},
		additive: additive,
		started:  make([]bool, channels),
		prev:     make([]float32, channels),
		sum:      make([]float32, channels),
	}
}

func (a *Accumulate) Seek(frame int) bool {
	if !a.src.Seek(frame) {
		return false
	}
	for ch := range a.started {
		a.started[ch] = false
		a.prev[ch] = 0
		a.sum[ch] = 0
	}
	return true
}

func (a *Accumulate) ReadFrames(dst []float32) (int, bool) {
	channels := len(a.started)
	n, eos := a.src.ReadFrames(dst)

	for frame := range n {
		for ch := range channels {
			i := frame*channels + ch
			x := dst[i]

			if !a.started[ch] {
				a.started[ch] = true
				a.sum[ch] = x
			} else {
				delta := x - a.prev[ch]
				if a.additive {
					a.sum[ch] += delta
					if delta > 0 {
						a.sum[ch] += delta
					}
				} else if delta > 0 {
					a.sum[ch] += delta
				}
			}

			a.prev[ch] = x
			dst[i] = a.sum[ch]
		}
	}

	return n, eos
}

// Sum outputs the running sum of its input.
type Sum struct {
	effect
	sum []float32
}

// NewSum creates a running-sum effect over src.
func NewSum(src audio.Reader) *Sum {
	return &Sum{
		effect: effect{src: src},
		sum:    make([]float32, src.Specs().Channels.Count()),
	}
}

func (s *Sum) Seek(frame int) bool {
	if !s.src.Seek(frame) {
		return false
	}
	for ch := range s.sum {
		s.sum[ch] = 0
	}
	return true
}

func (s *Sum) ReadFrames(dst []float32) (int, bool) {
	channels := len(s.sum)
	n, eos := s.src.ReadFrames(dst)

	for frame := range n {
		for ch := range channels {
			i := frame*channels + ch
			s.sum[ch] += dst[i]
			dst[i] = s.sum[ch]
		}
	}

	return n, eos
}

// Threshold reduces every sample to its sign: +1, 0 or -1. Values whose
// magnitude does not exceed the threshold become 0.
type Threshold struct {
	effect
	threshold float32
}

// NewThreshold creates a sign effect over src.
func NewThreshold(src audio.Reader, threshold float32) *Threshold {
	return &Threshold{effect: effect{src: src}, threshold: threshold}
}

func (t *Threshold) ReadFrames(dst []float32) (int, bool) {
	channels := t.src.Specs().Channels.Count()
	n, eos := t.src.ReadFrames(dst)

	for i := range n * channels {
		switch {
		case dst[i] > t.threshold:
			dst[i] = 1
		case dst[i] < -t.threshold:
			dst[i] = -1
		default:
			dst[i] = 0
		}
	}

	return n, eos
}
