// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"math"

	"github.com/ik5/audengine/audio"
)

// MockReader generates deterministic audio for tests. It implements the
// audio.Reader contract with a finite length and full seek support.
type MockReader struct {
	specs    audio.Specs
	length   int
	position int
	waveform func(frame, channel int) float32
}

// NewMockReader creates a reader producing length frames from the waveform
// function.
func NewMockReader(rate audio.SampleRate, channels audio.Channels, length int, waveform func(frame, channel int) float32) *MockReader {
	return &MockReader{
		specs:    audio.Specs{Rate: rate, Channels: channels},
		length:   length,
		waveform: waveform,
	}
}

// NewSilentReader creates a finite reader of zero samples.
func NewSilentReader(rate audio.SampleRate, channels audio.Channels, length int) *MockReader {
	return NewMockReader(rate, channels, length, func(int, int) float32 {
		return 0
	})
}

// NewConstantReader creates a finite reader of a constant value.
func NewConstantReader(rate audio.SampleRate, channels audio.Channels, length int, value float32) *MockReader {
	return NewMockReader(rate, channels, length, func(int, int) float32 {
		return value
	})
}

// NewSineReader creates a finite sine reader.
func NewSineReader(rate audio.SampleRate, channels audio.Channels, length int, frequency float64) *MockReader {
	return NewMockReader(rate, channels, length, func(frame, _ int) float32 {
		t := float64(frame) / float64(rate)
		return float32(math.Sin(2 * math.Pi * frequency * t))
	})
}

// NewImpulseReader creates a finite reader that is 1 on the first frame and
// 0 afterwards.
func NewImpulseReader(rate audio.SampleRate, channels audio.Channels, length int) *MockReader {
	return NewMockReader(rate, channels, length, func(frame, _ int) float32 {
		if frame == 0 {
			return 1
		}
		return 0
	})
}

// NewRampReader creates a finite reader whose frame index is encoded in the
// sample value, handy for order-sensitive tests.
func NewRampReader(rate audio.SampleRate, channels audio.Channels, length int) *MockReader {
	return NewMockReader(rate, channels, length, func(frame, _ int) float32 {
		return float32(frame)
	})
}

func (m *MockReader) Specs() audio.Specs { return m.specs }
func (m *MockReader) Length() int        { return m.length }
func (m *MockReader) Position() int      { return m.position }
func (m *MockReader) Seekable() bool     { return true }

func (m *MockReader) Seek(frame int) bool {
	if frame < 0 {
		frame = 0
	}
	if frame > m.length {
		frame = m.length
	}
	m.position = frame
	return true
}

func (m *MockReader) ReadFrames(dst []float32) (int, bool) {
	channels := m.specs.Channels.Count()
	want := len(dst) / channels

	n := min(want, m.length-m.position)
	for frame := range n {
		for ch := range channels {
			dst[frame*channels+ch] = m.waveform(m.position+frame, ch)
		}
	}
	m.position += n

	return n, m.position >= m.length
}
