// SPDX-License-Identifier: EPL-2.0

package gen

import (
	"fmt"
	"math"

	"github.com/ik5/audengine/audio"
)

// oscillator is the shared state of the periodic generators. It produces an
// infinite mono stream and supports seeking by repositioning its phase.
type oscillator struct {
	specs     audio.Specs
	frequency float64
	position  int
	sample    func(phase float64) float32
}

func newOscillator(frequency float64, rate audio.SampleRate, sample func(float64) float32) (*oscillator, error) {
	if frequency <= 0 || rate <= 0 {
		return nil, fmt.Errorf("generator: frequency %g at rate %g: %w", frequency, float64(rate), audio.ErrSpecs)
	}

	return &oscillator{
		specs:     audio.Specs{Rate: rate, Channels: audio.ChannelsMono},
		frequency: frequency,
		sample:    sample,
	}, nil
}

func (o *oscillator) Specs() audio.Specs { return o.specs }
func (o *oscillator) Length() int        { return audio.LengthInfinite }
func (o *oscillator) Position() int      { return o.position }
func (o *oscillator) Seekable() bool     { return true }

func (o *oscillator) Seek(frame int) bool {
	if frame < 0 {
		frame = 0
	}
	o.position = frame
	return true
}

func (o *oscillator) ReadFrames(dst []float32) (int, bool) {
	period := float64(o.specs.Rate) / o.frequency

	for i := range dst {
		phase := math.Mod(float64(o.position+i), period) / period
		dst[i] = o.sample(phase)
	}

	o.position += len(dst)
	return len(dst), false
}

// NewSine creates an infinite mono sine generator.
func NewSine(frequency float64, rate audio.SampleRate) (audio.Reader, error) {
	return newOscillator(frequency, rate, func(phase float64) float32 {
		return float32(math.Sin(2 * math.Pi * phase))
	})
}

// NewSquare creates an infinite mono square wave generator.
func NewSquare(frequency float64, rate audio.SampleRate) (audio.Reader, error) {
	return newOscillator(frequency, rate, func(phase float64) float32 {
		if phase < 0.5 {
			return 1
		}
		return -1
	})
}

// NewSawtooth creates an infinite mono sawtooth generator.
func NewSawtooth(frequency float64, rate audio.SampleRate) (audio.Reader, error) {
	return newOscillator(frequency, rate, func(phase float64) float32 {
		return float32(2*phase - 1)
	})
}

// NewTriangle creates an infinite mono triangle generator.
func NewTriangle(frequency float64, rate audio.SampleRate) (audio.Reader, error) {
	return newOscillator(frequency, rate, func(phase float64) float32 {
		if phase < 0.5 {
			return float32(4*phase - 1)
		}
		return float32(3 - 4*phase)
	})
}

// silence is an infinite zero-valued mono stream.
type silence struct {
	specs    audio.Specs
	position int
}

// NewSilence creates an infinite mono silence generator.
func NewSilence(rate audio.SampleRate) (audio.Reader, error) {
	if rate <= 0 {
		return nil, fmt.Errorf("silence: rate %g: %w", float64(rate), audio.ErrSpecs)
	}
	return &silence{specs: audio.Specs{Rate: rate, Channels: audio.ChannelsMono}}, nil
}

func (s *silence) Specs() audio.Specs { return s.specs }
func (s *silence) Length() int        { return audio.LengthInfinite }
func (s *silence) Position() int      { return s.position }
func (s *silence) Seekable() bool     { return true }

func (s *silence) Seek(frame int) bool {
	if frame < 0 {
		frame = 0
	}
	s.position = frame
	return true
}

func (s *silence) ReadFrames(dst []float32) (int, bool) {
	for i := range dst {
		dst[i] = 0
	}
	s.position += len(dst)
	return len(dst), false
}
