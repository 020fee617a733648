// SPDX-License-Identifier: EPL-2.0

package fx

import (
	"fmt"
	"math"

	"github.com/ik5/audengine/audio"
)

// Envelope follows the amplitude of its input and outputs the envelope
// signal. attack and release are time constants in seconds; samples whose
// magnitude is below threshold are treated as silence.
type Envelope struct {
	effect
	arate     float32
	rrate     float32
	threshold float32
	state     []float32
}

// NewEnvelope creates an envelope follower over src.
func NewEnvelope(src audio.Reader, attack, release float64, threshold float32) (*Envelope, error) {
	if attack < 0 || release < 0 || threshold < 0 {
		return nil, fmt.Errorf("envelope: negative parameter: %w", audio.ErrSpecs)
	}

	rate := float64(src.Specs().Rate)
	return &Envelope{
		effect:    effect{src: src},
		arate:     envelopeCoefficient(attack, rate),
		rrate:     envelopeCoefficient(release, rate),
		threshold: threshold,
		state:     make([]float32, src.Specs().Channels.Count()),
	}, nil
}

// envelopeCoefficient converts a time constant to a one-pole coefficient.
func envelopeCoefficient(seconds, rate float64) float32 {
	if seconds <= 0 {
		return 0
	}
	return float32(math.Exp(-1 / (seconds * rate)))
}

func (e *Envelope) Seek(frame int) bool {
	if !e.src.Seek(frame) {
		return false
	}
	for i := range e.state {
		e.state[i] = 0
	}
	return true
}

func (e *Envelope) ReadFrames(dst []float32) (int, bool) {
	channels := len(e.state)
	n, eos := e.src.ReadFrames(dst)

	for frame := range n {
		for ch := range channels {
			i := frame*channels + ch
			x := dst[i]
			if x < 0 {
				x = -x
			}
			if x < e.threshold {
				x = 0
			}

			coeff := e.arate
			if x < e.state[ch] {
				coeff = e.rrate
			}
			e.state[ch] = coeff*e.state[ch] + (1-coeff)*x
			dst[i] = e.state[ch]
		}
	}

	return n, eos
}
