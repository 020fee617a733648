// SPDX-License-Identifier: EPL-2.0

package fx

import (
	"sync"

	"github.com/ik5/audengine/audio"
)

// ConvolverSound is a sound that convolves another sound with an impulse
// response. Swapping the impulse response affects only readers created
// afterwards; extant readers keep their bound impulse response for their
// lifetime.
type ConvolverSound struct {
	sound audio.Sound

	mtx sync.Mutex
	ir  *ImpulseResponse

	nConvolutionThreads int
	nChannelThreads     int
}

// NewConvolverSound creates a convolver sound over the given sound and
// impulse response.
func NewConvolverSound(sound audio.Sound, ir *ImpulseResponse, nConvolutionThreads, nChannelThreads int) *ConvolverSound {
	return &ConvolverSound{
		sound:               sound,
		ir:                  ir,
		nConvolutionThreads: nConvolutionThreads,
		nChannelThreads:     nChannelThreads,
	}
}

// CreateReader builds a new convolver reader bound to the current impulse
// response.
func (s *ConvolverSound) CreateReader() (audio.Reader, error) {
	src, err := s.sound.CreateReader()
	if err != nil {
		return nil, err
	}
	return NewConvolver(src, s.ImpulseResponse(), s.nConvolutionThreads, s.nChannelThreads)
}

// ImpulseResponse returns the impulse response currently bound to the sound.
func (s *ConvolverSound) ImpulseResponse() *ImpulseResponse {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return s.ir
}

// SetImpulseResponse swaps the impulse response used by future readers.
func (s *ConvolverSound) SetImpulseResponse(ir *ImpulseResponse) {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	s.ir = ir
}
