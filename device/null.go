// SPDX-License-Identifier: EPL-2.0

package device

import (
	"sync"

	"github.com/ik5/audengine/audio"
)

// NullOutput is a silent sink for headless and test runs. Queued buffers
// are consumed immediately; the sink optionally captures everything written
// to it so tests can inspect the rendered stream.
type NullOutput struct {
	mtx     sync.Mutex
	specs   audio.DeviceSpecs
	capture bool
	sources []*nullSource
}

// NewNullOutput creates a silent sink.
func NewNullOutput() *NullOutput {
	return &NullOutput{}
}

// NewCapturingNullOutput creates a silent sink that records every byte
// queued on any of its sources.
func NewCapturingNullOutput() *NullOutput {
	return &NullOutput{capture: true}
}

func (o *NullOutput) Open(specs audio.DeviceSpecs, buffersize int) (audio.DeviceSpecs, error) {
	o.mtx.Lock()
	defer o.mtx.Unlock()
	o.specs = specs
	return specs, nil
}

func (o *NullOutput) NewSource() (Source, error) {
	o.mtx.Lock()
	defer o.mtx.Unlock()

	s := &nullSource{output: o}
	o.sources = append(o.sources, s)
	return s, nil
}

func (o *NullOutput) Err() error { return nil }

func (o *NullOutput) Close() error { return nil }

// Captured returns a copy of all bytes consumed so far across all sources,
// in consumption order.
func (o *NullOutput) Captured() []byte {
	o.mtx.Lock()
	defer o.mtx.Unlock()

	var out []byte
	for _, s := range o.sources {
		out = append(out, s.captured...)
	}
	return out
}

// CapturedFrames decodes the captured bytes back into float32 samples using
// the output's device format.
func (o *NullOutput) CapturedFrames() []float32 {
	raw := o.Captured()

	o.mtx.Lock()
	format := o.specs.Format
	o.mtx.Unlock()

	if format.Size() == 0 {
		return nil
	}
	dst := make([]float32, len(raw)/format.Size())
	audio.DecodeFrames(dst, raw, format)
	return dst
}

// nullSource consumes every queued buffer the moment it is queued.
type nullSource struct {
	output   *NullOutput
	mtx      sync.Mutex
	consumed [][]byte
	captured []byte
	playing  bool
}

func (s *nullSource) Queue(buf []byte) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if s.output.capture {
		s.captured = append(s.captured, buf...)
	}
	s.consumed = append(s.consumed, buf)
	return nil
}

func (s *nullSource) Unqueue() ([]byte, bool) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if len(s.consumed) == 0 {
		return nil, false
	}
	buf := s.consumed[0]
	s.consumed = s.consumed[1:]
	return buf, true
}

func (s *nullSource) Processed() int {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return len(s.consumed)
}

func (s *nullSource) State() SourceState {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	if s.playing && len(s.consumed) > 0 {
		// Everything queued has already been eaten; report a stop so the
		// device either refills or winds the handle down.
		return SourceStopped
	}
	if s.playing {
		return SourcePlaying
	}
	return SourceStopped
}

func (s *nullSource) Play() {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	s.playing = true
}

func (s *nullSource) Stop() {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	s.playing = false
}

func (s *nullSource) Flush() {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	s.consumed = nil
}

func (s *nullSource) Destroy() {
	s.Stop()
	s.Flush()
}
