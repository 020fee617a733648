// SPDX-License-Identifier: EPL-2.0

package device

import (
	"fmt"
	"sync"

	"github.com/ebitengine/oto/v3"
	"github.com/ik5/audengine/audio"
)

// OtoOutput plays through the platform audio stack via the oto library.
// oto handles unsigned 8 bit, signed 16 bit and float32 little-endian
// samples; other requested formats fall back to signed 16 bit.
type OtoOutput struct {
	ctx   *oto.Context
	specs audio.DeviceSpecs
}

// NewOtoOutput creates a hardware output. The context is initialized by
// Open.
func NewOtoOutput() *OtoOutput {
	return &OtoOutput{}
}

func (o *OtoOutput) Open(specs audio.DeviceSpecs, buffersize int) (audio.DeviceSpecs, error) {
	var format oto.Format
	switch specs.Format {
	case audio.FormatU8:
		format = oto.FormatUnsignedInt8
	case audio.FormatFloat32:
		format = oto.FormatFloat32LE
	case audio.FormatS16:
		format = oto.FormatSignedInt16LE
	default:
		specs.Format = audio.FormatS16
		format = oto.FormatSignedInt16LE
	}

	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   int(specs.Rate),
		ChannelCount: specs.Channels.Count(),
		Format:       format,
	})
	if err != nil {
		return audio.DeviceSpecs{}, fmt.Errorf("oto: %w: %v", audio.ErrDevice, err)
	}
	<-ready

	o.ctx = ctx
	o.specs = specs
	return specs, nil
}

func (o *OtoOutput) NewSource() (Source, error) {
	if o.ctx == nil {
		return nil, fmt.Errorf("oto: output not open: %w", audio.ErrDevice)
	}

	s := &otoSource{}
	s.player = o.ctx.NewPlayer(s)
	return s, nil
}

func (o *OtoOutput) Err() error { return nil }

func (o *OtoOutput) Close() error {
	if o.ctx == nil {
		return nil
	}
	return o.ctx.Suspend()
}

// otoSource adapts the device's buffer-queue model to oto's pull model: the
// player reads from the pending queue, and fully consumed buffers become
// reclaimable for the mixing loop.
type otoSource struct {
	mtx     sync.Mutex
	pending [][]byte
	off     int // read offset into pending[0]
	reclaim [][]byte
	playing bool
	player  *oto.Player
}

// Read feeds the oto player. An empty queue yields silence so the player
// never starves the platform mixer.
func (s *otoSource) Read(p []byte) (int, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	n := 0
	for n < len(p) && len(s.pending) > 0 {
		m := copy(p[n:], s.pending[0][s.off:])
		n += m
		s.off += m
		if s.off == len(s.pending[0]) {
			s.reclaim = append(s.reclaim, s.pending[0])
			s.pending = s.pending[1:]
			s.off = 0
		}
	}

	if n == 0 {
		for i := range p {
			p[i] = 0
		}
		return len(p), nil
	}
	return n, nil
}

func (s *otoSource) Queue(buf []byte) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	s.pending = append(s.pending, buf)
	return nil
}

func (s *otoSource) Unqueue() ([]byte, bool) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if len(s.reclaim) == 0 {
		return nil, false
	}
	buf := s.reclaim[0]
	s.reclaim = s.reclaim[1:]
	return buf, true
}

func (s *otoSource) Processed() int {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	return len(s.reclaim)
}

func (s *otoSource) State() SourceState {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	if !s.playing || len(s.pending) == 0 {
		return SourceStopped
	}
	return SourcePlaying
}

func (s *otoSource) Play() {
	s.mtx.Lock()
	s.playing = true
	player := s.player
	s.mtx.Unlock()
	player.Play()
}

func (s *otoSource) Stop() {
	s.mtx.Lock()
	s.playing = false
	player := s.player
	s.mtx.Unlock()
	player.Pause()
}

func (s *otoSource) Flush() {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	s.pending = nil
	s.reclaim = nil
	s.off = 0
}

func (s *otoSource) Destroy() {
	s.mtx.Lock()
	s.playing = false
	player := s.player
	s.mtx.Unlock()
	if player != nil {
		player.Close()
	}
}
