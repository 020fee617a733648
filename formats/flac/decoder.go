// SPDX-License-Identifier: EPL-2.0

package flac

import (
	"fmt"
	"io"
	"os"

	goflac "github.com/mewkiz/flac"

	"github.com/ik5/audengine/audio"
)

type source struct {
	stream   *goflac.Stream
	closer   io.Closer
	specs    audio.Specs
	length   int
	position int
	scale    float32

	// Leftover samples of the last parsed frame, interleaved.
	pending []float32
	off     int
}

// Decode opens a FLAC stream over r.
func Decode(r io.Reader) (audio.Reader, error) {
	stream, err := goflac.New(r)
	if err != nil {
		return nil, fmt.Errorf("flac: %w: %v", audio.ErrFile, err)
	}
	return newSource(stream, nil)
}

// DecodeFile opens a FLAC file from disk. The returned reader owns the
// file.
func DecodeFile(path string) (audio.Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("flac: %w: %v", audio.ErrFile, err)
	}
	stream, err := goflac.New(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("flac: %w: %v", audio.ErrFile, err)
	}
	src, err := newSource(stream, f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return src, nil
}

func newSource(stream *goflac.Stream, closer io.Closer) (audio.Reader, error) {
	info := stream.Info
	channels := audio.Channels(info.NChannels)
	if !channels.Valid() {
		return nil, fmt.Errorf("flac: %d channels: %w", info.NChannels, audio.ErrSpecs)
	}

	length := audio.LengthInfinite
	if info.NSamples > 0 {
		length = int(info.NSamples)
	}

	return &source{
		stream: stream,
		closer: closer,
		specs:  audio.Specs{Rate: audio.SampleRate(info.SampleRate), Channels: channels},
		length: length,
		scale:  float32(int64(1) << (info.BitsPerSample - 1)),
	}, nil
}

func (s *source) Specs() audio.Specs { return s.specs }
func (s *source) Length() int        { return s.length }
func (s *source) Position() int      { return s.position }
func (s *source) Seekable() bool     { return false }
func (s *source) Seek(int) bool      { return false }

// fetch parses the next FLAC frame and interleaves its subframes.
func (s *source) fetch() bool {
	frame, err := s.stream.ParseNext()
	if err != nil {
		s.close()
		return false
	}

	channels := s.specs.Channels.Count()
	samples := len(frame.Subframes[0].Samples)

	if cap(s.pending) < samples*channels {
		s.pending = make([]float32, samples*channels)
	}
	s.pending = s.pending[:samples*channels]
	s.off = 0

	for ch := range channels {
		lane := frame.Subframes[ch].Samples
		for i, v := range lane {
			s.pending[i*channels+ch] = float32(v) / s.scale
		}
	}
	return true
}

func (s *source) ReadFrames(dst []float32) (int, bool) {
	channels := s.specs.Channels.Count()
	want := len(dst) / channels
	if want == 0 {
		return 0, false
	}

	written := 0
	for written < want {
		if s.off >= len(s.pending) {
			if !s.fetch() {
				s.position += written
				return written, true
			}
		}

		n := copy(dst[written*channels:want*channels], s.pending[s.off:])
		s.off += n
		written += n / channels
	}

	s.position += written
	return written, false
}

func (s *source) close() {
	if s.closer != nil {
		s.closer.Close()
		s.closer = nil
	}
}
