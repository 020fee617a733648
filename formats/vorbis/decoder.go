// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"fmt"
	"io"
	"os"

	"github.com/jfreymuth/oggvorbis"

	"github.com/ik5/audengine/audio"
)

// oggReader is an interface for oggvorbis.Reader to allow testing.
type oggReader interface {
	SampleRate() int
	Channels() int
	Length() int64
	Read([]float32) (int, error)
}

type source struct {
	dec      oggReader
	closer   io.Closer
	specs    audio.Specs
	length   int
	position int
}

// Decode opens an Ogg Vorbis stream over r.
func Decode(r io.Reader) (audio.Reader, error) {
	return decode(r, nil)
}

// DecodeFile opens an Ogg Vorbis file from disk. The returned reader owns
// the file.
func DecodeFile(path string) (audio.Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("vorbis: %w: %v", audio.ErrFile, err)
	}
	src, err := decode(f, f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return src, nil
}

func decode(r io.Reader, closer io.Closer) (audio.Reader, error) {
	dec, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("vorbis: %w: %v", audio.ErrFile, err)
	}

	channels := audio.Channels(dec.Channels())
	if !channels.Valid() {
		return nil, fmt.Errorf("vorbis: %d channels: %w", dec.Channels(), audio.ErrSpecs)
	}

	length := audio.LengthInfinite
	if frames := dec.Length(); frames > 0 {
		length = int(frames)
	}

	return &source{
		dec:    dec,
		closer: closer,
		specs:  audio.Specs{Rate: audio.SampleRate(dec.SampleRate()), Channels: channels},
		length: length,
	}, nil
}

func (s *source) Specs() audio.Specs { return s.specs }
func (s *source) Length() int        { return s.length }
func (s *source) Position() int      { return s.position }
func (s *source) Seekable() bool     { return false }
func (s *source) Seek(int) bool      { return false }

func (s *source) ReadFrames(dst []float32) (int, bool) {
	channels := s.specs.Channels.Count()
	want := len(dst) / channels
	if want == 0 {
		return 0, false
	}

	read := 0
	for read < want*channels {
		n, err := s.dec.Read(dst[read : want*channels])
		read += n
		if err != nil {
			frames := read / channels
			s.position += frames
			s.close()
			return frames, true
		}
	}

	frames := read / channels
	s.position += frames
	return frames, false
}

func (s *source) close() {
	if s.closer != nil {
		s.closer.Close()
		s.closer = nil
	}
}
