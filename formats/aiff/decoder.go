// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"fmt"
	"io"
	"os"

	goaiff "github.com/go-audio/aiff"
	goaudio "github.com/go-audio/audio"

	"github.com/ik5/audengine/audio"
)

// ErrNotAiffFile marks input that is not an AIFF container.
var ErrNotAiffFile = fmt.Errorf("not an AIFF file")

type source struct {
	dec      *goaiff.Decoder
	closer   io.Closer
	specs    audio.Specs
	position int
	bitDepth int
	intBuf   *goaudio.IntBuffer
}

// Decode opens an AIFF stream over rs.
func Decode(rs io.ReadSeeker) (audio.Reader, error) {
	return decode(rs, nil)
}

// DecodeFile opens an AIFF file from disk. The returned reader owns the
// file.
func DecodeFile(path string) (audio.Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("aiff: %w: %v", audio.ErrFile, err)
	}
	src, err := decode(f, f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return src, nil
}

func decode(rs io.ReadSeeker, closer io.Closer) (audio.Reader, error) {
	dec := goaiff.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("aiff: %w: %w", ErrNotAiffFile, audio.ErrFile)
	}
	dec.ReadInfo()

	format := dec.Format()
	if format == nil {
		return nil, fmt.Errorf("aiff: no format information: %w", audio.ErrFile)
	}

	channels := audio.Channels(format.NumChannels)
	if !channels.Valid() {
		return nil, fmt.Errorf("aiff: %d channels: %w", format.NumChannels, audio.ErrSpecs)
	}
	switch dec.BitDepth {
	case 8, 16, 24, 32:
	default:
		return nil, fmt.Errorf("aiff: %d bit: %w", dec.BitDepth, audio.ErrSpecs)
	}

	return &source{
		dec:      dec,
		closer:   closer,
		specs:    audio.Specs{Rate: audio.SampleRate(format.SampleRate), Channels: channels},
		bitDepth: int(dec.BitDepth),
	}, nil
}

func (s *source) Specs() audio.Specs { return s.specs }
func (s *source) Length() int        { return audio.LengthInfinite }
func (s *source) Position() int      { return s.position }
func (s *source) Seekable() bool     { return false }
func (s *source) Seek(int) bool      { return false }

func (s *source) ReadFrames(dst []float32) (int, bool) {
	channels := s.specs.Channels.Count()
	want := len(dst) / channels
	if want == 0 {
		return 0, false
	}

	if s.intBuf == nil || cap(s.intBuf.Data) < want*channels {
		s.intBuf = &goaudio.IntBuffer{
			Data:   make([]int, want*channels),
			Format: s.dec.Format(),
		}
	}
	s.intBuf.Data = s.intBuf.Data[:want*channels]

	n, err := s.dec.PCMBuffer(s.intBuf)
	if n == 0 {
		s.close()
		return 0, true
	}

	scale := float32(int64(1) << (s.bitDepth - 1))
	for i := range n {
		dst[i] = float32(s.intBuf.Data[i]) / scale
	}

	frames := n / channels
	s.position += frames

	eos := err != nil || n < want*channels
	if eos {
		s.close()
	}
	return frames, eos
}

func (s *source) close() {
	if s.closer != nil {
		s.closer.Close()
		s.closer = nil
	}
}
