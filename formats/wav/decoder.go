// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"fmt"
	"io"
	"os"

	goaudio "github.com/go-audio/audio"
	gowav "github.com/go-audio/wav"

	"github.com/ik5/audengine/audio"
)

// source wraps a go-audio wav.Decoder as a streaming reader. The stream is
// not seekable; wrap it in a buffered clip when random access is needed.
type source struct {
	dec      *gowav.Decoder
	closer   io.Closer
	specs    audio.Specs
	length   int
	position int
	bitDepth int
	intBuf   *goaudio.IntBuffer
}

// Decode opens a WAV stream over r. Input that is not a WAV file fails with
// ErrFile; an unsupported channel count fails with ErrSpecs and an
// unsupported bit depth with ErrUnsupportedWavLayout.
func Decode(r io.ReadSeeker) (audio.Reader, error) {
	return decode(r, nil)
}

// DecodeFile opens a WAV file from disk. The returned reader owns the file.
func DecodeFile(path string) (audio.Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("wav: %w: %v", audio.ErrFile, err)
	}
	src, err := decode(f, f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return src, nil
}

func decode(r io.ReadSeeker, closer io.Closer) (audio.Reader, error) {
	dec := gowav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("wav: %w: %w", ErrNotWavFile, audio.ErrFile)
	}
	dec.ReadInfo()

	channels := audio.Channels(dec.NumChans)
	if !channels.Valid() {
		return nil, fmt.Errorf("wav: %d channels: %w", dec.NumChans, audio.ErrSpecs)
	}

	switch dec.BitDepth {
	case 8, 16, 24, 32:
	default:
		return nil, fmt.Errorf("wav: %d bit: %w", dec.BitDepth, ErrUnsupportedWavLayout)
	}

	length := audio.LengthInfinite
	if err := dec.FwdToPCM(); err == nil && dec.PCMSize > 0 {
		length = dec.PCMSize / (int(dec.BitDepth) / 8 * channels.Count())
	}

	return &source{
		dec:      dec,
		closer:   closer,
		specs:    audio.Specs{Rate: audio.SampleRate(dec.SampleRate), Channels: channels},
		length:   length,
		bitDepth: int(dec.BitDepth),
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
	if s.bitDepth == 8 {
		// 8 bit WAV is unsigned.
		for i := range n {
			dst[i] = (float32(s.intBuf.Data[i]) - 128) / 128
		}
	} else {
		for i := range n {
			dst[i] = float32(s.intBuf.Data[i]) / scale
		}
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
