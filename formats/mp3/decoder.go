// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"

	gomp3 "github.com/hajimehoshi/go-mp3"

	"github.com/ik5/audengine/audio"
	"github.com/ik5/audengine/utils"
)

// mp3Reader is an interface for gomp3.Decoder to allow testing.
type mp3Reader interface {
	Read([]byte) (int, error)
	SampleRate() int
	Length() int64
}

type source struct {
	dec      mp3Reader
	closer   io.Closer
	specs    audio.Specs
	length   int
	position int
	buf      []byte
}

// Decode opens an MP3 stream over r. go-mp3 always outputs 16 bit stereo.
func Decode(r io.Reader) (audio.Reader, error) {
	return decode(r, nil)
}

// DecodeFile opens an MP3 file from disk. The returned reader owns the
// file.
func DecodeFile(path string) (audio.Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("mp3: %w: %v", audio.ErrFile, err)
	}
	src, err := decode(f, f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return src, nil
}

func decode(r io.Reader, closer io.Closer) (audio.Reader, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("mp3: %w: %v", audio.ErrFile, err)
	}

	length := audio.LengthInfinite
	// Length is the decoded byte count: 2 channels of 16 bit samples.
	if bytes := dec.Length(); bytes > 0 {
		length = int(bytes / 4)
	}

	return &source{
		dec:    dec,
		closer: closer,
		specs:  audio.Specs{Rate: audio.SampleRate(dec.SampleRate()), Channels: audio.ChannelsStereo},
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

	bytesNeeded := want * channels * 2
	if cap(s.buf) < bytesNeeded {
		s.buf = make([]byte, bytesNeeded)
	}
	s.buf = s.buf[:bytesNeeded]

	read := 0
	var err error
	for read < bytesNeeded {
		var n int
		n, err = s.dec.Read(s.buf[read:])
		read += n
		if err != nil {
			break
		}
	}

	// Only whole frames count.
	samples := read / 2
	frames := samples / channels
	for i := range frames * channels {
		dst[i] = utils.Int16ToFloat32(int16(binary.LittleEndian.Uint16(s.buf[2*i:])))
	}

	s.position += frames
	eos := err != nil
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
