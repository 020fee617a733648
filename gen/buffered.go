// SPDX-License-Identifier: EPL-2.0

package gen

import (
	"fmt"

	"github.com/ik5/audengine/audio"
)

// Buffered holds a fully decoded clip in memory. It is a Sound: every
// CreateReader call yields an independent, seekable stream over the shared
// sample data. The data is immutable once built.
type Buffered struct {
	specs audio.Specs
	data  []float32
}

// NewBuffered drains a finite reader into memory. Infinite readers fail with
// ErrSpecs.
func NewBuffered(r audio.Reader) (*Buffered, error) {
	specs := r.Specs()
	if r.Length() == audio.LengthInfinite {
		return nil, fmt.Errorf("buffered: infinite source: %w", audio.ErrSpecs)
	}

	channels := specs.Channels.Count()
	var data []float32
	buf := make([]float32, 4096*channels)

	for {
		n, eos := r.ReadFrames(buf)
		if n > 0 {
			data = append(data, buf[:n*channels]...)
		}
		if eos {
			break
		}
	}

	return &Buffered{specs: specs, data: data}, nil
}

// NewBufferedData wraps existing interleaved samples. len(data) must be a
// multiple of the channel count.
func NewBufferedData(data []float32, specs audio.Specs) (*Buffered, error) {
	if !specs.Valid() {
		return nil, fmt.Errorf("buffered: %w", audio.ErrSpecs)
	}
	if len(data)%specs.Channels.Count() != 0 {
		return nil, fmt.Errorf("buffered: %w", audio.ErrInvalidDstSize)
	}
	return &Buffered{specs: specs, data: data}, nil
}

func (b *Buffered) Specs() audio.Specs {
	return b.specs
}

// Length returns the clip length in frames.
func (b *Buffered) Length() int {
	return len(b.data) / b.specs.Channels.Count()
}

// CreateReader returns a new independent stream over the clip.
func (b *Buffered) CreateReader() (audio.Reader, error) {
	return &bufferReader{owner: b}, nil
}

type bufferReader struct {
	owner    *Buffered
	position int
}

func (r *bufferReader) Specs() audio.Specs { return r.owner.specs }
func (r *bufferReader) Length() int        { return r.owner.Length() }
func (r *bufferReader) Position() int      { return r.position }
func (r *bufferReader) Seekable() bool     { return true }

func (r *bufferReader) Seek(frame int) bool {
	if frame < 0 {
		frame = 0
	}
	if length := r.owner.Length(); frame > length {
		frame = length
	}
	r.position = frame
	return true
}

func (r *bufferReader) ReadFrames(dst []float32) (int, bool) {
	channels := r.owner.specs.Channels.Count()
	want := len(dst) / channels
	remaining := r.owner.Length() - r.position

	n := min(want, remaining)
	if n > 0 {
		start := r.position * channels
		copy(dst, r.owner.data[start:start+n*channels])
		r.position += n
	}

	return n, r.position >= r.owner.Length()
}
