// SPDX-License-Identifier: EPL-2.0

package fx

import (
	"fmt"

	"github.com/ik5/audengine/audio"
)

// Reverse plays a finite, seekable input backwards.
type Reverse struct {
	src      audio.Reader
	length   int
	position int
	scratch  []float32
}

// NewReverse creates a reversing reader. The upstream must be finite and
// seekable.
func NewReverse(src audio.Reader) (*Reverse, error) {
	length := src.Length()
	if length == audio.LengthInfinite || !src.Seekable() {
		return nil, fmt.Errorf("reverse: needs a finite seekable source: %w", audio.ErrSpecs)
	}
	return &Reverse{src: src, length: length}, nil
}

func (r *Reverse) Specs() audio.Specs { return r.src.Specs() }
func (r *Reverse) Length() int        { return r.length }
func (r *Reverse) Position() int      { return r.position }
func (r *Reverse) Seekable() bool     { return true }

func (r *Reverse) Seek(frame int) bool {
	if frame < 0 {
		frame = 0
	}
	if frame > r.length {
		frame = r.length
	}
	r.position = frame
	return true
}

func (r *Reverse) ReadFrames(dst []float32) (int, bool) {
	channels := r.src.Specs().Channels.Count()
	want := len(dst) / channels
	remaining := r.length - r.position

	n := min(want, remaining)
	if n == 0 {
		return 0, true
	}

	// The block of source frames to play, in forward order.
	first := r.length - r.position - n
	if !r.src.Seek(first) {
		return 0, true
	}

	if cap(r.scratch) < n*channels {
		r.scratch = make([]float32, n*channels)
	}
	scratch := r.scratch[:n*channels]

	read := 0
	for read < n {
		m, eos := r.src.ReadFrames(scratch[read*channels:])
		read += m
		if eos || m == 0 {
			break
		}
	}

	// Flip frame order while keeping channels interleaved.
	for frame := range read {
		srcOff := (read - 1 - frame) * channels
		copy(dst[frame*channels:(frame+1)*channels], scratch[srcOff:srcOff+channels])
	}

	r.position += read
	return read, r.position >= r.length
}

// Pingpong plays a finite, seekable input forward and then backwards.
type Pingpong struct {
	src      audio.Reader
	length   int
	position int
	reverse  *Reverse
}

// NewPingpong creates a pingpong reader. The upstream must be finite and
// seekable.
func NewPingpong(src audio.Reader) (*Pingpong, error) {
	reverse, err := NewReverse(src)
	if err != nil {
		return nil, fmt.Errorf("pingpong: %w", err)
	}
	return &Pingpong{src: src, length: src.Length(), reverse: reverse}, nil
}

func (p *Pingpong) Specs() audio.Specs { return p.src.Specs() }
func (p *Pingpong) Length() int        { return 2 * p.length }
func (p *Pingpong) Position() int      { return p.position }
func (p *Pingpong) Seekable() bool     { return true }

func (p *Pingpong) Seek(frame int) bool {
	if frame < 0 {
		frame = 0
	}
	if frame > 2*p.length {
		frame = 2 * p.length
	}
	p.position = frame
	return true
}

func (p *Pingpong) ReadFrames(dst []float32) (int, bool) {
	channels := p.src.Specs().Channels.Count()
	want := len(dst) / channels
	written := 0

	// Forward half.
	if p.position < p.length {
		if !p.src.Seek(p.position) {
			return 0, true
		}
		n := min(want, p.length-p.position)
		read := 0
		for read < n {
			m, eos := p.src.ReadFrames(dst[read*channels : n*channels])
			read += m
			if eos || m == 0 {
				break
			}
		}
		p.position += read
		written += read
	}

	// Backward half.
	if written < want && p.position >= p.length {
		p.reverse.Seek(p.position - p.length)
		n, _ := p.reverse.ReadFrames(dst[written*channels:])
		p.position += n
		written += n
	}

	return written, p.position >= 2*p.length
}
