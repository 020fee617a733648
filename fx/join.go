// SPDX-License-Identifier: EPL-2.0

package fx

import (
	"fmt"

	"github.com/ik5/audengine/audio"
)

// Join plays first, then second. When first ends mid-read, the continuation
// on second happens within the same call as long as buffer space remains.
type Join struct {
	first  audio.Reader
	second audio.Reader
	inTail bool
}

// NewJoin creates a sequential reader. Both inputs must share Specs.
func NewJoin(first, second audio.Reader) (*Join, error) {
	if first.Specs() != second.Specs() {
		return nil, fmt.Errorf("join: inputs disagree on specs: %w", audio.ErrSpecs)
	}
	return &Join{first: first, second: second}, nil
}

func (j *Join) Specs() audio.Specs { return j.first.Specs() }

func (j *Join) Length() int {
	a := j.first.Length()
	b := j.second.Length()
	if a == audio.LengthInfinite || b == audio.LengthInfinite {
		return audio.LengthInfinite
	}
	return a + b
}

func (j *Join) Position() int {
	if j.inTail {
		first := j.first.Length()
		if first == audio.LengthInfinite {
			first = j.first.Position()
		}
		return first + j.second.Position()
	}
	return j.first.Position()
}

func (j *Join) Seekable() bool {
	return j.first.Seekable() && j.second.Seekable()
}

func (j *Join) Seek(frame int) bool {
	if frame < 0 {
		frame = 0
	}

	first := j.first.Length()
	if first != audio.LengthInfinite && frame >= first {
		if !j.second.Seek(frame - first) {
			return false
		}
		j.first.Seek(first)
		j.inTail = true
		return true
	}

	if !j.first.Seek(frame) {
		return false
	}
	j.second.Seek(0)
	j.inTail = false
	return true
}

func (j *Join) ReadFrames(dst []float32) (int, bool) {
	channels := j.first.Specs().Channels.Count()
	want := len(dst) / channels
	written := 0

	if !j.inTail {
		n, eos := j.first.ReadFrames(dst)
		written = n
		if !eos {
			return written, false
		}
		j.inTail = true
	}

	if written < want {
		n, eos := j.second.ReadFrames(dst[written*channels:])
		return written + n, eos
	}
	return written, false
}
