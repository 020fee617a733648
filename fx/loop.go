// SPDX-License-Identifier: EPL-2.0

package fx

import (
	"fmt"

	"github.com/ik5/audengine/audio"
)

// LoopInfinite makes a Loop restart forever.
const LoopInfinite = -1

// Loop re-reads its input from frame zero whenever it ends. The count is the
// number of additional plays; LoopInfinite loops forever and 0 disables
// looping. When a bounded count expires, end of stream propagates.
type Loop struct {
	effect
	count int
}

// NewLoop creates a looping reader. The upstream must be seekable unless
// count is 0.
func NewLoop(src audio.Reader, count int) (*Loop, error) {
	if count != 0 && !src.Seekable() {
		return nil, fmt.Errorf("loop: needs a seekable source: %w", audio.ErrSpecs)
	}
	return &Loop{effect: effect{src: src}, count: count}, nil
}

// SetLoopCount updates the remaining number of additional plays.
func (l *Loop) SetLoopCount(count int) {
	l.count = count
}

// LoopCount returns the remaining number of additional plays.
func (l *Loop) LoopCount() int {
	return l.count
}

func (l *Loop) Length() int {
	length := l.src.Length()
	if length == audio.LengthInfinite || l.count == LoopInfinite {
		return audio.LengthInfinite
	}
	return length * (l.count + 1)
}

func (l *Loop) ReadFrames(dst []float32) (int, bool) {
	channels := l.src.Specs().Channels.Count()
	want := len(dst) / channels
	written := 0

	restarted := false
	for written < want {
		n, eos := l.src.ReadFrames(dst[written*channels:])
		written += n

		if !eos {
			restarted = false
			continue
		}
		// An empty pass right after a restart means the source has nothing
		// left to give; bail out instead of spinning.
		if n == 0 && restarted {
			return written, true
		}
		if l.count == 0 {
			return written, true
		}
		if l.count > 0 {
			l.count--
		}
		if !l.src.Seek(0) {
			return written, true
		}
		restarted = true
	}

	return written, false
}
