// SPDX-License-Identifier: EPL-2.0

package fx

import (
	"fmt"

	"github.com/ik5/audengine/audio"
)

// Limit trims its input to the span [start, end) in seconds. Positions and
// seeks are translated into the trimmed coordinates.
type Limit struct {
	effect
	startFrame int
	endFrame   int // LengthInfinite when unbounded
	position   int
	skipped    bool
}

// NewLimit creates a trimming reader. end < 0 means no upper bound.
func NewLimit(src audio.Reader, start, end float64) (*Limit, error) {
	if start < 0 || (end >= 0 && end < start) {
		return nil, fmt.Errorf("limit: start %g end %g: %w", start, end, audio.ErrSpecs)
	}

	rate := float64(src.Specs().Rate)
	endFrame := audio.LengthInfinite
	if end >= 0 {
		endFrame = int(end * rate)
	}

	return &Limit{
		effect:     effect{src: src},
		startFrame: int(start * rate),
		endFrame:   endFrame,
	}, nil
}

func (l *Limit) Length() int {
	srcLength := l.src.Length()
	end := l.endFrame
	if end == audio.LengthInfinite {
		if srcLength == audio.LengthInfinite {
			return audio.LengthInfinite
		}
		end = srcLength
	} else if srcLength != audio.LengthInfinite && srcLength < end {
		end = srcLength
	}
	return max(end-l.startFrame, 0)
}

func (l *Limit) Position() int {
	return l.position
}

func (l *Limit) Seek(frame int) bool {
	if frame < 0 {
		frame = 0
	}
	if length := l.Length(); length != audio.LengthInfinite && frame > length {
		frame = length
	}
	if !l.src.Seek(l.startFrame + frame) {
		return false
	}
	l.position = frame
	l.skipped = true
	return true
}

// skipIntro advances the source past the trimmed prefix, seeking when
// possible and draining otherwise.
func (l *Limit) skipIntro() bool {
	if l.skipped {
		return true
	}
	l.skipped = true

	if l.src.Seek(l.startFrame) {
		return true
	}

	channels := l.src.Specs().Channels.Count()
	scratch := make([]float32, 1024*channels)
	remaining := l.startFrame
	for remaining > 0 {
		want := min(remaining, 1024)
		n, eos := l.src.ReadFrames(scratch[:want*channels])
		remaining -= n
		if eos {
			return n > 0 && remaining == 0
		}
	}
	return true
}

func (l *Limit) ReadFrames(dst []float32) (int, bool) {
	if !l.skipIntro() {
		return 0, true
	}

	channels := l.src.Specs().Channels.Count()
	want := len(dst) / channels

	if l.endFrame != audio.LengthInfinite {
		remaining := l.endFrame - l.startFrame - l.position
		if remaining <= 0 {
			return 0, true
		}
		want = min(want, remaining)
	}

	n, eos := l.src.ReadFrames(dst[:want*channels])
	l.position += n

	if l.endFrame != audio.LengthInfinite && l.position >= l.endFrame-l.startFrame {
		eos = true
	}
	return n, eos
}
