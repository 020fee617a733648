// SPDX-License-Identifier: EPL-2.0

package fx

import "github.com/ik5/audengine/audio"

// effect is the common base of the effect readers. It delegates the whole
// Reader contract to its single input; concrete effects embed it and
// override what they change.
type effect struct {
	src audio.Reader
}

func (e *effect) Specs() audio.Specs { return e.src.Specs() }
func (e *effect) Length() int        { return e.src.Length() }
func (e *effect) Position() int      { return e.src.Position() }
func (e *effect) Seekable() bool     { return e.src.Seekable() }
func (e *effect) Seek(frame int) bool {
	return e.src.Seek(frame)
}

func (e *effect) ReadFrames(dst []float32) (int, bool) {
	return e.src.ReadFrames(dst)
}
