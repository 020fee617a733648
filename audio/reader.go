// SPDX-License-Identifier: EPL-2.0

package audio

// LengthInfinite is the Length result of a reader whose total frame count is
// unknown or infinite.
const LengthInfinite = -1

// Reader is a lazy, pull-driven source of interleaved float32 audio frames.
// Every node of a processing graph implements it: generators, file decoders,
// effects and the converter. A reader exclusively owns its inputs; building
// a second graph over the same upstream state is not permitted.
type Reader interface {
	// Specs returns the immutable layout of the frames this reader produces.
	Specs() Specs

	// Length returns the total frame count, or LengthInfinite.
	Length() int

	// Position returns the current frame index from stream start.
	Position() int

	// Seekable reports whether random access is supported.
	Seekable() bool

	// Seek attempts to set the position to the given frame, clamped to
	// Length. Non-seekable readers return false without side effects.
	Seek(frame int) bool

	// ReadFrames fills dst with up to len(dst)/channels frames and returns
	// the number of frames produced together with the end-of-stream flag.
	// eos is true iff the source will not produce further data without a
	// seek. Runtime failures surface as n == 0, eos == true; a reader never
	// returns n == 0 with eos == false.
	ReadFrames(dst []float32) (n int, eos bool)
}

// Sound is a reusable recipe for readers. Each CreateReader call yields an
// independent stream over the same material.
type Sound interface {
	CreateReader() (Reader, error)
}

// SoundFunc adapts a factory function to the Sound interface.
type SoundFunc func() (Reader, error)

func (f SoundFunc) CreateReader() (Reader, error) {
	return f()
}
