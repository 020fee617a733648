// SPDX-License-Identifier: EPL-2.0

package audio

import "errors"

// Error taxonomy shared by all readers and the device layer. Fallible
// constructors wrap one of these sentinels so callers can classify failures
// with errors.Is.
var (
	// ErrSpecs marks incompatible channel, rate or format combinations.
	ErrSpecs = errors.New("incompatible specs")
	// ErrFile marks a decoder that could not open or parse its input.
	ErrFile = errors.New("cannot read file")
	// ErrDevice marks a hardware open or context failure.
	ErrDevice = errors.New("device failure")
	// ErrMemory marks an allocation or FFT plan failure.
	ErrMemory = errors.New("out of memory")

	ErrInvalidDstSize = errors.New("dst size must be multiple of channels")
)
