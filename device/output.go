// SPDX-License-Identifier: EPL-2.0

package device

import "github.com/ik5/audengine/audio"

// SourceState is the playback state a backend reports for one source.
type SourceState int

const (
	SourceStopped SourceState = iota
	SourcePlaying
)

// Source is one backend-side playback stream. The device queues encoded
// sample buffers on it and polls how many have been consumed.
type Source interface {
	// Queue appends a filled buffer to the playback queue. The source takes
	// ownership of the slice until it is handed back by Unqueue.
	Queue(buf []byte) error

	// Unqueue pops the oldest consumed buffer for refilling. It returns
	// false when no consumed buffer is available.
	Unqueue() ([]byte, bool)

	// Processed returns how many queued buffers have been consumed and not
	// yet unqueued.
	Processed() int

	// State reports whether the source is currently playing.
	State() SourceState

	// Play starts or restarts consumption of the queued buffers.
	Play()

	// Stop halts consumption.
	Stop()

	// Flush drops all queued buffers, consumed or not.
	Flush()

	// Destroy releases the source's backend resources.
	Destroy()
}

// Output is the backend contract of the software device: a sink opened at a
// fixed device layout that hands out per-handle sources.
type Output interface {
	// Open prepares the backend. It may adjust the requested specs to what
	// the hardware supports and returns the effective specs.
	Open(specs audio.DeviceSpecs, buffersize int) (audio.DeviceSpecs, error)

	// NewSource creates a playback stream.
	NewSource() (Source, error)

	// Err returns the backend's fatal error, if any. A non-nil result
	// terminates the mixing loop.
	Err() error

	// Close releases the backend.
	Close() error
}
