// SPDX-License-Identifier: EPL-2.0

package audio

// SampleBuffer is a growable byte region used for device-side sample data.
// It is owned exclusively by whoever holds it.
type SampleBuffer struct {
	data []byte
}

// NewSampleBuffer allocates a buffer with the given initial size in bytes.
func NewSampleBuffer(size int) *SampleBuffer {
	return &SampleBuffer{data: make([]byte, size)}
}

// EnsureSize guarantees the buffer holds at least n writable bytes. Older
// contents may be discarded when the buffer grows.
func (b *SampleBuffer) EnsureSize(n int) {
	if cap(b.data) < n {
		b.data = make([]byte, n)
		return
	}
	b.data = b.data[:cap(b.data)]
}

// Bytes returns the first n bytes of the buffer.
func (b *SampleBuffer) Bytes(n int) []byte {
	return b.data[:n]
}

// Size returns the current capacity of the buffer in bytes.
func (b *SampleBuffer) Size() int {
	return cap(b.data)
}
