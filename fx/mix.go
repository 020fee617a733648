// SPDX-License-Identifier: EPL-2.0

package fx

import (
	"fmt"

	"github.com/ik5/audengine/audio"
)

// Mix sums two inputs frame by frame. When one side ends, the other
// continues alone; the mix ends when both have ended.
type Mix struct {
	a, b       audio.Reader
	aEOS, bEOS bool
	scratch    []float32
}

// NewMix creates a summing reader. Both inputs must share Specs.
func NewMix(a, b audio.Reader) (*Mix, error) {
	if a.Specs() != b.Specs() {
		return nil, fmt.Errorf("mix: inputs disagree on specs: %w", audio.ErrSpecs)
	}
	return &Mix{a: a, b: b}, nil
}

func (m *Mix) Specs() audio.Specs { return m.a.Specs() }

func (m *Mix) Length() int {
	a := m.a.Length()
	b := m.b.Length()
	if a == audio.LengthInfinite || b == audio.LengthInfinite {
		return audio.LengthInfinite
	}
	return max(a, b)
}

func (m *Mix) Position() int {
	return max(m.a.Position(), m.b.Position())
}

func (m *Mix) Seekable() bool {
	return m.a.Seekable() && m.b.Seekable()
}

func (m *Mix) Seek(frame int) bool {
	if !m.a.Seek(frame) || !m.b.Seek(frame) {
		return false
	}
	m.aEOS = false
	m.bEOS = false
	return true
}

func (m *Mix) ReadFrames(dst []float32) (int, bool) {
	channels := m.a.Specs().Channels.Count()
	want := len(dst) / channels

	var na int
	if !m.aEOS {
		n, eos := m.a.ReadFrames(dst[:want*channels])
		na = n
		m.aEOS = eos
	}
	for i := na * channels; i < want*channels; i++ {
		dst[i] = 0
	}

	var nb int
	if !m.bEOS {
		if cap(m.scratch) < want*channels {
			m.scratch = make([]float32, want*channels)
		}
		scratch := m.scratch[:want*channels]

		n, eos := m.b.ReadFrames(scratch)
		nb = n
		m.bEOS = eos

		for i := range nb * channels {
			dst[i] += scratch[i]
		}
	}

	n := max(na, nb)
	return n, m.aEOS && m.bEOS
}
