// SPDX-License-Identifier: EPL-2.0

package gen

import (
	"errors"
	"testing"

	"github.com/ik5/audengine/audio"
	"github.com/ik5/audengine/internal/audiotest"
)

func TestNewBuffered_DrainsSource(t *testing.T) {
	t.Parallel()

	src := audiotest.NewRampReader(audio.Rate8000, audio.ChannelsStereo, 500)
	clip, err := NewBuffered(src)
	if err != nil {
		t.Fatalf("NewBuffered() error = %v", err)
	}

	if clip.Length() != 500 {
		t.Errorf("Length() = %d, want 500", clip.Length())
	}
	if clip.Specs().Channels != audio.ChannelsStereo {
		t.Errorf("Channels = %v, want stereo", clip.Specs().Channels)
	}
}

func TestNewBuffered_RejectsInfinite(t *testing.T) {
	t.Parallel()

	sine, err := NewSine(440, audio.Rate8000)
	if err != nil {
		t.Fatalf("NewSine() error = %v", err)
	}
	if _, err := NewBuffered(sine); !errors.Is(err, audio.ErrSpecs) {
		t.Errorf("NewBuffered(infinite) error = %v, want ErrSpecs", err)
	}
}

func TestBuffered_IndependentReaders(t *testing.T) {
	t.Parallel()

	src := audiotest.NewRampReader(audio.Rate8000, audio.ChannelsMono, 100)
	clip, err := NewBuffered(src)
	if err != nil {
		t.Fatalf("NewBuffered() error = %v", err)
	}

	a, _ := clip.CreateReader()
	b, _ := clip.CreateReader()

	bufA := make([]float32, 10)
	a.ReadFrames(bufA)

	// Reading a must not move b.
	if b.Position() != 0 {
		t.Fatalf("second reader moved to %d", b.Position())
	}

	bufB := make([]float32, 10)
	b.ReadFrames(bufB)
	for i := range bufA {
		if bufA[i] != bufB[i] {
			t.Errorf("streams diverge at %d: %v vs %v", i, bufA[i], bufB[i])
		}
	}
}

func TestBufferReader_SeekClamps(t *testing.T) {
	t.Parallel()

	src := audiotest.NewRampReader(audio.Rate8000, audio.ChannelsMono, 100)
	clip, err := NewBuffered(src)
	if err != nil {
		t.Fatalf("NewBuffered() error = %v", err)
	}
	r, _ := clip.CreateReader()

	if !r.Seek(1000) {
		t.Fatal("Seek past end failed")
	}
	if r.Position() != 100 {
		t.Errorf("Position() = %d, want clamp to 100", r.Position())
	}

	buf := make([]float32, 4)
	n, eos := r.ReadFrames(buf)
	if n != 0 || !eos {
		t.Errorf("ReadFrames() after clamped seek = (%d, %v), want (0, true)", n, eos)
	}
}

func TestNewBufferedData_Validates(t *testing.T) {
	t.Parallel()

	_, err := NewBufferedData([]float32{1, 2, 3}, audio.Specs{Rate: audio.Rate8000, Channels: audio.ChannelsStereo})
	if !errors.Is(err, audio.ErrInvalidDstSize) {
		t.Errorf("odd sample count error = %v, want ErrInvalidDstSize", err)
	}

	_, err = NewBufferedData(nil, audio.Specs{})
	if !errors.Is(err, audio.ErrSpecs) {
		t.Errorf("invalid specs error = %v, want ErrSpecs", err)
	}
}
