// SPDX-License-Identifier: EPL-2.0

package audio_test

import (
	"errors"
	"math"
	"testing"

	"github.com/ik5/audengine/audio"
	"github.com/ik5/audengine/internal/audiotest"
)

func drain(t *testing.T, r audio.Reader, chunk int) []float32 {
	t.Helper()

	channels := r.Specs().Channels.Count()
	buf := make([]float32, chunk*channels)
	var out []float32
	for {
		n, eos := r.ReadFrames(buf)
		out = append(out, buf[:n*channels]...)
		if eos {
			return out
		}
		if n == 0 {
			t.Fatal("ReadFrames returned no frames without eos")
		}
	}
}

func TestConverter_SameRatePassesSamplesThrough(t *testing.T) {
	t.Parallel()

	src := audiotest.NewConstantReader(audio.Rate8000, audio.ChannelsMono, 200, 0.5)
	conv, err := audio.NewConverter(src, audio.DeviceSpecs{
		Specs:  audio.Specs{Rate: audio.Rate8000, Channels: audio.ChannelsMono},
		Format: audio.FormatFloat32,
	})
	if err != nil {
		t.Fatalf("NewConverter() error = %v", err)
	}

	out := drain(t, conv, 64)
	if len(out) < 190 || len(out) > 210 {
		t.Fatalf("produced %d frames, want ≈200", len(out))
	}
	for i, s := range out {
		if math.Abs(float64(s)-0.5) > 0.01 {
			t.Fatalf("out[%d] = %v, want 0.5", i, s)
		}
	}
}

func TestConverter_Downsampling(t *testing.T) {
	t.Parallel()

	src := audiotest.NewSineReader(audio.Rate44100, audio.ChannelsMono, 44100, 440)
	conv, err := audio.NewConverter(src, audio.DeviceSpecs{
		Specs:  audio.Specs{Rate: audio.Rate8000, Channels: audio.ChannelsMono},
		Format: audio.FormatFloat32,
	})
	if err != nil {
		t.Fatalf("NewConverter() error = %v", err)
	}

	out := drain(t, conv, 1024)
	if len(out) < 7900 || len(out) > 8100 {
		t.Errorf("produced %d frames, want ≈8000", len(out))
	}
}

func TestConverter_Upsampling(t *testing.T) {
	t.Parallel()

	src := audiotest.NewConstantReader(audio.Rate8000, audio.ChannelsMono, 800, 0.25)
	conv, err := audio.NewConverter(src, audio.DeviceSpecs{
		Specs:  audio.Specs{Rate: audio.Rate16000, Channels: audio.ChannelsMono},
		Format: audio.FormatFloat32,
	})
	if err != nil {
		t.Fatalf("NewConverter() error = %v", err)
	}

	out := drain(t, conv, 256)
	if len(out) < 1550 || len(out) > 1650 {
		t.Errorf("produced %d frames, want ≈1600", len(out))
	}
	for i, s := range out {
		if math.Abs(float64(s)-0.25) > 0.01 {
			t.Fatalf("out[%d] = %v, want 0.25", i, s)
		}
	}
}

func TestConverter_Rematrixes(t *testing.T) {
	t.Parallel()

	src := audiotest.NewConstantReader(audio.Rate8000, audio.ChannelsStereo, 100, 0.5)
	conv, err := audio.NewConverter(src, audio.DeviceSpecs{
		Specs:  audio.Specs{Rate: audio.Rate8000, Channels: audio.ChannelsMono},
		Format: audio.FormatFloat32,
	})
	if err != nil {
		t.Fatalf("NewConverter() error = %v", err)
	}
	if conv.Specs().Channels != audio.ChannelsMono {
		t.Fatalf("Specs().Channels = %v, want mono", conv.Specs().Channels)
	}

	out := drain(t, conv, 32)
	for i, s := range out {
		if math.Abs(float64(s)-0.5) > 0.01 {
			t.Fatalf("out[%d] = %v, want 0.5 (average of two 0.5 channels)", i, s)
		}
	}
}

func TestConverter_SeekDelegatesToSource(t *testing.T) {
	t.Parallel()

	src := audiotest.NewRampReader(audio.Rate8000, audio.ChannelsMono, 1000)
	conv, err := audio.NewConverter(src, audio.DeviceSpecs{
		Specs:  audio.Specs{Rate: audio.Rate8000, Channels: audio.ChannelsMono},
		Format: audio.FormatFloat32,
	})
	if err != nil {
		t.Fatalf("NewConverter() error = %v", err)
	}

	if !conv.Seek(500) {
		t.Fatal("Seek(500) failed on a seekable source")
	}
	if conv.Position() != 500 {
		t.Errorf("Position() = %d, want 500", conv.Position())
	}

	buf := make([]float32, 4)
	conv.ReadFrames(buf)
	if buf[0] != 500 {
		t.Errorf("first frame after seek = %v, want 500", buf[0])
	}
}

func TestConverter_InvalidSpecs(t *testing.T) {
	t.Parallel()

	src := audiotest.NewSilentReader(audio.Rate8000, audio.ChannelsMono, 10)
	_, err := audio.NewConverter(src, audio.DeviceSpecs{})
	if !errors.Is(err, audio.ErrSpecs) {
		t.Errorf("NewConverter() error = %v, want ErrSpecs", err)
	}
}
