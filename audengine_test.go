// SPDX-License-Identifier: EPL-2.0

package audengine_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ik5/audengine"
	"github.com/ik5/audengine/audio"
	"github.com/ik5/audengine/device"
	"github.com/ik5/audengine/formats/wav"
	"github.com/ik5/audengine/internal/audiotest"
)

func writeTestWAV(t *testing.T, frames int) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "clip.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	src := audiotest.NewSineReader(audio.Rate48000, audio.ChannelsMono, frames, 440)
	if err := wav.WriteReader(f, src, 16); err != nil {
		t.Fatalf("WriteReader() error = %v", err)
	}
	return path
}

func TestOpenFile_UnsupportedExtension(t *testing.T) {
	t.Parallel()

	if _, err := audengine.OpenFile("clip.xyz"); !errors.Is(err, audio.ErrFile) {
		t.Errorf("OpenFile() error = %v, want ErrFile", err)
	}
}

func TestOpenFile_WAV(t *testing.T) {
	t.Parallel()

	path := writeTestWAV(t, 4800)
	r, err := audengine.OpenFile(path)
	if err != nil {
		t.Fatalf("OpenFile() error = %v", err)
	}
	if r.Specs().Rate != audio.Rate48000 {
		t.Errorf("Rate = %v, want 48000", r.Specs().Rate)
	}
	if r.Length() != 4800 {
		t.Errorf("Length() = %d, want 4800", r.Length())
	}
}

func TestLoadSound(t *testing.T) {
	t.Parallel()

	path := writeTestWAV(t, 4800)
	clip, err := audengine.LoadSound(path)
	if err != nil {
		t.Fatalf("LoadSound() error = %v", err)
	}
	if clip.Length() != 4800 {
		t.Errorf("Length() = %d, want 4800", clip.Length())
	}

	// Two readers over the loaded clip are independent.
	a, _ := clip.CreateReader()
	b, _ := clip.CreateReader()
	buf := make([]float32, 128)
	a.ReadFrames(buf)
	if b.Position() != 0 {
		t.Error("independent readers share position state")
	}
}

func TestPlayFile_EndToEnd(t *testing.T) {
	t.Parallel()

	path := writeTestWAV(t, 4800)

	dev, err := device.New(device.NewNullOutput(), audio.DeviceSpecs{
		Specs:  audio.Specs{Rate: audio.Rate48000, Channels: audio.ChannelsMono},
		Format: audio.FormatS16,
	}, 1024, device.WithTick(time.Millisecond))
	if err != nil {
		t.Fatalf("device.New() error = %v", err)
	}
	defer dev.Close()

	h, err := audengine.PlayFile(dev, path, false)
	if err != nil {
		t.Fatalf("PlayFile() error = %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for h.Status() != device.StatusInvalid {
		if time.Now().After(deadline) {
			t.Fatal("stream did not finish in time")
		}
		time.Sleep(time.Millisecond)
	}
}
