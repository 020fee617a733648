// SPDX-License-Identifier: EPL-2.0

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ik5/audengine/audio"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.SampleRate != 48000 {
		t.Errorf("SampleRate = %d, want 48000", cfg.SampleRate)
	}
	if cfg.Channels != 2 {
		t.Errorf("Channels = %d, want 2", cfg.Channels)
	}
	if cfg.Format != "s16" {
		t.Errorf("Format = %q, want s16", cfg.Format)
	}
	if cfg.BufferSize != 1024 {
		t.Errorf("BufferSize = %d, want 1024", cfg.BufferSize)
	}
	if cfg.ChannelThreads != 2 {
		t.Errorf("ChannelThreads = %d, want 2", cfg.ChannelThreads)
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "engine.yaml")
	content := "sample_rate: 44100\nchannels: 1\nformat: float32\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.SampleRate != 44100 || cfg.Channels != 1 || cfg.Format != "float32" {
		t.Errorf("loaded config = %+v", cfg)
	}
	// Untouched keys keep their defaults.
	if cfg.BufferSize != 1024 {
		t.Errorf("BufferSize = %d, want default 1024", cfg.BufferSize)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load() with a missing file should fail")
	}
}

func TestEngine_DeviceSpecs(t *testing.T) {
	cfg := Engine{SampleRate: 44100, Channels: 2, Format: "s24"}
	specs, err := cfg.DeviceSpecs()
	if err != nil {
		t.Fatalf("DeviceSpecs() error = %v", err)
	}

	want := audio.DeviceSpecs{
		Specs:  audio.Specs{Rate: audio.Rate44100, Channels: audio.ChannelsStereo},
		Format: audio.FormatS24,
	}
	if specs != want {
		t.Errorf("DeviceSpecs() = %+v, want %+v", specs, want)
	}
}

func TestEngine_DeviceSpecsRejectsBadFormat(t *testing.T) {
	cfg := Engine{SampleRate: 44100, Channels: 2, Format: "dsd"}
	if _, err := cfg.DeviceSpecs(); !errors.Is(err, audio.ErrSpecs) {
		t.Errorf("DeviceSpecs() error = %v, want ErrSpecs", err)
	}
}
