// SPDX-License-Identifier: EPL-2.0

package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/ik5/audengine/audio"
)

// Engine holds the tunables of the engine: the device layout, the per-refill
// buffer size and the convolver thread counts.
type Engine struct {
	SampleRate         int    `mapstructure:"sample_rate"`
	Channels           int    `mapstructure:"channels"`
	Format             string `mapstructure:"format"`
	BufferSize         int    `mapstructure:"buffer_size"`
	ConvolutionThreads int    `mapstructure:"convolution_threads"`
	ChannelThreads     int    `mapstructure:"channel_threads"`
	LogLevel           string `mapstructure:"log_level"`
}

// Load reads the engine configuration from defaults, an optional config
// file and AUDENGINE_* environment variables, in ascending precedence.
// path may be empty to skip the file.
func Load(path string) (Engine, error) {
	v := viper.New()

	v.SetDefault("sample_rate", 48000)
	v.SetDefault("channels", 2)
	v.SetDefault("format", "s16")
	v.SetDefault("buffer_size", 1024)
	v.SetDefault("convolution_threads", 1)
	v.SetDefault("channel_threads", 2)
	v.SetDefault("log_level", "info")

	v.SetEnvPrefix("AUDENGINE")
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Engine{}, fmt.Errorf("config: %w", err)
		}
	}

	var cfg Engine
	if err := v.Unmarshal(&cfg); err != nil {
		return Engine{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// DeviceSpecs translates the configuration into device specs.
func (e Engine) DeviceSpecs() (audio.DeviceSpecs, error) {
	var format audio.SampleFormat
	switch strings.ToLower(e.Format) {
	case "u8":
		format = audio.FormatU8
	case "s16":
		format = audio.FormatS16
	case "s24":
		format = audio.FormatS24
	case "s32":
		format = audio.FormatS32
	case "float32":
		format = audio.FormatFloat32
	case "float64":
		format = audio.FormatFloat64
	default:
		return audio.DeviceSpecs{}, fmt.Errorf("config: format %q: %w", e.Format, audio.ErrSpecs)
	}

	specs := audio.DeviceSpecs{
		Specs: audio.Specs{
			Rate:     audio.SampleRate(e.SampleRate),
			Channels: audio.Channels(e.Channels),
		},
		Format: format,
	}
	if !specs.Valid() {
		return audio.DeviceSpecs{}, fmt.Errorf("config: %w", audio.ErrSpecs)
	}
	return specs, nil
}

// ConfigureLogger configures the default slog logger with the configured
// log level and an optional log file.
//
// Valid log levels are "none", "error", "warn", "info" and "debug". logFile
// may name a file (JSON output) or be empty for text output on stdout. The
// returned file, when non-nil, should be closed by the caller on shutdown.
func (e Engine) ConfigureLogger(logFile string) (*os.File, error) {
	var opts slog.HandlerOptions

	switch e.LogLevel {
	case "none":
		slog.SetDefault(slog.New(slog.NewTextHandler(io.Discard, nil)))
		return nil, nil
	case "error":
		opts.Level = slog.LevelError
	case "warn":
		opts.Level = slog.LevelWarn
	case "info":
		opts.Level = slog.LevelInfo
	case "debug":
		opts.Level = slog.LevelDebug
	default:
		return nil, errors.New("config: unexpected log level")
	}

	if logFile == "" {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &opts)))
		return nil, nil
	}

	f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(f, &opts)))
	return f, nil
}
