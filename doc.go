// SPDX-License-Identifier: EPL-2.0

// Package audengine is a real-time audio engine: it composes sound sources
// through a graph of pull-driven processing readers and plays the result
// through an output device.
//
// # Architecture
//
// The engine is split into focused subpackages:
//   - audio: specs, the Reader contract, conversion (the core)
//   - gen: generators and memory-buffered clips
//   - fx: effect readers, including FFT convolution
//   - device: the output device, its mixing loop and handles
//   - playback: category-keyed bulk control over live handles
//   - formats/...: file decoders (WAV, AIFF, MP3, Ogg Vorbis, FLAC)
//   - config: engine settings and logger setup
//
// # Quick Start
//
//	out := device.NewOtoOutput()
//	dev, err := device.New(out, audio.DeviceSpecs{
//	    Specs:  audio.Specs{Rate: audio.Rate48000, Channels: audio.ChannelsStereo},
//	    Format: audio.FormatS16,
//	}, 1024)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer dev.Close()
//
//	handle, err := audengine.PlayFile(dev, "track.mp3", false)
//
// # Processing Graphs
//
// Readers compose bottom-up; every node exclusively owns its inputs:
//
//	sine, _ := gen.NewSine(440, audio.Rate48000)
//	voice, _ := fx.NewFadeIn(fx.NewVolume(sine, 0.8), 0, 0.05)
//	limited, _ := fx.NewLimit(voice, 0, 2)
//	dev.Play(limited, false)
//
// The device converts any reader's rate and channel layout to its own specs
// automatically.
package audengine
