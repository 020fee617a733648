// SPDX-License-Identifier: EPL-2.0

// Package audio provides the core building blocks of the engine: sample
// specs, the Reader contract, the sample buffer, channel rematrixing and the
// converter reader.
//
// # Reader Contract
//
// The Reader interface is the foundation of the processing graph:
//
//	type Reader interface {
//	    Specs() Specs
//	    Length() int
//	    Position() int
//	    Seekable() bool
//	    Seek(frame int) bool
//	    ReadFrames(dst []float32) (n int, eos bool)
//	}
//
// All generators, decoders and effects implement it, allowing them to be
// composed into pull-driven pipelines. Frames are interleaved float32
// samples in the range [-1.0, 1.0]:
//   - 0.0 represents silence
//   - 1.0 represents maximum positive amplitude
//   - -1.0 represents maximum negative amplitude
//
// This normalized format makes it easy to process audio without worrying
// about bit depths and ensures no clipping during intermediate processing.
//
// # Conversion
//
// The Converter brings any reader's output into a device layout, resampling
// with cubic interpolation and rematrixing channels:
//
//	conv, err := audio.NewConverter(source, audio.DeviceSpecs{
//	    Specs:  audio.Specs{Rate: audio.Rate48000, Channels: audio.ChannelsStereo},
//	    Format: audio.FormatS16,
//	})
//
// Sample-format conversion to and from device byte buffers is handled by
// EncodeFrames and DecodeFrames with saturation on overflow.
//
// # Error Handling
//
// Fallible constructors wrap one of the package sentinels (ErrSpecs,
// ErrFile, ErrDevice, ErrMemory) so callers can classify failures:
//
//	if errors.Is(err, audio.ErrSpecs) {
//	    // incompatible rate/channel/format combination
//	}
//
// Runtime failures during ReadFrames surface as n == 0 with eos == true;
// callers treat the stream as ended.
package audio
