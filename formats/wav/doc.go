// SPDX-License-Identifier: EPL-2.0

// Package wav decodes and encodes RIFF/WAVE PCM audio.
//
// Decode wraps a go-audio wav decoder as a streaming Reader supporting
// 8, 16, 24 and 32 bit PCM:
//
//	r, err := wav.DecodeFile("clip.wav")
//
// The stream is not seekable; wrap it in gen.NewBuffered when looping or
// reversing is needed. WriteReader drains a finite reader back into a PCM
// WAV stream.
package wav
