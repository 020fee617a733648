// SPDX-License-Identifier: EPL-2.0

// Package gen provides source readers: periodic generators (sine, square,
// sawtooth, triangle), silence, and the memory-buffered clip.
//
// Generators produce infinite mono streams at a chosen rate:
//
//	sine, err := gen.NewSine(440, audio.Rate48000)
//
// Buffered drains a finite reader into memory once and hands out
// independent, seekable readers over the shared data. Effects that need a
// finite seekable upstream (reverse, pingpong, impulse responses) typically
// sit on top of a Buffered clip:
//
//	clip, err := gen.NewBuffered(decoded)
//	r, err := clip.CreateReader()
package gen
