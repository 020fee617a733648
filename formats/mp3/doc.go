// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MPEG-1 layer 3 audio through go-mp3, which always
// yields 16 bit stereo at the file's sample rate:
//
//	r, err := mp3.DecodeFile("track.mp3")
//
// The stream is not seekable.
package mp3
