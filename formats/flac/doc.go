// SPDX-License-Identifier: EPL-2.0

// Package flac decodes FLAC audio through mewkiz/flac:
//
//	r, err := flac.DecodeFile("track.flac")
//
// The stream is not seekable.
package flac
