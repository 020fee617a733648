// SPDX-License-Identifier: EPL-2.0

// Package vorbis decodes Ogg Vorbis audio through jfreymuth/oggvorbis:
//
//	r, err := vorbis.DecodeFile("clip.ogg")
//
// The stream is not seekable.
package vorbis
