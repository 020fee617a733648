// SPDX-License-Identifier: EPL-2.0

// Package aiff decodes AIFF audio through go-audio/aiff:
//
//	r, err := aiff.DecodeFile("clip.aif")
//
// The stream is not seekable.
package aiff
