// SPDX-License-Identifier: EPL-2.0

package audengine

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ik5/audengine/audio"
	"github.com/ik5/audengine/device"
	"github.com/ik5/audengine/formats/aiff"
	"github.com/ik5/audengine/formats/flac"
	"github.com/ik5/audengine/formats/mp3"
	"github.com/ik5/audengine/formats/vorbis"
	"github.com/ik5/audengine/formats/wav"
	"github.com/ik5/audengine/gen"
)

// OpenFile opens an audio file as a streaming reader, picking the decoder
// by file extension. Supported extensions: .wav, .aif/.aiff, .mp3,
// .ogg/.oga, .flac.
func OpenFile(path string) (audio.Reader, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		return wav.DecodeFile(path)
	case ".aif", ".aiff":
		return aiff.DecodeFile(path)
	case ".mp3":
		return mp3.DecodeFile(path)
	case ".ogg", ".oga":
		return vorbis.DecodeFile(path)
	case ".flac":
		return flac.DecodeFile(path)
	default:
		return nil, fmt.Errorf("audengine: unsupported file extension %q: %w",
			filepath.Ext(path), audio.ErrFile)
	}
}

// LoadSound decodes a whole audio file into memory. The result is a Sound
// that hands out independent, seekable readers, suitable for looping,
// reversing or repeated playback.
func LoadSound(path string) (*gen.Buffered, error) {
	r, err := OpenFile(path)
	if err != nil {
		return nil, err
	}
	return gen.NewBuffered(r)
}

// PlayFile decodes a file and starts it on the device in one step.
func PlayFile(dev *device.Device, path string, keep bool) (*device.Handle, error) {
	r, err := OpenFile(path)
	if err != nil {
		return nil, err
	}
	return dev.Play(r, keep)
}
