// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"bytes"
	"errors"
	"testing"

	"github.com/ik5/audengine/audio"
)

func TestDecode_RejectsGarbage(t *testing.T) {
	t.Parallel()

	_, err := Decode(bytes.NewReader([]byte("not an mp3 stream at all")))
	if !errors.Is(err, audio.ErrFile) {
		t.Errorf("Decode() error = %v, want ErrFile", err)
	}
}

func TestDecodeFile_Missing(t *testing.T) {
	t.Parallel()

	if _, err := DecodeFile("/does/not/exist.mp3"); !errors.Is(err, audio.ErrFile) {
		t.Errorf("DecodeFile() error = %v, want ErrFile", err)
	}
}
