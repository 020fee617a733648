// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"math"
	"testing"
)

func TestMixingMatrix_Identity(t *testing.T) {
	t.Parallel()

	matrix, ok := MixingMatrix(ChannelsStereo, ChannelsStereo)
	if !ok {
		t.Fatal("stereo to stereo should be supported")
	}

	want := [][]float32{{1, 0}, {0, 1}}
	for i := range want {
		for j := range want[i] {
			if matrix[i][j] != want[i][j] {
				t.Errorf("matrix[%d][%d] = %v, want %v", i, j, matrix[i][j], want[i][j])
			}
		}
	}
}

func TestMixingMatrix_MonoUpmix(t *testing.T) {
	t.Parallel()

	matrix, ok := MixingMatrix(ChannelsMono, ChannelsStereo)
	if !ok {
		t.Fatal("mono to stereo should be supported")
	}

	// The center signal lands on both fronts with equal power.
	if matrix[0][0] != matrix[1][0] {
		t.Errorf("asymmetric upmix: %v vs %v", matrix[0][0], matrix[1][0])
	}
	if math.Abs(float64(matrix[0][0])-invSqrt2) > 1e-6 {
		t.Errorf("upmix gain = %v, want %v", matrix[0][0], invSqrt2)
	}
}

func TestMixingMatrix_StereoDownmix(t *testing.T) {
	t.Parallel()

	matrix, ok := MixingMatrix(ChannelsStereo, ChannelsMono)
	if !ok {
		t.Fatal("stereo to mono should be supported")
	}
	if matrix[0][0] != 0.5 || matrix[0][1] != 0.5 {
		t.Errorf("downmix = %v, want averaging", matrix[0])
	}
}

func TestMixingMatrix_DropsLFEDownmixingToMono(t *testing.T) {
	t.Parallel()

	matrix, ok := MixingMatrix(ChannelsSurround51, ChannelsMono)
	if !ok {
		t.Fatal("5.1 to mono should be supported")
	}

	// Channel 3 of 5.1 is the LFE; it must not reach the mono mix.
	if matrix[0][3] != 0 {
		t.Errorf("LFE gain = %v, want 0", matrix[0][3])
	}
	// The five full-range channels are averaged.
	if math.Abs(float64(matrix[0][0])-0.2) > 1e-6 {
		t.Errorf("front left gain = %v, want 0.2", matrix[0][0])
	}
}

func TestMixingMatrix_InvalidPair(t *testing.T) {
	t.Parallel()

	if _, ok := MixingMatrix(ChannelsInvalid, ChannelsStereo); ok {
		t.Error("invalid source layout should not be supported")
	}
}
