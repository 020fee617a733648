// SPDX-License-Identifier: EPL-2.0

package audio

import "testing"

func TestChannels_Count(t *testing.T) {
	t.Parallel()

	tests := []struct {
		channels Channels
		want     int
	}{
		{ChannelsMono, 1},
		{ChannelsStereo, 2},
		{ChannelsStereoLFE, 3},
		{ChannelsSurround4, 4},
		{ChannelsSurround51, 6},
		{ChannelsSurround71, 8},
	}

	for _, tt := range tests {
		if got := tt.channels.Count(); got != tt.want {
			t.Errorf("Count(%s) = %d, want %d", tt.channels, got, tt.want)
		}
	}
}

func TestSampleFormat_Size(t *testing.T) {
	t.Parallel()

	tests := []struct {
		format SampleFormat
		want   int
	}{
		{FormatU8, 1},
		{FormatS16, 2},
		{FormatS24, 3},
		{FormatS32, 4},
		{FormatFloat32, 4},
		{FormatFloat64, 8},
		{FormatInvalid, 0},
	}

	for _, tt := range tests {
		if got := tt.format.Size(); got != tt.want {
			t.Errorf("Size(%s) = %d, want %d", tt.format, got, tt.want)
		}
	}
}

func TestDeviceSpecs_FrameSize(t *testing.T) {
	t.Parallel()

	specs := DeviceSpecs{
		Specs:  Specs{Rate: Rate48000, Channels: ChannelsStereo},
		Format: FormatS16,
	}
	if got := specs.FrameSize(); got != 4 {
		t.Errorf("FrameSize() = %d, want 4", got)
	}

	specs.Format = FormatFloat64
	specs.Channels = ChannelsSurround51
	if got := specs.FrameSize(); got != 48 {
		t.Errorf("FrameSize() = %d, want 48", got)
	}
}

func TestSpecs_Valid(t *testing.T) {
	t.Parallel()

	if (Specs{}).Valid() {
		t.Error("zero Specs should be invalid")
	}
	if !(Specs{Rate: Rate44100, Channels: ChannelsMono}).Valid() {
		t.Error("mono 44100 should be valid")
	}
	if (Specs{Rate: -1, Channels: ChannelsMono}).Valid() {
		t.Error("negative rate should be invalid")
	}
}
