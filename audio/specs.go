// SPDX-License-Identifier: EPL-2.0

package audio

// SampleRate is a sampling frequency in Hz.
type SampleRate float64

// Common sampling rates.
const (
	RateInvalid SampleRate = 0
	Rate8000    SampleRate = 8000
	Rate11025   SampleRate = 11025
	Rate16000   SampleRate = 16000
	Rate22050   SampleRate = 22050
	Rate32000   SampleRate = 32000
	Rate44100   SampleRate = 44100
	Rate48000   SampleRate = 48000
	Rate88200   SampleRate = 88200
	Rate96000   SampleRate = 96000
	Rate192000  SampleRate = 192000
)

// Channels is a speaker layout.
type Channels int

const (
	ChannelsInvalid    Channels = 0
	ChannelsMono       Channels = 1
	ChannelsStereo     Channels = 2
	ChannelsStereoLFE  Channels = 3
	ChannelsSurround4  Channels = 4
	ChannelsSurround5  Channels = 5
	ChannelsSurround51 Channels = 6
	ChannelsSurround61 Channels = 7
	ChannelsSurround71 Channels = 8
)

// Count returns the number of interleaved samples per frame for the layout.
func (c Channels) Count() int {
	return int(c)
}

func (c Channels) Valid() bool {
	return c >= ChannelsMono && c <= ChannelsSurround71
}

func (c Channels) String() string {
	switch c {
	case ChannelsMono:
		return "mono"
	case ChannelsStereo:
		return "stereo"
	case ChannelsStereoLFE:
		return "stereo+lfe"
	case ChannelsSurround4:
		return "surround 4.0"
	case ChannelsSurround5:
		return "surround 5.0"
	case ChannelsSurround51:
		return "surround 5.1"
	case ChannelsSurround61:
		return "surround 6.1"
	case ChannelsSurround71:
		return "surround 7.1"
	default:
		return "invalid"
	}
}

// SampleFormat is the sample encoding of a device-side buffer.
type SampleFormat int

const (
	FormatInvalid SampleFormat = iota
	FormatU8
	FormatS16
	FormatS24
	FormatS32
	FormatFloat32
	FormatFloat64
)

// Size returns the number of bytes a single sample occupies.
func (f SampleFormat) Size() int {
	switch f {
	case FormatU8:
		return 1
	case FormatS16:
		return 2
	case FormatS24:
		return 3
	case FormatS32, FormatFloat32:
		return 4
	case FormatFloat64:
		return 8
	default:
		return 0
	}
}

func (f SampleFormat) Valid() bool {
	return f > FormatInvalid && f <= FormatFloat64
}

func (f SampleFormat) String() string {
	switch f {
	case FormatU8:
		return "u8"
	case FormatS16:
		return "s16"
	case FormatS24:
		return "s24"
	case FormatS32:
		return "s32"
	case FormatFloat32:
		return "float32"
	case FormatFloat64:
		return "float64"
	default:
		return "invalid"
	}
}

// Specs describes the layout of the frames a Reader produces.
type Specs struct {
	Rate     SampleRate
	Channels Channels
}

func (s Specs) Valid() bool {
	return s.Rate > 0 && s.Channels.Valid()
}

// DeviceSpecs extends Specs with the sample encoding of the output device.
type DeviceSpecs struct {
	Specs
	Format SampleFormat
}

// FrameSize returns the byte size of one interleaved device frame.
func (s DeviceSpecs) FrameSize() int {
	return s.Channels.Count() * s.Format.Size()
}

func (s DeviceSpecs) Valid() bool {
	return s.Specs.Valid() && s.Format.Valid()
}
