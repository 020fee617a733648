// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"encoding/binary"
	"math"

	"github.com/ik5/audengine/utils"
)

func clampSample(x float32) float32 {
	if x > 1 {
		return 1
	}
	if x < -1 {
		return -1
	}
	return x
}

// EncodeFrames converts interleaved float32 samples to the device sample
// format, writing format.Size() bytes per sample into dst. Fixed-point
// targets saturate on overflow. dst must hold at least
// len(src)*format.Size() bytes. It returns the number of bytes written.
func EncodeFrames(dst []byte, src []float32, format SampleFormat) int {
	switch format {
	case FormatU8:
		for i, s := range src {
			dst[i] = byte(clampSample(s)*127 + 128)
		}
		return len(src)
	case FormatS16:
		for i, s := range src {
			binary.LittleEndian.PutUint16(dst[i*2:], uint16(utils.Float32ToInt16(s)))
		}
		return len(src) * 2
	case FormatS24:
		for i, s := range src {
			v := int32(clampSample(s) * 8388607)
			dst[i*3] = byte(v)
			dst[i*3+1] = byte(v >> 8)
			dst[i*3+2] = byte(v >> 16)
		}
		return len(src) * 3
	case FormatS32:
		for i, s := range src {
			v := int32(float64(clampSample(s)) * 2147483647)
			binary.LittleEndian.PutUint32(dst[i*4:], uint32(v))
		}
		return len(src) * 4
	case FormatFloat32:
		for i, s := range src {
			binary.LittleEndian.PutUint32(dst[i*4:], math.Float32bits(s))
		}
		return len(src) * 4
	case FormatFloat64:
		for i, s := range src {
			binary.LittleEndian.PutUint64(dst[i*8:], math.Float64bits(float64(s)))
		}
		return len(src) * 8
	default:
		return 0
	}
}

// DecodeFrames converts device-format samples back to interleaved float32.
// dst must hold len(src)/format.Size() samples. It returns the number of
// samples decoded.
func DecodeFrames(dst []float32, src []byte, format SampleFormat) int {
	size := format.Size()
	if size == 0 {
		return 0
	}
	n := len(src) / size

	switch format {
	case FormatU8:
		for i := range n {
			dst[i] = (float32(src[i]) - 128) / 127
		}
	case FormatS16:
		for i := range n {
			v := int16(binary.LittleEndian.Uint16(src[i*2:]))
			dst[i] = float32(v) / 32767
		}
	case FormatS24:
		for i := range n {
			v := int32(src[i*3]) | int32(src[i*3+1])<<8 | int32(src[i*3+2])<<16
			if v&0x800000 != 0 {
				v |= ^int32(0xFFFFFF)
			}
			dst[i] = float32(v) / 8388607
		}
	case FormatS32:
		for i := range n {
			v := int32(binary.LittleEndian.Uint32(src[i*4:]))
			dst[i] = float32(float64(v) / 2147483647)
		}
	case FormatFloat32:
		for i := range n {
			dst[i] = math.Float32frombits(binary.LittleEndian.Uint32(src[i*4:]))
		}
	case FormatFloat64:
		for i := range n {
			dst[i] = float32(math.Float64frombits(binary.LittleEndian.Uint64(src[i*8:])))
		}
	default:
		return 0
	}

	return n
}
