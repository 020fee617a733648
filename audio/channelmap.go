// SPDX-License-Identifier: EPL-2.0

package audio

// speaker is an abstract speaker position used to derive mixing matrices.
type speaker int

const (
	spkFrontLeft speaker = iota
	spkFrontRight
	spkFrontCenter
	spkLFE
	spkRearLeft
	spkRearRight
	spkRearCenter
	spkSideLeft
	spkSideRight
)

// speakerLayouts lists the speakers of each supported layout in interleave
// order.
var speakerLayouts = map[Channels][]speaker{
	ChannelsMono:       {spkFrontCenter},
	ChannelsStereo:     {spkFrontLeft, spkFrontRight},
	ChannelsStereoLFE:  {spkFrontLeft, spkFrontRight, spkLFE},
	ChannelsSurround4:  {spkFrontLeft, spkFrontRight, spkRearLeft, spkRearRight},
	ChannelsSurround5:  {spkFrontLeft, spkFrontRight, spkFrontCenter, spkRearLeft, spkRearRight},
	ChannelsSurround51: {spkFrontLeft, spkFrontRight, spkFrontCenter, spkLFE, spkRearLeft, spkRearRight},
	ChannelsSurround61: {spkFrontLeft, spkFrontRight, spkFrontCenter, spkLFE, spkRearCenter, spkSideLeft, spkSideRight},
	ChannelsSurround71: {spkFrontLeft, spkFrontRight, spkFrontCenter, spkLFE, spkRearLeft, spkRearRight, spkSideLeft, spkSideRight},
}

const invSqrt2 = 0.7071067811865476

// routeFallbacks maps a speaker missing from the destination layout to the
// speakers that receive its signal instead, with the gain applied to each.
var routeFallbacks = map[speaker][]struct {
	to   speaker
	gain float32
}{
	spkFrontCenter: {{spkFrontLeft, invSqrt2}, {spkFrontRight, invSqrt2}},
	spkRearLeft:    {{spkSideLeft, 1}, {spkFrontLeft, invSqrt2}},
	spkRearRight:   {{spkSideRight, 1}, {spkFrontRight, invSqrt2}},
	spkRearCenter:  {{spkRearLeft, invSqrt2}, {spkRearRight, invSqrt2}},
	spkSideLeft:    {{spkRearLeft, 1}, {spkFrontLeft, invSqrt2}},
	spkSideRight:   {{spkRearRight, 1}, {spkFrontRight, invSqrt2}},
	spkFrontLeft:   {{spkFrontCenter, invSqrt2}},
	spkFrontRight:  {{spkFrontCenter, invSqrt2}},
	// LFE is dropped when the destination has no LFE channel.
	spkLFE: {},
}

// MixingMatrix returns the fixed rematrixing matrix for the (src, dst)
// layout pair, indexed as matrix[dstChannel][srcChannel]. The second result
// is false when the pair is not supported.
func MixingMatrix(src, dst Channels) ([][]float32, bool) {
	from, ok := speakerLayouts[src]
	if !ok {
		return nil, false
	}
	to, ok := speakerLayouts[dst]
	if !ok {
		return nil, false
	}

	index := make(map[speaker]int, len(to))
	for i, s := range to {
		index[s] = i
	}

	matrix := make([][]float32, len(to))
	for i := range matrix {
		matrix[i] = make([]float32, len(from))
	}

	if dst == ChannelsMono {
		// Downmix to mono averages all full-range channels.
		count := 0
		for _, s := range from {
			if s != spkLFE {
				count++
			}
		}
		if count == 0 {
			count = 1
		}
		gain := float32(1) / float32(count)
		for j, s := range from {
			if s != spkLFE {
				matrix[0][j] = gain
			}
		}
		return matrix, true
	}

	for j, s := range from {
		if i, ok := index[s]; ok {
			matrix[i][j] = 1
			continue
		}

		routed := false
		for _, route := range routeFallbacks[s] {
			if i, ok := index[route.to]; ok {
				matrix[i][j] += route.gain
				routed = true
			}
		}
		if s == spkLFE {
			// Dropped on purpose.
			continue
		}
		if !routed {
			// Last resort keeps the signal audible on the fronts.
			matrix[index[to[0]]][j] += invSqrt2
			if len(to) > 1 {
				matrix[1][j] += invSqrt2
			}
		}
	}

	return matrix, true
}
