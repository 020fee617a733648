// SPDX-License-Identifier: EPL-2.0

package fx

import (
	"fmt"

	"github.com/ik5/audengine/audio"
	"gonum.org/v1/gonum/dsp/fourier"
)

// ImpulseResponse is the frequency-domain, partitioned form of an impulse
// response clip. It is immutable once built and freely shared between
// convolver readers.
type ImpulseResponse struct {
	rate      audio.SampleRate
	channels  int
	length    int // frames per channel in the time domain
	partSize  int
	fftSize   int
	// spectra[channel][partition] is the transform of one zero-padded
	// partition.
	spectra [][][]complex128
}

// NewImpulseResponse precomputes the partitioned spectra of a finite reader.
// partSize must be a positive power of two.
func NewImpulseResponse(r audio.Reader, partSize int) (*ImpulseResponse, error) {
	if partSize <= 0 || partSize&(partSize-1) != 0 {
		return nil, fmt.Errorf("impulse response: partition size %d is not a power of two: %w",
			partSize, audio.ErrSpecs)
	}
	if r.Length() == audio.LengthInfinite {
		return nil, fmt.Errorf("impulse response: infinite source: %w", audio.ErrSpecs)
	}

	specs := r.Specs()
	channels := specs.Channels.Count()

	// Drain the clip into per-channel sample lanes.
	var data []float32
	buf := make([]float32, 4096*channels)
	for {
		n, eos := r.ReadFrames(buf)
		if n > 0 {
			data = append(data, buf[:n*channels]...)
		}
		if eos {
			break
		}
	}

	length := len(data) / channels
	if length == 0 {
		return nil, fmt.Errorf("impulse response: empty clip: %w", audio.ErrSpecs)
	}

	fftSize := 2 * partSize
	fft := fourier.NewFFT(fftSize)
	parts := (length + partSize - 1) / partSize

	spectra := make([][][]complex128, channels)
	segment := make([]float64, fftSize)

	for ch := range channels {
		spectra[ch] = make([][]complex128, parts)

		for p := range parts {
			for i := range segment {
				segment[i] = 0
			}
			for i := range partSize {
				frame := p*partSize + i
				if frame >= length {
					break
				}
				segment[i] = float64(data[frame*channels+ch])
			}

			coeff := make([]complex128, fftSize/2+1)
			fft.Coefficients(coeff, segment)
			spectra[ch][p] = coeff
		}
	}

	return &ImpulseResponse{
		rate:     specs.Rate,
		channels: channels,
		length:   length,
		partSize: partSize,
		fftSize:  fftSize,
		spectra:  spectra,
	}, nil
}

// Rate returns the sampling rate the impulse response was recorded at.
func (ir *ImpulseResponse) Rate() audio.SampleRate {
	return ir.rate
}

// Channels returns the channel count of the impulse response clip.
func (ir *ImpulseResponse) Channels() int {
	return ir.channels
}

// Length returns the impulse response length in frames.
func (ir *ImpulseResponse) Length() int {
	return ir.length
}

// Partitions returns the number of frequency-domain partitions per channel.
func (ir *ImpulseResponse) Partitions() int {
	return len(ir.spectra[0])
}

// PartitionSize returns the time-domain partition size in frames.
func (ir *ImpulseResponse) PartitionSize() int {
	return ir.partSize
}

// spectrum returns partition p of the given convolver channel, broadcasting
// a mono impulse response to every input channel.
func (ir *ImpulseResponse) spectrum(channel, p int) []complex128 {
	if ir.channels == 1 {
		return ir.spectra[0][p]
	}
	return ir.spectra[channel][p]
}
