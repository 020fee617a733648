// SPDX-License-Identifier: EPL-2.0

package fx

import (
	"fmt"
	"sync"

	"github.com/ik5/audengine/audio"
	"gonum.org/v1/gonum/dsp/fourier"
)

// convolverChannel is the per-channel state of a convolver reader.
type convolverChannel struct {
	index   int
	fft     *fourier.FFT
	window  []float64 // previous partition + current partition
	history [][]complex128
	scratch [][]complex128 // per convolution-thread accumulators
	sum     []complex128
	inverse []float64
}

// Convolver convolves its input with an impulse response using partitioned
// overlap-save FFT convolution. A shared worker pool parallelizes the work
// across channels and across partitions within a channel.
type Convolver struct {
	src audio.Reader
	ir  *ImpulseResponse

	nConvolution int
	pool         *workerPool

	channels []*convolverChannel
	inBlock  [][]float64 // deinterleaved current partition per channel

	fifo     []float32 // interleaved output frames ready to hand out
	fifoOff  int
	readBuf  []float32
	position int
	block    int // partitions processed since start or last seek
	tail     int // zero blocks still to flush after source eos
	srcEOS   bool
	drained  bool

	closeOnce sync.Once
}

// NewConvolver creates a convolver reader over src. The impulse response
// rate must match the source rate and its channel count must be one or the
// source's. nConvolutionThreads and nChannelThreads together size the shared
// worker pool.
func NewConvolver(src audio.Reader, ir *ImpulseResponse, nConvolutionThreads, nChannelThreads int) (*Convolver, error) {
	specs := src.Specs()
	if specs.Rate != ir.Rate() {
		return nil, fmt.Errorf("convolver: source rate %g does not match impulse response rate %g: %w",
			float64(specs.Rate), float64(ir.Rate()), audio.ErrSpecs)
	}

	channels := specs.Channels.Count()
	if ir.Channels() != 1 && ir.Channels() != channels {
		return nil, fmt.Errorf("convolver: impulse response has %d channels, input has %d: %w",
			ir.Channels(), channels, audio.ErrSpecs)
	}

	if nConvolutionThreads < 1 {
		nConvolutionThreads = 1
	}
	if nChannelThreads < 1 {
		nChannelThreads = 1
	}

	parts := ir.Partitions()
	fftSize := ir.fftSize
	bins := fftSize/2 + 1
	nConvolution := min(nConvolutionThreads, parts)

	c := &Convolver{
		src:          src,
		ir:           ir,
		nConvolution: nConvolution,
		pool:         newWorkerPool(nConvolutionThreads * nChannelThreads),
		channels:     make([]*convolverChannel, channels),
		inBlock:      make([][]float64, channels),
		tail:         parts,
	}

	for ch := range channels {
		state := &convolverChannel{
			index:   ch,
			fft:     fourier.NewFFT(fftSize),
			window:  make([]float64, fftSize),
			history: make([][]complex128, parts),
			scratch: make([][]complex128, nConvolution),
			sum:     make([]complex128, bins),
			inverse: make([]float64, fftSize),
		}
		for p := range state.history {
			state.history[p] = make([]complex128, bins)
		}
		for t := range state.scratch {
			state.scratch[t] = make([]complex128, bins)
		}
		c.channels[ch] = state
		c.inBlock[ch] = make([]float64, ir.PartitionSize())
	}
	c.readBuf = make([]float32, ir.PartitionSize()*channels)

	return c, nil
}

func (c *Convolver) Specs() audio.Specs { return c.src.Specs() }

func (c *Convolver) Length() int {
	length := c.src.Length()
	if length == audio.LengthInfinite {
		return length
	}
	return length + c.ir.Length() - 1
}

func (c *Convolver) Position() int  { return c.position }
func (c *Convolver) Seekable() bool { return c.src.Seekable() }

// Seek repositions the source and discards all convolution state. The
// impulse response tail of the previous position is dropped.
func (c *Convolver) Seek(frame int) bool {
	if !c.src.Seek(frame) {
		return false
	}

	for _, state := range c.channels {
		for i := range state.window {
			state.window[i] = 0
		}
		for _, h := range state.history {
			for i := range h {
				h[i] = 0
			}
		}
	}
	c.fifo = c.fifo[:0]
	c.fifoOff = 0
	c.position = frame
	c.block = 0
	c.tail = c.ir.Partitions()
	c.srcEOS = false
	c.drained = false
	return true
}

// Close shuts down the shared worker pool. The reader must not be used
// afterwards.
func (c *Convolver) Close() {
	c.closeOnce.Do(func() {
		c.pool.close()
	})
}

// readBlock pulls one partition worth of input frames and deinterleaves them
// into c.inBlock, zero padding once the source is exhausted. It reports
// whether any work remains.
func (c *Convolver) readBlock() bool {
	channels := len(c.channels)
	partSize := c.ir.PartitionSize()

	for ch := range c.inBlock {
		for i := range c.inBlock[ch] {
			c.inBlock[ch][i] = 0
		}
	}

	read := 0
	if !c.srcEOS {
		buf := c.readBuf
		for read < partSize {
			n, eos := c.src.ReadFrames(buf[read*channels:])
			for frame := range n {
				for ch := range channels {
					c.inBlock[ch][read+frame] = float64(buf[(read+frame)*channels+ch])
				}
			}
			read += n
			if eos {
				c.srcEOS = true
				break
			}
		}
	}

	if c.srcEOS && read == 0 {
		if c.tail == 0 {
			c.drained = true
			return false
		}
		c.tail--
	}

	return true
}

// processBlock runs one partition of overlap-save convolution for every
// channel and appends the resulting frames to the output fifo. The stages
// are flat fan-outs over the shared pool; no job ever waits on another job.
func (c *Convolver) processBlock() {
	partSize := c.ir.PartitionSize()
	parts := c.ir.Partitions()
	bins := c.ir.fftSize/2 + 1
	slot := c.block % parts
	c.block++

	// Stage 1: slide the window and transform the new input block.
	jobs := make([]func(), 0, len(c.channels)*c.nConvolution)
	for ch, state := range c.channels {
		jobs = append(jobs, func() {
			copy(state.window, state.window[partSize:])
			copy(state.window[partSize:], c.inBlock[ch])
			state.fft.Coefficients(state.history[slot], state.window)
		})
	}
	c.pool.run(jobs)

	// Stage 2: every convolution thread accumulates its share of the
	// partition sum into its own scratch spectrum.
	jobs = jobs[:0]
	for _, state := range c.channels {
		for t := range c.nConvolution {
			jobs = append(jobs, func() {
				acc := state.scratch[t]
				for i := range acc {
					acc[i] = 0
				}
				for k := t; k < parts; k += c.nConvolution {
					x := state.history[(slot-k%parts+parts)%parts]
					h := c.ir.spectrum(state.index, k)
					for i := range bins {
						acc[i] += x[i] * h[i]
					}
				}
			})
		}
	}
	c.pool.run(jobs)

	// Stage 3: reduce, inverse transform and discard the first half.
	jobs = jobs[:0]
	for _, state := range c.channels {
		jobs = append(jobs, func() {
			for i := range state.sum {
				state.sum[i] = 0
			}
			for _, acc := range state.scratch {
				for i := range state.sum {
					state.sum[i] += acc[i]
				}
			}
			state.fft.Sequence(state.inverse, state.sum)
		})
	}
	c.pool.run(jobs)

	// Interleave the second half of every channel's inverse transform;
	// gonum's inverse is unnormalized.
	norm := 1 / float64(c.ir.fftSize)
	for frame := range partSize {
		for _, state := range c.channels {
			c.fifo = append(c.fifo, float32(state.inverse[partSize+frame]*norm))
		}
	}
}

func (c *Convolver) ReadFrames(dst []float32) (int, bool) {
	channels := len(c.channels)
	want := len(dst) / channels
	if want == 0 {
		return 0, c.drained && c.fifoLen() == 0
	}

	for c.fifoLen() < want && !c.drained {
		if !c.readBlock() {
			break
		}
		c.processBlock()
	}

	n := min(want, c.fifoLen())

	// The flushed tail is block aligned; clip it to the true convolution
	// length when the source is finite.
	clipped := false
	if length := c.Length(); length != audio.LengthInfinite && c.position+n > length {
		n = max(length-c.position, 0)
		clipped = true
	}

	copy(dst[:n*channels], c.fifo[c.fifoOff:c.fifoOff+n*channels])
	c.fifoOff += n * channels
	c.position += n

	if clipped {
		c.drained = true
		c.fifo = c.fifo[:0]
		c.fifoOff = 0
	}

	// Compact once the consumed prefix dominates.
	if c.fifoOff > len(c.fifo)/2 {
		c.fifo = append(c.fifo[:0], c.fifo[c.fifoOff:]...)
		c.fifoOff = 0
	}

	return n, c.drained && c.fifoLen() == 0
}

func (c *Convolver) fifoLen() int {
	return (len(c.fifo) - c.fifoOff) / len(c.channels)
}
