// SPDX-License-Identifier: EPL-2.0

package fx

import (
	"errors"
	"math"
	"testing"

	"github.com/ik5/audengine/audio"
	"github.com/ik5/audengine/gen"
	"github.com/ik5/audengine/internal/audiotest"
)

func impulseResponse(t *testing.T, samples []float32, rate audio.SampleRate, partSize int) *ImpulseResponse {
	t.Helper()

	clip, err := gen.NewBufferedData(samples, audio.Specs{Rate: rate, Channels: audio.ChannelsMono})
	if err != nil {
		t.Fatalf("NewBufferedData() error = %v", err)
	}
	r, _ := clip.CreateReader()

	ir, err := NewImpulseResponse(r, partSize)
	if err != nil {
		t.Fatalf("NewImpulseResponse() error = %v", err)
	}
	return ir
}

func TestNewImpulseResponse_Validation(t *testing.T) {
	t.Parallel()

	clip, _ := gen.NewBufferedData([]float32{1}, audio.Specs{Rate: audio.Rate8000, Channels: audio.ChannelsMono})

	r, _ := clip.CreateReader()
	if _, err := NewImpulseResponse(r, 100); !errors.Is(err, audio.ErrSpecs) {
		t.Errorf("non power of two error = %v, want ErrSpecs", err)
	}

	sine, _ := gen.NewSine(440, audio.Rate8000)
	if _, err := NewImpulseResponse(sine, 64); !errors.Is(err, audio.ErrSpecs) {
		t.Errorf("infinite source error = %v, want ErrSpecs", err)
	}
}

func TestConvolver_DeltaIdentity(t *testing.T) {
	t.Parallel()

	// Convolving with a unit impulse reproduces the input.
	delta := make([]float32, 1)
	delta[0] = 1
	ir := impulseResponse(t, delta, audio.Rate8000, 64)

	clip, _ := gen.NewBuffered(audiotest.NewSineReader(audio.Rate8000, audio.ChannelsMono, 500, 440))
	in, _ := clip.CreateReader()
	ref, _ := clip.CreateReader()

	conv, err := NewConvolver(in, ir, 1, 1)
	if err != nil {
		t.Fatalf("NewConvolver() error = %v", err)
	}
	defer conv.Close()

	out := drain(t, conv, 128)
	want := drain(t, ref, 128)
	if len(out) != len(want) {
		t.Fatalf("produced %d frames, want %d", len(out), len(want))
	}
	for i := range want {
		if math.Abs(float64(out[i]-want[i])) > 1e-4 {
			t.Fatalf("out[%d] = %v, want %v", i, out[i], want[i])
		}
	}
}

func TestConvolver_ImpulseInput(t *testing.T) {
	t.Parallel()

	// An impulse through IR [1, 0.5, 0.25] must reproduce the IR followed
	// by zeros.
	ir := impulseResponse(t, []float32{1, 0.5, 0.25}, audio.Rate8000, 64)

	in := audiotest.NewImpulseReader(audio.Rate8000, audio.ChannelsMono, 200)
	conv, err := NewConvolver(in, ir, 2, 1)
	if err != nil {
		t.Fatalf("NewConvolver() error = %v", err)
	}
	defer conv.Close()

	out := drain(t, conv, 64)
	if len(out) != 202 {
		t.Fatalf("produced %d frames, want 202", len(out))
	}

	want := []float32{1, 0.5, 0.25}
	for i := range out {
		var expect float64
		if i < len(want) {
			expect = float64(want[i])
		}
		if math.Abs(float64(out[i])-expect) > 1e-4 {
			t.Fatalf("out[%d] = %v, want %v", i, out[i], expect)
		}
	}
}

func TestConvolver_MultiPartitionMatchesSinglePartition(t *testing.T) {
	t.Parallel()

	// A long IR split into many partitions must equal the one-partition
	// result.
	irSamples := make([]float32, 300)
	for i := range irSamples {
		irSamples[i] = float32(math.Exp(-float64(i) / 40))
	}

	small := impulseResponse(t, irSamples, audio.Rate8000, 64) // 5 partitions
	big := impulseResponse(t, irSamples, audio.Rate8000, 512)  // 1 partition

	clip, _ := gen.NewBuffered(audiotest.NewSineReader(audio.Rate8000, audio.ChannelsMono, 400, 220))
	inA, _ := clip.CreateReader()
	inB, _ := clip.CreateReader()

	convA, err := NewConvolver(inA, small, 2, 2)
	if err != nil {
		t.Fatalf("NewConvolver(small parts) error = %v", err)
	}
	defer convA.Close()
	convB, err := NewConvolver(inB, big, 1, 1)
	if err != nil {
		t.Fatalf("NewConvolver(one part) error = %v", err)
	}
	defer convB.Close()

	outA := drain(t, convA, 96)
	outB := drain(t, convB, 96)
	if len(outA) != len(outB) {
		t.Fatalf("lengths differ: %d vs %d", len(outA), len(outB))
	}
	for i := range outA {
		if math.Abs(float64(outA[i]-outB[i])) > 1e-3 {
			t.Fatalf("out[%d]: %v vs %v", i, outA[i], outB[i])
		}
	}
}

func TestConvolver_StereoBroadcastsMonoIR(t *testing.T) {
	t.Parallel()

	ir := impulseResponse(t, []float32{0.5}, audio.Rate8000, 64)

	in := audiotest.NewConstantReader(audio.Rate8000, audio.ChannelsStereo, 128, 1)
	conv, err := NewConvolver(in, ir, 1, 2)
	if err != nil {
		t.Fatalf("NewConvolver() error = %v", err)
	}
	defer conv.Close()

	out := drain(t, conv, 64)
	for i, s := range out {
		if math.Abs(float64(s)-0.5) > 1e-4 {
			t.Fatalf("out[%d] = %v, want 0.5", i, s)
		}
	}
}

func TestConvolver_RejectsRateMismatch(t *testing.T) {
	t.Parallel()

	ir := impulseResponse(t, []float32{1}, audio.Rate44100, 64)
	in := audiotest.NewSilentReader(audio.Rate8000, audio.ChannelsMono, 10)

	if _, err := NewConvolver(in, ir, 1, 1); !errors.Is(err, audio.ErrSpecs) {
		t.Errorf("rate mismatch error = %v, want ErrSpecs", err)
	}
}

func TestConvolver_RejectsChannelMismatch(t *testing.T) {
	t.Parallel()

	stereoIR := make([]float32, 4)
	clip, _ := gen.NewBufferedData(stereoIR, audio.Specs{Rate: audio.Rate8000, Channels: audio.ChannelsStereo})
	r, _ := clip.CreateReader()
	ir, err := NewImpulseResponse(r, 64)
	if err != nil {
		t.Fatalf("NewImpulseResponse() error = %v", err)
	}

	in := audiotest.NewSilentReader(audio.Rate8000, audio.ChannelsSurround4, 10)
	if _, err := NewConvolver(in, ir, 1, 1); !errors.Is(err, audio.ErrSpecs) {
		t.Errorf("channel mismatch error = %v, want ErrSpecs", err)
	}
}

func TestConvolverSound_SwapAffectsOnlyNewReaders(t *testing.T) {
	t.Parallel()

	first := impulseResponse(t, []float32{1}, audio.Rate8000, 64)
	second := impulseResponse(t, []float32{0.5}, audio.Rate8000, 64)

	clip, _ := gen.NewBuffered(audiotest.NewConstantReader(audio.Rate8000, audio.ChannelsMono, 256, 1))
	sound := NewConvolverSound(clip, first, 1, 1)

	oldReader, err := sound.CreateReader()
	if err != nil {
		t.Fatalf("CreateReader() error = %v", err)
	}
	old := oldReader.(*Convolver)
	defer old.Close()

	sound.SetImpulseResponse(second)

	newReader, err := sound.CreateReader()
	if err != nil {
		t.Fatalf("CreateReader() error = %v", err)
	}
	fresh := newReader.(*Convolver)
	defer fresh.Close()

	oldOut := drain(t, old, 64)
	freshOut := drain(t, fresh, 64)

	if math.Abs(float64(oldOut[10])-1) > 1e-4 {
		t.Errorf("extant reader output = %v, want 1 (bound IR untouched)", oldOut[10])
	}
	if math.Abs(float64(freshOut[10])-0.5) > 1e-4 {
		t.Errorf("new reader output = %v, want 0.5 (swapped IR)", freshOut[10])
	}
}

func TestConvolver_SeekResetsState(t *testing.T) {
	t.Parallel()

	ir := impulseResponse(t, []float32{1}, audio.Rate8000, 64)

	clip, _ := gen.NewBuffered(audiotest.NewRampReader(audio.Rate8000, audio.ChannelsMono, 256))
	in, _ := clip.CreateReader()

	conv, err := NewConvolver(in, ir, 1, 1)
	if err != nil {
		t.Fatalf("NewConvolver() error = %v", err)
	}
	defer conv.Close()

	buf := make([]float32, 128)
	conv.ReadFrames(buf)

	if !conv.Seek(0) {
		t.Fatal("Seek(0) failed")
	}
	if conv.Position() != 0 {
		t.Fatalf("Position() = %d, want 0", conv.Position())
	}

	out := drain(t, conv, 64)
	for i := range 64 {
		if math.Abs(float64(out[i])-float64(i)) > 1e-3 {
			t.Fatalf("out[%d] = %v, want %d after seek", i, out[i], i)
		}
	}
}
