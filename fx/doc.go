// SPDX-License-Identifier: EPL-2.0

// Package fx provides the effect readers of the processing graph.
//
// Every effect wraps one or more upstream readers and implements the Reader
// contract itself, so effects compose freely:
//
//	sine, _ := gen.NewSine(440, audio.Rate48000)
//	faded, _ := fx.NewFadeIn(fx.NewVolume(sine, 0.5), 0, 0.1)
//
// Effects that need their whole input up front (reverse, pingpong) require a
// finite, seekable upstream and fail construction otherwise. Effects over
// two inputs (mix, join) require both inputs to share specs.
//
// # Convolution
//
// The convolver performs partitioned overlap-save FFT convolution against a
// precomputed ImpulseResponse:
//
//	ir, _ := fx.NewImpulseResponse(clipReader, 1024)
//	conv, _ := fx.NewConvolver(input, ir, 2, 2)
//	defer conv.Close()
//
// The impulse response is transformed once and shared by any number of
// readers. A ConvolverSound pairs a sound with a swappable impulse response;
// swapping affects only readers created afterwards.
package fx
