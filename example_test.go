// SPDX-License-Identifier: EPL-2.0

package audengine_test

import (
	"fmt"

	"github.com/ik5/audengine/audio"
	"github.com/ik5/audengine/fx"
	"github.com/ik5/audengine/gen"
)

// Example_processingGraph builds a small effect graph and pulls frames from
// it directly, without a device.
func Example_processingGraph() {
	sine, err := gen.NewSine(440, audio.Rate48000)
	if err != nil {
		fmt.Println("generator error:", err)
		return
	}

	// Half volume, a short fade in, trimmed to one second.
	faded, err := fx.NewFadeIn(fx.NewVolume(sine, 0.5), 0, 0.1)
	if err != nil {
		fmt.Println("fade error:", err)
		return
	}
	tone, err := fx.NewLimit(faded, 0, 1)
	if err != nil {
		fmt.Println("limit error:", err)
		return
	}

	buf := make([]float32, 1024)
	total := 0
	for {
		n, eos := tone.ReadFrames(buf)
		total += n
		if eos {
			break
		}
	}

	fmt.Printf("rendered %d frames at %g Hz\n", total, float64(tone.Specs().Rate))
	// Output:
	// rendered 48000 frames at 48000 Hz
}
