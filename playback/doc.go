// SPDX-License-Identifier: EPL-2.0

// Package playback groups live device handles into integer-keyed categories
// so whole sets of sounds can be paused, resumed, stopped or scaled at
// once:
//
//	mgr := playback.NewManager(dev)
//	mgr.Play(music, 0)
//	mgr.Play(effects, 1)
//	mgr.SetVolume(1, 0.5)
//	mgr.Pause(0)
//
// Dead handles accumulate until Clean reaps them.
package playback
