// SPDX-License-Identifier: EPL-2.0

// Package device schedules concurrent streams onto an audio output.
//
// A Device owns one Output backend, the lists of playing and paused handles
// and a lazily spawned mixing goroutine. The goroutine refills each
// handle's small ring of backend buffers, handles looping and end of
// stream, fires stop callbacks and winds itself down when no stream is
// playing:
//
//	out := device.NewOtoOutput()
//	dev, err := device.New(out, audio.DeviceSpecs{
//	    Specs:  audio.Specs{Rate: audio.Rate48000, Channels: audio.ChannelsStereo},
//	    Format: audio.FormatS16,
//	}, 1024)
//	handle, err := dev.Play(reader, false)
//
// Handles expose transport control (Pause, Resume, Stop, Seek), volume and
// pitch, looping, a stop callback and the 3-D source attributes. All handle
// operations lock the device, so state transitions are atomic with list
// membership.
//
// NewNullOutput provides a silent sink for headless use;
// NewCapturingNullOutput additionally records the rendered stream for
// inspection in tests. Positional attenuation (distance models, cones,
// gain bounds) is computed in software, so every backend behaves the same.
package device
