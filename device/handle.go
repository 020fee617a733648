// SPDX-License-Identifier: EPL-2.0

package device

import (
	"math"

	"github.com/google/uuid"
	"github.com/ik5/audengine/audio"
)

// Handle is a reference to one live stream on a device. All operations take
// the device lock, re-check validity under it, and report whether the
// requested transition applied. Operations on an invalid handle fail without
// side effects.
type Handle struct {
	id     uuid.UUID
	device *Device
	reader audio.Reader
	source Source

	current   int
	eos       bool
	loopCount int
	keep      bool
	status    Status

	stopfn    func()
	stopFired bool

	volume      float32
	pitch       float64
	relative    bool
	location    Vector3
	velocity    Vector3
	orientation Quaternion
	coneInner   float64
	coneOuter   float64
	coneGain    float32
	volumeMin   float32
	volumeMax   float32
	distanceRef float64
	distanceMax float64
	attenuation float64
}

// ID returns the handle's identifier, stable for its whole lifetime.
func (h *Handle) ID() uuid.UUID {
	return h.id
}

// Status returns the handle's lifecycle state.
func (h *Handle) Status() Status {
	h.device.mtx.Lock()
	defer h.device.mtx.Unlock()
	return h.status
}

// Pause transitions a playing handle to paused, retaining its buffer ring.
func (h *Handle) Pause() bool {
	h.device.mtx.Lock()
	defer h.device.mtx.Unlock()
	return h.pauseLocked(false)
}

// pauseLocked moves the handle from playing to paused, or to stopped when
// the mixing loop parks a keep-handle at end of stream. List membership and
// the status change are one atomic step under the device lock.
func (h *Handle) pauseLocked(keep bool) bool {
	if h.status != StatusPlaying {
		return false
	}

	d := h.device
	for i, other := range d.playing {
		if other == h {
			d.playing = append(d.playing[:i], d.playing[i+1:]...)
			d.paused = append(d.paused, h)
			h.source.Stop()
			if keep {
				h.status = StatusStopped
			} else {
				h.status = StatusPaused
			}
			return true
		}
	}
	return false
}

// Resume transitions a paused handle back to playing.
func (h *Handle) Resume() bool {
	d := h.device
	d.mtx.Lock()
	defer d.mtx.Unlock()

	if h.status != StatusPaused {
		return false
	}

	for i, other := range d.paused {
		if other == h {
			d.paused = append(d.paused[:i], d.paused[i+1:]...)
			d.playing = append(d.playing, h)
			h.source.Play()
			h.status = StatusPlaying
			d.startLocked()
			return true
		}
	}
	return false
}

// Stop invalidates the handle and releases its backend resources.
func (h *Handle) Stop() bool {
	h.device.mtx.Lock()
	defer h.device.mtx.Unlock()
	return h.stopLocked()
}

func (h *Handle) stopLocked() bool {
	if h.status == StatusInvalid {
		return false
	}

	d := h.device
	h.status = StatusInvalid
	h.source.Destroy()
	if c, ok := h.reader.(interface{ Close() }); ok {
		c.Close()
	}

	for i, other := range d.playing {
		if other == h {
			d.playing = append(d.playing[:i], d.playing[i+1:]...)
			return true
		}
	}
	for i, other := range d.paused {
		if other == h {
			d.paused = append(d.paused[:i], d.paused[i+1:]...)
			return true
		}
	}
	return false
}

// Keep reports whether the handle parks instead of stopping at end of
// stream.
func (h *Handle) Keep() bool {
	h.device.mtx.Lock()
	defer h.device.mtx.Unlock()
	if h.status == StatusInvalid {
		return false
	}
	return h.keep
}

// SetKeep changes the end-of-stream policy of a live handle.
func (h *Handle) SetKeep(keep bool) bool {
	h.device.mtx.Lock()
	defer h.device.mtx.Unlock()
	if h.status == StatusInvalid {
		return false
	}
	h.keep = keep
	return true
}

// Seek repositions the stream to the given time in seconds. For streamed
// handles the backend queue is flushed and the buffer ring preloaded again.
// A stopped handle becomes paused.
func (h *Handle) Seek(seconds float64) bool {
	d := h.device
	d.mtx.Lock()
	defer d.mtx.Unlock()

	if h.status == StatusInvalid {
		return false
	}

	if seconds < 0 {
		seconds = 0
	}
	frame := int(seconds * float64(h.reader.Specs().Rate))
	h.reader.Seek(frame)
	h.eos = false

	if h.source.State() != SourcePlaying {
		h.source.Stop()
		h.source.Flush()
		h.current = 0

		for range CycleBuffers {
			n, eos := d.fillLocked(h)
			if eos {
				h.eos = true
			}
			if n == 0 {
				n = 1
				for i := range d.scratch[:d.specs.Channels.Count()] {
					d.scratch[i] = 0
				}
			}
			if err := d.queueLocked(h, n); err != nil {
				break
			}
		}
		if h.loopCount != 0 {
			h.eos = false
		}
	}

	if h.status == StatusStopped {
		h.status = StatusPaused
	}

	return true
}

// Position returns the playback position in seconds.
func (h *Handle) Position() float64 {
	d := h.device
	d.mtx.Lock()
	defer d.mtx.Unlock()

	if h.status == StatusInvalid {
		return 0
	}

	specs := h.reader.Specs()
	frames := h.reader.Position() - d.buffersize*CycleBuffers
	if frames < 0 {
		frames = 0
	}
	return float64(frames) / float64(specs.Rate)
}

// LoopCount returns the remaining number of restarts, LoopInfinite for
// forever.
func (h *Handle) LoopCount() int {
	h.device.mtx.Lock()
	defer h.device.mtx.Unlock()
	if h.status == StatusInvalid {
		return 0
	}
	return h.loopCount
}

// SetLoopCount updates the remaining restarts. A stopped handle becomes
// paused when the new count enables more material.
func (h *Handle) SetLoopCount(count int) bool {
	h.device.mtx.Lock()
	defer h.device.mtx.Unlock()

	if h.status == StatusInvalid {
		return false
	}

	if h.status == StatusStopped && (count > h.loopCount || count < 0) {
		h.status = StatusPaused
		h.eos = false
	}
	h.loopCount = count
	return true
}

// SetStopCallback arms a callback fired at most once, by the mixing loop,
// when the handle reaches natural end of stream.
func (h *Handle) SetStopCallback(fn func()) bool {
	h.device.mtx.Lock()
	defer h.device.mtx.Unlock()

	if h.status == StatusInvalid {
		return false
	}
	h.stopfn = fn
	return true
}

// fireStopCallbackLocked invokes the armed callback exactly once. A callback
// that panics is recovered and logged; it never kills the mixing loop.
func (h *Handle) fireStopCallbackLocked() {
	if h.stopfn == nil || h.stopFired {
		return
	}
	h.stopFired = true

	fn := h.stopfn
	defer func() {
		if r := recover(); r != nil {
			h.device.logger.Error("stop callback panicked", "handle", h.id, "panic", r)
		}
	}()
	fn()
}

// Volume returns the handle gain, or NaN when the handle is invalid.
func (h *Handle) Volume() float32 {
	h.device.mtx.Lock()
	defer h.device.mtx.Unlock()
	if h.status == StatusInvalid {
		return float32(math.NaN())
	}
	return h.volume
}

// SetVolume sets the handle gain.
func (h *Handle) SetVolume(volume float32) bool {
	h.device.mtx.Lock()
	defer h.device.mtx.Unlock()
	if h.status == StatusInvalid {
		return false
	}
	h.volume = volume
	return true
}

// Pitch returns the pitch factor, or NaN when the handle is invalid.
func (h *Handle) Pitch() float64 {
	h.device.mtx.Lock()
	defer h.device.mtx.Unlock()
	if h.status == StatusInvalid {
		return math.NaN()
	}
	return h.pitch
}

// SetPitch sets the pitch factor applied by the backend.
func (h *Handle) SetPitch(pitch float64) bool {
	h.device.mtx.Lock()
	defer h.device.mtx.Unlock()
	if h.status == StatusInvalid || pitch <= 0 {
		return false
	}
	h.pitch = pitch
	return true
}

// 3-D source attributes. Setters write through to the gain model evaluated
// by the mixing loop; getters read the current state back.

func (h *Handle) Location() Vector3 {
	h.device.mtx.Lock()
	defer h.device.mtx.Unlock()
	if h.status == StatusInvalid {
		return Vector3{}
	}
	return h.location
}

func (h *Handle) SetLocation(v Vector3) bool {
	h.device.mtx.Lock()
	defer h.device.mtx.Unlock()
	if h.status == StatusInvalid {
		return false
	}
	h.location = v
	return true
}

func (h *Handle) Velocity() Vector3 {
	h.device.mtx.Lock()
	defer h.device.mtx.Unlock()
	if h.status == StatusInvalid {
		return Vector3{}
	}
	return h.velocity
}

func (h *Handle) SetVelocity(v Vector3) bool {
	h.device.mtx.Lock()
	defer h.device.mtx.Unlock()
	if h.status == StatusInvalid {
		return false
	}
	h.velocity = v
	return true
}

func (h *Handle) Orientation() Quaternion {
	h.device.mtx.Lock()
	defer h.device.mtx.Unlock()
	if h.status == StatusInvalid {
		return Quaternion{W: 1}
	}
	return h.orientation
}

func (h *Handle) SetOrientation(q Quaternion) bool {
	h.device.mtx.Lock()
	defer h.device.mtx.Unlock()
	if h.status == StatusInvalid {
		return false
	}
	h.orientation = q
	return true
}

func (h *Handle) Relative() bool {
	h.device.mtx.Lock()
	defer h.device.mtx.Unlock()
	if h.status == StatusInvalid {
		return false
	}
	return h.relative
}

func (h *Handle) SetRelative(relative bool) bool {
	h.device.mtx.Lock()
	defer h.device.mtx.Unlock()
	if h.status == StatusInvalid {
		return false
	}
	h.relative = relative
	return true
}

func (h *Handle) ConeAngleInner() float64 {
	h.device.mtx.Lock()
	defer h.device.mtx.Unlock()
	if h.status == StatusInvalid {
		return math.NaN()
	}
	return h.coneInner
}

func (h *Handle) SetConeAngleInner(angle float64) bool {
	h.device.mtx.Lock()
	defer h.device.mtx.Unlock()
	if h.status == StatusInvalid {
		return false
	}
	h.coneInner = angle
	return true
}

func (h *Handle) ConeAngleOuter() float64 {
	h.device.mtx.Lock()
	defer h.device.mtx.Unlock()
	if h.status == StatusInvalid {
		return math.NaN()
	}
	return h.coneOuter
}

func (h *Handle) SetConeAngleOuter(angle float64) bool {
	h.device.mtx.Lock()
	defer h.device.mtx.Unlock()
	if h.status == StatusInvalid {
		return false
	}
	h.coneOuter = angle
	return true
}

func (h *Handle) ConeVolumeOuter() float32 {
	h.device.mtx.Lock()
	defer h.device.mtx.Unlock()
	if h.status == StatusInvalid {
		return float32(math.NaN())
	}
	return h.coneGain
}

func (h *Handle) SetConeVolumeOuter(volume float32) bool {
	h.device.mtx.Lock()
	defer h.device.mtx.Unlock()
	if h.status == StatusInvalid {
		return false
	}
	h.coneGain = volume
	return true
}

func (h *Handle) VolumeMinimum() float32 {
	h.device.mtx.Lock()
	defer h.device.mtx.Unlock()
	if h.status == StatusInvalid {
		return float32(math.NaN())
	}
	return h.volumeMin
}

func (h *Handle) SetVolumeMinimum(volume float32) bool {
	h.device.mtx.Lock()
	defer h.device.mtx.Unlock()
	if h.status == StatusInvalid {
		return false
	}
	h.volumeMin = volume
	return true
}

func (h *Handle) VolumeMaximum() float32 {
	h.device.mtx.Lock()
	defer h.device.mtx.Unlock()
	if h.status == StatusInvalid {
		return float32(math.NaN())
	}
	return h.volumeMax
}

func (h *Handle) SetVolumeMaximum(volume float32) bool {
	h.device.mtx.Lock()
	defer h.device.mtx.Unlock()
	if h.status == StatusInvalid {
		return false
	}
	h.volumeMax = volume
	return true
}

func (h *Handle) DistanceReference() float64 {
	h.device.mtx.Lock()
	defer h.device.mtx.Unlock()
	if h.status == StatusInvalid {
		return math.NaN()
	}
	return h.distanceRef
}

func (h *Handle) SetDistanceReference(distance float64) bool {
	h.device.mtx.Lock()
	defer h.device.mtx.Unlock()
	if h.status == StatusInvalid {
		return false
	}
	h.distanceRef = distance
	return true
}

func (h *Handle) DistanceMaximum() float64 {
	h.device.mtx.Lock()
	defer h.device.mtx.Unlock()
	if h.status == StatusInvalid {
		return math.NaN()
	}
	return h.distanceMax
}

func (h *Handle) SetDistanceMaximum(distance float64) bool {
	h.device.mtx.Lock()
	defer h.device.mtx.Unlock()
	if h.status == StatusInvalid {
		return false
	}
	h.distanceMax = distance
	return true
}

func (h *Handle) Attenuation() float64 {
	h.device.mtx.Lock()
	defer h.device.mtx.Unlock()
	if h.status == StatusInvalid {
		return math.NaN()
	}
	return h.attenuation
}

func (h *Handle) SetAttenuation(factor float64) bool {
	h.device.mtx.Lock()
	defer h.device.mtx.Unlock()
	if h.status == StatusInvalid {
		return false
	}
	h.attenuation = factor
	return true
}
