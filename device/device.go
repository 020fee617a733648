// SPDX-License-Identifier: EPL-2.0

package device

import (
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/ik5/audengine/audio"
)

// CycleBuffers is the number of backend-side buffers rotated per handle to
// give the output prefetch without large latency.
const CycleBuffers = 3

// Status is the lifecycle state of a handle.
type Status int

const (
	// StatusInvalid is terminal; every operation on an invalid handle fails
	// without side effects.
	StatusInvalid Status = iota
	StatusPlaying
	StatusPaused
	StatusStopped
)

func (s Status) String() string {
	switch s {
	case StatusPlaying:
		return "playing"
	case StatusPaused:
		return "paused"
	case StatusStopped:
		return "stopped"
	default:
		return "invalid"
	}
}

// DistanceModel selects the attenuation curve applied to positional sources.
type DistanceModel int

const (
	DistanceModelInvalid DistanceModel = iota
	DistanceModelInverse
	DistanceModelInverseClamped
	DistanceModelLinear
	DistanceModelLinearClamped
	DistanceModelExponent
	DistanceModelExponentClamped
	DistanceModelNone
)

// LoopInfinite makes a handle restart its reader forever.
const LoopInfinite = -1

// Device schedules any number of concurrent streams onto one Output. A
// background mixing goroutine, spawned lazily on the first play and
// re-spawnable after it winds down, refills the per-handle buffer rings,
// reacts to end of stream, looping and state changes, and invokes stop
// callbacks.
type Device struct {
	output     Output
	specs      audio.DeviceSpecs
	buffersize int
	tick       time.Duration
	logger     *slog.Logger

	mtx     sync.Mutex
	playing []*Handle
	paused  []*Handle
	running bool
	closed  bool
	fatal   error
	done    chan struct{} // closed when the mixing goroutine exits

	buffer  *audio.SampleBuffer
	scratch []float32

	volume        float32
	listenerLoc   Vector3
	listenerVel   Vector3
	listenerOrt   Quaternion
	speedOfSound  float64
	dopplerFactor float64
	distanceModel DistanceModel
}

// Option configures a Device.
type Option func(*Device)

// WithTick overrides the mixing loop sleep interval. Tests use a short tick
// to drain streams quickly.
func WithTick(tick time.Duration) Option {
	return func(d *Device) { d.tick = tick }
}

// WithLogger overrides the device logger.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Device) { d.logger = logger }
}

// New opens the output at the requested specs and returns a device with an
// idle mixing loop. buffersize is the per-refill frame count.
func New(output Output, specs audio.DeviceSpecs, buffersize int, opts ...Option) (*Device, error) {
	if !specs.Valid() {
		return nil, fmt.Errorf("device: %w", audio.ErrSpecs)
	}
	if buffersize <= 0 {
		return nil, fmt.Errorf("device: buffersize %d: %w", buffersize, audio.ErrSpecs)
	}

	effective, err := output.Open(specs, buffersize)
	if err != nil {
		return nil, fmt.Errorf("device: open output: %w", err)
	}

	d := &Device{
		output:        output,
		specs:         effective,
		buffersize:    buffersize,
		tick:          20 * time.Millisecond,
		logger:        slog.Default(),
		buffer:        audio.NewSampleBuffer(buffersize * effective.FrameSize()),
		scratch:       make([]float32, buffersize*effective.Channels.Count()),
		volume:        1,
		speedOfSound:  343.3,
		dopplerFactor: 1,
		distanceModel: DistanceModelInverseClamped,
	}
	for _, opt := range opts {
		opt(d)
	}

	return d, nil
}

// Specs returns the effective device specs fixed at construction.
func (d *Device) Specs() audio.DeviceSpecs {
	return d.specs
}

// Play starts a new stream over the reader. keep parks the handle in
// StatusStopped at natural end of stream instead of destroying it. A nil
// handle and an error are returned when the reader cannot be brought into
// the device layout.
func (d *Device) Play(reader audio.Reader, keep bool) (*Handle, error) {
	specs := reader.Specs()
	if !specs.Valid() {
		return nil, fmt.Errorf("device: play: %w", audio.ErrSpecs)
	}

	// Bring the stream into the device rate and layout.
	if specs.Rate != d.specs.Rate || specs.Channels != d.specs.Channels {
		conv, err := audio.NewConverter(reader, d.specs)
		if err != nil {
			return nil, fmt.Errorf("device: play: %w", err)
		}
		reader = conv
	}

	d.mtx.Lock()
	defer d.mtx.Unlock()

	if d.closed {
		return nil, fmt.Errorf("device: closed: %w", audio.ErrDevice)
	}
	if d.fatal != nil {
		return nil, fmt.Errorf("device: %w", d.fatal)
	}

	source, err := d.output.NewSource()
	if err != nil {
		return nil, fmt.Errorf("device: play: %w", err)
	}

	h := &Handle{
		id:          uuid.New(),
		device:      d,
		reader:      reader,
		source:      source,
		keep:        keep,
		status:      StatusPlaying,
		volume:      1,
		pitch:       1,
		relative:    true,
		orientation: Quaternion{W: 1},
		coneInner:   360,
		coneOuter:   360,
		coneGain:    1,
		volumeMin:   0,
		volumeMax:   1,
		distanceRef: 1,
		distanceMax: math.MaxFloat64,
		attenuation: 1,
	}

	// Preload the buffer ring so the backend has prefetch from the start.
	// End of stream is not latched here; the mixing loop discovers it on
	// the first refill.
	for range CycleBuffers {
		n, _ := d.fillLocked(h)
		if n == 0 {
			// Keep the queue non-empty with one silent frame.
			n = 1
			for i := range d.scratch[:d.specs.Channels.Count()] {
				d.scratch[i] = 0
			}
		}
		if err := d.queueLocked(h, n); err != nil {
			source.Destroy()
			return nil, fmt.Errorf("device: play: %w", err)
		}
	}

	d.playing = append(d.playing, h)
	source.Play()
	d.startLocked()

	d.logger.Debug("stream started", "handle", h.id, "keep", keep)
	return h, nil
}

// PlaySound creates a fresh reader from the sound and plays it.
func (d *Device) PlaySound(sound audio.Sound, keep bool) (*Handle, error) {
	reader, err := sound.CreateReader()
	if err != nil {
		return nil, err
	}
	return d.Play(reader, keep)
}

// StopAll invalidates every playing and paused handle.
func (d *Device) StopAll() {
	d.mtx.Lock()
	defer d.mtx.Unlock()

	for len(d.playing) > 0 {
		d.playing[0].stopLocked()
	}
	for len(d.paused) > 0 {
		d.paused[0].stopLocked()
	}
}

// Close stops all handles, waits for the mixing goroutine to exit and
// releases the output.
func (d *Device) Close() error {
	d.mtx.Lock()
	if d.closed {
		d.mtx.Unlock()
		return nil
	}
	d.closed = true
	for len(d.playing) > 0 {
		d.playing[0].stopLocked()
	}
	for len(d.paused) > 0 {
		d.paused[0].stopLocked()
	}
	done := d.done
	d.mtx.Unlock()

	if done != nil {
		<-done
	}
	return d.output.Close()
}

// Volume returns the master volume.
func (d *Device) Volume() float32 {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	return d.volume
}

// SetVolume scales the listener gain applied to every stream.
func (d *Device) SetVolume(volume float32) {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	d.volume = volume
}

// Listener controls.

func (d *Device) ListenerLocation() Vector3 {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	return d.listenerLoc
}

func (d *Device) SetListenerLocation(v Vector3) {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	d.listenerLoc = v
}

func (d *Device) ListenerVelocity() Vector3 {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	return d.listenerVel
}

func (d *Device) SetListenerVelocity(v Vector3) {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	d.listenerVel = v
}

func (d *Device) ListenerOrientation() Quaternion {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	return d.listenerOrt
}

func (d *Device) SetListenerOrientation(q Quaternion) {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	d.listenerOrt = q
}

func (d *Device) SpeedOfSound() float64 {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	return d.speedOfSound
}

func (d *Device) SetSpeedOfSound(speed float64) {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	d.speedOfSound = speed
}

func (d *Device) DopplerFactor() float64 {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	return d.dopplerFactor
}

func (d *Device) SetDopplerFactor(factor float64) {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	d.dopplerFactor = factor
}

func (d *Device) DistanceModel() DistanceModel {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	return d.distanceModel
}

func (d *Device) SetDistanceModel(model DistanceModel) {
	d.mtx.Lock()
	defer d.mtx.Unlock()
	d.distanceModel = model
}

// startLocked spawns the mixing goroutine if it is not running. The caller
// holds the device lock.
func (d *Device) startLocked() {
	if d.running {
		return
	}
	d.running = true
	d.done = make(chan struct{})
	go d.run(d.done)
}

// run is the mixing loop. It acquires the device lock once per pass, never
// holding it across the sleep.
func (d *Device) run(done chan struct{}) {
	defer close(done)

	for {
		d.mtx.Lock()

		if err := d.output.Err(); err != nil {
			d.fatal = err
			d.running = false
			d.logger.Error("output failed, mixing loop terminating", "error", err)
			d.mtx.Unlock()
			return
		}

		var toPause, toStop []*Handle
		for _, h := range d.playing {
			d.updateLocked(h, &toPause, &toStop)
		}
		for _, h := range toPause {
			h.pauseLocked(true)
		}
		for _, h := range toStop {
			h.stopLocked()
		}

		if len(d.playing) == 0 {
			d.running = false
			d.mtx.Unlock()
			return
		}

		d.mtx.Unlock()
		time.Sleep(d.tick)
	}
}

// updateLocked refills one handle's consumed buffers and reacts to its
// playback state. Failures for a single handle mark it eos and never
// terminate the loop.
func (d *Device) updateLocked(h *Handle, toPause, toStop *[]*Handle) {
	processed := h.source.Processed()

	for range processed {
		if h.eos {
			break
		}

		n, eos := d.fillLocked(h)
		if eos {
			h.eos = true
		}

		if n == 0 && h.loopCount != 0 {
			if h.loopCount > 0 {
				h.loopCount--
			}
			h.reader.Seek(0)
			n, eos = d.fillLocked(h)
			h.eos = eos
		}
		if h.loopCount != 0 {
			h.eos = false
		}
		if n == 0 {
			h.eos = true
			break
		}

		if _, ok := h.source.Unqueue(); !ok {
			h.eos = true
			break
		}
		if err := d.queueLocked(h, n); err != nil {
			d.logger.Warn("buffer refill failed", "handle", h.id, "error", err)
			h.eos = true
			break
		}
		h.current = (h.current + 1) % CycleBuffers
	}

	if h.source.State() != SourcePlaying {
		if h.eos {
			h.fireStopCallbackLocked()
			if h.keep {
				*toPause = append(*toPause, h)
			} else {
				*toStop = append(*toStop, h)
			}
		} else {
			// Underrun; kick the source back into motion.
			h.source.Play()
		}
	}
}

// fillLocked reads up to buffersize frames from the handle's reader into the
// device scratch and applies the gain model. The caller decides whether the
// end-of-stream flag is latched on the handle.
func (d *Device) fillLocked(h *Handle) (int, bool) {
	n, eos := h.reader.ReadFrames(d.scratch)
	if n > 0 {
		d.applyGainLocked(h, d.scratch[:n*d.specs.Channels.Count()])
	}
	return n, eos
}

// queueLocked encodes n scratch frames into the device format and queues
// them on the handle's source.
func (d *Device) queueLocked(h *Handle, n int) error {
	bytes := n * d.specs.FrameSize()
	d.buffer.EnsureSize(bytes)
	buf := d.buffer.Bytes(bytes)
	audio.EncodeFrames(buf, d.scratch[:n*d.specs.Channels.Count()], d.specs.Format)

	queued := make([]byte, bytes)
	copy(queued, buf)
	return h.source.Queue(queued)
}

// applyGainLocked scales the frames with the master volume, the handle gain
// and the positional attenuation. This is the software rendition of the
// hardware listener model, shared by every backend.
func (d *Device) applyGainLocked(h *Handle, samples []float32) {
	gain := d.volume * h.volume * float32(d.positionalGainLocked(h))
	if gain == 1 {
		return
	}
	for i := range samples {
		samples[i] *= gain
	}
}

// positionalGainLocked evaluates the distance model and cone for a handle.
func (d *Device) positionalGainLocked(h *Handle) float64 {
	if d.distanceModel == DistanceModelNone {
		return 1
	}

	var offset Vector3
	if h.relative {
		offset = h.location
	} else {
		offset = h.location.Sub(d.listenerLoc)
	}
	distance := offset.Norm()

	ref := h.distanceRef
	maxDist := h.distanceMax
	rolloff := h.attenuation

	clamped := func() float64 {
		return math.Min(math.Max(distance, ref), maxDist)
	}

	var gain float64
	switch d.distanceModel {
	case DistanceModelInverse:
		gain = inverseGain(distance, ref, rolloff)
	case DistanceModelInverseClamped:
		gain = inverseGain(clamped(), ref, rolloff)
	case DistanceModelLinear:
		gain = linearGain(distance, ref, maxDist, rolloff)
	case DistanceModelLinearClamped:
		gain = linearGain(clamped(), ref, maxDist, rolloff)
	case DistanceModelExponent:
		gain = exponentGain(distance, ref, rolloff)
	case DistanceModelExponentClamped:
		gain = exponentGain(clamped(), ref, rolloff)
	default:
		gain = 1
	}

	gain *= d.coneGainLocked(h, offset, distance)

	return math.Min(math.Max(gain, float64(h.volumeMin)), float64(h.volumeMax))
}

// coneGainLocked attenuates a source whose listener sits outside its inner
// cone.
func (d *Device) coneGainLocked(h *Handle, offset Vector3, distance float64) float64 {
	if h.coneOuter >= 360 || distance == 0 {
		return 1
	}

	// Angle between the source direction and the vector towards the
	// listener.
	forward := h.orientation.Forward()
	toListener := Vector3{-offset.X / distance, -offset.Y / distance, -offset.Z / distance}
	angle := math.Acos(math.Min(math.Max(forward.Dot(toListener), -1), 1)) * 180 / math.Pi

	inner := h.coneInner / 2
	outer := h.coneOuter / 2
	switch {
	case angle <= inner:
		return 1
	case angle >= outer:
		return float64(h.coneGain)
	default:
		t := (angle - inner) / (outer - inner)
		return 1 + t*(float64(h.coneGain)-1)
	}
}

func inverseGain(distance, ref, rolloff float64) float64 {
	denom := ref + rolloff*(distance-ref)
	if denom <= 0 {
		return 1
	}
	return ref / denom
}

func linearGain(distance, ref, maxDist, rolloff float64) float64 {
	if maxDist == ref {
		return 1
	}
	gain := 1 - rolloff*(distance-ref)/(maxDist-ref)
	return math.Min(math.Max(gain, 0), 1)
}

func exponentGain(distance, ref, rolloff float64) float64 {
	if distance <= 0 || ref <= 0 {
		return 1
	}
	return math.Pow(distance/ref, -rolloff)
}
