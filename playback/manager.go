// SPDX-License-Identifier: EPL-2.0

package playback

import (
	"log/slog"
	"sync"

	"github.com/ik5/audengine/audio"
	"github.com/ik5/audengine/device"
)

// category groups handles sharing a bulk-control scope and a volume scalar.
type category struct {
	volume  float32
	handles []*device.Handle
}

// Manager groups live handles into integer-keyed categories for bulk
// control. Its map is guarded by its own mutex. Pause, Resume, Stop,
// SetVolume and Play release that mutex before calling into the device;
// Clean reads each handle's status while holding it.
type Manager struct {
	device *device.Device
	logger *slog.Logger

	mtx        sync.Mutex
	categories map[uint]*category
}

// NewManager creates a playback manager over the device.
func NewManager(dev *device.Device) *Manager {
	return &Manager{
		device:     dev,
		logger:     slog.Default(),
		categories: make(map[uint]*category),
	}
}

// Play starts the sound and files the handle under the category, creating
// the category lazily. The category volume is applied to the new handle.
func (m *Manager) Play(sound audio.Sound, key uint) error {
	handle, err := m.device.PlaySound(sound, false)
	if err != nil {
		return err
	}

	m.mtx.Lock()
	cat, ok := m.categories[key]
	if !ok {
		cat = &category{volume: 1}
		m.categories[key] = cat
	}
	cat.handles = append(cat.handles, handle)
	volume := cat.volume
	m.mtx.Unlock()

	handle.SetVolume(volume)
	m.logger.Debug("sound filed into category", "category", key, "handle", handle.ID())
	return nil
}

// snapshot copies a category's handle list so device calls happen without
// the manager lock.
func (m *Manager) snapshot(key uint) ([]*device.Handle, bool) {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	cat, ok := m.categories[key]
	if !ok {
		return nil, false
	}
	handles := make([]*device.Handle, len(cat.handles))
	copy(handles, cat.handles)
	return handles, true
}

// Pause pauses every live handle in the category. It returns false for an
// unknown key.
func (m *Manager) Pause(key uint) bool {
	handles, ok := m.snapshot(key)
	if !ok {
		return false
	}
	for _, h := range handles {
		h.Pause()
	}
	return true
}

// Resume resumes every paused handle in the category. It returns false for
// an unknown key.
func (m *Manager) Resume(key uint) bool {
	handles, ok := m.snapshot(key)
	if !ok {
		return false
	}
	for _, h := range handles {
		h.Resume()
	}
	return true
}

// Stop invalidates every handle in the category. It returns false for an
// unknown key.
func (m *Manager) Stop(key uint) bool {
	handles, ok := m.snapshot(key)
	if !ok {
		return false
	}
	for _, h := range handles {
		h.Stop()
	}
	return true
}

// Volume returns the category volume and whether the category exists.
func (m *Manager) Volume(key uint) (float32, bool) {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	cat, ok := m.categories[key]
	if !ok {
		return 0, false
	}
	return cat.volume, true
}

// SetVolume stores the category volume and applies it to every live handle
// in the category. It returns false for an unknown key.
func (m *Manager) SetVolume(key uint, volume float32) bool {
	m.mtx.Lock()
	cat, ok := m.categories[key]
	if !ok {
		m.mtx.Unlock()
		return false
	}
	cat.volume = volume
	handles := make([]*device.Handle, len(cat.handles))
	copy(handles, cat.handles)
	m.mtx.Unlock()

	for _, h := range handles {
		h.SetVolume(volume)
	}
	return true
}

// AddCategory creates an empty category with the given volume, or updates
// the volume of an existing one.
func (m *Manager) AddCategory(key uint, volume float32) {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	if cat, ok := m.categories[key]; ok {
		cat.volume = volume
		return
	}
	m.categories[key] = &category{volume: volume}
}

// Clean drops invalid handles from every category.
func (m *Manager) Clean() {
	m.mtx.Lock()
	defer m.mtx.Unlock()

	for key, cat := range m.categories {
		kept := cat.handles[:0]
		for _, h := range cat.handles {
			if h.Status() != device.StatusInvalid {
				kept = append(kept, h)
			}
		}
		if dropped := len(cat.handles) - len(kept); dropped > 0 {
			m.logger.Debug("reaped dead handles", "category", key, "count", dropped)
		}
		cat.handles = kept
	}
}
