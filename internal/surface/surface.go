package surface

import (
	"sync"

	"go.uber.org/zap"

	"github.com/iburimskiy/floating-particles/internal/logger"
)

// Dimensions is the pixel size of a drawing surface.
type Dimensions struct {
	Width, Height int
}

// Empty reports whether the surface has no drawable area.
func (d Dimensions) Empty() bool {
	return d.Width <= 0 || d.Height <= 0
}

// Container is anything with a measurable layout box.
type Container interface {
	Size() (width, height int)
}

// Fixed is a Container with a constant size.
type Fixed Dimensions

func (f Fixed) Size() (int, int) { return f.Width, f.Height }

type listener struct {
	id int
	fn func(Dimensions)
}

// Manager tracks the current surface size and fans resize events out to
// listeners. It is safe for concurrent use.
type Manager struct {
	log *zap.Logger

	mu        sync.Mutex
	dims      Dimensions
	listeners []listener
	nextID    int
}

func NewManager(log *zap.Logger) *Manager {
	return &Manager{log: logger.OrNop(log)}
}

// Initialize measures container and adopts its size. It reports false and
// leaves the manager untouched when the container is missing or has no area.
func (m *Manager) Initialize(c Container) (Dimensions, bool) {
	if c == nil {
		return Dimensions{}, false
	}
	w, h := c.Size()
	d := Dimensions{Width: w, Height: h}
	if d.Empty() {
		m.log.Debug("container has no area", zap.Int("width", w), zap.Int("height", h))
		return d, false
	}

	m.mu.Lock()
	m.dims = d
	m.mu.Unlock()
	return d, true
}

// Dimensions returns the current surface size.
func (m *Manager) Dimensions() Dimensions {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dims
}

// OnResize registers fn for resize notifications. The returned function
// removes the registration and may be called any number of times.
func (m *Manager) OnResize(fn func(Dimensions)) (deregister func()) {
	m.mu.Lock()
	id := m.nextID
	m.nextID++
	m.listeners = append(m.listeners, listener{id: id, fn: fn})
	m.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() { m.remove(id) })
	}
}

func (m *Manager) remove(id int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, l := range m.listeners {
		if l.id == id {
			m.listeners = append(m.listeners[:i], m.listeners[i+1:]...)
			return
		}
	}
}

// Listeners returns the number of registered listeners.
func (m *Manager) Listeners() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.listeners)
}

// Resize stores d and notifies listeners in registration order. Resizing to
// the current size is a no-op.
func (m *Manager) Resize(d Dimensions) {
	m.mu.Lock()
	if d == m.dims {
		m.mu.Unlock()
		return
	}
	m.dims = d
	fns := make([]func(Dimensions), len(m.listeners))
	for i, l := range m.listeners {
		fns[i] = l.fn
	}
	m.mu.Unlock()

	m.log.Debug("surface resized", zap.Int("width", d.Width), zap.Int("height", d.Height))
	for _, fn := range fns {
		fn(d)
	}
}

// Measure re-reads the container size and resizes if it changed. Hosts that
// learn about viewport changes by polling call this once per frame.
func (m *Manager) Measure(c Container) {
	if c == nil {
		return
	}
	w, h := c.Size()
	m.Resize(Dimensions{Width: w, Height: h})
}
