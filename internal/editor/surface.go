package editor

import (
	"image"
	"sync"

	"github.com/rm-hull/photo-editor/internal/pixel"
	"golang.org/x/image/draw"
)

// Surface is where a session shows its pixels. Implementations decide how
// they reach a screen.
type Surface interface {
	// Resize discards the contents and sets new dimensions.
	Resize(width, height int) error
	// PutImageData copies buf onto the surface with its top-left at (x, y),
	// clipped to the surface bounds.
	PutImageData(buf *pixel.Buffer, x, y int)
	// GetImageData reads back a region of the surface.
	GetImageData(r image.Rectangle) (*pixel.Buffer, error)
	// Bounds reports the surface size; it is empty before the first Resize.
	Bounds() image.Rectangle
}

// MemorySurface is an in-memory Surface, safe for concurrent readers.
type MemorySurface struct {
	mu  sync.RWMutex
	buf *pixel.Buffer
}

func NewMemorySurface() *MemorySurface {
	return &MemorySurface{}
}

func (m *MemorySurface) Resize(width, height int) error {
	buf, err := pixel.New(width, height)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.buf = buf
	m.mu.Unlock()
	return nil
}

func (m *MemorySurface) PutImageData(buf *pixel.Buffer, x, y int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.buf == nil || buf == nil {
		return
	}
	dst := m.buf.NRGBA()
	r := buf.Bounds().Add(image.Pt(x, y))
	draw.Draw(dst, r, buf.NRGBA(), image.Point{}, draw.Src)
}

func (m *MemorySurface) GetImageData(r image.Rectangle) (*pixel.Buffer, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.buf == nil {
		return nil, pixel.ErrInvalidDimension
	}
	return m.buf.SubImage(r)
}

func (m *MemorySurface) Bounds() image.Rectangle {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.buf == nil {
		return image.Rectangle{}
	}
	return m.buf.Bounds()
}
