package system

import (
	"errors"
	"fmt"
	"image"
	"sync"
)

// ErrPoolExhausted is returned when every canvas of the pool is in use.
var ErrPoolExhausted = errors.New("canvas pool exhausted")

// ErrCanvasTooLarge is returned for rectangles above the pixel limit.
var ErrCanvasTooLarge = errors.New("canvas too large")

// MaxCanvasPixels bounds a single canvas (about 64 MB of RGBA).
const MaxCanvasPixels = 16 << 20

// ImagePool reuses *image.RGBA canvases keyed by rectangle to keep GC
// pressure down when vouchers are rendered repeatedly.
type ImagePool struct {
	pools map[string]*sync.Pool
	mu    sync.RWMutex

	// limit caps outstanding canvases; zero means unbounded.
	limit int
	inUse int
	cmu   sync.Mutex
}

// NewImagePool creates a pool handing out at most limit canvases at a time.
func NewImagePool(limit int) *ImagePool {
	return &ImagePool{pools: make(map[string]*sync.Pool), limit: limit}
}

var globalPool = NewImagePool(0)

// SharedPool returns the process-wide pool.
func SharedPool() *ImagePool { return globalPool }

func (p *ImagePool) Get(rect image.Rectangle) *image.RGBA {
	key := rect.String()
	p.mu.RLock()
	pool, exists := p.pools[key]
	p.mu.RUnlock()

	if !exists {
		p.mu.Lock()
		// Double check
		pool, exists = p.pools[key]
		if !exists {
			pool = &sync.Pool{
				New: func() interface{} {
					return image.NewRGBA(rect)
				},
			}
			p.pools[key] = pool
		}
		p.mu.Unlock()
	}

	return pool.Get().(*image.RGBA)
}

func (p *ImagePool) Put(img *image.RGBA) {
	if img == nil {
		return
	}
	key := img.Rect.String()
	p.mu.RLock()
	pool, exists := p.pools[key]
	p.mu.RUnlock()

	if exists {
		pool.Put(img)
	}
}

// Acquire hands out a canvas, failing when the rectangle is empty or too
// large, or when the pool limit is reached.
func (p *ImagePool) Acquire(rect image.Rectangle) (*image.RGBA, error) {
	if rect.Empty() {
		return nil, fmt.Errorf("empty canvas %v", rect)
	}
	if rect.Dx()*rect.Dy() > MaxCanvasPixels {
		return nil, fmt.Errorf("%w: %dx%d", ErrCanvasTooLarge, rect.Dx(), rect.Dy())
	}

	p.cmu.Lock()
	if p.limit > 0 && p.inUse >= p.limit {
		p.cmu.Unlock()
		return nil, ErrPoolExhausted
	}
	p.inUse++
	p.cmu.Unlock()

	return p.Get(rect), nil
}

// Release returns a canvas obtained from Acquire.
func (p *ImagePool) Release(img *image.RGBA) {
	if img == nil {
		return
	}
	p.cmu.Lock()
	if p.inUse > 0 {
		p.inUse--
	}
	p.cmu.Unlock()
	p.Put(img)
}

// InUse reports how many acquired canvases are outstanding.
func (p *ImagePool) InUse() int {
	p.cmu.Lock()
	defer p.cmu.Unlock()
	return p.inUse
}
