package prefetch

import (
	"fmt"
	"image"
	"image/color"
	"sync"
	"sync/atomic"

	"golang.org/x/image/draw"
)

// maxFreePerSize bounds how many released bitmaps of one size are kept
const maxFreePerSize = 32

// PlaceholderColor fills artifacts of items that failed to render
var PlaceholderColor = color.RGBA{R: 0x9e, G: 0x9e, B: 0x9e, A: 0xff}

// Artifact is a rendered item preview backed by a pooled bitmap
type Artifact struct {
	ItemID      string
	Image       *image.RGBA
	Placeholder bool

	pool     *Pool
	released atomic.Bool
}

// Release returns the bitmap to its pool. Only the first call has an effect.
func (a *Artifact) Release() bool {
	if a == nil || !a.released.CompareAndSwap(false, true) {
		return false
	}
	if a.pool != nil {
		a.pool.put(a.Image)
	}
	a.Image = nil
	return true
}

// Released reports whether Release has run
func (a *Artifact) Released() bool {
	return a.released.Load()
}

// Pool recycles preview bitmaps by size and counts the ones handed out
type Pool struct {
	mu          sync.Mutex
	free        map[image.Point][]*image.RGBA
	outstanding int
	allocated   int
	released    int
}

// NewPool creates an empty bitmap pool
func NewPool() *Pool {
	return &Pool{free: make(map[image.Point][]*image.RGBA)}
}

// Get returns a cleared w x h bitmap
func (p *Pool) Get(w, h int) *image.RGBA {
	if w <= 0 || h <= 0 {
		panic(fmt.Sprintf("prefetch: invalid bitmap size %dx%d", w, h))
	}
	size := image.Pt(w, h)

	p.mu.Lock()
	defer p.mu.Unlock()

	p.outstanding++
	if list := p.free[size]; len(list) > 0 {
		img := list[len(list)-1]
		p.free[size] = list[:len(list)-1]
		clear(img.Pix)
		return img
	}
	p.allocated++
	return image.NewRGBA(image.Rect(0, 0, w, h))
}

// Wrap turns a bitmap obtained from Get into an artifact
func (p *Pool) Wrap(itemID string, img *image.RGBA) *Artifact {
	return &Artifact{ItemID: itemID, Image: img, pool: p}
}

// Placeholder returns a flat w x h artifact marked as placeholder
func (p *Pool) Placeholder(itemID string, w, h int) *Artifact {
	img := p.Get(w, h)
	draw.Draw(img, img.Bounds(), image.NewUniform(PlaceholderColor), image.Point{}, draw.Src)
	a := p.Wrap(itemID, img)
	a.Placeholder = true
	return a
}

// Outstanding returns the number of bitmaps handed out and not yet released
func (p *Pool) Outstanding() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.outstanding
}

// Stats returns allocation and release counters
func (p *Pool) Stats() (allocated, released int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.allocated, p.released
}

func (p *Pool) put(img *image.RGBA) {
	if img == nil {
		return
	}
	size := img.Bounds().Size()

	p.mu.Lock()
	defer p.mu.Unlock()

	p.outstanding--
	p.released++
	if len(p.free[size]) < maxFreePerSize {
		p.free[size] = append(p.free[size], img)
	}
}

// ReleaseAll releases every artifact in list and reports how many were live
func ReleaseAll(list []*Artifact) int {
	n := 0
	for _, a := range list {
		if a.Release() {
			n++
		}
	}
	return n
}
