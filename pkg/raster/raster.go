// Package raster paints frames of a headless carousel document.
//
// A frame shows the active original slide, every transition clone at its
// computed position and opacity, and the progress indicators as bars along
// the bottom edge. Frames are deterministic for a given document and
// instant, which makes them usable as visual fixtures:
//
//	r := raster.New(raster.DefaultOptions())
//	img := r.Frame(doc, clock.Now())
//	err := r.WriteFile("frames/0001.png", doc, clock.Now())
package raster

import (
	"bufio"
	"hash/fnv"
	"image"
	"image/draw"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/go-drift/carousel/pkg/carousel"
	"github.com/go-drift/carousel/pkg/dom"
)

// Theme holds the frame colors.
type Theme struct {
	Background Color
	Text       Color
	Progress   Color
	// Palette colors slides; a slide keeps its color across clones.
	Palette []Color
}

// Options configures a Renderer.
type Options struct {
	Width, Height int
	// ProgressHeight is the thickness of indicator bars in pixels.
	ProgressHeight int
	// LineHeight is the distance between text baselines.
	LineHeight int
	Padding    int
	Theme      Theme
	// Face draws text. Nil uses basicfont.Face7x13.
	Face font.Face
}

// DefaultOptions returns a 480x270 frame with a muted palette.
func DefaultOptions() Options {
	return Options{
		Width:          480,
		Height:         270,
		ProgressHeight: 4,
		LineHeight:     16,
		Padding:        12,
		Theme: Theme{
			Background: RGB(0x1e, 0x1e, 0x24),
			Text:       ColorWhite,
			Progress:   RGB(0xf5, 0xc2, 0x42),
			Palette: []Color{
				RGB(0x3b, 0x5b, 0xa5),
				RGB(0x2f, 0x8f, 0x6f),
				RGB(0xa5, 0x4b, 0x6e),
				RGB(0x8a, 0x6d, 0x3b),
				RGB(0x5a, 0x4f, 0x9e),
			},
		},
	}
}

// Renderer paints documents into images.
type Renderer struct {
	opts Options
}

// New creates a renderer. Zero sizes fall back to DefaultOptions.
func New(opts Options) *Renderer {
	def := DefaultOptions()
	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = def.Width, def.Height
	}
	if opts.ProgressHeight <= 0 {
		opts.ProgressHeight = def.ProgressHeight
	}
	if opts.LineHeight <= 0 {
		opts.LineHeight = def.LineHeight
	}
	if len(opts.Theme.Palette) == 0 {
		opts.Theme = def.Theme
	}
	if opts.Face == nil {
		opts.Face = basicfont.Face7x13
	}
	return &Renderer{opts: opts}
}

// Bounds returns the frame rectangle.
func (r *Renderer) Bounds() image.Rectangle {
	return image.Rect(0, 0, r.opts.Width, r.opts.Height)
}

// Frame paints doc as it appears at now.
func (r *Renderer) Frame(doc *dom.Document, now time.Time) *image.RGBA {
	img := image.NewRGBA(r.Bounds())
	r.fill(img, img.Bounds(), r.opts.Theme.Background)

	root := doc.Container()
	if root == nil {
		return img
	}
	for _, child := range root.Elements() {
		if _, ok := child.Attr(carousel.AttrSlide); !ok {
			continue
		}
		if !child.Clone() && !child.Active() {
			continue
		}
		tx, op := child.Computed(now)
		r.paintSlide(img, child, tx, op, now)
	}
	r.paintIndicators(img, root)
	return img
}

// SlideColor returns the panel color of a slide or of its clones.
func (r *Renderer) SlideColor(slide *dom.Element) Color {
	h := fnv.New32a()
	v, _ := slide.Attr(carousel.AttrSlide)
	h.Write([]byte(v))
	slide.Walk(func(e *dom.Element) bool {
		h.Write([]byte(e.Text))
		return true
	})
	palette := r.opts.Theme.Palette
	return palette[h.Sum32()%uint32(len(palette))]
}

func (r *Renderer) paintSlide(img *image.RGBA, slide *dom.Element, tx, op float64, now time.Time) {
	dx := r.offset(tx)
	rect := image.Rect(dx, 0, dx+r.opts.Width, r.opts.Height-r.opts.ProgressHeight)
	r.fill(img, rect, r.SlideColor(slide).Fade(op))

	line := 0
	var walk func(e *dom.Element, dx int, op float64)
	walk = func(e *dom.Element, dx int, op float64) {
		for _, child := range e.Elements() {
			ctx, cop := child.Computed(now)
			cdx, cop := dx+r.offset(ctx), op*cop
			if child.Text != "" {
				line++
				r.text(img, child.Text, cdx+r.opts.Padding, r.opts.Padding+line*r.opts.LineHeight, r.opts.Theme.Text.Fade(cop))
			}
			walk(child, cdx, cop)
		}
	}
	walk(slide, dx, op)
}

func (r *Renderer) paintIndicators(img *image.RGBA, root *dom.Element) {
	y1 := r.opts.Height
	y0 := y1 - r.opts.ProgressHeight
	root.Walk(func(e *dom.Element) bool {
		if e.Clone() {
			return false
		}
		s, ok := e.Indicator()
		if !ok || s.Opacity <= 0 {
			return true
		}
		w := int(float64(r.opts.Width) * clamp01(s.Progress))
		r.fill(img, image.Rect(0, y0, w, y1), r.opts.Theme.Progress.Fade(s.Opacity))
		return true
	})
}

// offset converts a translation in percent of the frame width to pixels.
func (r *Renderer) offset(percent float64) int {
	return int(percent / 100 * float64(r.opts.Width))
}

func (r *Renderer) fill(img *image.RGBA, rect image.Rectangle, c Color) {
	if c.Alpha() == 0 {
		return
	}
	draw.Draw(img, rect.Intersect(img.Bounds()), image.NewUniform(c.NRGBA()), image.Point{}, draw.Over)
}

func (r *Renderer) text(img *image.RGBA, s string, x, y int, c Color) {
	if c.Alpha() == 0 {
		return
	}
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c.NRGBA()),
		Face: r.opts.Face,
		Dot:  fixed.P(x, y),
	}
	d.DrawString(s)
}

// Encode writes the frame of doc at now as PNG.
func (r *Renderer) Encode(w io.Writer, doc *dom.Document, now time.Time) error {
	return png.Encode(w, r.Frame(doc, now))
}

// WriteFile writes the frame of doc at now to a PNG file, creating parent
// directories as needed.
func (r *Renderer) WriteFile(path string, doc *dom.Document, now time.Time) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	if err := r.Encode(w, doc, now); err != nil {
		f.Close()
		return err
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
