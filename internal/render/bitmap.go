package render

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"strings"
	"sync"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// Sink receives every rendered frame.
type Sink func(frame *image.Gray) error

// Bitmap renders the face into an in-memory grayscale frame.
type Bitmap struct {
	mu         sync.Mutex
	background *image.Gray
	face       font.Face
	texts      [regionCount]string
	frame      *image.Gray
	sinks      []Sink
}

// NewBitmap creates a renderer over background. A nil background renders on black.
func NewBitmap(background image.Image, sinks ...Sink) *Bitmap {
	bg := image.NewGray(Bounds())
	if background != nil {
		xdraw.ApproxBiLinear.Scale(bg, bg.Bounds(), background, background.Bounds(), xdraw.Src, nil)
	}
	return &Bitmap{
		background: bg,
		face:       basicfont.Face7x13,
		frame:      cloneGray(bg),
		sinks:      sinks,
	}
}

// AddSink registers another frame consumer.
func (bitmap *Bitmap) AddSink(sink Sink) {
	if sink == nil {
		return
	}
	bitmap.mu.Lock()
	bitmap.sinks = append(bitmap.sinks, sink)
	bitmap.mu.Unlock()
}

// SetTime replaces the time region text. It is drawn on the next Flush.
func (bitmap *Bitmap) SetTime(text string) { bitmap.set(RegionTime, text) }

// SetDate replaces the date region text. Lines are split on "\n".
func (bitmap *Bitmap) SetDate(text string) { bitmap.set(RegionDate, text) }

// SetWeather replaces the weather region text.
func (bitmap *Bitmap) SetWeather(text string) { bitmap.set(RegionWeather, text) }

// SetBattery replaces the battery region text.
func (bitmap *Bitmap) SetBattery(text string) { bitmap.set(RegionBattery, text) }

func (bitmap *Bitmap) set(region Region, text string) {
	bitmap.mu.Lock()
	bitmap.texts[region] = text
	bitmap.mu.Unlock()
}

// Text returns the current contents of a region.
func (bitmap *Bitmap) Text(region Region) string {
	bitmap.mu.Lock()
	defer bitmap.mu.Unlock()
	return bitmap.texts[region]
}

// Flush redraws the frame and hands it to every sink.
func (bitmap *Bitmap) Flush() error {
	bitmap.mu.Lock()
	frame := cloneGray(bitmap.background)
	for region := Region(0); region < regionCount; region++ {
		bitmap.drawRegion(frame, Layout[region], bitmap.texts[region])
	}
	bitmap.frame = frame
	sinks := append([]Sink(nil), bitmap.sinks...)
	bitmap.mu.Unlock()

	var errs []error
	for _, sink := range sinks {
		if err := sink(cloneGray(frame)); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Frame returns a copy of the last flushed frame.
func (bitmap *Bitmap) Frame() *image.Gray {
	bitmap.mu.Lock()
	defer bitmap.mu.Unlock()
	return cloneGray(bitmap.frame)
}

// PNGSink returns a sink that overwrites path with each frame.
func PNGSink(path string) Sink {
	return func(frame *image.Gray) error {
		return writePNG(path, frame)
	}
}

func writePNG(path string, frame image.Image) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}
	if err := png.Encode(file, frame); err != nil {
		file.Close()
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return file.Close()
}

func (bitmap *Bitmap) drawRegion(dst *image.Gray, area Area, text string) {
	if text == "" {
		return
	}
	lines := strings.Split(text, "\n")
	metrics := bitmap.face.Metrics()
	lineHeight := (metrics.Ascent + metrics.Descent).Round()

	width := 0
	for _, line := range lines {
		if w := font.MeasureString(bitmap.face, line).Round(); w > width {
			width = w
		}
	}
	if width == 0 {
		return
	}

	// Lay the text out at native size, then scale the mask into place.
	mask := image.NewAlpha(image.Rect(0, 0, width, lineHeight*len(lines)))
	drawer := &font.Drawer{Dst: mask, Src: image.Opaque, Face: bitmap.face}
	for i, line := range lines {
		lineWidth := drawer.MeasureString(line).Round()
		drawer.Dot = fixed.P((width-lineWidth)/2, i*lineHeight+metrics.Ascent.Round())
		drawer.DrawString(line)
	}

	scale := area.Scale
	if scale < 1 {
		scale = 1
	}
	w, h := mask.Bounds().Dx()*scale, mask.Bounds().Dy()*scale
	scaled := image.NewAlpha(image.Rect(0, 0, w, h))
	xdraw.NearestNeighbor.Scale(scaled, scaled.Bounds(), mask, mask.Bounds(), xdraw.Src, nil)

	center := image.Pt(
		(area.Rect.Min.X+area.Rect.Max.X)/2,
		(area.Rect.Min.Y+area.Rect.Max.Y)/2,
	)
	target := image.Rect(center.X-w/2, center.Y-h/2, center.X-w/2+w, center.Y-h/2+h).Intersect(area.Rect)
	xdraw.DrawMask(dst, target, image.NewUniform(area.Ink), image.Point{}, scaled,
		image.Pt(target.Min.X-(center.X-w/2), target.Min.Y-(center.Y-h/2)), xdraw.Over)
}

func cloneGray(src *image.Gray) *image.Gray {
	dst := image.NewGray(src.Bounds())
	copy(dst.Pix, src.Pix)
	return dst
}
