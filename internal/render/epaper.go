package render

import (
	"fmt"
	"image"
	"image/color"
	"log"
	"sync"

	xdraw "golang.org/x/image/draw"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/ssd1306/image1bit"
	"periph.io/x/devices/v3/waveshare2in13v4"
	"periph.io/x/host/v3"
)

// Panel is the subset of an e-paper driver used to show frames.
type Panel interface {
	Init() error
	Clear(color.Color) error
	Draw(r image.Rectangle, src image.Image, sp image.Point) error
	Sleep() error
	Halt() error
	Bounds() image.Rectangle
}

// EPaper pushes frames to an e-paper panel and sleeps it between refreshes.
type EPaper struct {
	mu       sync.Mutex
	panel    Panel
	port     spi.PortCloser
	sleeping bool
	logger   *log.Logger
}

// OpenEPaper initialises the Waveshare 2.13" v4 HAT on the default SPI port.
func OpenEPaper(logger *log.Logger) (*EPaper, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init host: %w", err)
	}

	port, err := spireg.Open("")
	if err != nil {
		return nil, fmt.Errorf("open spi: %w", err)
	}

	opts := waveshare2in13v4.EPD2in13v4
	hat, err := waveshare2in13v4.NewHat(port, &opts)
	if err != nil {
		port.Close()
		return nil, fmt.Errorf("open e-paper: %w", err)
	}

	paper, err := NewEPaper(hat, logger)
	if err != nil {
		port.Close()
		return nil, err
	}
	paper.port = port
	return paper, nil
}

// NewEPaper wraps an initialised panel driver and blanks it.
func NewEPaper(panel Panel, logger *log.Logger) (*EPaper, error) {
	if logger == nil {
		logger = log.Default()
	}
	if err := panel.Init(); err != nil {
		return nil, fmt.Errorf("init e-paper: %w", err)
	}
	if err := panel.Clear(color.White); err != nil {
		return nil, fmt.Errorf("clear e-paper: %w", err)
	}
	return &EPaper{panel: panel, logger: logger}, nil
}

// Push shows frame on the panel. It can be registered as a Bitmap sink.
func (paper *EPaper) Push(frame *image.Gray) error {
	paper.mu.Lock()
	defer paper.mu.Unlock()

	if paper.panel == nil {
		return nil
	}
	if paper.sleeping {
		if err := paper.panel.Init(); err != nil {
			return fmt.Errorf("wake e-paper: %w", err)
		}
		paper.sleeping = false
	}

	bounds := paper.panel.Bounds()
	img := FitFrame(frame, bounds)
	if err := paper.panel.Draw(bounds, img, image.Point{}); err != nil {
		return fmt.Errorf("draw e-paper: %w", err)
	}
	if err := paper.panel.Sleep(); err != nil {
		paper.logger.Printf("e-paper: sleep failed: %v", err)
		return nil
	}
	paper.sleeping = true
	return nil
}

// Close halts the panel and releases the SPI port.
func (paper *EPaper) Close() error {
	paper.mu.Lock()
	defer paper.mu.Unlock()

	if paper.panel == nil {
		return nil
	}
	err := paper.panel.Halt()
	paper.panel = nil
	if paper.port != nil {
		if closeErr := paper.port.Close(); err == nil {
			err = closeErr
		}
		paper.port = nil
	}
	return err
}

// FitFrame scales frame to the largest size that fits bounds, centered on white.
func FitFrame(frame image.Image, bounds image.Rectangle) *image1bit.VerticalLSB {
	img := image1bit.NewVerticalLSB(bounds)
	xdraw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, xdraw.Src)

	src := frame.Bounds()
	if src.Empty() || bounds.Empty() {
		return img
	}

	w, h := bounds.Dx(), src.Dy()*bounds.Dx()/src.Dx()
	if h > bounds.Dy() {
		w, h = src.Dx()*bounds.Dy()/src.Dy(), bounds.Dy()
	}
	offset := image.Pt(bounds.Min.X+(bounds.Dx()-w)/2, bounds.Min.Y+(bounds.Dy()-h)/2)
	target := image.Rectangle{Min: offset, Max: offset.Add(image.Pt(w, h))}
	xdraw.ApproxBiLinear.Scale(img, target, frame, src, xdraw.Src, nil)
	return img
}
