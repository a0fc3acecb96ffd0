package watch

import (
	"image"
	"image/color"
	"strings"

	"watchface/internal/render"
	"watchface/resources"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
)

// LoadingText is shown in the weather layer until the first reply arrives.
const LoadingText = "Loading..."

// Config defines watch window visuals.
type Config struct {
	Title string
	Scale float32
}

// Window shows the face in a fixed-size desktop window.
type Window struct {
	window      fyne.Window
	background  *canvas.Image
	dayText     *canvas.Text
	dateText    *canvas.Text
	timeText    *canvas.Text
	weatherText *canvas.Text
	batteryText *canvas.Text
}

var (
	white = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	black = color.NRGBA{R: 0, G: 0, B: 0, A: 255}
)

// New creates the watch window. It is not shown until Show is called.
func New(app fyne.App, config Config) *Window {
	if config.Title == "" {
		config.Title = "Watchface"
	}
	if config.Scale <= 0 {
		config.Scale = 1
	}

	window := app.NewWindow(config.Title)
	if app.Icon() != nil {
		window.SetIcon(app.Icon())
	}
	window.SetPadded(false)
	window.SetFixedSize(true)

	background := canvas.NewImageFromResource(resources.MustBackground(resources.BackgroundFile))
	background.FillMode = canvas.ImageFillStretch
	background.ScaleMode = canvas.ImageScalePixels

	watch := &Window{
		window:      window,
		background:  background,
		dayText:     newText(white, 18*config.Scale, false),
		dateText:    newText(white, 18*config.Scale, false),
		timeText:    newText(black, 40*config.Scale, true),
		weatherText: newText(white, 16*config.Scale, false),
		batteryText: newText(white, 16*config.Scale, false),
	}
	watch.weatherText.Text = LoadingText

	date := render.Layout[render.RegionDate].Rect
	half := date.Min.Y + date.Dy()/2
	layout := &faceLayout{
		scale: config.Scale,
		areas: []image.Rectangle{
			render.Bounds(),
			image.Rect(date.Min.X, date.Min.Y, date.Max.X, half),
			image.Rect(date.Min.X, half, date.Max.X, date.Max.Y),
			render.Layout[render.RegionTime].Rect,
			render.Layout[render.RegionWeather].Rect,
			render.Layout[render.RegionBattery].Rect,
		},
	}
	window.SetContent(container.New(layout,
		background, watch.dayText, watch.dateText, watch.timeText, watch.weatherText, watch.batteryText))
	window.Resize(layout.MinSize(nil))
	window.SetCloseIntercept(window.Hide)

	return watch
}

func newText(fill color.Color, size float32, bold bool) *canvas.Text {
	text := canvas.NewText("", fill)
	text.Alignment = fyne.TextAlignCenter
	text.TextSize = size
	text.TextStyle = fyne.TextStyle{Bold: bold}
	return text
}

// Show brings the window to the front.
func (watch *Window) Show() {
	watch.window.Show()
	watch.window.RequestFocus()
}

// Hide hides the window without releasing it.
func (watch *Window) Hide() {
	watch.window.Hide()
}

// Close releases the window.
func (watch *Window) Close() {
	watch.window.Close()
}

// SetTime replaces the large time text.
func (watch *Window) SetTime(text string) {
	fyne.Do(func() { setText(watch.timeText, text) })
}

// SetDate shows the first line of text above the second.
func (watch *Window) SetDate(text string) {
	day, rest, _ := strings.Cut(text, "\n")
	fyne.Do(func() {
		setText(watch.dayText, day)
		setText(watch.dateText, rest)
	})
}

// SetWeather replaces the weather line.
func (watch *Window) SetWeather(text string) {
	fyne.Do(func() { setText(watch.weatherText, text) })
}

// SetBattery replaces the battery line.
func (watch *Window) SetBattery(text string) {
	fyne.Do(func() { setText(watch.batteryText, text) })
}

func setText(label *canvas.Text, text string) {
	if label.Text == text {
		return
	}
	label.Text = text
	label.Refresh()
}

// faceLayout places each object over its screen area, scaled to the window.
type faceLayout struct {
	scale float32
	areas []image.Rectangle
}

func (layout *faceLayout) Layout(objects []fyne.CanvasObject, size fyne.Size) {
	sx := size.Width / render.ScreenWidth
	sy := size.Height / render.ScreenHeight
	for i, object := range objects {
		if i >= len(layout.areas) {
			return
		}
		area := layout.areas[i]
		object.Move(fyne.NewPos(float32(area.Min.X)*sx, float32(area.Min.Y)*sy))
		object.Resize(fyne.NewSize(float32(area.Dx())*sx, float32(area.Dy())*sy))
	}
}

func (layout *faceLayout) MinSize([]fyne.CanvasObject) fyne.Size {
	return fyne.NewSize(render.ScreenWidth*layout.scale, render.ScreenHeight*layout.scale)
}
