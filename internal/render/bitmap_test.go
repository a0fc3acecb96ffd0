package render

import (
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"watchface/resources"
)

func newTestBitmap(t *testing.T, sinks ...Sink) *Bitmap {
	t.Helper()
	background, err := resources.BackgroundImage(resources.BackgroundFile)
	require.NoError(t, err)
	return NewBitmap(background, sinks...)
}

func changedPixels(a, b *image.Gray, rect image.Rectangle) int {
	changed := 0
	for y := rect.Min.Y; y < rect.Max.Y; y++ {
		for x := rect.Min.X; x < rect.Max.X; x++ {
			if a.GrayAt(x, y) != b.GrayAt(x, y) {
				changed++
			}
		}
	}
	return changed
}

func TestBitmapDrawsEveryRegion(t *testing.T) {
	bitmap := newTestBitmap(t)
	require.NoError(t, bitmap.Flush())
	empty := bitmap.Frame()

	bitmap.SetTime("12:34")
	bitmap.SetDate("Thursday\n03/14/24")
	bitmap.SetWeather("72F, Cloudy")
	bitmap.SetBattery("85%")
	require.NoError(t, bitmap.Flush())
	frame := bitmap.Frame()

	for region := Region(0); region < regionCount; region++ {
		assert.Positive(t, changedPixels(empty, frame, Layout[region].Rect), region.String())
	}
}

func TestBitmapKeepsTextInsideRegion(t *testing.T) {
	bitmap := newTestBitmap(t)
	require.NoError(t, bitmap.Flush())
	empty := bitmap.Frame()

	bitmap.SetWeather("a very long line of weather text that cannot fit")
	require.NoError(t, bitmap.Flush())
	frame := bitmap.Frame()

	weather := Layout[RegionWeather].Rect
	for region := Region(0); region < regionCount; region++ {
		if region == RegionWeather {
			continue
		}
		outside := Layout[region].Rect
		if outside.Overlaps(weather) {
			continue
		}
		assert.Zero(t, changedPixels(empty, frame, outside), region.String())
	}
}

func TestBitmapFlushFeedsSinks(t *testing.T) {
	var got []*image.Gray
	bitmap := newTestBitmap(t, func(frame *image.Gray) error {
		got = append(got, frame)
		return nil
	})
	bitmap.SetTime("09:00")

	require.NoError(t, bitmap.Flush())
	require.Len(t, got, 1)
	assert.Equal(t, Bounds(), got[0].Bounds())
	assert.Equal(t, "09:00", bitmap.Text(RegionTime))
}

func TestPNGSinkWritesSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "face.png")
	bitmap := newTestBitmap(t, PNGSink(path))
	bitmap.SetBattery("50%")
	require.NoError(t, bitmap.Flush())

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()
	img, err := png.Decode(file)
	require.NoError(t, err)
	assert.Equal(t, ScreenWidth, img.Bounds().Dx())
	assert.Equal(t, ScreenHeight, img.Bounds().Dy())
}

func TestNilBackgroundIsBlack(t *testing.T) {
	bitmap := NewBitmap(nil)
	frame := bitmap.Frame()
	assert.Equal(t, uint8(0), frame.GrayAt(10, 10).Y)
}
