package render

import (
	"errors"
	"image"
	"image/color"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePanel struct {
	bounds  image.Rectangle
	inits   int
	clears  int
	draws   int
	sleeps  int
	halted  bool
	initErr error
	last    image.Image
}

func (p *fakePanel) Init() error {
	p.inits++
	return p.initErr
}

func (p *fakePanel) Clear(color.Color) error {
	p.clears++
	return nil
}

func (p *fakePanel) Draw(_ image.Rectangle, src image.Image, _ image.Point) error {
	p.draws++
	p.last = src
	return nil
}

func (p *fakePanel) Sleep() error {
	p.sleeps++
	return nil
}

func (p *fakePanel) Halt() error {
	p.halted = true
	return nil
}

func (p *fakePanel) Bounds() image.Rectangle { return p.bounds }

func TestEPaperWakesBeforeEachDraw(t *testing.T) {
	panel := &fakePanel{bounds: image.Rect(0, 0, 122, 250)}
	paper, err := NewEPaper(panel, log.Default())
	require.NoError(t, err)
	assert.Equal(t, 1, panel.inits)
	assert.Equal(t, 1, panel.clears)

	frame := image.NewGray(Bounds())
	require.NoError(t, paper.Push(frame))
	require.NoError(t, paper.Push(frame))

	assert.Equal(t, 2, panel.draws)
	assert.Equal(t, 2, panel.sleeps)
	assert.Equal(t, 2, panel.inits)
	assert.Equal(t, panel.bounds, panel.last.Bounds())
}

func TestEPaperInitFailure(t *testing.T) {
	panel := &fakePanel{initErr: errors.New("no panel")}
	_, err := NewEPaper(panel, nil)
	assert.Error(t, err)
}

func TestEPaperCloseHalts(t *testing.T) {
	panel := &fakePanel{bounds: image.Rect(0, 0, 122, 250)}
	paper, err := NewEPaper(panel, nil)
	require.NoError(t, err)

	require.NoError(t, paper.Close())
	assert.True(t, panel.halted)
	assert.NoError(t, paper.Push(image.NewGray(Bounds())))
	assert.Equal(t, 0, panel.draws)
}

func TestFitFrameCentersScaledImage(t *testing.T) {
	frame := image.NewGray(Bounds())
	bounds := image.Rect(0, 0, 122, 250)

	img := FitFrame(frame, bounds)

	assert.Equal(t, bounds, img.Bounds())
	// 144x168 scales to 122x142, centered vertically.
	top := (250 - 142) / 2
	assert.Equal(t, color.Gray{Y: 0xff}, color.GrayModel.Convert(img.At(60, top-2)))
	assert.Equal(t, color.Gray{Y: 0x00}, color.GrayModel.Convert(img.At(60, top+70)))
}
