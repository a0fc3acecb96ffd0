package render

import (
	"image"
	"image/color"
)

// Screen dimensions of the watch face.
const (
	ScreenWidth  = 144
	ScreenHeight = 168
)

// Region identifies one text layer of the face.
type Region int

const (
	RegionDate Region = iota
	RegionTime
	RegionWeather
	RegionBattery

	regionCount
)

func (r Region) String() string {
	switch r {
	case RegionDate:
		return "date"
	case RegionTime:
		return "time"
	case RegionWeather:
		return "weather"
	case RegionBattery:
		return "battery"
	default:
		return "unknown"
	}
}

// Area places a region on screen.
type Area struct {
	Rect  image.Rectangle
	Ink   color.Gray
	Scale int
}

var (
	inkWhite = color.Gray{Y: 0xff}
	inkBlack = color.Gray{Y: 0x00}
)

// Layout is the fixed arrangement of the four text layers.
var Layout = [regionCount]Area{
	RegionDate:    {Rect: image.Rect(0, 0, 144, 50), Ink: inkWhite, Scale: 1},
	RegionTime:    {Rect: image.Rect(0, 57, 144, 107), Ink: inkBlack, Scale: 3},
	RegionWeather: {Rect: image.Rect(0, 115, 144, 140), Ink: inkWhite, Scale: 1},
	RegionBattery: {Rect: image.Rect(0, 140, 144, 165), Ink: inkWhite, Scale: 1},
}

// Bounds returns the full screen rectangle.
func Bounds() image.Rectangle {
	return image.Rect(0, 0, ScreenWidth, ScreenHeight)
}
