package resources

import (
	"bytes"
	"embed"
	"fmt"
	"image"
	"image/png"
	"sync"

	"fyne.io/fyne/v2"
)

const (
	backgroundDir = "background/"
	logoDir       = "logo/"

	// BackgroundFile is the default watch face background.
	BackgroundFile = "watchface.png"
	// IconFile is the application and tray icon.
	IconFile = "icon.png"
)

//go:embed background/*.png
var backgroundFS embed.FS

//go:embed logo/*.png
var logoFS embed.FS

var backgroundCache sync.Map
var logoCache sync.Map

// Background returns a Fyne resource for the given background file.
func Background(fileName string) (fyne.Resource, error) {
	return loadResource(backgroundFS, backgroundDir+fileName, &backgroundCache)
}

// MustBackground returns a Fyne resource or panics on error.
func MustBackground(fileName string) fyne.Resource {
	resource, err := Background(fileName)
	if err != nil {
		panic(err)
	}
	return resource
}

// BackgroundImage decodes a background file for bitmap rendering.
func BackgroundImage(fileName string) (image.Image, error) {
	resource, err := Background(fileName)
	if err != nil {
		return nil, err
	}
	img, err := png.Decode(bytes.NewReader(resource.Content()))
	if err != nil {
		return nil, fmt.Errorf("decode background %s: %w", fileName, err)
	}
	return img, nil
}

// Logo returns a Fyne resource for the given logo file.
func Logo(fileName string) (fyne.Resource, error) {
	return loadResource(logoFS, logoDir+fileName, &logoCache)
}

// MustLogo returns a Fyne resource or panics on error.
func MustLogo(fileName string) fyne.Resource {
	resource, err := Logo(fileName)
	if err != nil {
		panic(err)
	}
	return resource
}

func loadResource(fs embed.FS, path string, cache *sync.Map) (fyne.Resource, error) {
	if cached, ok := cache.Load(path); ok {
		return cached.(fyne.Resource), nil
	}

	data, err := fs.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load resource %s: %w", path, err)
	}

	resource := fyne.NewStaticResource(path, data)
	cache.Store(path, resource)
	return resource, nil
}
