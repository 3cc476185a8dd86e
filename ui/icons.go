// Package ui provides the graphical user interface for the launcher.
// This file contains icon generation utilities for the system tray.
package ui

import (
	"bytes"
	"image"
	"image/color"
	"image/png"

	"github.com/yllada/lexair-launcher/common"
)

// IconConfig defines the configuration for icon generation.
type IconConfig struct {
	Size        int
	FillColor   color.RGBA
	BorderColor color.RGBA
	SymbolColor color.RGBA
	// Running draws a play mark instead of a pause mark.
	Running bool
}

// ActiveIconConfig returns the config used while the launcher is open.
func ActiveIconConfig() IconConfig {
	return IconConfig{
		Size:        common.TrayIconSize,
		FillColor:   color.RGBA{26, 95, 180, 255},   // Dark blue
		BorderColor: color.RGBA{53, 132, 228, 255},  // Blue
		SymbolColor: color.RGBA{255, 255, 255, 255}, // White
		Running:     true,
	}
}

// IdleIconConfig returns the config used while the launcher is closed.
func IdleIconConfig() IconConfig {
	return IconConfig{
		Size:        common.TrayIconSize,
		FillColor:   color.RGBA{94, 92, 100, 255},   // Dark gray
		BorderColor: color.RGBA{154, 153, 150, 255}, // Gray
		SymbolColor: color.RGBA{246, 245, 244, 255}, // Off white
	}
}

// IconGenerator generates PNG icons for the system tray.
type IconGenerator struct {
	config IconConfig
}

// NewIconGenerator creates a new icon generator with the given config.
func NewIconGenerator(config IconConfig) *IconGenerator {
	return &IconGenerator{config: config}
}

// Generate creates a PNG icon and returns the bytes.
func (g *IconGenerator) Generate() []byte {
	size := g.config.Size
	img := image.NewRGBA(image.Rect(0, 0, size, size))

	g.drawBadge(img)
	if g.config.Running {
		g.drawPlay(img)
	} else {
		g.drawPause(img)
	}

	var buf bytes.Buffer
	png.Encode(&buf, img)
	return buf.Bytes()
}

// drawBadge draws a rounded square with a one pixel border.
func (g *IconGenerator) drawBadge(img *image.RGBA) {
	size := g.config.Size
	radius := size / 5

	inside := func(x, y int) bool {
		if x < 1 || y < 1 || x > size-2 || y > size-2 {
			return false
		}
		cx, cy := x, y
		if x < 1+radius {
			cx = 1 + radius
		} else if x > size-2-radius {
			cx = size - 2 - radius
		}
		if y < 1+radius {
			cy = 1 + radius
		} else if y > size-2-radius {
			cy = size - 2 - radius
		}
		dx, dy := x-cx, y-cy
		return dx*dx+dy*dy <= radius*radius
	}

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if !inside(x, y) {
				continue
			}
			border := !inside(x-1, y) || !inside(x+1, y) || !inside(x, y-1) || !inside(x, y+1)
			if border {
				img.Set(x, y, g.config.BorderColor)
			} else {
				img.Set(x, y, g.config.FillColor)
			}
		}
	}
}

// drawPlay draws a right-pointing triangle.
func (g *IconGenerator) drawPlay(img *image.RGBA) {
	size := g.config.Size
	left, top, bottom := size*3/8, size/4, size*3/4
	mid := (top + bottom) / 2
	for y := top; y <= bottom; y++ {
		span := mid - top - abs(y-mid)
		for x := left; x <= left+span; x++ {
			img.Set(x, y, g.config.SymbolColor)
		}
	}
}

// drawPause draws two vertical bars.
func (g *IconGenerator) drawPause(img *image.RGBA) {
	size := g.config.Size
	top, bottom := size/4+1, size*3/4-1
	bar := size / 8
	for _, left := range []int{size*3/8 - bar/2, size*5/8 - bar/2} {
		for y := top; y <= bottom; y++ {
			for x := left; x < left+bar; x++ {
				img.Set(x, y, g.config.SymbolColor)
			}
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// GenerateActiveIcon generates the open launcher icon.
func GenerateActiveIcon() []byte {
	return NewIconGenerator(ActiveIconConfig()).Generate()
}

// GenerateIdleIcon generates the closed launcher icon.
func GenerateIdleIcon() []byte {
	return NewIconGenerator(IdleIconConfig()).Generate()
}
