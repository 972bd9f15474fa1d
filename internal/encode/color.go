// Sightmap - Biodiversity Occurrence Mapping
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/sightmap

package encode

import (
	"fmt"
	"math"

	"github.com/tomtom215/sightmap/internal/models"
)

// Named colors used by the palettes.
var (
	Orange = models.RGBA{255, 140, 0, 255}
	Cyan   = models.RGBA{38, 194, 255, 255}
	White  = models.RGBA{255, 255, 255, 255}
)

// hsvToRGB converts h, s, v in [0, 1] to 0-255 channels. Channels are
// truncated, not rounded, so hue 0 at full saturation is exactly 255,0,0.
func hsvToRGB(h, s, v float64) models.RGBA {
	if s == 0 {
		c := channel(v)
		return models.RGBA{c, c, c, 255}
	}
	h = math.Mod(h, 1)
	if h < 0 {
		h++
	}
	i := math.Floor(h * 6)
	f := h*6 - i
	p := v * (1 - s)
	q := v * (1 - s*f)
	t := v * (1 - s*(1-f))

	var r, g, b float64
	switch int(i) % 6 {
	case 0:
		r, g, b = v, t, p
	case 1:
		r, g, b = q, v, p
	case 2:
		r, g, b = p, v, t
	case 3:
		r, g, b = p, q, v
	case 4:
		r, g, b = t, p, v
	default:
		r, g, b = v, p, q
	}
	return models.RGBA{channel(r), channel(g), channel(b), 255}
}

// hlsToRGB converts hue, lightness, saturation in [0, 1] to 0-255 channels.
func hlsToRGB(h, l, s float64) models.RGBA {
	if s == 0 {
		c := channel(l)
		return models.RGBA{c, c, c, 255}
	}
	var m2 float64
	if l <= 0.5 {
		m2 = l * (1 + s)
	} else {
		m2 = l + s - l*s
	}
	m1 := 2*l - m2
	return models.RGBA{
		channel(hueComponent(m1, m2, h+1.0/3)),
		channel(hueComponent(m1, m2, h)),
		channel(hueComponent(m1, m2, h-1.0/3)),
		255,
	}
}

func hueComponent(m1, m2, h float64) float64 {
	h = math.Mod(h, 1)
	if h < 0 {
		h++
	}
	switch {
	case h < 1.0/6:
		return m1 + (m2-m1)*h*6
	case h < 0.5:
		return m2
	case h < 2.0/3:
		return m1 + (m2-m1)*(2.0/3-h)*6
	default:
		return m1
	}
}

func channel(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return uint8(v * 255)
}

// WithAlpha returns c with its alpha channel set from an opacity in [0, 1],
// rounded so Alpha(a) maps back to exactly a.
func WithAlpha(c models.RGBA, opacity float64) models.RGBA {
	c[3] = uint8(math.Round(math.Max(0, math.Min(1, opacity)) * 255))
	return c
}

// Alpha converts a 0-255 alpha channel to an opacity.
func Alpha(a uint8) float64 {
	return float64(a) / 255
}

// CSS formats the color as rgb(r, g, b) for templates.
func CSS(c models.RGBA) string {
	return fmt.Sprintf("rgb(%d, %d, %d)", c[0], c[1], c[2])
}
