package render

import (
	"fmt"
	"image/color"
	"strings"

	"golang.org/x/image/colornames"
)

// ParseColor parses #rrggbb, #rrggbbaa or an SVG colour name.
func ParseColor(s string) (color.RGBA, error) {
	s = strings.TrimSpace(s)
	if c, ok := colornames.Map[strings.ToLower(s)]; ok {
		return c, nil
	}
	if !strings.HasPrefix(s, "#") {
		return color.RGBA{}, fmt.Errorf("render: unknown colour %q", s)
	}

	var r, g, b, a uint8 = 0, 0, 0, 0xff
	var err error
	switch len(s) {
	case 7:
		_, err = fmt.Sscanf(s[1:], "%02x%02x%02x", &r, &g, &b)
	case 9:
		_, err = fmt.Sscanf(s[1:], "%02x%02x%02x%02x", &r, &g, &b, &a)
	default:
		return color.RGBA{}, fmt.Errorf("render: bad colour length %q", s)
	}
	if err != nil {
		return color.RGBA{}, fmt.Errorf("render: parse colour %q: %w", s, err)
	}
	return color.RGBA{R: r, G: g, B: b, A: a}, nil
}

// defaultFill picks an object's colour from its type when the type names an
// SVG colour, falling back to orange.
func defaultFill(objType string) color.RGBA {
	if c, ok := colornames.Map[strings.ToLower(objType)]; ok {
		return c
	}
	return colornames.Orange
}
