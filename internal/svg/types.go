// Package svg renders small inline SVG charts for the dashboard and credit
// score views. No client-side charting library is involved; the markup is
// produced server-side and embedded in the page.
package svg

import (
	"fmt"
	"math"
	"strings"
)

// LineOpts customises the line chart renderer.
type LineOpts struct {
	Title       string
	Description string
	StrokeColor string
	FillColor   string
	AxisColor   string
	GridColor   string
	Padding     float64
	ShowDots    bool
}

// BarOpts customises the grouped bar chart renderer.
type BarOpts struct {
	Title        string
	Description  string
	SeriesALabel string
	SeriesBLabel string
	ColorA       string
	ColorB       string
	AxisColor    string
	GridColor    string
	Padding      float64
}

// Chart viewport defaults.
const (
	DefaultWidth   = 720
	DefaultHeight  = 240
	DefaultPadding = 28.0
	tickCount      = 5
)

func fallback(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return value
}

func bounds(series ...[]float64) (float64, float64) {
	min := math.Inf(1)
	max := math.Inf(-1)
	for _, s := range series {
		for _, v := range s {
			if v < min {
				min = v
			}
			if v > max {
				max = v
			}
		}
	}
	if math.IsInf(min, 1) {
		return 0, 0
	}
	return min, max
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func formatTick(v float64) string {
	switch {
	case math.Abs(v) >= 1e7:
		return fmt.Sprintf("%.1fCr", v/1e7)
	case math.Abs(v) >= 1e5:
		return fmt.Sprintf("%.1fL", v/1e5)
	case math.Abs(v) >= 1e3:
		return fmt.Sprintf("%.1fk", v/1e3)
	default:
		return fmt.Sprintf("%.0f", v)
	}
}

func makeID(title, suffix string) string {
	slug := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		default:
			return '-'
		}
	}, title)
	slug = strings.Trim(slug, "-")
	if slug == "" {
		slug = "chart"
	}
	return slug + "-" + suffix
}
