package svg

import (
	"fmt"
	"html/template"
	"strings"
)

// Bars renders a grouped bar chart comparing two series over shared labels.
func Bars(width, height int, seriesA, seriesB []float64, labels []string, opts BarOpts) (template.HTML, error) {
	if len(labels) == 0 {
		return "", fmt.Errorf("svg: labels required")
	}
	if len(seriesA) != len(labels) || len(seriesB) != len(labels) {
		return "", fmt.Errorf("svg: series length must match labels")
	}
	if width <= 0 {
		width = DefaultWidth
	}
	if height <= 0 {
		height = DefaultHeight
	}
	padding := opts.Padding
	if padding <= 0 {
		padding = DefaultPadding
	}

	axisColor := fallback(opts.AxisColor, "#475569")
	gridColor := fallback(opts.GridColor, "#cbd5e1")
	colorA := fallback(opts.ColorA, "#16a34a")
	colorB := fallback(opts.ColorB, "#dc2626")
	labelA := fallback(opts.SeriesALabel, "Series A")
	labelB := fallback(opts.SeriesBLabel, "Series B")

	chartWidth := float64(width) - 2*padding
	chartHeight := float64(height) - 2*padding
	if chartWidth <= 0 || chartHeight <= 0 {
		return "", fmt.Errorf("svg: viewport too small")
	}

	minVal, maxVal := bounds(seriesA, seriesB)
	if minVal > 0 {
		minVal = 0
	}
	if maxVal < 0 {
		maxVal = 0
	}
	if almostEqual(maxVal, minVal) {
		maxVal = minVal + 1
	}
	scale := chartHeight / (maxVal - minVal)
	zeroY := padding + chartHeight - (0-minVal)*scale

	groupWidth := chartWidth / float64(len(labels))
	barWidth := groupWidth / 3

	titleID := makeID(opts.Title, "bar-title")
	descID := makeID(opts.Title, "bar-desc")

	var b strings.Builder
	b.WriteString(fmt.Sprintf("<svg xmlns=\"http://www.w3.org/2000/svg\" viewBox=\"0 0 %d %d\" role=\"img\" aria-labelledby=\"%s %s\">", width, height, titleID, descID))
	b.WriteString(fmt.Sprintf("<title id=\"%s\">%s</title>", titleID, template.HTMLEscapeString(fallback(opts.Title, "Bar chart"))))
	b.WriteString(fmt.Sprintf("<desc id=\"%s\">%s</desc>", descID, template.HTMLEscapeString(fallback(opts.Description, "Grouped bar comparison"))))

	for i := 0; i <= tickCount; i++ {
		ratio := float64(i) / float64(tickCount)
		value := minVal + (maxVal-minVal)*ratio
		y := padding + chartHeight - ratio*chartHeight
		b.WriteString(fmt.Sprintf("<line x1=\"%.2f\" y1=\"%.2f\" x2=\"%.2f\" y2=\"%.2f\" stroke=\"%s\" stroke-width=\"0.5\" stroke-dasharray=\"2,4\" aria-hidden=\"true\"></line>", padding, y, padding+chartWidth, y, gridColor))
		b.WriteString(fmt.Sprintf("<text x=\"%.2f\" y=\"%.2f\" fill=\"%s\" font-size=\"10\" text-anchor=\"end\">%s</text>", padding-6, y+4, axisColor, template.HTMLEscapeString(formatTick(value))))
	}

	drawBar := func(x, value float64, color string) {
		top := zeroY - value*scale
		barHeight := value * scale
		if barHeight < 0 {
			top = zeroY
			barHeight = -barHeight
		}
		b.WriteString(fmt.Sprintf("<rect x=\"%.2f\" y=\"%.2f\" width=\"%.2f\" height=\"%.2f\" fill=\"%s\" rx=\"1.5\"></rect>", x, top, barWidth, barHeight, color))
	}

	for i := range labels {
		groupX := padding + float64(i)*groupWidth
		drawBar(groupX+barWidth/2, seriesA[i], colorA)
		drawBar(groupX+barWidth*3/2, seriesB[i], colorB)
	}

	b.WriteString(fmt.Sprintf("<g stroke=\"%s\"><line x1=\"%.2f\" y1=\"%.2f\" x2=\"%.2f\" y2=\"%.2f\" stroke-width=\"1\"></line><line x1=\"%.2f\" y1=\"%.2f\" x2=\"%.2f\" y2=\"%.2f\" stroke-width=\"1\"></line></g>",
		axisColor,
		padding, padding, padding, padding+chartHeight,
		padding, zeroY, padding+chartWidth, zeroY))

	for i, label := range labels {
		x := padding + float64(i)*groupWidth + groupWidth/2
		b.WriteString(fmt.Sprintf("<text x=\"%.2f\" y=\"%.2f\" fill=\"%s\" font-size=\"10\" text-anchor=\"middle\">%s</text>", x, padding+chartHeight+14, axisColor, template.HTMLEscapeString(label)))
	}

	legendY := float64(height) - 6
	b.WriteString(fmt.Sprintf("<rect x=\"%.2f\" y=\"%.2f\" width=\"10\" height=\"10\" fill=\"%s\"></rect>", padding, legendY-9, colorA))
	b.WriteString(fmt.Sprintf("<text x=\"%.2f\" y=\"%.2f\" fill=\"%s\" font-size=\"10\">%s</text>", padding+14, legendY, axisColor, template.HTMLEscapeString(labelA)))
	b.WriteString(fmt.Sprintf("<rect x=\"%.2f\" y=\"%.2f\" width=\"10\" height=\"10\" fill=\"%s\"></rect>", padding+110, legendY-9, colorB))
	b.WriteString(fmt.Sprintf("<text x=\"%.2f\" y=\"%.2f\" fill=\"%s\" font-size=\"10\">%s</text>", padding+124, legendY, axisColor, template.HTMLEscapeString(labelB)))

	b.WriteString("</svg>")
	return template.HTML(b.String()), nil
}
