package svg

import (
	"strings"
	"testing"
)

func TestLineRendersPathAndLabels(t *testing.T) {
	markup, err := Line(DefaultWidth, DefaultHeight, []float64{680, 700, 715, 710}, []string{"Jan", "Feb", "Mar", "Apr"}, LineOpts{
		Title:    "Score History",
		ShowDots: true,
	})
	if err != nil {
		t.Fatalf("Line returned error: %v", err)
	}
	body := string(markup)
	if !strings.Contains(body, "<svg") || !strings.Contains(body, "</svg>") {
		t.Fatal("expected svg element")
	}
	if !strings.Contains(body, "<path") {
		t.Fatal("expected line path")
	}
	for _, label := range []string{"Jan", "Feb", "Mar", "Apr"} {
		if !strings.Contains(body, label) {
			t.Fatalf("expected label %s", label)
		}
	}
	if !strings.Contains(body, "<circle") {
		t.Fatal("expected dots when ShowDots is set")
	}
}

func TestLineRejectsEmptySeries(t *testing.T) {
	if _, err := Line(DefaultWidth, DefaultHeight, nil, nil, LineOpts{}); err == nil {
		t.Fatal("expected error for empty series")
	}
}

func TestBarsRendersBothSeries(t *testing.T) {
	markup, err := Bars(DefaultWidth, DefaultHeight, []float64{1000, 1200}, []float64{800, 900}, []string{"M1", "M2"}, BarOpts{
		Title:        "Savings vs Expenditure",
		SeriesALabel: "Savings",
		SeriesBLabel: "Expenditure",
	})
	if err != nil {
		t.Fatalf("Bars returned error: %v", err)
	}
	body := string(markup)
	if strings.Count(body, "<rect") < 4 {
		t.Fatalf("expected at least four bars, got markup %s", body)
	}
	if !strings.Contains(body, "Savings") || !strings.Contains(body, "Expenditure") {
		t.Fatal("expected series legend")
	}
}

func TestFormatTickUsesIndianUnits(t *testing.T) {
	cases := map[float64]string{
		500:      "500",
		25000:    "25.0k",
		250000:   "2.5L",
		30000000: "3.0Cr",
	}
	for value, want := range cases {
		if got := formatTick(value); got != want {
			t.Fatalf("formatTick(%v) = %q, want %q", value, got, want)
		}
	}
}
