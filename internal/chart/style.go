// Package chart renders the report's PNG charts with go-chart. Styling is
// an explicit configuration object handed to the renderer at construction;
// nothing mutates process-wide state.
package chart

import (
	"fmt"
	"os"
	"strings"

	"github.com/golang/freetype/truetype"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Style configures chart rendering. FontFile points at a TTF used for all
// labels; the platform exports use CJK account names and titles, so a CJK
// capable font should be configured for production output. When empty, the
// go-chart built-in font is used.
type Style struct {
	FontFile              string
	Palette               []string
	DPI                   float64
	TransparentBackground bool
}

// DefaultStyle mirrors the upstream report palette.
func DefaultStyle() Style {
	return Style{
		Palette: []string{"#0077B6", "#00B4D8", "#90E0EF", "#CAF0F8", "#48CAE4", "#03045E"},
		DPI:     300,
	}
}

// colors parses the palette into drawing colors, skipping entries that do
// not parse as hex.
func (s Style) colors() []drawing.Color {
	var colors []drawing.Color
	for _, hex := range s.Palette {
		hex = strings.TrimPrefix(strings.TrimSpace(hex), "#")
		if len(hex) != 6 {
			continue
		}
		colors = append(colors, drawing.ColorFromHex(hex))
	}
	if len(colors) == 0 {
		colors = DefaultStyle().colors()
	}
	return colors
}

// loadFont parses the configured TTF. A nil font means go-chart's default.
func (s Style) loadFont() (*truetype.Font, error) {
	if s.FontFile == "" {
		return nil, nil
	}
	data, err := os.ReadFile(s.FontFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read font file %s: %w", s.FontFile, err)
	}
	font, err := truetype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font file %s: %w", s.FontFile, err)
	}
	return font, nil
}
