package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/chase3718/ts10/engine"
)

// LEDPanel mirrors the four RGB indicators on a terminal, one coloured
// cell per indicator.
type LEDPanel struct {
	w      io.Writer
	pixels [engine.NumLights]engine.RGB
	dirty  bool
}

func NewLEDPanel(w io.Writer) *LEDPanel {
	return &LEDPanel{w: w}
}

func (p *LEDPanel) SetPixel(i int, c engine.RGB) {
	if i < 0 || i >= engine.NumLights || p.pixels[i] == c {
		return
	}
	p.pixels[i] = c
	p.dirty = true
}

// Render draws the indicators side by side.
func (p *LEDPanel) Render() string {
	cells := make([]string, engine.NumLights)
	for i, c := range p.pixels {
		bg := toColorful(c)
		fg := lipgloss.Color("#ffffff")
		if l, _, _ := bg.Lab(); l > 0.6 {
			fg = lipgloss.Color("#000000")
		}
		cells[i] = lipgloss.NewStyle().
			Background(lipgloss.Color(bg.Hex())).
			Foreground(fg).
			Padding(0, 1).
			Render(fmt.Sprintf("%d", i+1))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}

// Flush writes the panel if anything changed since the last flush.
func (p *LEDPanel) Flush() {
	if !p.dirty {
		return
	}
	p.dirty = false
	fmt.Fprintln(p.w, p.Render())
}

func toColorful(c engine.RGB) colorful.Color {
	return colorful.Color{R: float64(c[0]) / 255, G: float64(c[1]) / 255, B: float64(c[2]) / 255}
}
