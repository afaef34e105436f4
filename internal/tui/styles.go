package tui

import (
	"image/color"

	"github.com/charmbracelet/lipgloss"
)

// palette is the color set of one theme.
type palette struct {
	accent lipgloss.Color
	text   lipgloss.Color
	muted  lipgloss.Color
	leaf   lipgloss.Color
	sand   color.RGBA
}

var palettes = map[string]palette{
	"sand": {
		accent: lipgloss.Color("#C89A3A"),
		text:   lipgloss.Color("#F0F0F0"),
		muted:  lipgloss.Color("#8C8C8C"),
		leaf:   lipgloss.Color("#9DBF5A"),
		sand:   color.RGBA{R: 232, G: 217, B: 181, A: 255},
	},
	"ocean": {
		accent: lipgloss.Color("#4FA3C7"),
		text:   lipgloss.Color("#E8F4F8"),
		muted:  lipgloss.Color("#6B8A99"),
		leaf:   lipgloss.Color("#7FD1B9"),
		sand:   color.RGBA{R: 196, G: 214, B: 222, A: 255},
	},
	"forest": {
		accent: lipgloss.Color("#6FA35B"),
		text:   lipgloss.Color("#EEF3E8"),
		muted:  lipgloss.Color("#7A8C70"),
		leaf:   lipgloss.Color("#C7A34F"),
		sand:   color.RGBA{R: 201, G: 190, B: 160, A: 255},
	},
	"dusk": {
		accent: lipgloss.Color("#B07CC6"),
		text:   lipgloss.Color("#F3EAF7"),
		muted:  lipgloss.Color("#85778C"),
		leaf:   lipgloss.Color("#E08A5F"),
		sand:   color.RGBA{R: 214, G: 196, B: 206, A: 255},
	},
}

func paletteFor(theme string) palette {
	if p, ok := palettes[theme]; ok {
		return p
	}
	return palettes["sand"]
}

func (p palette) accentStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(p.accent).Bold(true)
}

func (p palette) textStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(p.text)
}

func (p palette) mutedStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(p.muted)
}

func hexColor(c color.RGBA) lipgloss.Color {
	const digits = "0123456789ABCDEF"
	b := []byte{'#', 0, 0, 0, 0, 0, 0}
	for i, v := range []uint8{c.R, c.G, c.B} {
		b[1+i*2] = digits[v>>4]
		b[2+i*2] = digits[v&0x0F]
	}
	return lipgloss.Color(string(b))
}
