package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/kedoo/internal/models"
)

const (
	errColor  = "#EF4444"
	helpColor = "#626262"
)

var styles = ThemePalette(models.ThemeOrDefault(models.DefaultTheme))

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title  lipgloss.Style
	accent lipgloss.Style
	ok     lipgloss.Style
	err    lipgloss.Style
	warn   lipgloss.Style
	help   lipgloss.Style
}

func NewPalette(t, a, s, e, w, h string) *Palette {
	return &Palette{
		title:  NewBold(t).MarginBottom(1),
		accent: NewStyle(a),
		ok:     NewBold(s),
		err:    NewBold(e),
		warn:   NewStyle(w),
		help:   NewEm(h),
	}
}

// ThemePalette maps a theme's three gradient stops onto the title, accent and success styles.
func ThemePalette(t models.Theme) *Palette {
	return NewPalette(t.Gradient[0], t.Gradient[1], t.Gradient[2], errColor, t.Gradient[2], helpColor)
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}
