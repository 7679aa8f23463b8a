package ui

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/sonora/internal/models"
)

// Painter colors text with [lipgloss] styles.
type Painter interface {
	On(string, lipgloss.Color) string // Sets background color
	As(string, lipgloss.Color) string // Sets foreground color
}

var _ Painter = (*Palette)(nil)

// Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	accent lipgloss.Color
	muted  lipgloss.Color
	barBg  lipgloss.Color

	title    lipgloss.Style
	tab      lipgloss.Style
	tabOn    lipgloss.Style
	ok       lipgloss.Style
	err      lipgloss.Style
	warn     lipgloss.Style
	help     lipgloss.Style
	text     lipgloss.Style
	bar      lipgloss.Style
	selected lipgloss.Style
}

type colors struct{ accent, ok, err, warn, muted, text, barBg string }

var themes = map[models.Theme]colors{
	models.ThemeDark:  {"#7D56F4", "#04B575", "#FF5F5F", "#FFA500", "#626262", "#FAFAFA", "#24243A"},
	models.ThemeLight: {"#5A3FC0", "#028A50", "#C00000", "#B36B00", "#8A8A8A", "#1A1A1A", "#E4E0F5"},
}

// PaletteFor returns the palette for theme t, falling back to dark.
func PaletteFor(t models.Theme) *Palette {
	c, ok := themes[t]
	if !ok {
		c = themes[models.ThemeDark]
	}
	return NewPalette(c)
}

func NewPalette(c colors) *Palette {
	return &Palette{
		accent: lipgloss.Color(c.accent),
		muted:  lipgloss.Color(c.muted),
		barBg:  lipgloss.Color(c.barBg),

		title:    NewBold(c.accent).MarginBottom(1),
		tab:      NewStyle(c.muted).Padding(0, 1),
		tabOn:    NewBold(c.text).Background(lipgloss.Color(c.accent)).Padding(0, 1),
		ok:       NewBold(c.ok),
		err:      NewBold(c.err),
		warn:     NewStyle(c.warn),
		help:     NewEm(c.muted),
		text:     NewStyle(c.text),
		bar:      NewStyle(c.text).Background(lipgloss.Color(c.barBg)).Padding(0, 1),
		selected: NewBold(c.accent),
	}
}

func (p *Palette) On(s string, c lipgloss.Color) string {
	return lipgloss.NewStyle().Background(c).Render(s)
}

func (p *Palette) As(s string, c lipgloss.Color) string {
	return lipgloss.NewStyle().Foreground(c).Render(s)
}

// delegate is the list item renderer in the palette's accent color.
func (p *Palette) delegate() list.DefaultDelegate {
	d := list.NewDefaultDelegate()
	d.Styles.SelectedTitle = d.Styles.SelectedTitle.Foreground(p.accent).BorderLeftForeground(p.accent)
	d.Styles.SelectedDesc = d.Styles.SelectedDesc.Foreground(p.accent).BorderLeftForeground(p.accent)
	d.Styles.NormalDesc = d.Styles.NormalDesc.Foreground(p.muted)
	return d
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
