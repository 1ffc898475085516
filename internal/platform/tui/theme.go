// Package tui renders flowlink boards for the terminal with lipgloss.
package tui

import (
	"fmt"
	"io"
	"sort"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/vovakirdan/flowlink/internal/flow/core"
)

// Color modes accepted by NewRenderer.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Theme contains the styles used to draw a board.
type Theme struct {
	// Palette holds one style per flow color; color 1 uses Palette[0].
	// Colors past the end wrap around.
	Palette []lipgloss.Style

	Empty  lipgloss.Style
	Wall   lipgloss.Style
	Bridge lipgloss.Style

	// Source is layered over the palette style of a source cell.
	Source lipgloss.Style
	// Cursor is layered over the style of the cell under the cursor.
	Cursor lipgloss.Style

	Header   lipgloss.Style
	Complete lipgloss.Style
}

// Palette codes are ANSI 256 colors.
var (
	defaultPalette = []string{
		"196", // Red
		"46",  // Green
		"21",  // Blue
		"226", // Yellow
		"208", // Orange
		"51",  // Cyan
		"201", // Magenta
		"88",  // Maroon
		"93",  // Purple
		"255", // White
		"245", // Gray
		"118", // Lime
		"180", // Tan
		"27",  // Dark blue
		"30",  // Teal
		"205", // Pink
	}
	neonPalette = []string{
		"199", "118", "87", "227", "214", "123", "171", "160",
		"135", "231", "250", "154", "223", "33", "43", "213",
	}
	pastelPalette = []string{
		"210", "157", "111", "229", "216", "123", "218", "174",
		"183", "255", "250", "193", "223", "110", "115", "225",
	}
	monochromePalette = []string{"255", "250", "245", "240"}
)

// DefaultTheme returns the default visual theme.
func DefaultTheme(r *lipgloss.Renderer) Theme {
	return Theme{
		Palette: paletteStyles(r, defaultPalette),
		Empty:   r.NewStyle().Foreground(lipgloss.Color("238")), // Dark gray
		Wall:    r.NewStyle().Foreground(lipgloss.Color("240")), // Dim gray
		Bridge:  r.NewStyle().Foreground(lipgloss.Color("250")),
		Source:  r.NewStyle().Bold(true),
		Cursor:  r.NewStyle().Reverse(true),

		Header:   r.NewStyle().Foreground(lipgloss.Color("245")),
		Complete: r.NewStyle().Foreground(lipgloss.Color("46")).Bold(true),
	}
}

// NeonTheme returns a brighter palette.
func NeonTheme(r *lipgloss.Renderer) Theme {
	theme := DefaultTheme(r)
	theme.Palette = paletteStyles(r, neonPalette)
	return theme
}

// PastelTheme returns a softer palette.
func PastelTheme(r *lipgloss.Renderer) Theme {
	theme := DefaultTheme(r)
	theme.Palette = paletteStyles(r, pastelPalette)
	return theme
}

// MonochromeTheme returns a grayscale theme. Colors stay apart only by
// their letters.
func MonochromeTheme(r *lipgloss.Renderer) Theme {
	theme := DefaultTheme(r)
	theme.Palette = paletteStyles(r, monochromePalette)
	theme.Complete = r.NewStyle().Bold(true)
	return theme
}

var themes = map[string]func(*lipgloss.Renderer) Theme{
	"default":    DefaultTheme,
	"neon":       NeonTheme,
	"pastel":     PastelTheme,
	"monochrome": MonochromeTheme,
}

// ThemeNames returns the registered theme names in sorted order.
func ThemeNames() []string {
	names := make([]string, 0, len(themes))
	for name := range themes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ThemeByName builds the named theme for a renderer.
func ThemeByName(r *lipgloss.Renderer, name string) (Theme, error) {
	build, ok := themes[name]
	if !ok {
		return Theme{}, fmt.Errorf("unknown theme %q (available: %v)", name, ThemeNames())
	}
	return build(r), nil
}

// NewRenderer creates a lipgloss renderer for w. In auto mode colors are
// used only when isTTY is set.
func NewRenderer(w io.Writer, mode string, isTTY bool) (*lipgloss.Renderer, error) {
	r := lipgloss.NewRenderer(w)
	switch mode {
	case ColorAlways:
		r.SetColorProfile(termenv.ANSI256)
	case ColorNever:
		r.SetColorProfile(termenv.Ascii)
	case ColorAuto, "":
		if isTTY {
			r.SetColorProfile(termenv.ANSI256)
		} else {
			r.SetColorProfile(termenv.Ascii)
		}
	default:
		return nil, fmt.Errorf("unknown color mode %q", mode)
	}
	return r, nil
}

// ColorStyle returns the palette style of a flow color.
func (t Theme) ColorStyle(c core.Color) lipgloss.Style {
	if c == core.NoColor || len(t.Palette) == 0 {
		return t.Empty
	}
	return t.Palette[(int(c)-1)%len(t.Palette)]
}

func paletteStyles(r *lipgloss.Renderer, codes []string) []lipgloss.Style {
	styles := make([]lipgloss.Style, len(codes))
	for i, code := range codes {
		styles[i] = r.NewStyle().Foreground(lipgloss.Color(code))
	}
	return styles
}
