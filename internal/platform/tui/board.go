package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/flowlink/internal/flow/core"
)

// NoCursor disables cursor highlighting in RenderBoard.
const NoCursor = -1

type glyphKind uint8

const (
	glyphPlain glyphKind = iota
	glyphEmpty
	glyphWall
	glyphBridge
	glyphPath
	glyphSource
)

// glyphStyle identifies the style of one dump character. Runs of equal
// glyphStyles are rendered together.
type glyphStyle struct {
	kind   glyphKind
	color  core.Color
	cursor bool
}

// RenderBoard draws the board in the layout of core.RenderASCII, styled
// with the theme. The cell at cursor is highlighted unless cursor is
// NoCursor.
func (t Theme) RenderBoard(b *core.Board, cursor int) string {
	dump := strings.TrimSuffix(core.RenderASCII(b), "\n")
	lines := strings.Split(dump, "\n")

	var sb strings.Builder
	sb.Grow(len(dump) * 4)

	for i, line := range lines {
		if i > 0 {
			sb.WriteByte('\n')
		}
		if i == 0 {
			sb.WriteString(t.header(b, line))
			continue
		}
		row := i - 1
		styles := make([]glyphStyle, len(line))
		for col := range line {
			styles[col] = classify(b, row, col, line[col], cursor)
		}
		t.writeRuns(&sb, line, styles)
	}
	sb.WriteByte('\n')
	return sb.String()
}

func (t Theme) header(b *core.Board, line string) string {
	if b.Valid() && b.Completed() {
		return t.Complete.Render(line)
	}
	return t.Header.Render(line)
}

// classify maps a dump character back to the board. Even rows hold cells
// at even columns and east links between them; odd rows hold south links
// at even columns.
func classify(b *core.Board, row, col int, ch byte, cursor int) glyphStyle {
	x, y := col/2, row/2
	if x >= b.Width() || y >= b.Height() {
		return glyphStyle{}
	}
	idx := b.Index(x, y)
	c := b.At(x, y)

	cellRow := row%2 == 0
	switch {
	case cellRow && col%2 == 0:
		return cellGlyph(*c, idx == cursor)
	case cellRow:
		return linkGlyph(*c, core.East, ch)
	case col%2 == 0:
		return linkGlyph(*c, core.South, ch)
	default:
		return glyphStyle{}
	}
}

func cellGlyph(c core.Cell, cursor bool) glyphStyle {
	g := glyphStyle{cursor: cursor}
	switch {
	case c.Hole:
		g.kind = glyphPlain
	case c.Source:
		g.kind, g.color = glyphSource, c.Color
	case c.Bridge:
		g.kind = glyphBridge
		if c.Color != core.NoColor && c.Connected() {
			g.kind, g.color = glyphPath, c.Color
		} else if c.Overlay.Count() > 0 {
			g.kind, g.color = glyphPath, c.OverlayColor
		}
	case c.Connected():
		g.kind, g.color = glyphPath, c.Color
	default:
		g.kind = glyphEmpty
	}
	return g
}

func linkGlyph(c core.Cell, d core.Dir, ch byte) glyphStyle {
	switch ch {
	case '#':
		return glyphStyle{kind: glyphWall}
	case '-', '|':
		return glyphStyle{kind: glyphPath, color: c.LayerColor(d.Vertical())}
	default:
		return glyphStyle{}
	}
}

func (t Theme) style(g glyphStyle) lipgloss.Style {
	var s lipgloss.Style
	switch g.kind {
	case glyphEmpty:
		s = t.Empty
	case glyphWall:
		s = t.Wall
	case glyphBridge:
		s = t.Bridge
	case glyphPath:
		s = t.ColorStyle(g.color)
	case glyphSource:
		s = t.ColorStyle(g.color).Inherit(t.Source)
	default:
		return t.Empty.UnsetForeground()
	}
	if g.cursor {
		s = s.Inherit(t.Cursor)
	}
	return s
}

// writeRuns groups consecutive characters with the same style to keep the
// number of escape sequences down.
func (t Theme) writeRuns(sb *strings.Builder, line string, styles []glyphStyle) {
	for x := 0; x < len(line); {
		start := styles[x]
		end := x
		for end < len(line) && styles[end] == start {
			end++
		}
		run := line[x:end]
		if start.kind == glyphPlain {
			sb.WriteString(run)
		} else {
			sb.WriteString(t.style(start).Render(run))
		}
		x = end
	}
}
