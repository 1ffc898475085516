package formats

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/vovakirdan/flowlink/internal/flow/codec"
	"github.com/vovakirdan/flowlink/internal/flow/core"
)

func init() {
	Register(Format{
		Name:       "text",
		Extensions: []string{".txt"},
		Decode:     ParseText,
	})
}

// ErrHexLevel is returned for hexagonal levels, which have no square-grid
// equivalent. ParseText skips them without taking a slot.
var ErrHexLevel = errors.New("hex levels are not supported")

// ParseText reads a text pack: one level per line in the form
//
//	size,_,id,colors[,bridges[,holes[,walls]]];path;path;...
//
// Blank lines and lines starting with '#' are ignored.
func ParseText(name string, data []byte) (*Pack, error) {
	p := &Pack{Name: name}
	for n, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		l, err := ParseTextLevel(line)
		if errors.Is(err, ErrHexLevel) {
			continue
		}
		if err != nil {
			err = fmt.Errorf("line %d: %w", n+1, err)
		}
		p.Add(l, err)
	}
	return p, nil
}

// ParseTextLevel parses a single level line.
//
// The size field is N for a square board or "a:b" otherwise. A "W:" prefix
// marks a wrapping board, a ":B" suffix swaps the meaning of a and b, and a
// trailing ":I" is ignored. Each path lists the cells of one color from
// source to source. Walls are cell pairs "p|q" with p < q; they are
// recorded on both cells.
func ParseTextLevel(line string) (*codec.Level, error) {
	parts := strings.Split(line, ";")
	head := strings.Split(parts[0], ",")
	if len(head) < 4 {
		return nil, fmt.Errorf("header %q needs at least 4 fields", parts[0])
	}

	dim := head[0]
	if strings.HasPrefix(dim, "X") {
		return nil, ErrHexLevel
	}

	l := &codec.Level{}
	inverted := false
	if strings.HasSuffix(dim, "I") && len(dim) > 2 {
		dim = dim[:len(dim)-2]
	}
	if strings.HasPrefix(dim, "W") && len(dim) > 2 {
		dim = dim[2:]
		l.Wrap = true
	}
	if strings.HasSuffix(dim, "B") && len(dim) > 2 {
		inverted = true
		dim = dim[:len(dim)-2]
	}

	if a, b, ok := strings.Cut(dim, ":"); ok {
		first, err1 := strconv.Atoi(a)
		second, err2 := strconv.Atoi(b)
		if err := errors.Join(err1, err2); err != nil {
			return nil, fmt.Errorf("size %q: %w", head[0], err)
		}
		if l.Wrap != inverted {
			l.Width, l.Height = first, second
		} else {
			l.Height, l.Width = first, second
		}
	} else {
		n, err := strconv.Atoi(dim)
		if err != nil {
			return nil, fmt.Errorf("size %q: %w", head[0], err)
		}
		l.Width, l.Height = n, n
	}

	if _, err := strconv.Atoi(head[2]); err != nil {
		return nil, fmt.Errorf("level id %q: %w", head[2], err)
	}
	colors, err := strconv.Atoi(head[3])
	if err != nil {
		return nil, fmt.Errorf("color count %q: %w", head[3], err)
	}
	if colors <= 0 || colors > int(core.MaxColor) {
		return nil, fmt.Errorf("color count %d out of range", colors)
	}
	if len(parts) < colors+1 {
		return nil, fmt.Errorf("%d colors but only %d paths", colors, len(parts)-1)
	}

	if len(head) >= 5 && head[4] != "" {
		if l.Bridges, err = parseIndexList(head[4], "bridge"); err != nil {
			return nil, err
		}
	}
	if len(head) >= 6 && head[5] != "" {
		for _, field := range strings.Split(head[5], ":") {
			idx, _, _ := strings.Cut(field, "_")
			h, err := strconv.Atoi(idx)
			if err != nil {
				return nil, fmt.Errorf("hole %q: %w", field, err)
			}
			l.Holes = append(l.Holes, h)
		}
	}

	l.Sources = make([][2]int, colors)
	l.Solution = make([][]int, colors)
	for i := 0; i < colors; i++ {
		path, err := parseIndexList(strings.ReplaceAll(parts[i+1], ",", ":"), "path")
		if err != nil {
			return nil, err
		}
		if len(path) < 2 {
			return nil, fmt.Errorf("path %d needs two endpoints", i+1)
		}
		l.Sources[i] = [2]int{path[0], path[len(path)-1]}
		l.Solution[i] = path
	}

	if err := checkLevel(l); err != nil {
		return nil, err
	}

	if len(head) >= 7 && head[6] != "" {
		for _, field := range strings.Split(head[6], ":") {
			if err := addTextWall(l, field); err != nil {
				return nil, err
			}
		}
	}
	deriveWalls(l)

	return l, nil
}

// addTextWall records a "p|q" wall on both cells.
func addTextWall(l *codec.Level, field string) error {
	a, b, ok := strings.Cut(field, "|")
	if !ok {
		return fmt.Errorf("wall %q is not a cell pair", field)
	}
	p, err1 := strconv.Atoi(a)
	q, err2 := strconv.Atoi(b)
	if err := errors.Join(err1, err2); err != nil {
		return fmt.Errorf("wall %q: %w", field, err)
	}
	cells := l.Cells()
	if p < 0 || q < 0 || p >= cells || q >= cells {
		return fmt.Errorf("wall %q outside a %d-cell board", field, cells)
	}

	var holes map[int]bool // explicit walls apply to every cell
	firstRow := p < l.Width
	lastRow := q >= l.Width*(l.Height-1)
	firstCol := p%l.Width == 0
	lastCol := q%l.Width == l.Width-1

	switch {
	case p == q-1:
		addWall(l, holes, p, core.East)
		addWall(l, holes, q, core.West)
	case l.Wrap && firstRow && lastRow:
		addWall(l, holes, p, core.North)
		addWall(l, holes, q, core.South)
	case l.Wrap && firstCol && lastCol:
		addWall(l, holes, p, core.West)
		addWall(l, holes, q, core.East)
	default:
		addWall(l, holes, p, core.South)
		addWall(l, holes, q, core.North)
	}
	return nil
}

func parseIndexList(s, what string) ([]int, error) {
	fields := strings.Split(s, ":")
	out := make([]int, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, fmt.Errorf("%s %q: %w", what, f, err)
		}
		out = append(out, v)
	}
	return out, nil
}
