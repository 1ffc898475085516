package formats

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/vovakirdan/flowlink/internal/flow/codec"
	"github.com/vovakirdan/flowlink/internal/flow/core"
)

func init() {
	Register(Format{
		Name:       "yaml",
		Extensions: []string{".yaml", ".yml"},
		Decode:     ParseYAML,
		Encode:     MarshalYAML,
	})
}

// YAMLPack represents the YAML structure for a pack file.
type YAMLPack struct {
	Name   string      `yaml:"name,omitempty"`
	Levels []YAMLLevel `yaml:"levels"`
}

// YAMLLevel represents one level. Cells are given as [x, y] pairs.
type YAMLLevel struct {
	Size     YAMLSize      `yaml:"size"`
	Wrap     bool          `yaml:"wrap,omitempty"`
	Sources  []YAMLSource  `yaml:"sources"`
	Bridges  []YAMLPoint   `yaml:"bridges,omitempty,flow"`
	Holes    []YAMLPoint   `yaml:"holes,omitempty,flow"`
	Walls    []YAMLWall    `yaml:"walls,omitempty"`
	Solution [][]YAMLPoint `yaml:"solution,omitempty,flow"`
}

// YAMLSize represents grid dimensions.
type YAMLSize struct {
	W int `yaml:"w"`
	H int `yaml:"h"`
}

// YAMLPoint is an [x, y] cell position.
type YAMLPoint []int

// YAMLSource is the endpoint pair of one color. Color is optional; when
// every source omits it, colors follow list order.
type YAMLSource struct {
	Color int       `yaml:"color,omitempty"`
	A     YAMLPoint `yaml:"a,flow"`
	B     YAMLPoint `yaml:"b,flow"`
}

// YAMLWall blocks the listed sides of a cell, e.g. dirs: "NE". The wall is
// mirrored onto the neighbor across each side.
type YAMLWall struct {
	At   YAMLPoint `yaml:"at,flow"`
	Dirs string    `yaml:"dirs"`
}

// ParseYAML parses a YAML pack file. The pack name in the file, if any,
// overrides name.
func ParseYAML(name string, data []byte) (*Pack, error) {
	var yp YAMLPack
	if err := yaml.Unmarshal(data, &yp); err != nil {
		return nil, fmt.Errorf("yaml unmarshal: %w", err)
	}

	p := &Pack{Name: name}
	if yp.Name != "" {
		p.Name = yp.Name
	}
	for i, yl := range yp.Levels {
		l, err := yl.toLevel()
		if err != nil {
			err = fmt.Errorf("level %d: %w", i+1, err)
		}
		p.Add(l, err)
	}
	return p, nil
}

func (yl YAMLLevel) toLevel() (*codec.Level, error) {
	l := &codec.Level{
		Width:  yl.Size.W,
		Height: yl.Size.H,
		Wrap:   yl.Wrap,
	}
	if l.Width <= 0 || l.Height <= 0 {
		return nil, fmt.Errorf("size %dx%d out of range", l.Width, l.Height)
	}

	sources, err := yl.orderedSources()
	if err != nil {
		return nil, err
	}
	for _, s := range sources {
		a, err := cellIndex(l, s.A)
		if err != nil {
			return nil, fmt.Errorf("source: %w", err)
		}
		b, err := cellIndex(l, s.B)
		if err != nil {
			return nil, fmt.Errorf("source: %w", err)
		}
		l.Sources = append(l.Sources, [2]int{a, b})
	}

	if l.Bridges, err = cellIndexes(l, yl.Bridges, "bridge"); err != nil {
		return nil, err
	}
	if l.Holes, err = cellIndexes(l, yl.Holes, "hole"); err != nil {
		return nil, err
	}
	for _, path := range yl.Solution {
		cells, err := cellIndexes(l, path, "solution")
		if err != nil {
			return nil, err
		}
		l.Solution = append(l.Solution, cells)
	}

	if err := checkLevel(l); err != nil {
		return nil, err
	}

	for _, w := range yl.Walls {
		idx, err := cellIndex(l, w.At)
		if err != nil {
			return nil, fmt.Errorf("wall: %w", err)
		}
		mask, ok := core.ParseDirMask(w.Dirs)
		if !ok {
			return nil, fmt.Errorf("wall at %v: bad directions %q", []int(w.At), w.Dirs)
		}
		for _, d := range core.AllDirs {
			if mask.Has(d) {
				addWallPair(l, idx, d)
			}
		}
	}
	deriveWalls(l)

	return l, nil
}

// orderedSources sorts sources by explicit color, requiring colors 1..n.
func (yl YAMLLevel) orderedSources() ([]YAMLSource, error) {
	explicit := 0
	for _, s := range yl.Sources {
		if s.Color != 0 {
			explicit++
		}
	}
	if explicit == 0 {
		return yl.Sources, nil
	}
	if explicit != len(yl.Sources) {
		return nil, fmt.Errorf("either every source or none must name its color")
	}

	out := append([]YAMLSource(nil), yl.Sources...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Color < out[j].Color })
	for i, s := range out {
		if s.Color != i+1 {
			return nil, fmt.Errorf("source colors must run 1..%d, found %d", len(out), s.Color)
		}
	}
	return out, nil
}

// MarshalYAML writes a pack as YAML. Walls implied by holes and borders are
// left out since ParseYAML derives them again.
func MarshalYAML(p *Pack) ([]byte, error) {
	yp := YAMLPack{Name: p.Name}
	for i, l := range p.Levels {
		if l == nil {
			return nil, fmt.Errorf("yaml pack: level %d is missing", i+1)
		}
		yp.Levels = append(yp.Levels, fromLevel(l))
	}
	return yaml.Marshal(&yp)
}

func fromLevel(l *codec.Level) YAMLLevel {
	yl := YAMLLevel{
		Size: YAMLSize{W: l.Width, H: l.Height},
		Wrap: l.Wrap,
	}
	point := func(idx int) YAMLPoint {
		return YAMLPoint{idx % l.Width, idx / l.Width}
	}
	points := func(cells []int) []YAMLPoint {
		out := make([]YAMLPoint, 0, len(cells))
		for _, idx := range cells {
			out = append(out, point(idx))
		}
		return out
	}

	for i, pair := range l.Sources {
		yl.Sources = append(yl.Sources, YAMLSource{Color: i + 1, A: point(pair[0]), B: point(pair[1])})
	}
	if len(l.Bridges) > 0 {
		yl.Bridges = points(l.Bridges)
	}
	if len(l.Holes) > 0 {
		yl.Holes = points(l.Holes)
	}

	walls := explicitWalls(l)
	cells := make([]int, 0, len(walls))
	for idx := range walls {
		cells = append(cells, idx)
	}
	sort.Ints(cells)
	for _, idx := range cells {
		yl.Walls = append(yl.Walls, YAMLWall{At: point(idx), Dirs: walls[idx].String()})
	}

	for _, path := range l.Solution {
		yl.Solution = append(yl.Solution, points(path))
	}
	return yl
}

func cellIndex(l *codec.Level, p YAMLPoint) (int, error) {
	if len(p) != 2 {
		return 0, fmt.Errorf("cell %v is not an [x, y] pair", []int(p))
	}
	x, y := p[0], p[1]
	if x < 0 || x >= l.Width || y < 0 || y >= l.Height {
		return 0, fmt.Errorf("cell %v outside a %dx%d board", []int(p), l.Width, l.Height)
	}
	return y*l.Width + x, nil
}

func cellIndexes(l *codec.Level, pts []YAMLPoint, what string) ([]int, error) {
	if len(pts) == 0 {
		return nil, nil
	}
	out := make([]int, 0, len(pts))
	for _, p := range pts {
		idx, err := cellIndex(l, p)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", what, err)
		}
		out = append(out, idx)
	}
	return out, nil
}
