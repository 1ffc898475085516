package levels

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/flowlink/internal/flow/codec"
	"github.com/vovakirdan/flowlink/internal/flow/core"
	"github.com/vovakirdan/flowlink/internal/flow/editor"
	"github.com/vovakirdan/flowlink/internal/flow/levels/formats"
)

const classicPack = "3,0,1,2;0,1,2;3,4,5,8,7,6\n" +
	"3,0,2,2,4,0_0:2_0:6_0:8_0;1,4,7;3,4,5\n"

const starterYAML = `
name: starter
levels:
  - size: {w: 2, h: 1}
    sources:
      - {a: [0, 0], b: [1, 0]}
    solution:
      - [[0, 0], [1, 0]]
  - size: {w: 2, h: 2}
    sources:
      - {a: [0, 0], b: [9, 9]}
`

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, data, 0o644))
}

func binaryPack(t *testing.T) []byte {
	t.Helper()
	data, err := formats.MarshalBinary(&formats.Pack{
		Levels: []*codec.Level{{Width: 3, Height: 1, Sources: [][2]int{{0, 2}}}},
		Errors: []error{nil},
	})
	require.NoError(t, err)
	return data
}

func setupLevels(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "classic.txt"), []byte(classicPack))
	writeFile(t, filepath.Join(root, "nested", "starter.yaml"), []byte(starterYAML))
	writeFile(t, filepath.Join(root, "archive.bin"), binaryPack(t))
	writeFile(t, filepath.Join(root, "broken.yml"), []byte("levels: [unclosed"))
	writeFile(t, filepath.Join(root, "README.md"), []byte("not a pack"))
	return root
}

func TestLoaderLoadAll(t *testing.T) {
	lib, err := NewLoader(setupLevels(t)).LoadAll()
	require.NoError(t, err)

	packs := lib.Packs()
	require.Len(t, packs, 3)
	assert.Equal(t, "archive", packs[0].Name)
	assert.Equal(t, "classic", packs[1].Name)
	assert.Equal(t, "starter", packs[2].Name)

	assert.Equal(t, "binary", packs[0].Format)
	assert.Equal(t, "text", packs[1].Format)
	assert.Equal(t, "yaml", packs[2].Format)

	assert.Equal(t, 5, lib.Len())
	require.Len(t, lib.Skipped, 1)
	assert.ErrorContains(t, lib.Skipped[0], "broken.yml")
}

func TestLoaderKeepsUnplayableSlots(t *testing.T) {
	lib, err := NewLoader(setupLevels(t)).LoadAll()
	require.NoError(t, err)

	starter, ok := lib.Pack("starter")
	require.True(t, ok)
	require.Equal(t, 2, starter.Len())
	assert.Equal(t, 1, starter.Invalid())

	_, _, err = starter.Level(1)
	assert.ErrorContains(t, err, "unplayable")
	b, l, err := starter.Level(0)
	require.NoError(t, err)
	assert.True(t, b.Valid())
	assert.Equal(t, 2, l.Width)

	_, _, err = starter.Level(5)
	assert.Error(t, err)
}

func TestLoaderMissingRoot(t *testing.T) {
	_, err := NewLoader(filepath.Join(t.TempDir(), "missing")).LoadAll()
	assert.Error(t, err)
}

func TestLoaderDuplicateNames(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a", "classic.txt"), []byte(classicPack))
	writeFile(t, filepath.Join(root, "b", "classic.txt"), []byte(classicPack))

	lib, err := NewLoader(root).LoadAll()
	require.NoError(t, err)
	assert.Len(t, lib.Packs(), 1)
	assert.Len(t, lib.Skipped, 1)
}

func TestPacksAreViewsOverLibrary(t *testing.T) {
	lib, err := NewLoader(setupLevels(t)).LoadAll()
	require.NoError(t, err)

	classic, _ := lib.Pack("classic")
	ed := editor.New(classic.Boards[0])
	for _, path := range classic.Levels[0].Solution {
		_, err := ed.Replay(path)
		require.NoError(t, err)
	}

	completed := 0
	for _, b := range lib.Boards() {
		if b.Completed() {
			completed++
		}
	}
	assert.Equal(t, 1, completed)
	assert.Equal(t, 1, classic.Completed())

	classic.Reset()
	assert.Zero(t, classic.Completed())
}

func TestPackSaveRoundTrip(t *testing.T) {
	for _, layout := range []codec.Layout{codec.LayoutCompact, codec.LayoutFull} {
		t.Run(layout.String(), func(t *testing.T) {
			lib, err := NewLoader(setupLevels(t)).LoadAll()
			require.NoError(t, err)
			classic, _ := lib.Pack("classic")

			ed := editor.New(classic.Boards[1])
			ed.SetCursor(1)
			ed.SelectEndpoint()
			ed.AttemptMove(core.South)

			data := classic.EncodeSave(layout)
			played := []*core.Board{classic.Boards[0].Clone(), classic.Boards[1].Clone()}

			classic.Reset()
			require.NoError(t, classic.RestoreSave(data, layout))
			for i, b := range classic.Boards {
				assert.True(t, played[i].Equal(b), "board %d", i)
			}

			assert.ErrorIs(t, classic.RestoreSave(data[:2], layout), codec.ErrShortSave)
		})
	}
}

func TestReadWritePackFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "classic.txt")
	writeFile(t, src, []byte(classicPack))

	parsed, format, err := ReadPackFile(src)
	require.NoError(t, err)
	assert.Equal(t, "text", format)
	assert.Equal(t, "classic", parsed.Name)

	for _, out := range []string{"classic.bin", "classic.yaml"} {
		path := filepath.Join(dir, out)
		require.NoError(t, WritePackFile(path, parsed))

		back, _, err := ReadPackFile(path)
		require.NoError(t, err)
		require.Len(t, back.Levels, len(parsed.Levels))
		for i := range parsed.Levels {
			assert.True(t, parsed.Levels[i].Board().Equal(back.Levels[i].Board()), "%s level %d", out, i+1)
		}
	}

	assert.Error(t, WritePackFile(filepath.Join(dir, "out.txt"), parsed), "text is read-only")
	assert.Error(t, WritePackFile(filepath.Join(dir, "out.json"), parsed))
}

func TestPackName(t *testing.T) {
	assert.Equal(t, "classic", PackName("/levels/classic.txt"))
	assert.Equal(t, "bonus.v2", PackName("bonus.v2.yaml"))
}

func TestValidateGoodLevels(t *testing.T) {
	lib, err := NewLoader(setupLevels(t)).LoadAll()
	require.NoError(t, err)

	classic, _ := lib.Pack("classic")
	assert.Empty(t, classic.Validate())

	starter, _ := lib.Pack("starter")
	reports := starter.Validate()
	require.Len(t, reports, 1)
	assert.Equal(t, 2, reports[0].Level)
	assert.Equal(t, CodeUnplayable, reports[0].Errors[0].Code)
}

func codes(errs []ValidationError) []string {
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Code)
	}
	return out
}

func TestValidate(t *testing.T) {
	testCases := []struct {
		name     string
		level    codec.Level
		expected []string
	}{
		{
			name:  "valid",
			level: codec.Level{Width: 2, Height: 1, Sources: [][2]int{{0, 1}}},
		},
		{
			name:     "source out of range",
			level:    codec.Level{Width: 2, Height: 1, Sources: [][2]int{{0, 2}}},
			expected: []string{CodeSourceRange},
		},
		{
			name:     "same cell",
			level:    codec.Level{Width: 2, Height: 1, Sources: [][2]int{{1, 1}}},
			expected: []string{CodeSourceSame},
		},
		{
			name:     "shared source",
			level:    codec.Level{Width: 3, Height: 1, Sources: [][2]int{{0, 1}, {1, 2}}},
			expected: []string{CodeSourceShared},
		},
		{
			name:     "hidden source and bridge on hole",
			level:    codec.Level{Width: 3, Height: 1, Sources: [][2]int{{0, 2}}, Holes: []int{2, 1}, Bridges: []int{1}},
			expected: []string{CodeBridgeOnHole, CodeSourceHidden},
		},
		{
			name: "one-sided wall",
			level: codec.Level{Width: 2, Height: 1, Sources: [][2]int{{0, 1}},
				Walls: map[int]core.DirMask{0: core.DirMask(core.East)}},
			expected: []string{CodeWallAsymmetric},
		},
		{
			name:     "wall beside a hole is fine",
			level:    codec.Level{Width: 3, Height: 1, Sources: [][2]int{{0, 1}}, Holes: []int{2}, Walls: map[int]core.DirMask{1: core.DirMask(core.East)}},
			expected: nil,
		},
		{
			name:     "solution count",
			level:    codec.Level{Width: 2, Height: 1, Sources: [][2]int{{0, 1}}, Solution: [][]int{{0, 1}, {0, 1}}},
			expected: []string{CodeSolutionCount},
		},
		{
			name:     "solution not adjacent",
			level:    codec.Level{Width: 3, Height: 1, Sources: [][2]int{{0, 2}}, Solution: [][]int{{0, 2}}},
			expected: []string{CodeSolutionReplay},
		},
		{
			name:     "solution leaves gaps",
			level:    codec.Level{Width: 2, Height: 2, Sources: [][2]int{{0, 1}}, Solution: [][]int{{0, 1}}},
			expected: []string{CodeSolutionOpen},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			l := tc.level
			got := codes(Validate(&l))
			if len(tc.expected) == 0 {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestWatcherReportsPackChanges(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "nested"), 0o755))

	w, err := NewWatcher(10*time.Millisecond, root)
	require.NoError(t, err)
	defer w.Close()

	writeFile(t, filepath.Join(root, "notes.md"), []byte("ignored"))
	target := filepath.Join(root, "nested", "fresh.txt")
	writeFile(t, target, []byte(classicPack))

	select {
	case path := <-w.Events:
		assert.Equal(t, target, path)
	case err := <-w.Errors:
		t.Fatalf("watcher error: %v", err)
	case <-time.After(2 * time.Second):
		t.Fatal("no event for the new pack file")
	}
}

func TestWatcherCloseIsIdempotent(t *testing.T) {
	w, err := NewWatcher(0, t.TempDir())
	require.NoError(t, err)

	require.NoError(t, w.Close())
	assert.NoError(t, w.Close())

	// Channels are closed once the loop exits.
	require.Eventually(t, func() bool {
		select {
		case _, ok := <-w.Events:
			return !ok
		default:
			return false
		}
	}, time.Second, 10*time.Millisecond)
}

func TestShippedPacksAreValid(t *testing.T) {
	lib, err := NewLoader(filepath.Join("..", "..", "..", "levels")).LoadAll()
	require.NoError(t, err)
	require.Empty(t, lib.Skipped)
	require.NotEmpty(t, lib.Packs())

	for _, p := range lib.Packs() {
		assert.Empty(t, p.Validate(), p.Name)
		assert.Zero(t, p.Invalid(), p.Name)
	}
}
