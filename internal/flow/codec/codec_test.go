package codec

import (
	"encoding/binary"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vovakirdan/flowlink/internal/flow/core"
)

// rawLevel builds a level buffer field by field, independent of EncodeLevel.
func rawLevel(w, h byte, wrap bool, sources [][2]uint16, bridges, holes []uint16, walls map[uint16]byte) []byte {
	out := []byte(Magic)
	wrapByte := byte(0)
	if wrap {
		wrapByte = 1
	}
	out = append(out, w, h, byte(len(sources)), wrapByte)
	out = binary.LittleEndian.AppendUint32(out, uint32(len(bridges)))
	out = binary.LittleEndian.AppendUint32(out, uint32(len(holes)))
	out = binary.LittleEndian.AppendUint32(out, uint32(len(walls)))
	for _, s := range sources {
		out = binary.LittleEndian.AppendUint16(out, s[0])
		out = binary.LittleEndian.AppendUint16(out, s[1])
	}
	for _, b := range bridges {
		out = binary.LittleEndian.AppendUint16(out, b)
	}
	for _, h := range holes {
		out = binary.LittleEndian.AppendUint16(out, h)
	}
	for idx := uint16(0); idx < uint16(w)*uint16(h); idx++ {
		if m, ok := walls[idx]; ok {
			out = binary.LittleEndian.AppendUint16(out, uint16(m)<<12|idx)
		}
	}
	return out
}

func TestDecodeLevel(t *testing.T) {
	data := rawLevel(3, 3, true,
		[][2]uint16{{0, 8}, {2, 6}},
		[]uint16{4},
		[]uint16{5},
		map[uint16]byte{1: byte(core.North | core.East), 8: byte(core.West)},
	)

	b, err := DecodeLevel(data)
	require.NoError(t, err)
	require.True(t, b.Valid())

	assert.Equal(t, 3, b.Width())
	assert.Equal(t, 3, b.Height())
	assert.Equal(t, 2, b.Colors())
	assert.True(t, b.Wrap())

	assert.True(t, b.Cell(0).Source)
	assert.Equal(t, core.Color(1), b.Cell(0).Color)
	assert.Equal(t, core.Color(1), b.Cell(8).Color)
	assert.Equal(t, core.Color(2), b.Cell(2).Color)
	assert.Equal(t, core.Color(2), b.Cell(6).Color)
	assert.True(t, b.Cell(4).Bridge)
	assert.True(t, b.Cell(5).Hole)
	assert.Equal(t, core.DirMask(core.North|core.East), b.Cell(1).Walls)
	assert.Equal(t, core.DirMask(core.West), b.Cell(8).Walls)
	assert.False(t, b.Cell(1).Source || b.Cell(1).Bridge || b.Cell(1).Hole)
}

func TestDecodeLevelClassificationPriority(t *testing.T) {
	// Cell 0 is listed as hole, bridge and source; cell 1 as bridge and source.
	data := rawLevel(2, 2, false,
		[][2]uint16{{0, 1}, {1, 3}},
		[]uint16{0, 1},
		[]uint16{0},
		map[uint16]byte{0: byte(core.South)},
	)

	b, err := DecodeLevel(data)
	require.NoError(t, err)

	c0 := b.Cell(0)
	assert.True(t, c0.Hole)
	assert.False(t, c0.Bridge || c0.Source)
	assert.Equal(t, core.DirMask(core.South), c0.Walls, "walls apply regardless of classification")

	c1 := b.Cell(1)
	assert.True(t, c1.Bridge)
	assert.False(t, c1.Source)

	// Cell 3 is the second source of color 2.
	assert.True(t, b.Cell(3).Source)
	assert.Equal(t, core.Color(2), b.Cell(3).Color)
}

func TestDecodeLevelErrors(t *testing.T) {
	good := rawLevel(2, 2, false, [][2]uint16{{0, 3}}, nil, nil, nil)

	badMagic := append([]byte("XXXX"), good[4:]...)
	outOfRange := rawLevel(2, 2, false, [][2]uint16{{0, 9}}, nil, nil, nil)
	zeroSize := rawLevel(0, 2, false, nil, nil, nil, nil)
	tooManyColors := rawLevel(16, 16, false, make([][2]uint16, int(core.MaxColor)+1), nil, nil, nil)

	testCases := []struct {
		name string
		data []byte
		want error
	}{
		{"bad magic", badMagic, ErrBadMagic},
		{"short header", good[:10], ErrTruncated},
		{"truncated body", good[:len(good)-1], ErrTruncated},
		{"source out of range", outOfRange, ErrOutOfRange},
		{"zero width", zeroSize, ErrOutOfRange},
		{"too many colors", tooManyColors, ErrOutOfRange},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			b, err := DecodeLevel(tc.data)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tc.want), "got %v", err)

			var fe *FormatError
			assert.True(t, errors.As(err, &fe))

			require.NotNil(t, b)
			assert.False(t, b.Valid())
		})
	}
}

func TestEncodeLevelMatchesRawLayout(t *testing.T) {
	l := &Level{
		Width:   3,
		Height:  3,
		Sources: [][2]int{{0, 8}, {2, 6}},
		Bridges: []int{4},
		Holes:   []int{5},
		Walls:   map[int]core.DirMask{8: core.DirMask(core.West), 1: core.DirMask(core.North | core.East)},
	}

	got, err := EncodeLevel(l)
	require.NoError(t, err)

	want := rawLevel(3, 3, false,
		[][2]uint16{{0, 8}, {2, 6}},
		[]uint16{4},
		[]uint16{5},
		map[uint16]byte{1: byte(core.North | core.East), 8: byte(core.West)},
	)
	for len(want)%4 != 0 {
		want = append(want, 0)
	}

	assert.Equal(t, want, got)
	assert.Zero(t, len(got)%4, "encoded level must be 4-byte aligned")
}

func TestEncodeParseRoundTrip(t *testing.T) {
	l := &Level{
		Width:   5,
		Height:  4,
		Wrap:    true,
		Sources: [][2]int{{0, 19}, {3, 10}, {7, 12}},
		Bridges: []int{11, 6},
		Holes:   []int{15},
		Walls:   map[int]core.DirMask{0: core.DirMask(core.North), 14: core.DirMask(core.South | core.West)},
	}

	data, err := EncodeLevel(l)
	require.NoError(t, err)

	parsed, err := ParseLevel(data)
	require.NoError(t, err)

	assert.Equal(t, l.Width, parsed.Width)
	assert.Equal(t, l.Height, parsed.Height)
	assert.Equal(t, l.Wrap, parsed.Wrap)
	assert.Equal(t, l.Sources, parsed.Sources)
	assert.Equal(t, []int{6, 11}, parsed.Bridges)
	assert.Equal(t, l.Holes, parsed.Holes)
	assert.Equal(t, l.Walls, parsed.Walls)
}

func TestEncodeLevelRejectsBadInput(t *testing.T) {
	_, err := EncodeLevel(&Level{Width: 0, Height: 3})
	assert.ErrorIs(t, err, ErrOutOfRange)

	_, err = EncodeLevel(&Level{Width: 2, Height: 2, Sources: [][2]int{{0, 4}}})
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestLevelFromBoard(t *testing.T) {
	l := &Level{
		Width:   3,
		Height:  2,
		Sources: [][2]int{{0, 5}},
		Bridges: []int{1},
		Holes:   []int{2},
		Walls:   map[int]core.DirMask{3: core.DirMask(core.East)},
	}
	b := l.Board()

	back, err := LevelFromBoard(b)
	require.NoError(t, err)
	assert.Equal(t, l.Sources, back.Sources)
	assert.Equal(t, l.Bridges, back.Bridges)
	assert.Equal(t, l.Holes, back.Holes)
	assert.Equal(t, l.Walls, back.Walls)

	_, err = LevelFromBoard(core.InvalidBoard())
	assert.Error(t, err)
}

func TestPackUnpackCell(t *testing.T) {
	testCases := []struct {
		name string
		cell core.Cell
		word uint16
	}{
		{"empty", core.Cell{}, 0},
		{"path", core.Cell{Color: 3, Conn: core.DirMask(core.North | core.South)}, 0x5 | 3<<4},
		{"max color", core.Cell{Color: 31, Conn: core.DirMask(core.West)}, 0x8 | 31<<4},
		{
			"bridge",
			core.Cell{Bridge: true, Color: 2, Conn: core.DirMask(core.North), Overlay: core.OverlayFull, OverlayColor: 17},
			0x1 | 2<<4 | 3<<9 | 17<<11,
		},
		{
			"overlay ignored off bridges",
			core.Cell{Color: 1, Overlay: core.OverlayEast, OverlayColor: 5},
			1 << 4,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.word, PackCell(tc.cell))

			restored := core.Cell{Bridge: tc.cell.Bridge}
			UnpackCell(&restored, tc.word)
			assert.Equal(t, tc.cell.Conn, restored.Conn)
			assert.Equal(t, tc.cell.Color, restored.Color)
			if tc.cell.Bridge {
				assert.Equal(t, tc.cell.Overlay, restored.Overlay)
				assert.Equal(t, tc.cell.OverlayColor, restored.OverlayColor)
			}
		})
	}
}

func TestUnpackCellKeepsSourceColor(t *testing.T) {
	c := core.Cell{Source: true, Color: 4}
	UnpackCell(&c, uint16(core.East))

	assert.Equal(t, core.Color(4), c.Color)
	assert.Equal(t, core.DirMask(core.East), c.Conn)
}

func saveFixture() *core.Board {
	l := &Level{
		Width:   3,
		Height:  3,
		Sources: [][2]int{{0, 2}, {6, 8}},
		Bridges: []int{4},
		Holes:   []int{3},
	}
	b := l.Board()

	// Color 1 along the top row, color 2 up through the bridge and back down
	// is not needed; a half-drawn overlay is enough to exercise the bits.
	b.Cell(0).AddConnection(core.East, 1)
	b.Cell(1).AddConnection(core.West, 1)
	b.Cell(1).AddConnection(core.East, 1)
	b.Cell(2).AddConnection(core.West, 1)
	b.Cell(4).AddConnection(core.East, 2)
	b.Cell(5).AddConnection(core.West, 2)
	return b
}

func TestSaveRoundTrip(t *testing.T) {
	for _, layout := range []Layout{LayoutCompact, LayoutFull} {
		t.Run(layout.String(), func(t *testing.T) {
			b := saveFixture()
			data := EncodeSave([]*core.Board{b}, layout)

			fresh := b.Clone()
			fresh.Reset()
			require.NoError(t, DecodeSave([]*core.Board{fresh}, data, layout))

			assert.True(t, b.Equal(fresh), "decoded board differs:\n%s\n%s", core.RenderASCII(b), core.RenderASCII(fresh))
		})
	}
}

func TestSaveSizes(t *testing.T) {
	b := saveFixture()

	assert.Equal(t, 16, SaveSize(b, LayoutCompact), "one word per non-hole cell")
	assert.Equal(t, 18, SaveSize(b, LayoutFull), "one word per cell")
	assert.Len(t, EncodeSave([]*core.Board{b, b}, LayoutCompact), 32)
	assert.Zero(t, SaveSize(core.InvalidBoard(), LayoutFull))
}

func TestFullLayoutWritesZeroForHoles(t *testing.T) {
	b := saveFixture()
	data := EncodeSave([]*core.Board{b}, LayoutFull)

	// Cell 3 is the hole.
	assert.Equal(t, uint16(0), binary.LittleEndian.Uint16(data[6:]))
}

func TestDecodeSaveShortLeavesBoardsUntouched(t *testing.T) {
	a := saveFixture()
	b := saveFixture()
	data := EncodeSave([]*core.Board{a, b}, LayoutCompact)

	target1, target2 := a.Clone(), b.Clone()
	target1.Reset()
	target2.Reset()
	before1, before2 := target1.Clone(), target2.Clone()

	err := DecodeSave([]*core.Board{target1, target2}, data[:len(data)-2], LayoutCompact)
	require.ErrorIs(t, err, ErrShortSave)
	assert.True(t, target1.Equal(before1))
	assert.True(t, target2.Equal(before2))
}

func TestDecodeSaveMultipleBoards(t *testing.T) {
	a := saveFixture()
	b := saveFixture()
	b.Reset()
	b.Cell(6).AddConnection(core.East, 2)
	b.Cell(7).AddConnection(core.West, 2)

	data := EncodeSave([]*core.Board{a, b}, LayoutCompact)

	ra, rb := a.Clone(), b.Clone()
	ra.Reset()
	rb.Reset()
	require.NoError(t, DecodeSave([]*core.Board{ra, rb}, data, LayoutCompact))
	assert.True(t, a.Equal(ra))
	assert.True(t, b.Equal(rb))
}

func TestParseLayout(t *testing.T) {
	l, err := ParseLayout("FULL")
	require.NoError(t, err)
	assert.Equal(t, LayoutFull, l)

	l, err = ParseLayout("")
	require.NoError(t, err)
	assert.Equal(t, LayoutCompact, l)

	_, err = ParseLayout("zip")
	assert.Error(t, err)
}

func TestSplitJoinPack(t *testing.T) {
	lvl1 := rawLevel(2, 2, false, [][2]uint16{{0, 3}}, nil, nil, nil)
	lvl2 := []byte("not a level")

	payload := JoinPack([][]byte{lvl1, lvl2})
	assert.Equal(t, uint32(2), binary.LittleEndian.Uint32(payload))

	parts, err := SplitPack(payload)
	require.NoError(t, err)
	require.Len(t, parts, 2)
	assert.Equal(t, lvl1, parts[0])
	assert.Equal(t, lvl2, parts[1])

	// Returned buffers must not alias the payload.
	payload[8] = 'Z'
	assert.Equal(t, byte('C'), parts[0][0])
}

func TestSplitPackTruncated(t *testing.T) {
	payload := JoinPack([][]byte{[]byte("abcd"), []byte("efgh")})

	_, err := SplitPack(payload[:len(payload)-1])
	assert.ErrorIs(t, err, ErrTruncated)

	_, err = SplitPack(payload[:2])
	assert.ErrorIs(t, err, ErrTruncated)
}

func TestDecodePackKeepsInvalidSlots(t *testing.T) {
	good := rawLevel(2, 2, false, [][2]uint16{{0, 3}}, nil, nil, nil)
	payload := JoinPack([][]byte{good, []byte("garbage-level-buffer"), good})

	boards, errs, err := DecodePack(payload)
	require.NoError(t, err)
	require.Len(t, boards, 3)
	require.Len(t, errs, 3)

	assert.True(t, boards[0].Valid())
	assert.False(t, boards[1].Valid())
	assert.True(t, boards[2].Valid())
	assert.NoError(t, errs[0])
	assert.ErrorIs(t, errs[1], ErrBadMagic)
}
