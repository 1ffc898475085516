package codec

import (
	"bytes"
	"encoding/binary"

	"github.com/vovakirdan/flowlink/internal/flow/core"
)

// SplitPack splits a pack payload (uint32 level count, then per level a
// uint32 size followed by that many bytes) into level buffers. The returned
// buffers are copies and do not alias data.
func SplitPack(data []byte) ([][]byte, error) {
	if len(data) < 4 {
		return nil, formatErr(ErrTruncated, len(data), "pack header needs 4 bytes")
	}
	count := binary.LittleEndian.Uint32(data)
	// Each level takes at least its 4-byte size prefix.
	if uint64(count)*4 > uint64(len(data)-4) {
		return nil, formatErr(ErrTruncated, 4, "pack declares %d levels", count)
	}

	levels := make([][]byte, 0, count)
	off := 4
	for i := range count {
		if off+4 > len(data) {
			return nil, formatErr(ErrTruncated, off, "level %d size", i)
		}
		size := int(binary.LittleEndian.Uint32(data[off:]))
		off += 4
		if size < 0 || size > len(data)-off {
			return nil, formatErr(ErrTruncated, off, "level %d declares %d bytes", i, size)
		}
		levels = append(levels, bytes.Clone(data[off:off+size]))
		off += size
	}
	return levels, nil
}

// JoinPack builds a pack payload from level buffers.
func JoinPack(levels [][]byte) []byte {
	size := 4
	for _, l := range levels {
		size += 4 + len(l)
	}
	out := make([]byte, 0, size)
	out = binary.LittleEndian.AppendUint32(out, uint32(len(levels)))
	for _, l := range levels {
		out = binary.LittleEndian.AppendUint32(out, uint32(len(l)))
		out = append(out, l...)
	}
	return out
}

// DecodePack decodes every level of a pack payload. A level that fails to
// decode occupies its slot as an invalid board and its error is reported in
// errs at the same index; errs is nil when every level decoded.
func DecodePack(data []byte) (boards []*core.Board, errs []error, err error) {
	bufs, err := SplitPack(data)
	if err != nil {
		return nil, nil, err
	}

	boards = make([]*core.Board, len(bufs))
	failed := false
	levelErrs := make([]error, len(bufs))
	for i, buf := range bufs {
		boards[i], levelErrs[i] = DecodeLevel(buf)
		if levelErrs[i] != nil {
			failed = true
		}
	}
	if failed {
		errs = levelErrs
	}
	return boards, errs, nil
}
