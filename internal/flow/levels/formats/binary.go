package formats

import (
	"fmt"

	"github.com/vovakirdan/flowlink/internal/flow/codec"
)

func init() {
	Register(Format{
		Name:       "binary",
		Extensions: []string{".bin"},
		Decode:     ParseBinary,
		Encode:     MarshalBinary,
	})
}

// ParseBinary reads a pack payload. A level that fails to decode keeps its
// slot; only a broken pack frame fails the whole file.
func ParseBinary(name string, data []byte) (*Pack, error) {
	bufs, err := codec.SplitPack(data)
	if err != nil {
		return nil, fmt.Errorf("binary pack: %w", err)
	}

	p := &Pack{Name: name}
	for _, buf := range bufs {
		p.Add(codec.ParseLevel(buf))
	}
	return p, nil
}

// MarshalBinary writes a pack payload. Every slot must hold a level.
func MarshalBinary(p *Pack) ([]byte, error) {
	bufs := make([][]byte, 0, len(p.Levels))
	for i, l := range p.Levels {
		if l == nil {
			return nil, fmt.Errorf("binary pack: level %d is missing", i+1)
		}
		buf, err := codec.EncodeLevel(l)
		if err != nil {
			return nil, fmt.Errorf("binary pack: level %d: %w", i+1, err)
		}
		bufs = append(bufs, buf)
	}
	return codec.JoinPack(bufs), nil
}
