package core

// Color is a palette index. 0 means no color.
type Color uint8

const (
	// NoColor marks an empty cell or layer.
	NoColor Color = 0

	// MaxColor is the largest color the save format can hold (5 bits).
	MaxColor Color = 31
)

// colorChars maps palette indices to display letters for ASCII dumps.
const colorChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ12345"

// Char returns a letter for the color, '.' for none.
func (c Color) Char() byte {
	if c == NoColor {
		return '.'
	}
	if int(c) > len(colorChars) {
		return '?'
	}
	return colorChars[c-1]
}

// LowerChar returns the lowercase letter used for path segments.
func (c Color) LowerChar() byte {
	ch := c.Char()
	if ch >= 'A' && ch <= 'Z' {
		return ch + ('a' - 'A')
	}
	return ch
}
