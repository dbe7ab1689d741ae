package decoder

import (
	"fmt"
	"math/big"
	"strings"
	"unicode/utf8"

	"github.com/hyle-org/noir-verifier/field"
)

// Cursor is a forward-only reader over a field element sequence. Every read
// advances the position; nothing is ever re-read.
type Cursor struct {
	fields []string
	pos    int
	offset int
}

func NewCursor(fields []string) *Cursor {
	return &Cursor{fields: fields}
}

// Position is the absolute index of the next token to be read.
func (c *Cursor) Position() int {
	return c.offset + c.pos
}

func (c *Cursor) Remaining() int {
	return len(c.fields) - c.pos
}

// Rest returns the tokens that have not been consumed.
func (c *Cursor) Rest() []string {
	return c.fields[c.pos:]
}

// next pops one token. A missing token is a malformed integer; only a
// declared length that overruns the input counts as truncation.
func (c *Cursor) next(name string) (string, error) {
	if c.pos >= len(c.fields) {
		return "", newDecodeError(name, c.Position(), ErrMalformedInteger, errNoToken)
	}
	token := c.fields[c.pos]
	c.pos++
	return token, nil
}

// ReadBig pops one token and parses it without any width limit.
func (c *Cursor) ReadBig(name string, base int) (*big.Int, error) {
	position := c.Position()
	token, err := c.next(name)
	if err != nil {
		return nil, err
	}
	v, err := field.ParseBig(token, base)
	if err != nil {
		return nil, newDecodeError(name, position, ErrMalformedInteger, err)
	}
	return v, nil
}

func (c *Cursor) ReadUint64(name string, base int) (uint64, error) {
	position := c.Position()
	token, err := c.next(name)
	if err != nil {
		return 0, err
	}
	v, err := field.ParseUint64(token, base)
	if err != nil {
		return 0, newDecodeError(name, position, ErrMalformedInteger, err)
	}
	return v, nil
}

func (c *Cursor) ReadUint32(name string, base int) (uint32, error) {
	position := c.Position()
	token, err := c.next(name)
	if err != nil {
		return 0, err
	}
	v, err := field.ParseUint32(token, base)
	if err != nil {
		return 0, newDecodeError(name, position, ErrMalformedInteger, err)
	}
	return v, nil
}

// readLength pops a decimal length and checks that the cursor still holds
// that many tokens, so a corrupt prefix never drives a huge allocation.
func (c *Cursor) readLength(name string) (int, error) {
	if c.Remaining() == 0 {
		return 0, newDecodeError(name, c.Position(), ErrTruncatedInput, errNoToken)
	}
	n, err := c.ReadUint64(name, 10)
	if err != nil {
		return 0, err
	}
	if n > uint64(c.Remaining()) {
		return 0, newDecodeError(name, c.Position(), ErrTruncatedInput,
			fmt.Errorf("declared length %d, %d tokens remain", n, c.Remaining()))
	}
	return int(n), nil
}

// ReadArray reads a decimal length n followed by n hex values.
func (c *Cursor) ReadArray(name string) ([]uint64, error) {
	n, err := c.readLength(name)
	if err != nil {
		return nil, err
	}
	out := make([]uint64, n)
	for i := 0; i < n; i++ {
		out[i], err = c.ReadUint64(fmt.Sprintf("%s[%d]", name, i), 16)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// ReadString reads a decimal length n followed by n hex code points.
func (c *Cursor) ReadString(name string) (string, error) {
	n, err := c.readLength(name)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		elem := fmt.Sprintf("%s[%d]", name, i)
		position := c.Position()
		code, err := c.ReadUint64(elem, 16)
		if err != nil {
			return "", err
		}
		if code > utf8.MaxRune || !utf8.ValidRune(rune(code)) {
			return "", newDecodeError(elem, position, ErrInvalidCharCode, fmt.Errorf("code point %#x", code))
		}
		b.WriteRune(rune(code))
	}
	return b.String(), nil
}

// ReadSuccessFlag is true only for a token whose value is exactly 1. Any
// other token, numeric or not, reads as false.
func (c *Cursor) ReadSuccessFlag(name string) (bool, error) {
	token, err := c.next(name)
	if err != nil {
		return false, err
	}
	v, err := field.Parse(token, 10)
	if err != nil {
		return false, nil
	}
	return v.Cmp(big.NewInt(1)) == 0, nil
}

// window splits off the next n tokens (or all remaining, when fewer are left)
// into a sub-cursor and advances past them.
func (c *Cursor) window(n int) *Cursor {
	if n > c.Remaining() {
		n = c.Remaining()
	}
	sub := &Cursor{fields: c.fields[c.pos : c.pos+n], offset: c.Position()}
	c.pos += n
	return sub
}
