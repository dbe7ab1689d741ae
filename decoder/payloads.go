package decoder

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

// PayloadWindowSize is the number of tokens the circuit reserves for the
// payload section. It must match the circuit's capacity exactly.
const PayloadWindowSize = 2800

// WindowPolicy decides what happens when fewer than PayloadWindowSize tokens
// are left for the payload section.
type WindowPolicy int

const (
	// PayloadWindowLenient takes whatever tokens remain.
	PayloadWindowLenient WindowPolicy = iota
	// PayloadWindowStrict fails with ErrTruncatedInput.
	PayloadWindowStrict
)

func (p WindowPolicy) String() string {
	switch p {
	case PayloadWindowLenient:
		return "lenient"
	case PayloadWindowStrict:
		return "strict"
	default:
		return fmt.Sprintf("WindowPolicy(%d)", int(p))
	}
}

func ParseWindowPolicy(s string) (WindowPolicy, error) {
	switch strings.ToLower(s) {
	case "", "lenient":
		return PayloadWindowLenient, nil
	case "strict":
		return PayloadWindowStrict, nil
	}
	return 0, fmt.Errorf("unknown payload window policy %q", s)
}

// ReadPayloads reads the payload section. The leading length is only
// informational: the section always occupies a fixed window and the record
// count inside it decides how much of the window is meaningful. Tokens left
// over in the window are dropped.
func (c *Cursor) ReadPayloads(name string, policy WindowPolicy) ([]byte, error) {
	if _, err := c.ReadUint64(name+".len", 10); err != nil {
		return nil, err
	}
	if policy == PayloadWindowStrict && c.Remaining() < PayloadWindowSize {
		return nil, newDecodeError(name, c.Position(), ErrTruncatedInput,
			fmt.Errorf("payload window needs %d tokens, %d remain", PayloadWindowSize, c.Remaining()))
	}
	w := c.window(PayloadWindowSize)

	count, err := w.ReadUint64(name+".count", 10)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	for i := uint64(0); i < count; i++ {
		size, err := w.readLength(fmt.Sprintf("%s[%d].size", name, i))
		if err != nil {
			return nil, err
		}
		values := make([]*big.Int, size)
		for j := 0; j < size; j++ {
			values[j], err = w.ReadBig(fmt.Sprintf("%s[%d][%d]", name, i, j), 10)
			if err != nil {
				return nil, err
			}
		}
		appendPayloadRecord(&b, values)
	}
	return []byte(b.String()), nil
}

// appendPayloadRecord writes the record size followed by each value, every
// value preceded by a single space. Records are not separated from each
// other, so "1 42" followed by an empty record gives "1 420".
func appendPayloadRecord(b *strings.Builder, values []*big.Int) {
	b.WriteString(strconv.Itoa(len(values)))
	for _, v := range values {
		b.WriteByte(' ')
		b.WriteString(v.String())
	}
}

// PayloadText renders records with the same accumulation rule the decoder
// uses.
func PayloadText(records [][]*big.Int) []byte {
	var b strings.Builder
	for _, r := range records {
		appendPayloadRecord(&b, r)
	}
	return []byte(b.String())
}
