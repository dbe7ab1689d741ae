// Package field parses the textual field elements exported by Barretenberg.
//
// Every token is a BN254 scalar field element rendered either as a decimal
// numeral or as a hex numeral with an optional 0x prefix.
package field

import (
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/ethereum/go-ethereum/common"
)

var (
	ErrSyntax       = errors.New("invalid numeral")
	ErrNotCanonical = errors.New("value exceeds field modulus")
	ErrRange        = errors.New("value out of range")
)

// ParseBig reads token in the given base with no upper bound. A 0x prefix
// always selects base 16, so a length written by the prover as 0x...05
// parses the same as "5".
func ParseBig(token string, base int) (*big.Int, error) {
	digits := token
	if strings.HasPrefix(digits, "0x") || strings.HasPrefix(digits, "0X") {
		digits = digits[2:]
		base = 16
	}
	if digits == "" || digits[0] == '+' || digits[0] == '-' {
		return nil, fmt.Errorf("%w: %q", ErrSyntax, token)
	}
	v, ok := new(big.Int).SetString(digits, base)
	if !ok {
		return nil, fmt.Errorf("%w: %q in base %d", ErrSyntax, token, base)
	}
	return v, nil
}

// Parse is ParseBig restricted to canonical BN254 scalars.
func Parse(token string, base int) (*big.Int, error) {
	v, err := ParseBig(token, base)
	if err != nil {
		return nil, err
	}
	if v.Cmp(fr.Modulus()) >= 0 {
		return nil, fmt.Errorf("%w: %q", ErrNotCanonical, token)
	}
	return v, nil
}

func ParseUint64(token string, base int) (uint64, error) {
	v, err := ParseBig(token, base)
	if err != nil {
		return 0, err
	}
	if !v.IsUint64() {
		return 0, fmt.Errorf("%w: %q does not fit in 64 bits", ErrRange, token)
	}
	return v.Uint64(), nil
}

func ParseUint32(token string, base int) (uint32, error) {
	v, err := ParseUint64(token, base)
	if err != nil {
		return 0, err
	}
	if v > 0xFFFFFFFF {
		return 0, fmt.Errorf("%w: %q does not fit in 32 bits", ErrRange, token)
	}
	return uint32(v), nil
}

// Hex renders v the way Barretenberg exports public inputs: 0x followed by
// 64 zero-padded hex digits. Wider values keep all their digits.
func Hex(v *big.Int) string {
	if v.BitLen() > 8*common.HashLength {
		return "0x" + v.Text(16)
	}
	return common.BigToHash(v).Hex()
}

func HexUint64(v uint64) string {
	return Hex(new(big.Int).SetUint64(v))
}
