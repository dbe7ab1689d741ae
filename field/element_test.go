package field

import (
	"math/big"
	"strings"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	testCase := func(token string, base int, want int64) {
		v, err := Parse(token, base)
		require.NoError(t, err, token)
		assert.Equal(t, big.NewInt(want), v, token)
	}

	testCase("0", 10, 0)
	testCase("42", 10, 42)
	testCase("a", 16, 10)
	testCase("0x2a", 10, 42)
	testCase("0X2A", 16, 42)
	testCase("0x000000000000000000000000000000000000000000000000000000000000002a", 10, 42)
}

func TestParseRejects(t *testing.T) {
	testCase := func(token string, base int, want error) {
		_, err := Parse(token, base)
		require.ErrorIs(t, err, want, token)
	}

	testCase("", 10, ErrSyntax)
	testCase("0x", 16, ErrSyntax)
	testCase("-1", 10, ErrSyntax)
	testCase("+1", 10, ErrSyntax)
	testCase("abc", 10, ErrSyntax)
	testCase("zz", 16, ErrSyntax)
	testCase(fr.Modulus().String(), 10, ErrNotCanonical)
}

func TestParseUint(t *testing.T) {
	v, err := ParseUint64("ffffffffffffffff", 16)
	require.NoError(t, err)
	assert.Equal(t, uint64(0xffffffffffffffff), v)

	_, err = ParseUint64("10000000000000000", 16)
	require.ErrorIs(t, err, ErrRange)

	_, err = ParseUint32("4294967296", 10)
	require.ErrorIs(t, err, ErrRange)

	u, err := ParseUint32("0x00000001", 10)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), u)
}

func TestParseBigUnbounded(t *testing.T) {
	twoTo256 := new(big.Int).Lsh(big.NewInt(1), 256)

	v, err := ParseBig(twoTo256.String(), 10)
	require.NoError(t, err)
	assert.Equal(t, twoTo256, v)

	v, err = ParseBig(fr.Modulus().String(), 10)
	require.NoError(t, err)
	assert.Equal(t, fr.Modulus(), v)

	_, err = ParseBig("-1", 10)
	require.ErrorIs(t, err, ErrSyntax)

	// uint parsing reports width, not canonicity
	_, err = ParseUint64(twoTo256.String(), 10)
	require.ErrorIs(t, err, ErrRange)
}

func TestHex(t *testing.T) {
	assert.Equal(t, "0x0000000000000000000000000000000000000000000000000000000000000001", HexUint64(1))

	h := Hex(big.NewInt(255))
	v, err := Parse(h, 16)
	require.NoError(t, err)
	assert.Equal(t, int64(255), v.Int64())

	twoTo256 := new(big.Int).Lsh(big.NewInt(1), 256)
	h = Hex(twoTo256)
	assert.Equal(t, "0x1"+strings.Repeat("0", 64), h)
	v, err = ParseBig(h, 16)
	require.NoError(t, err)
	assert.Equal(t, twoTo256, v)
}
