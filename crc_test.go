package sml

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// The CRC-16/X-25 check value for the ASCII string "123456789" is the
// standard reference vector for this polynomial/parametrization.
func TestCrc16Run_ReferenceVector(t *testing.T) {
	got := crc16Run([]byte("123456789"))
	require.Equal(t, uint16(0x906E), got)
}

func TestCrc16Int_IsByteSwappedPair(t *testing.T) {
	data := []byte("123456789")
	pair := crc16Pair(data)
	integer := crc16Int(data)
	// The integer form byte-swaps the pair form's low/high bytes.
	require.Equal(t, pair[1], byte(integer&0xFF))
	require.Equal(t, pair[0], byte(integer>>8))
}

func TestCrc16_EmptyInput(t *testing.T) {
	require.Equal(t, uint16(0x0000), crc16Run(nil))
}

func TestCrc16_SingleBitFlipChangesResult(t *testing.T) {
	data := []byte{0x76, 0x01, 0x01, 0x09, 0x00, 0x00}
	orig := crc16Run(data)
	flipped := append([]byte(nil), data...)
	flipped[2] ^= 0x01
	require.NotEqual(t, orig, crc16Run(flipped))
}
