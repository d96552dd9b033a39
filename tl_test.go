package sml

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeTL_KnownWireBytes(t *testing.T) {
	cases := []struct {
		name  string
		class typeClass
		n     int
		want  byte
	}{
		{"Boolean length 1", classBoolean, 1, 0x42},
		{"SignedInt length 1", classSignedInt, 1, 0x52},
		{"UnsignedInt length 1", classUnsignedInt, 1, 0x62},
		{"Sequence 6 fields", classSequence, 6, 0x76},
		{"Sequence 15 elements", classSequence, 15, 0x7F},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := encodeTL(c.class, c.n)
			require.Len(t, got, 1)
			require.Equal(t, c.want, got[0])
		})
	}
}

func TestEncodeTL_MultiByteHeader(t *testing.T) {
	// An Octet String of 200 payload bytes needs total length 202 or 203
	// depending on how many TL bytes that takes; verify the fixed point.
	got := encodeTL(classOctetString, 200)
	class, length, lastIdx, absent, err := decodeTL(append(append([]byte{}, got...), make([]byte, 200)...))
	require.NoError(t, err)
	require.False(t, absent)
	require.Equal(t, classOctetString, class)
	require.Equal(t, len(got)+200, length)
	require.Equal(t, len(got)-1, lastIdx)
}

func TestDecodeTL_Absent(t *testing.T) {
	class, length, lastIdx, absent, err := decodeTL([]byte{0x01, 0xFF})
	require.NoError(t, err)
	require.True(t, absent)
	require.Equal(t, typeClass(0), class)
	require.Equal(t, 0, length)
	require.Equal(t, 0, lastIdx)
}

func TestDecodeTL_EmptyOctetString(t *testing.T) {
	class, length, lastIdx, absent, err := decodeTL([]byte{0x00})
	require.NoError(t, err)
	require.False(t, absent)
	require.Equal(t, classOctetString, class)
	require.Equal(t, 0, length)
	require.Equal(t, 0, lastIdx)
}

func TestDecodeTL_Truncated(t *testing.T) {
	_, _, _, _, err := decodeTL([]byte{0x82, 0x80})
	require.ErrorIs(t, err, ErrMalformedTL)
}

func TestDecodeTL_EmptyBuffer(t *testing.T) {
	_, _, _, _, err := decodeTL(nil)
	require.ErrorIs(t, err, ErrMalformedTL)
}

func TestNibblesNeeded(t *testing.T) {
	require.Equal(t, 1, nibblesNeeded(0))
	require.Equal(t, 1, nibblesNeeded(15))
	require.Equal(t, 2, nibblesNeeded(16))
	require.Equal(t, 2, nibblesNeeded(255))
	require.Equal(t, 3, nibblesNeeded(256))
}
