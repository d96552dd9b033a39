package sml

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExplicitChoice_RoundTrip(t *testing.T) {
	c := NewExplicitChoice(1, map[uint16]func() Element{
		TagSecondsIndex: func() Element { return &Integer{Width: 4, Signed: false} },
		TagTimestamp:    func() Element { return &Integer{Width: 4, Signed: false} },
	})
	require.NoError(t, c.Select(TagSecondsIndex, &Integer{Width: 4, Signed: false, Value: 12345}))

	buf := c.Encode()

	decoded := NewExplicitChoice(1, map[uint16]func() Element{
		TagSecondsIndex: func() Element { return &Integer{Width: 4, Signed: false} },
		TagTimestamp:    func() Element { return &Integer{Width: 4, Signed: false} },
	})
	n, err := decoded.Decode(buf)
	require.NoError(t, err)
	require.Equal(t, len(buf), n)
	require.Equal(t, TagSecondsIndex, decoded.Tag)
	require.Equal(t, int64(12345), decoded.Element.(*Integer).Value)
}

func TestExplicitChoice_AbsentRoundTrip(t *testing.T) {
	c := NewExplicitChoice(1, map[uint16]func() Element{
		TagSecondsIndex: func() Element { return &Integer{Width: 4, Signed: false} },
	})
	require.Equal(t, []byte{0x01}, c.Encode())

	decoded := NewExplicitChoice(1, map[uint16]func() Element{
		TagSecondsIndex: func() Element { return &Integer{Width: 4, Signed: false} },
	})
	n, err := decoded.Decode([]byte{0x01, 0xAA})
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.Nil(t, decoded.Element)
}

func TestExplicitChoice_UnknownTag(t *testing.T) {
	c := NewExplicitChoice(1, map[uint16]func() Element{
		TagSecondsIndex: func() Element { return &Integer{Width: 4, Signed: false} },
	})
	err := c.Select(0xFF, &Integer{})
	require.Error(t, err)
	var tagErr *UnknownChoiceTag
	require.ErrorAs(t, err, &tagErr)
}

func TestExplicitChoice_NoAliasingAcrossDecodes(t *testing.T) {
	prototypes := map[uint16]func() Element{
		TagSecondsIndex: func() Element { return &Integer{Width: 4, Signed: false} },
	}
	c := NewExplicitChoice(1, prototypes)
	require.NoError(t, c.Select(TagSecondsIndex, &Integer{Width: 4, Signed: false, Value: 1}))
	buf1 := c.Encode()

	require.NoError(t, c.Select(TagSecondsIndex, &Integer{Width: 4, Signed: false, Value: 2}))
	buf2 := c.Encode()

	d1 := NewExplicitChoice(1, prototypes)
	_, err := d1.Decode(buf1)
	require.NoError(t, err)

	d2 := NewExplicitChoice(1, prototypes)
	_, err = d2.Decode(buf2)
	require.NoError(t, err)

	require.Equal(t, int64(1), d1.Element.(*Integer).Value)
	require.Equal(t, int64(2), d2.Element.(*Integer).Value)
}

func TestImplicitChoice_Absent(t *testing.T) {
	c := ImplicitChoice{}
	require.Equal(t, []byte{0x01}, c.Encode())

	var decoded ImplicitChoice
	n, err := decoded.Decode([]byte{0x01})
	require.NoError(t, err)
	require.Equal(t, 1, n)
	require.Nil(t, decoded.Element)
}

func TestImplicitChoice_DispatchesOnNextTL(t *testing.T) {
	os := NewOctetString([]byte("abc"))
	c := ImplicitChoice{Element: &os}
	buf := c.Encode()

	var decoded ImplicitChoice
	n, err := decoded.Decode(buf)
	require.NoError(t, err)
	require.Equal(t, len(buf), n)
	got, ok := decoded.Element.(*OctetString)
	require.True(t, ok)
	require.Equal(t, []byte("abc"), got.Value)
}

// Regression test for the misspelled-constructor bug present in the
// original implementation's implicit-choice dispatch for a 1-byte
// (Integer08) unsigned integer payload (TL byte 0x62).
func TestImplicitChoice_UnsignedInteger08Typo(t *testing.T) {
	u := Integer{Width: 1, Signed: false, Value: 0xFF}
	c := ImplicitChoice{Element: &u}
	buf := c.Encode()

	var decoded ImplicitChoice
	n, err := decoded.Decode(buf)
	require.NoError(t, err)
	require.Equal(t, len(buf), n)

	got, ok := decoded.Element.(*Integer)
	require.True(t, ok, "width-1 unsigned integer must decode to *Integer, not fall through to the width-flexible branch")
	require.Equal(t, 1, got.Width)
	require.False(t, got.Signed)
	require.Equal(t, u.Value, got.Value)
}

func TestImplicitChoice_SignedIntegerWidths(t *testing.T) {
	for _, width := range []int{1, 2, 4, 8} {
		i := Integer{Width: width, Signed: true, Value: -1}
		c := ImplicitChoice{Element: &i}
		buf := c.Encode()

		var decoded ImplicitChoice
		_, err := decoded.Decode(buf)
		require.NoError(t, err)
		got := decoded.Element.(*Integer)
		require.Equal(t, width, got.Width)
		require.True(t, got.Signed)
		require.Equal(t, int64(-1), got.Value)
	}
}
