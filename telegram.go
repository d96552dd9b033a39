package sml

/*
telegram.go implements the §4.7 transport framing that wraps a
sequence of Messages into a telegram: an 8-byte start escape, the
concatenated message encodings, zero-padding, a 6-byte end escape and
a trailing byte-pair CRC-16 computed over everything that precedes it.

Per §4.7's "escape-byte-within-payload handling" note, the framing is
located purely by position (fixed-size prefix/suffix slices), never by
scanning for 1B bytes inside the interior.
*/

var telegramStart = [8]byte{0x1B, 0x1B, 0x1B, 0x1B, 0x01, 0x01, 0x01, 0x01}
var telegramEndPrefix = [5]byte{0x1B, 0x1B, 0x1B, 0x1B, 0x1A}

// Telegram implements the outer framed transport unit of §4.7: an
// ordered list of Messages plus the escape/CRC framing around them.
type Telegram struct {
	Messages []*Message
}

// Encode serializes the receiver: start escape, message bytes, zero
// padding, end escape (with padding count) and trailing CRC-16 byte
// pair computed over every preceding byte.
func (t *Telegram) Encode() []byte {
	out := append([]byte{}, telegramStart[:]...)
	for _, m := range t.Messages {
		out = append(out, m.Encode()...)
	}
	pad := len(out[8:]) % 4
	for i := 0; i < pad; i++ {
		out = append(out, 0x00)
	}
	out = append(out, telegramEndPrefix[:]...)
	out = append(out, byte(pad))
	pair := crc16Pair(out)
	out = append(out, pair[0], pair[1])
	return out
}

// Decode parses a telegram from buf, verifying the start/end escapes,
// the padding count and the trailing CRC-16 before iterating over the
// contained Messages (§4.7).
func (t *Telegram) Decode(buf []byte) error {
	if len(buf) < 16 {
		return ErrBadStartEscape
	}
	if !bytesEqual(buf[:8], telegramStart[:]) {
		return ErrBadStartEscape
	}
	if !bytesEqual(buf[len(buf)-8:len(buf)-3], telegramEndPrefix[:]) {
		return ErrBadEndEscape
	}
	pad := int(buf[len(buf)-3])
	if pad < 0 || pad > 3 {
		return ErrBadPadding
	}

	want := [2]byte{buf[len(buf)-2], buf[len(buf)-1]}
	got := crc16Pair(buf[:len(buf)-2])
	if want != got {
		wantInt := uint16(want[0]) | uint16(want[1])<<8
		gotInt := uint16(got[0]) | uint16(got[1])<<8
		return &ChecksumMismatch{Scope: "telegram", Want: wantInt, Got: gotInt}
	}

	interior := buf[8 : len(buf)-8-pad]
	var messages []*Message
	for len(interior) > 0 {
		m := NewMessage()
		n, err := m.Decode(interior)
		if err != nil {
			t.Messages = messages
			return err
		}
		messages = append(messages, m)
		interior = interior[n:]
	}
	t.Messages = messages
	return nil
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
