package sml

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDumpMessage_PlainTextContainsFieldNames(t *testing.T) {
	m := NewMessage()
	m.TransactionId = NewOctetString([]byte{0x01})
	req := NewPublicOpenReq()
	req.SmlVersion.Value = 1
	require.NoError(t, m.SetBody(TagPublicOpenReq, req))

	out := DumpString(m, DefaultDumpOptions())
	require.Contains(t, out, "TransactionId")
	require.Contains(t, out, "MessageBody")
	require.Contains(t, out, "SmlVersion")
	require.NotContains(t, out, "\x1b[") // no ANSI escapes without Color
}

func TestDumpMessage_ColorRequiresTerminal(t *testing.T) {
	m := NewMessage()
	m.TransactionId = NewOctetString([]byte{0x01})
	require.NoError(t, m.SetBody(TagPublicCloseReq, NewPublicCloseReq()))

	var b strings.Builder
	// strings.Builder is never a terminal, so Color has no visible effect.
	DumpMessage(&b, m, DumpOptions{Color: true})
	require.NotContains(t, b.String(), "\x1b[")
}

func TestDumpTelegram_SeparatesMessages(t *testing.T) {
	tg := buildTestTelegram()
	out := func() string {
		var b strings.Builder
		DumpTelegram(&b, tg, DefaultDumpOptions())
		return b.String()
	}()
	require.Equal(t, 1, strings.Count(out, strings.Repeat("-", 80)))
}
