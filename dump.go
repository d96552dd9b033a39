package sml

/*
dump.go implements the diagnostic pretty-printer of §6 entry point (c):
an indented hex/name/type/value dump of a decoded Message or Telegram,
used for diagnostics and tests. Column widths match §6: 35 for hex,
15 for name, 30 for type.

Colorized output is optional and gated on whether the destination is a
real terminal, the idiom the wider Go ecosystem uses for this (e.g.
github.com/mattn/go-isatty to detect a TTY, github.com/mattn/go-colorable
to make ANSI sequences work on Windows consoles too). A non-terminal
writer (a file, a test buffer, a pipe) always gets plain text.
*/

import (
	"encoding/hex"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

const (
	dumpHexWidth  = 35
	dumpNameWidth = 15
	dumpTypeWidth = 30
)

// DumpOptions controls the pretty-printer's output.
type DumpOptions struct {
	Color bool
}

// DefaultDumpOptions returns options with colorization disabled. The
// column widths are not options: they are fixed at §6's 35/15/30.
func DefaultDumpOptions() DumpOptions { return DumpOptions{} }

const (
	ansiReset = "\x1b[0m"
	ansiName  = "\x1b[36m" // cyan
	ansiType  = "\x1b[33m" // yellow
)

// Stdout wraps os.Stdout for use with Dump so ANSI sequences render
// correctly on Windows consoles as well as real terminals; falls back
// to plain os.Stdout behavior when not connected to a terminal.
func Stdout() io.Writer { return colorable.NewColorableStdout() }

// IsTerminal reports whether w is connected to a terminal, used to
// decide whether DumpOptions.Color should have any visible effect.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

type dumper struct {
	w     io.Writer
	opts  DumpOptions
	color bool
}

func (d *dumper) line(indent int, hexStr, name, typ, value string) {
	if indent > 0 {
		hexStr = strings.Repeat(" ", indent) + hexStr
	}
	nameCol := name
	typCol := typ
	if d.color {
		if nameCol != "" {
			nameCol = ansiName + nameCol + ansiReset
		}
		if typCol != "" {
			typCol = ansiType + typCol + ansiReset
		}
	}
	io.WriteString(d.w, padRight(hexStr, dumpHexWidth))
	io.WriteString(d.w, padRight(nameCol, dumpNameWidth))
	io.WriteString(d.w, padRight(typCol, dumpTypeWidth))
	io.WriteString(d.w, value)
	io.WriteString(d.w, "\n")
}

func (d *dumper) dumpElement(indent int, name string, e Element) {
	switch v := e.(type) {
	case *OctetString:
		d.dumpOctetString(indent, name, v)
	case *Boolean:
		if v.Absent {
			d.line(indent, "01", name, "Boolean", "(absent)")
			return
		}
		boolStr := "false"
		if v.Value {
			boolStr = "true"
		}
		d.dumpScalar(indent, name, "Boolean", v.Encode(), boolStr)
	case *Integer:
		typ := "UnsignedInteger"
		if v.Signed {
			typ = "SignedInteger"
		}
		if v.Absent {
			d.line(indent, "01", name, typ, "(absent)")
			return
		}
		val := strconv.FormatUint(uint64(v.Value), 10)
		if v.Signed {
			val = strconv.FormatInt(v.Value, 10)
		}
		d.dumpScalar(indent, name, typ, v.Encode(), val)
	case *EndOfMessage:
		d.line(indent, hex.EncodeToString(v.Encode()), name, "EndOfMessage", "")
	case *ExplicitChoice:
		if v.Element == nil {
			d.line(indent, "01", name, "Choice (explicit)", "(absent)")
			return
		}
		d.line(indent, hex.EncodeToString(encodeTL(classSequence, 2)), name, "Choice (explicit)", "")
		d.dumpElement(indent+2, "Tag", &Integer{Width: v.TagWidth, Signed: false, Value: int64(v.Tag)})
		d.dumpElement(indent+2, "Element", v.Element)
	case *ImplicitChoice:
		if v.Element == nil {
			d.line(indent, "01", name, "Choice (implicit, absent)", "")
			return
		}
		d.dumpElement(indent, name, v.Element)
	case *FixedSequence:
		d.line(indent, hex.EncodeToString(encodeTL(classSequence, v.Len())), name, "Sequence", "")
		for _, f := range v.fields {
			d.dumpElement(indent+2, f.Name, f.Elem)
		}
	case *ListSequence:
		d.line(indent, hex.EncodeToString(encodeTL(classSequence, len(v.Elements))), name, "Sequence (list)", "")
		for i, e := range v.Elements {
			d.dumpElement(indent+2, "["+itoa(i)+"]", e)
		}
	case *UnsupportedBody:
		d.line(indent, hex.EncodeToString(v.Raw), name, "UnsupportedBody", "")
	case *PublicOpenReq:
		v.bind()
		d.dumpElement(indent, name, v.seq)
	case *PublicOpenRes:
		v.bind()
		d.dumpElement(indent, name, v.seq)
	case *PublicCloseReq:
		v.bind()
		d.dumpElement(indent, name, v.seq)
	case *PublicCloseRes:
		v.bind()
		d.dumpElement(indent, name, v.seq)
	case *GetListReq:
		v.bind()
		d.dumpElement(indent, name, v.seq)
	case *GetListRes:
		v.bind()
		d.dumpElement(indent, name, v.seq)
	case *ValueEntry:
		v.bind()
		d.dumpElement(indent, name, v.seq)
	default:
		d.line(indent, hex.EncodeToString(e.Encode()), name, "?", "")
	}
}

func (d *dumper) dumpOctetString(indent int, name string, v *OctetString) {
	if v.Absent {
		d.line(indent, "01", name, "OctetString", "(absent)")
		return
	}
	value := string(v.Value)
	if !isPrintableASCII(value) {
		value = hex.EncodeToString(v.Value)
	}
	d.line(indent, hex.EncodeToString(v.Encode()), name, "OctetString", value)
}

func (d *dumper) dumpScalar(indent int, name, typ string, encoded []byte, value string) {
	d.line(indent, hex.EncodeToString(encoded), name, typ, value)
}

func isPrintableASCII(s string) bool {
	for _, r := range s {
		if r < 0x20 || r > 0x7E {
			return false
		}
	}
	return len(s) > 0
}

// DumpMessage writes an indented hex/name/type/value dump of msg to w.
func DumpMessage(w io.Writer, msg *Message, opts DumpOptions) {
	msg.bind()
	d := &dumper{w: w, opts: opts, color: opts.Color && IsTerminal(w)}
	d.dumpElement(0, "Message", msg.seq)
}

// DumpTelegram writes an indented dump of every message in t to w,
// separated by a rule line.
func DumpTelegram(w io.Writer, t *Telegram, opts DumpOptions) {
	for i, m := range t.Messages {
		if i > 0 {
			io.WriteString(w, strings.Repeat("-", 80)+"\n")
		}
		DumpMessage(w, m, opts)
	}
}

// DumpString returns DumpMessage's output as a string.
func DumpString(msg *Message, opts DumpOptions) string {
	var b strings.Builder
	DumpMessage(&b, msg, opts)
	return b.String()
}
