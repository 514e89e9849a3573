package main

import (
	"errors"
	"io"
	"strings"

	"github.com/lua-tools/luasema/luaparse"
)

// renderParseError converts a luaparse.ParseError into an annotated
// source excerpt — "error: message" plus an underlined span of the
// offending Lua source — and writes it to w. luaparse only ever
// reports a syntax error this way; it carries a byte offset, which
// lineCol converts to a 1-based line and column for display.
func renderParseError(w io.Writer, path string, src []byte, err error) {
	var perr *luaparse.ParseError
	if !errors.As(err, &perr) {
		io.WriteString(w, err.Error()+"\n") //nolint:errcheck // best-effort error reporting
		return
	}
	line, col := lineCol(src, perr.Pos)
	d := Diagnostic{
		Severity: SeverityError,
		Message:  perr.Msg,
		Spans: []Span{
			{File: path, Line: line, Col: col},
		},
	}
	r := &Renderer{
		Color:        parseColorMode(),
		SourceReader: func(string) ([]byte, error) { return src, nil },
	}
	_ = r.Render(w, d)
}

func parseColorMode() ColorMode {
	switch colorFlag {
	case "always":
		return ColorAlways
	case "never":
		return ColorNever
	default:
		return ColorAuto
	}
}

// lineCol converts a byte offset into a 1-based line and column.
func lineCol(src []byte, pos int) (line, col int) {
	if pos < 0 || pos > len(src) {
		pos = len(src)
	}
	line = 1 + strings.Count(string(src[:pos]), "\n")
	lastNL := strings.LastIndexByte(string(src[:pos]), '\n')
	col = pos - lastNL
	return line, col
}
