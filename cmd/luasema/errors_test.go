package main

import (
	"bytes"
	"errors"
	"testing"

	"github.com/lua-tools/luasema/luaparse"
)

func assertContains(t *testing.T, out, substr string) {
	t.Helper()
	if !bytes.Contains([]byte(out), []byte(substr)) {
		t.Errorf("expected output to contain %q, got:\n%s", substr, out)
	}
}

func assertNotContains(t *testing.T, out, substr string) {
	t.Helper()
	if bytes.Contains([]byte(out), []byte(substr)) {
		t.Errorf("expected output not to contain %q, got:\n%s", substr, out)
	}
}

func parseErr(t *testing.T, src string) error {
	t.Helper()
	_, err := luaparse.Parse([]byte(src))
	if err == nil {
		t.Fatalf("expected a parse error for %q, got none", src)
	}
	var perr *luaparse.ParseError
	if !errors.As(err, &perr) {
		t.Fatalf("expected *luaparse.ParseError, got %T: %v", err, err)
	}
	return err
}

func TestRenderParseError_ReportsSyntaxError(t *testing.T) {
	src := "local = 1"
	err := parseErr(t, src)

	var buf bytes.Buffer
	renderParseError(&buf, "widgets.lua", []byte(src), err)
	out := buf.String()

	assertContains(t, out, "error:")
	assertContains(t, out, "widgets.lua:1:")
	assertContains(t, out, "local = 1")
}

func TestRenderParseError_LocatesSecondLine(t *testing.T) {
	src := "local x = 1\nfunction (end"
	err := parseErr(t, src)

	var buf bytes.Buffer
	renderParseError(&buf, "module.lua", []byte(src), err)
	out := buf.String()

	assertContains(t, out, "module.lua:2:")
	assertContains(t, out, "function (end")
}

func TestRenderParseError_NoColorByDefaultForNonTerminal(t *testing.T) {
	prev := colorFlag
	colorFlag = "auto"
	defer func() { colorFlag = prev }()

	src := "if true"
	err := parseErr(t, src)

	var buf bytes.Buffer
	renderParseError(&buf, "cond.lua", []byte(src), err)
	out := buf.String()

	assertNotContains(t, out, "\033[")
}

func TestRenderParseError_AlwaysColorForcesAnsi(t *testing.T) {
	prev := colorFlag
	colorFlag = "always"
	defer func() { colorFlag = prev }()

	src := "do end end"
	err := parseErr(t, src)

	var buf bytes.Buffer
	renderParseError(&buf, "blocks.lua", []byte(src), err)
	out := buf.String()

	assertContains(t, out, "\033[")
}

func TestRenderParseError_UnreadableSourceStillShowsLocation(t *testing.T) {
	src := "return ++"
	err := parseErr(t, src)

	var buf bytes.Buffer
	// The renderer never looks up a source line for the "<stdin>"
	// name, even with the source passed in-memory; it still reports
	// the location header and message.
	renderParseError(&buf, "<stdin>", []byte(src), err)
	out := buf.String()

	assertContains(t, out, "error:")
	assertContains(t, out, "<stdin>:1")
}

func TestRenderParseError_NonParseErrorFallsBackToPlainMessage(t *testing.T) {
	var buf bytes.Buffer
	renderParseError(&buf, "whatever.lua", nil, errors.New("boom"))
	assertContains(t, buf.String(), "boom")
}

func TestLineCol_CountsNewlines(t *testing.T) {
	src := []byte("local x = 1\nlocal y = 2\nlocal z = (")
	line, col := lineCol(src, len(src))
	if line != 3 {
		t.Errorf("expected line 3, got %d", line)
	}
	if col != 12 {
		t.Errorf("expected col 12, got %d", col)
	}
}

func TestLineCol_ClampsOutOfRangePosition(t *testing.T) {
	src := []byte("local x = 1")
	line, col := lineCol(src, 1000)
	if line != 1 {
		t.Errorf("expected line 1, got %d", line)
	}
	if col != len(src)+1 {
		t.Errorf("expected col %d, got %d", len(src)+1, col)
	}
}
