package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/lua-tools/luasema/analyzer"
	"github.com/spf13/cobra"
)

var outlineFormat string

var outlineCmd = &cobra.Command{
	Use:   "outline [flags] file...",
	Short: "Print the declaration outline of one or more Lua source files",
	Long: `Print the declaration outline of one or more Lua source files: the
module, and the tree of functions, tables, and variables it declares,
each with its kind and source location.

With no files, reads from stdin.

Examples:
  luasema outline file.lua              Print one file's outline
  luasema outline lib/...                Print outlines for every .lua file under lib/
  luasema outline --format=json file.lua Print the outline as JSON`,
	Run: func(cmd *cobra.Command, args []string) {
		format := outlineFormat
		if !cmd.Flags().Changed("format") && activeConfig.Format != "" {
			format = activeConfig.Format
		}

		if len(args) == 0 {
			src, err := os.ReadFile("/dev/stdin")
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				os.Exit(2)
			}
			sym, err := analyzer.AnalyzeSource(string(src), "<stdin>", analyzer.DefaultConfig())
			if err != nil {
				renderParseError(os.Stderr, "<stdin>", src, err)
				os.Exit(1)
			}
			printOutline(sym, format)
			return
		}

		expanded, err := expandArgs(args)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}

		status := 0
		for _, path := range expanded {
			sym, ok := analyzeFile(path)
			if !ok {
				status = 1
				continue
			}
			printOutline(sym, format)
		}
		os.Exit(status)
	},
}

func init() {
	rootCmd.AddCommand(outlineCmd)
	outlineCmd.Flags().StringVar(&outlineFormat, "format", "tree",
		`Output format: "tree" or "json".`)
}

func printOutline(sym *analyzer.Symbol, format string) {
	if format == "json" {
		if err := writeOutlineJSON(os.Stdout, sym); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		return
	}
	printOutlineTree(sym, 0)
}

// printOutlineTree renders sym and its children as an indented tree,
// colorizing each kind label the way vovakirdan-surge's CLI colorizes
// its own diagnostic categories (see DESIGN.md).
func printOutlineTree(sym *analyzer.Symbol, depth int) {
	kindColor := colorForKind(sym.Kind)
	indent := strings.Repeat("  ", depth)
	fmt.Printf("%s%s %s %s\n", indent, kindColor.Sprint(sym.Kind), sym.Name, sym.Location)
	for _, c := range sym.Children {
		printOutlineTree(c, depth+1)
	}
}

func colorForKind(k analyzer.Kind) *color.Color {
	enabled := colorEnabled()
	switch k {
	case analyzer.KindModule:
		return colorAttr(color.FgMagenta, enabled)
	case analyzer.KindClass:
		return colorAttr(color.FgYellow, enabled)
	case analyzer.KindTable:
		return colorAttr(color.FgBlue, enabled)
	case analyzer.KindFunction:
		return colorAttr(color.FgGreen, enabled)
	case analyzer.KindParameter:
		return colorAttr(color.FgCyan, enabled)
	case analyzer.KindProperty:
		return colorAttr(color.FgCyan, enabled)
	default:
		return colorAttr(color.FgWhite, enabled)
	}
}

func colorAttr(attr color.Attribute, enabled bool) *color.Color {
	c := color.New(attr)
	if !enabled {
		c.DisableColor()
	}
	return c
}

func colorEnabled() bool {
	switch colorFlag {
	case "always":
		return true
	case "never":
		return false
	default:
		return !color.NoColor
	}
}

// outlineJSON is the encoding/json shape of an analyzer.Symbol and its
// children, mirroring how the teacher's lint package serializes
// diagnostics with json.NewEncoder and tagged structs.
type outlineJSON struct {
	Name     string         `json:"name"`
	Kind     string         `json:"kind"`
	Location string         `json:"location"`
	Children []*outlineJSON `json:"children,omitempty"`
}

func newOutlineJSON(sym *analyzer.Symbol) *outlineJSON {
	o := &outlineJSON{
		Name:     sym.Name,
		Kind:     sym.Kind.String(),
		Location: sym.Location.String(),
	}
	for _, c := range sym.Children {
		o.Children = append(o.Children, newOutlineJSON(c))
	}
	return o
}

func writeOutlineJSON(w io.Writer, sym *analyzer.Symbol) error {
	return json.NewEncoder(w).Encode(newOutlineJSON(sym))
}
