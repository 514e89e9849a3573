package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/lua-tools/luasema/analyzer"
	"github.com/spf13/cobra"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [flags] file...",
	Short: "Print the module name, imports, and top-level symbols of Lua source files",
	Long: `Print a summary of each file's analysis: the module name, whether
module(...) was called, the files it requires, and its top-level
declarations.

With no files, reads from stdin.

Examples:
  luasema analyze file.lua
  luasema analyze lib/...`,
	Run: func(cmd *cobra.Command, args []string) {
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
			printAnalysis(sym)
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
			fmt.Println(path + ":")
			printAnalysis(sym)
		}
		os.Exit(status)
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}

func printAnalysis(sym *analyzer.Symbol) {
	heading := colorAttr(color.FgMagenta, colorEnabled())
	modType, ok := sym.Type.(*analyzer.ModuleType)
	if !ok {
		fmt.Println("  (not a module symbol)")
		return
	}

	fmt.Printf("  %s %s", heading.Sprint("module"), modType.Name)
	if modType.ModuleMode {
		fmt.Print(" (module mode)")
	}
	fmt.Println()

	if len(modType.Imports) > 0 {
		fmt.Println("  imports:")
		for _, imp := range modType.Imports {
			fmt.Printf("    %s\n", imp.Name)
		}
	}

	if len(sym.Children) > 0 {
		fmt.Println("  declarations:")
		for _, c := range sym.Children {
			fmt.Printf("    %s %s %s\n", colorForKind(c.Kind).Sprint(c.Kind), c.Name, c.Location)
		}
	}

	if modType.Return != nil {
		fmt.Printf("  returns: %s\n", modType.Return.Name)
	}
}
