// Command luasema is a thin demonstration host for the analyzer
// library: it is not part of the analyzer's public contract (see
// SPEC_FULL.md §2), just a runnable consumer exercising it end to end.
package main

func main() {
	Execute()
}
