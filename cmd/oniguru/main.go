// Command oniguru inspects and rewrites Oniguruma regular expressions:
// it parses a pattern into its AST, dumps a node-count summary of a
// traversal, or runs the fixed-point optimizer over it.
package main

import "os"

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
