// Package main provides the CLI entrypoint for attr-composer.
//
// attr-composer works with composition declaration files:
//   - check: validate a declaration file and report diagnostics
//   - describe: print the types, rules and accessors a file declares
//   - gen: generate typed Go facades for the declared types
//   - demo: run the credit card round trip against a SQLite store
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
