// Command shopsearchctl runs searches against the configured catalog from the
// command line and prints the results as JSON.
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
