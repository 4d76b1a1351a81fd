// Minimal entry point that delegates CLI handling to the cobra commands in internal/cli.
package main

import (
	"os"

	"github.com/on-the-ground/autocache/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
