// Command metalcal evaluates the metallurgical calculators from a shell.
package main

import (
	"os"

	"MetalCal/internal/cli"
)

func main() {
	if err := cli.NewRoot().Execute(); err != nil {
		os.Exit(1)
	}
}
