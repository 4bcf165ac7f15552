// Package main provides the leapup command.
package main

import (
	"os"

	"github.com/leapstack-labs/leapup/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
