// Package main provides the leapfea command.
package main

import (
	"os"

	"github.com/leapstack-labs/leapfea/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
