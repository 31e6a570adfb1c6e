// Package main is the entry point for the ntn CLI tool.
package main

import (
	"os"

	"github.com/aidanlsb/ntn/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
