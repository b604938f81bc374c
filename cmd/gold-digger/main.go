// Package main is the entry point for the gold-digger binary.
package main

import (
	"os"

	"github.com/unclesp1d3r/gold-digger/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
