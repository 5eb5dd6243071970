// Package main is the entry point for the socialscout CLI.
package main

import (
	"os"

	"github.com/jmylchreest/socialscout/cmd/socialscout/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
