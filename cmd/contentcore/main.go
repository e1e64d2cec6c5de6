// Package main provides the entry point for the contentcore CLI.
package main

import (
	"os"

	"github.com/nafsi-health/contentcore/cmd/contentcore/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
