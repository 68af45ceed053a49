// Package main provides the entry point for the searchable CLI.
package main

import (
	"os"

	"github.com/kailas-cloud/searchable/cmd/searchable/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
