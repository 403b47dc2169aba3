// Package main provides the entry point for the blockgraph CLI.
package main

import (
	"os"

	"github.com/blockgraph-io/blockgraph/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
