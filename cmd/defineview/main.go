// Package main provides the defineview CLI.
package main

import (
	"os"

	"github.com/SDen99/DatasetViewer-sub000/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
