// Package main provides the entry point for the scrydex CLI tool.
package main

import "github.com/manabase/scrydex/cmd/scrydex/cmd"

// Version information populated by goreleaser.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	cmd.Execute(version, commit, date)
}
