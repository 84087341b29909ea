// Package main is the entry point for the csteams CLI tool, which loads a
// CS2 team match log and computes per-team analytics.
package main

import "github.com/pable/go-cs-teams/cmd"

func main() {
	cmd.Execute()
}
