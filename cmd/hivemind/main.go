// Package main is the single-binary entrypoint for Hivemind.
package main

import "github.com/hivemind-network/hivemind/internal/cli"

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	cli.Execute(version)
}
