// Package main is the single-binary entrypoint for SwipeDeck.
package main

import (
	"github.com/swipedeck/swipedeck/internal/cli"
	"github.com/swipedeck/swipedeck/internal/daemon"
)

// version is set at build time via -ldflags.
var version = "dev"

func main() {
	daemon.Version = version
	cli.Execute(version)
}
