package main

import (
	"os"

	"github.com/Makepad-fr/tada/internal/cli"
)

// set with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	os.Exit(cli.Execute(version, os.Args[1:], os.Stdout, os.Stderr))
}
