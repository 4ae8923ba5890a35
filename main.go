package main

import (
	"os"

	"github.com/Makepad-fr/tada/internal/cli"
)

var version = "dev"

// Lets `go install github.com/Makepad-fr/tada@latest` produce the tada binary.
func main() {
	os.Exit(cli.Execute(version, os.Args[1:], os.Stdout, os.Stderr))
}
