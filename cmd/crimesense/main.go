package main

import (
	"fmt"
	"os"

	"github.com/crimesense/crimesense/internal/cli"
)

// version is set at build time via -ldflags.
var version = "0.2.0"

func main() {
	if err := cli.Run(version); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
