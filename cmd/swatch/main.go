// Command swatch manages design tokens, themes and light/dark modes.
package main

import (
	"os"

	"github.com/opencode-ai/swatch/internal/cli"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	if err := cli.Execute(version); err != nil {
		os.Exit(1)
	}
}
