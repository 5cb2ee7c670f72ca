package main

import (
	"os"

	"github.com/jviki/xxtea/internal/commands"
)

// version is injected at build time via -ldflags.
var version = "dev"

func main() {
	if err := commands.Execute(version); err != nil {
		// cobra has already reported the error on stderr.
		os.Exit(1)
	}
}
