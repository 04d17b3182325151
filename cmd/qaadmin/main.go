package main

import (
	"os"

	"github.com/jo-hoe/sialiccatalog/internal/adminctl"
)

func main() {
	if err := adminctl.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
