package main

import (
	"log"
	"os"

	"github.com/zcleaner/installer-assets/internal/cli"
	"github.com/zcleaner/installer-assets/internal/core"
)

func main() {
	if err := cli.Generate(core.VariantLogo, os.Stdout); err != nil {
		log.Printf("asset generation failed: %v", err)
		os.Exit(1)
	}
}
