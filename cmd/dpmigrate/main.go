package main

import (
	"os"

	"github.com/panos-tools/dpmigrate/cmd/dpmigrate/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
