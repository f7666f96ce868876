package main

import (
	"os"

	"github.com/Batoli19/cavista/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
