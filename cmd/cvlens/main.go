package main

import (
	"os"

	"github.com/cvlens/cvlens/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
