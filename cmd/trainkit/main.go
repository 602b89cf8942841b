package main

import (
	"os"

	"github.com/trainkit/trainkit/cmd/trainkit/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
