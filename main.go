package main

import (
	"os"

	"github.com/docassist/docassist/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
