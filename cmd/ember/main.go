package main

import (
	"os"

	"github.com/msto63/ember/cmd/ember/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
