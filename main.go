package main

import (
	"os"

	"github.com/spigell/jobcoach/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
