package main

import (
	"os"

	"github.com/pranavbn/interview-agent/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
