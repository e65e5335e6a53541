package main

import (
	"os"

	"github.com/tara-vision/codezap/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
