package main

import (
	"os"

	"github.com/tlegrand/emploi-assistant/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
