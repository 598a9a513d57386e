package main

import (
	"os"

	"github.com/statuspond/statuspond/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
