package main

import (
	"os"

	"github.com/YuminosukeSato/woebin/cmd/woebin/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
