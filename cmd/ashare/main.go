package main

import (
	"os"

	"github.com/quantlab/ashare/cmd/ashare/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
