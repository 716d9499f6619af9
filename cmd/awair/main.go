package main

import (
	"os"

	"github.com/monorkin/go-awair/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
