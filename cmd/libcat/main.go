package main

import (
	"os"

	"github.com/justyntemme/libcat/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		cli.Errorf("%v", err)
		os.Exit(1)
	}
}
