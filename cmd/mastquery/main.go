package main

import (
	"os"

	"github.com/duytnguyendtn/astroquery/cmd/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
