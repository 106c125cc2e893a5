package main

import (
	"os"

	"github.com/bnema/bbscapade/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
