package main

import (
	"os"
)

func main() {
	if err := newRootCmd(run).Execute(); err != nil {
		os.Exit(1)
	}
}
