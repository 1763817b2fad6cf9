package main

import (
	"fmt"
	"os"

	"github.com/kilianp07/cpm/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "cpm:", err)
		os.Exit(1)
	}
}
