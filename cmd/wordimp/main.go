package main

import (
	"fmt"
	"os"

	"wordimp/internal/commands"
)

func main() {
	if err := commands.New().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "wordimp: %v\n", err)
		os.Exit(1)
	}
}
