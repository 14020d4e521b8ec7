package main

import (
	"fmt"
	"os"

	"github.com/guyvdb/recstore/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "recstore:", err)
		os.Exit(1)
	}
}
