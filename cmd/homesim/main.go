package main

import (
	"os"

	"github.com/carlos-arino/mcp-home-simulator/pkg/cli"
)

func main() {
	os.Exit(cli.Execute(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}
