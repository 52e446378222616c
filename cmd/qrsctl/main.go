package main

import (
	"os"

	"github.com/qrs-tools/go-qrs-client/internal/cli"
)

func main() {
	os.Exit(cli.Execute(os.Args[1:]))
}
