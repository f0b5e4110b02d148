// Command homeinv tracks household items and whether they are boxed.
package main

import (
	"os"

	"github.com/roach88/homeinv/internal/cli"
)

func main() {
	os.Exit(cli.Execute(os.Args[1:], os.Stdout, os.Stderr))
}
