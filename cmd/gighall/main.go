// Command gighall runs the marketplace backend.
package main

import (
	"os"

	"github.com/gighall/gighall/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
