// Command converge rewrites a source file into its target shape with an
// ordered set of idempotent rules.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/converge/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(cli.GetExitCode(err))
	}
}
