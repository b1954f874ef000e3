// Command perspective queries a fleet inventory with a small SQL-like
// language.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/perspective/internal/cli"
)

func main() {
	err := cli.NewRootCommand().Execute()
	if err != nil {
		var exitErr *cli.ExitError
		// Commands print their own errors; only argument and flag
		// errors from cobra still need reporting.
		if !errors.As(err, &exitErr) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
	}
	os.Exit(cli.GetExitCode(err))
}
