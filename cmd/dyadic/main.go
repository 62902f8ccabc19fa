// Command dyadic computes octonion products and the dyadic horizon of
// OEIS A003558.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/a003558/dyadic/internal/cli"
)

func main() {
	err := cli.NewRootCommand().Execute()
	if err == nil {
		return
	}
	// Commands report their own failures; flag and usage errors arrive bare.
	var exitErr *cli.ExitError
	if !errors.As(err, &exitErr) {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.ExitCommandError)
	}
	os.Exit(exitErr.Code)
}
