package main

import (
	"fmt"
	"io"
	"os"

	"pubcrates/internal/errors"
)

// cargoSubcommand is the argument cargo inserts when running us as
// `cargo pubcrates`.
const cargoSubcommand = "pubcrates"

func main() {
	rootCmd.SetArgs(cliArgs(os.Args[1:], os.Getenv))
	err := rootCmd.Execute()
	closeSession()
	if err != nil {
		var exit *exitError
		if !errors.As(err, &exit) {
			printError(os.Stderr, err)
		}
		os.Exit(exitCode(err))
	}
}

// cliArgs drops the subcommand name cargo passes along. Inside a build
// script CARGO_PKG_NAME is set as well, so a literal "pubcrates" argument
// is kept there.
func cliArgs(args []string, getenv func(string) string) []string {
	if len(args) > 0 && args[0] == cargoSubcommand &&
		getenv("CARGO") != "" && getenv("CARGO_PKG_NAME") == "" {
		return args[1:]
	}
	return args
}

// exitError ends the process with code without printing anything.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

func exitCode(err error) int {
	if err == nil {
		return 0
	}
	var exit *exitError
	if errors.As(err, &exit) {
		return exit.code
	}
	return 1
}

// printError writes err and its suggested fixes.
func printError(w io.Writer, err error) {
	fmt.Fprintf(w, "Error: %v\n", err)

	var coded *errors.Error
	if errors.As(err, &coded) {
		if details, ok := coded.Details.(map[string]interface{}); ok {
			if stderr, ok := details["stderr"].(string); ok && stderr != "" {
				fmt.Fprintf(w, "\n%s\n", stderr)
			}
		}
	}

	fixes := errors.Fixes(err)
	if len(fixes) == 0 {
		return
	}
	fmt.Fprintln(w, "\nSuggested fixes:")
	for _, fix := range fixes {
		fmt.Fprintf(w, "  - %s\n", fix.Description)
		if fix.Command != "" {
			fmt.Fprintf(w, "    $ %s\n", fix.Command)
		}
		if fix.Path != "" {
			fmt.Fprintf(w, "    edit %s\n", fix.Path)
		}
	}
}
