package main

import (
	"context"
	"os"
)

// getRepoRoot returns the directory holding .pubcrates/.
func getRepoRoot() (string, error) {
	return os.Getwd()
}

// newContext creates a new context for command execution.
func newContext() context.Context {
	return context.Background()
}
