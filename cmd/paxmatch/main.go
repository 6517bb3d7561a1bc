package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"paxmatch/internal/pipeline"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitBlocked = 3
)

func main() {
	// A .env beside the data is optional; real environment variables win.
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			fmt.Fprintf(os.Stderr, "warn: unable to load .env: %v\n", err)
		}
	}

	cmd := newRootCommand()
	err := cmd.Execute()
	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(exitCode(err))
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, pipeline.ErrBlocked):
		return exitBlocked
	default:
		return exitFailure
	}
}
