package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		// Interrupts already terminate cleanly; don't echo the
		// cancellation back at the user.
		if !errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "octostore:", err)
		}
		os.Exit(1)
	}
}
