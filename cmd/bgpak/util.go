package main

import (
	"fmt"
	"os"
)

// showWarning prints a non-fatal warning to stderr.
func showWarning(msg string) {
	fmt.Fprintf(os.Stderr, "\x1b[33m\x1b[1m>>\x1b[0m %s\n", msg)
}

// showError prints a fatal error to stderr.
func showError(err error) {
	fmt.Fprintf(os.Stderr, "\x1b[31m\x1b[1m!!\x1b[0m %s\n", err.Error())
}
