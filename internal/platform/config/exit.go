package config

import (
	"fmt"
	"log"
	"os"
)

const (
	exitFailure = 1
	// exitUsage matches the flag package's exit code for bad arguments.
	exitUsage = 2
)

var exit = os.Exit

// Exitf writes the log prefix and a formatted message to stderr, then exits
// with code 1.
func Exitf(format string, args ...any) {
	exitf(exitFailure, format, args...)
}

// ExitUsagef is Exitf for invalid flags or environment; it exits with code 2.
func ExitUsagef(format string, args ...any) {
	exitf(exitUsage, format, args...)
}

func exitf(code int, format string, args ...any) {
	fmt.Fprintf(os.Stderr, log.Prefix()+format+"\n", args...)
	exit(code)
}
