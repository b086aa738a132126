// Package main provides the entry point for the proto CLI.
package main

import "os"

func main() {
	if err := Execute(); err != nil {
		printError(err)
		os.Exit(1)
	}
	os.Exit(exitCode)
}
