package main

import (
	"fmt"
	"os"

	"github.com/clubcricket/scorebook/internal/auth"
)

// Generates a bcrypt hash for a PIN, for use in SCORER_PIN_HASH and
// MANAGER_PIN_HASH environment variables.
func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: pingen <pin>")
		os.Exit(1)
	}
	hash, err := auth.HashPIN(os.Args[1])
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to hash pin: %s\n", err)
		os.Exit(1)
	}
	fmt.Println(hash)
}
