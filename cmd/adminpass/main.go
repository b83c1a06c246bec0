// Command adminpass prompts for the admin password and prints the bcrypt
// hash to put into ADMIN_PASSWORD_HASH.
package main

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/term"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

var errMismatch = errors.New("passwords do not match")

const minPasswordLen = 8

func prompt(w io.Writer, label string) ([]byte, error) {
	if _, err := fmt.Fprint(w, label); err != nil {
		return nil, err
	}
	pw, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	return pw, err
}

func run(stdout, stderr io.Writer, cost int) error {
	first, err := prompt(stderr, "Admin password: ")
	if err != nil {
		return err
	}
	defer clear(first)

	if len(first) < minPasswordLen {
		return fmt.Errorf("password must be at least %d characters", minPasswordLen)
	}

	second, err := prompt(stderr, "Repeat password: ")
	if err != nil {
		return err
	}
	defer clear(second)

	if !bytes.Equal(first, second) {
		return errMismatch
	}

	hash, err := bcrypt.GenerateFromPassword(first, cost)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(stdout, string(hash))
	return err
}

func main() {
	cost := flag.Int("cost", bcrypt.DefaultCost, "bcrypt cost")
	flag.Parse()

	if err := run(os.Stdout, os.Stderr, *cost); err != nil {
		fmt.Fprintln(os.Stderr, "adminpass:", err)
		os.Exit(1)
	}
}
