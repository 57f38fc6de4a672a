// passvault-cli is the operator's companion tool: it prepares master-lock
// configuration values and generates passwords without a running server.
package main

import (
	"flag"
	"fmt"
	"os"

	"golang.org/x/term"

	"github.com/sbuga/passvault/internal/common"
	"github.com/sbuga/passvault/internal/cryptox"
	"github.com/sbuga/passvault/internal/passgen"
	"github.com/sbuga/passvault/internal/server/masterlock"
)

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "hash-master":
		err = runHashMaster(os.Stdout)
	case "generate":
		err = runGenerate(os.Stdout, os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage:
  passvault-cli hash-master   interactively hash a master-lock passphrase
  passvault-cli generate      generate a random password
      -l int    password length (default 16)
      -s bool   include special characters (default true)`)
}

// runHashMaster reads a passphrase twice without echo and prints the env
// values that pin the master lock in configuration.
func runHashMaster(w *os.File) error {
	fmt.Fprint(w, "Enter master passphrase: ")
	first, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return err
	}

	defer common.WipeByteArray(first)

	fmt.Fprint(w, "Repeat master passphrase: ")
	second, err := readPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(w)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(second)

	if string(first) != string(second) {
		return fmt.Errorf("passphrases do not match")
	}
	if len(first) < masterlock.MinLength {
		return fmt.Errorf("master passphrase must be at least %d characters long", masterlock.MinLength)
	}

	salt, err := cryptox.GenerateSalt()
	if err != nil {
		return err
	}
	digest := cryptox.DigestWithSalt(string(first), salt)

	fmt.Fprintf(w, "MASTER_PASSWORD_HASH=%s\n", digest)
	fmt.Fprintf(w, "MASTER_PASSWORD_SALT=%s\n", salt)
	return nil
}

func runGenerate(w *os.File, args []string) error {
	fs := flag.NewFlagSet("generate", flag.ExitOnError)
	length := fs.Int("l", 16, "password length")
	includeSpecial := fs.Bool("s", true, "include special characters")
	if err := fs.Parse(args); err != nil {
		return err
	}

	password, err := passgen.Generate(*length, *includeSpecial)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "%s\n", password)
	fmt.Fprintf(w, "strength: %d/100\n", passgen.Score(password))
	return nil
}
