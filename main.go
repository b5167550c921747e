package main

import (
	"os"

	"github.com/PolarWolf314/vault-nacl/cmd"

	"github.com/awnumar/memguard"
)

func main() {
	// Wipe sealed password buffers on Ctrl-C as well as on normal exit.
	memguard.CatchInterrupt()

	code := cmd.Execute()
	memguard.Purge()
	os.Exit(code)
}
