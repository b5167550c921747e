// Package utils provides shared helpers for the vault-nacl commands.
//
// # File Utilities
//
// Functions for turning user input into files to process:
//   - ResolveFiles: expands paths, directories and ** globs
//   - WriteFileAtomic: replaces a file without exposing partial content
//   - FormatPaths: formats file paths for human-readable output
//
// # Password Utilities
//
// Functions for obtaining passwords without putting them on the command line:
//   - ReadPasswordFile: first non-blank line of a file
//   - PasswordFromEnv: the VAULT_NACL_PASSWORD environment variable
//   - PromptPassword / PromptNewPassword: hidden terminal input
//
// # I/O Utilities
//
// Functions for reading from stdin:
//   - ReadStdin: reads all piped data from standard input
//
// # Terminal Utilities
//
// Functions for terminal detection and interaction:
//   - IsTerminal: checks if stdin is a terminal
//   - ReadPassphrase: reads a line without echo
package utils
