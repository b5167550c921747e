// Package ui provides semantic text formatting for CLI output.
//
// Formatters render with color on capable terminals. When NO_COLOR is set
// or the terminal has no color support, text decorations are used instead.
//
//	ui.Code.Sprint("vault-nacl encrypt")    // Commands and code
//	ui.Path.Sprint("config/app.yaml")       // File paths
//	ui.Success.Sprint("✓")                  // Success indicators
//	ui.Error.Sprint("✗")                    // Error indicators
//	ui.Secret.Sprint("VAULT_NACL(AQAQ…)")   // Sealed spans
//	ui.Muted.Sprint("3 spans")              // De-emphasized text
//
// Without color, Code gets `backticks`, Highlight 'single quotes',
// Secret <angle brackets> and Muted (parentheses). Other formatters are
// self-evident from context and stay undecorated.
package ui
