// Package configs manages the vault-nacl user configuration.
//
// Configuration is stored in TOML at $XDG_CONFIG_HOME/vault-nacl/config.toml
// unless a path is given explicitly. A missing file is not an error; the
// defaults apply.
//
// # Sections
//
//	[kdf]     digest and iterations used when sealing new spans
//	[output]  line splitting, marker name and document format
//	[audit]   optional JSONL trail of operations
//
// Command line flags override every value read from the file.
//
// # Settings
//
// UserVaultSettings holds the directories the tool uses. It is initialised
// at startup and may be replaced by tests.
package configs
