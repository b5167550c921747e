// Package vault implements the password based envelope cipher.
//
// A Vault holds one password and one key derivation configuration and turns
// plaintext into a self describing, base64 encoded envelope and back. It has
// no knowledge of documents or markers; see package engine for that.
//
// # Envelope Format
//
// Every envelope is the concatenation of
//
//	offset  size  field
//	0       1     version (currently 1)
//	1       1     digest id (index into sha256, sha384, sha512, ripemd, whirlpool)
//	2       4     PBKDF2 iterations, little-endian
//	6       32    salt
//	38      rest  NaCl secretbox output (tag followed by ciphertext)
//
// encoded with standard base64.
//
// # Key Derivation
//
// PBKDF2 over the password, the salt, the iteration count and the digest
// yields 56 bytes: the first 24 are the secretbox nonce, the remaining 32
// the key. No nonce is stored; a fresh random salt per envelope keeps the
// (key, nonce) pair unique.
//
// # Failure Reporting
//
// Envelopes from a newer format version, unknown digest ids and iteration
// counts above MaxIterations are rejected before any key derivation. Every failure of the authenticated decryption
// itself is reported as errors.ErrDecryptFailed, whatever the cause.
//
// # Password Handling
//
// The password lives in a memguard Enclave and is only decrypted into locked
// memory for the duration of a key derivation. Clear makes the vault unusable
// by dropping its enclave; the sealed bytes are released to the garbage
// collector, and memguard.Purge (called by the CLI on exit and on interrupt)
// destroys the session key that could open them.
package vault
