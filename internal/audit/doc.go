// Package audit provides an optional audit trail for vault-nacl operations.
//
// When enabled, every encrypt, decrypt, rekey and check run appends one
// entry to a JSON Lines file. The trail records what happened, never a
// password or plaintext.
//
// # Log Format
//
// Each line is a JSON object with:
//   - Timestamp (RFC3339 with microseconds, UTC)
//   - Run id, a UUID shared by every entry written by one process
//   - Operation name and the files it touched
//   - Number of spans processed, digest and iterations for sealing runs
//   - The error message when the operation failed
//
// # Usage
//
//	audit.Enable(cfg.AuditPath())
//	entry := audit.NewEntry("encrypt")
//	entry.Files = files
//	audit.Log(entry)
//
// # Failure Handling
//
// Audit logging is best-effort. If logging fails (permissions, disk full,
// etc.), the operation continues without error.
//
// # Reading Logs
//
// Use ReadEntries() to parse the audit log for display or analysis.
// Malformed entries are silently skipped to handle partial writes.
package audit
