// Package logger provides structured logging for vault-nacl commands.
//
// The logger supports multiple verbosity levels controlled by command-line
// flags. Output is formatted with semantic prefixes and colors from
// fatih/color.
//
// # Verbosity Levels
//
//   - --verbose: Shows info and warning messages
//   - --debug: Shows all messages including debug details
//
// Without flags, only critical warnings and errors are shown.
//
// # Log Methods
//
//	Logger.Infof()           // Shown with --verbose or --debug
//	Logger.Debugf()          // Shown only with --debug
//	Logger.Warnf()           // Shown with --verbose or --debug
//	Logger.WarnfAlways()     // Always shown (critical warnings)
//	Logger.Errorf()          // Always shown
//	Logger.ErrorfAndReturn() // Logs like Errorf with --debug and returns the error
//
// Nothing is ever logged about span contents: plaintexts, passwords and
// envelopes stay out of the log at every level.
package logger
