package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/PolarWolf314/vault-nacl/internal/audit"
	"github.com/PolarWolf314/vault-nacl/internal/ui"

	"github.com/spf13/cobra"
)

var (
	logLimit     int
	logReverse   bool
	logOperation string
	logOneline   bool
	logJSON      bool
)

func init() {
	logCmd.Flags().IntVarP(&logLimit, "number", "n", 0, "limit number of entries shown")
	logCmd.Flags().BoolVar(&logReverse, "reverse", false, "show most recent entries first")
	logCmd.Flags().StringVar(&logOperation, "operation", "", "filter by operation type (comma-separated)")
	logCmd.Flags().BoolVar(&logOneline, "oneline", false, "compact one-line format")
	logCmd.Flags().BoolVar(&logJSON, "json", false, "output as JSON array")
}

// resetLogState resets the log command's global state for testing.
func resetLogState() {
	logLimit = 0
	logReverse = false
	logOperation = ""
	logOneline = false
	logJSON = false
}

var logCmd = &cobra.Command{
	Use:   "log",
	Short: "View the audit log",
	Long: `Displays the audit log of encrypt, decrypt, rekey and check runs.

The log is written only when [audit] enabled = true is set in the config file.
It records which files were touched and how many spans, never their contents.

Examples:
  vault-nacl log                              # View full log
  vault-nacl log -n 10                        # Last 10 entries
  vault-nacl log --reverse                    # Most recent first
  vault-nacl log --operation encrypt,rekey    # Filter by operation
  vault-nacl log --json                       # JSON output`,
	RunE: runLog,
}

func runLog(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting log command")
	path := settings.AuditPath()

	Logger.Debugf("Reading audit log from %s", path)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			fmt.Fprintln(cmd.ErrOrStderr(), ui.Info.Sprint("ℹ")+" No audit log found at "+ui.Path.Sprint(path))
			return nil
		}
		return fmt.Errorf("failed to read audit log: %w", err)
	}

	entries, err := audit.ParseEntries(data)
	if err != nil {
		return err
	}
	total := len(entries)
	entries = filterEntries(entries, logOperation, logLimit, logReverse)
	Logger.Debugf("After filtering: %d of %d entries", len(entries), total)

	w := cmd.OutOrStdout()
	if len(entries) == 0 {
		if total == 0 {
			fmt.Fprintln(w, "No audit log entries found.")
		} else {
			fmt.Fprintln(w, "No audit log entries found matching the filters.")
		}
		return nil
	}

	switch {
	case logJSON:
		out, err := json.MarshalIndent(entries, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal entries to JSON: %w", err)
		}
		fmt.Fprintln(w, string(out))
	case logOneline:
		outputLogOneline(w, entries)
	default:
		outputLogDefault(w, entries)
	}
	return nil
}

// filterEntries keeps entries whose operation is listed in ops (all when
// empty), then applies the order and the limit. The limit keeps the most
// recent entries.
func filterEntries(entries []audit.Entry, ops string, limit int, reverse bool) []audit.Entry {
	var wanted map[string]bool
	if ops != "" {
		wanted = make(map[string]bool)
		for _, op := range strings.Split(ops, ",") {
			wanted[strings.TrimSpace(op)] = true
		}
	}

	var out []audit.Entry
	for _, e := range entries {
		if wanted == nil || wanted[e.Operation] {
			out = append(out, e)
		}
	}

	if limit > 0 && len(out) > limit {
		out = out[len(out)-limit:]
	}
	if reverse {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out
}

func outputLogOneline(w io.Writer, entries []audit.Entry) {
	for _, e := range entries {
		fmt.Fprintf(w, "%s %s %s\n", formatTime(e.Timestamp, "2006-01-02"), e.Operation, formatDetails(e))
	}
}

func outputLogDefault(w io.Writer, entries []audit.Entry) {
	for _, e := range entries {
		fmt.Fprintf(w, "%-19s  %-8s  %-14s  %s\n",
			formatTime(e.Timestamp, "2006-01-02 15:04:05"), shortRun(e.Run), e.Operation, formatDetails(e))
	}
}

func formatTime(ts, layout string) string {
	t, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return ts
	}
	return t.Local().Format(layout)
}

func shortRun(run string) string {
	if len(run) > 8 {
		return run[:8]
	}
	return run
}

func formatDetails(e audit.Entry) string {
	var parts []string
	if len(e.Files) > 0 {
		parts = append(parts, ui.Plural(len(e.Files), "file"))
	}
	if e.Spans > 0 {
		parts = append(parts, ui.Plural(e.Spans, "span"))
	}
	if e.Digest != "" {
		parts = append(parts, fmt.Sprintf("%s/%d", e.Digest, e.Iterations))
	}
	if e.Error != "" {
		parts = append(parts, ui.Error.Sprint("failed: "+e.Error))
	}
	return strings.Join(parts, ", ")
}
