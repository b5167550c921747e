package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/PolarWolf314/vault-nacl/internal/ui"
	"github.com/PolarWolf314/vault-nacl/internal/workflows"

	"github.com/spf13/cobra"
)

// errNoSpans makes check exit non-zero without printing an error.
var errNoSpans = errors.New("no spans found")

var (
	checkQuick bool
	checkJSON  bool
)

func init() {
	checkCmd.Flags().BoolVarP(&checkQuick, "quick", "q", false, "stop at the first document holding a span")
	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "output as JSON")
}

// resetCheckState resets the check command's global state for testing.
func resetCheckState() {
	checkQuick = false
	checkJSON = false
}

var checkCmd = &cobra.Command{
	Use:   "check [files...]",
	Short: "Reports which documents hold sealed or pending spans",
	Long: `Counts the sealed and pending spans in the given documents. No password is
needed and nothing is modified.

Exits with status 1 when no document holds a span, so it can guard scripts
and commit hooks.

Examples:
  # Count spans in every env file
  vault-nacl check '**/*.env'

  # Fail a hook when a pending span would be committed
  vault-nacl check --json app.env | jq -e '.pending == 0'`,
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting check command")

	opts, err := documentOptions(cmd, args)
	if err != nil {
		return err
	}

	result, err := workflows.Check(cmd.Context(), workflows.CheckOptions{
		DocumentOptions: opts,
		Quick:           checkQuick,
	})
	if err != nil {
		return err
	}
	Logger.Debugf("Checked %s", ui.Plural(len(result.Files), "document"))

	w := cmd.OutOrStdout()
	switch {
	case checkJSON:
		data, err := json.MarshalIndent(checkReport(result), "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal check result to JSON: %w", err)
		}
		fmt.Fprintln(w, string(data))
	case checkQuick:
		for _, f := range result.Files {
			fmt.Fprintln(w, label(f.Path))
		}
	default:
		for _, f := range result.Files {
			fmt.Fprintf(w, "%-40s  %s  %s\n", label(f.Path),
				ui.Success.Sprintf("%d sealed", f.Sealed), ui.Warning.Sprintf("%d pending", f.Pending))
		}
	}

	if !result.Found {
		return errNoSpans
	}
	return nil
}

type checkFileJSON struct {
	Path    string `json:"path"`
	Sealed  int    `json:"sealed"`
	Pending int    `json:"pending"`
}

type checkResultJSON struct {
	Found   bool            `json:"found"`
	Sealed  int             `json:"sealed"`
	Pending int             `json:"pending"`
	Files   []checkFileJSON `json:"files"`
}

func checkReport(result *workflows.CheckResult) checkResultJSON {
	report := checkResultJSON{
		Found:   result.Found,
		Sealed:  result.Sealed,
		Pending: result.Pending,
		Files:   make([]checkFileJSON, 0, len(result.Files)),
	}
	for _, f := range result.Files {
		report.Files = append(report.Files, checkFileJSON{Path: label(f.Path), Sealed: f.Sealed, Pending: f.Pending})
	}
	return report
}

func label(path string) string {
	if path == "" {
		return "<stdin>"
	}
	return relPath(path)
}
