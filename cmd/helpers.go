package cmd

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/PolarWolf314/vault-nacl/internal/document"
	"github.com/PolarWolf314/vault-nacl/internal/ui"
	"github.com/PolarWolf314/vault-nacl/internal/workflows"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
)

// startSpinner creates and starts a spinner on the command's stderr when not
// in verbose or debug mode. Stdout is left to document content.
// Returns the spinner and a function that should be deferred to clean up.
//
// spinner.FinalMSG values do NOT need trailing newlines. The cleanup function
// calls ui.EnsureNewline() on the final message before printing it.
func startSpinner(cmd *cobra.Command, message string) (*spinner.Spinner, func()) {
	w := cmd.ErrOrStderr()
	quiet := !verbose && !debug

	Logger.Debugf("Starting spinner with message: %s", message)
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(w))
	s.Suffix = " " + message

	if err := s.Color("cyan"); err != nil {
		Logger.Warnf("Failed to set spinner color: %v", err)
	}

	if quiet {
		s.Start()
		// Ensure log output is discarded unless in verbose mode.
		log.SetOutput(io.Discard)
	} else {
		Logger.Infof("Running in verbose or debug mode: %s", message)
	}

	cleanup := func() {
		if quiet {
			log.SetOutput(os.Stderr)
		}

		finalMsg := ""
		if s.FinalMSG != "" {
			finalMsg = ui.EnsureNewline(s.FinalMSG)
			// Clear FinalMSG so s.Stop() doesn't print it.
			s.FinalMSG = ""
		}

		if quiet {
			s.Stop()
		}

		if finalMsg != "" {
			fmt.Fprint(w, finalMsg)
		}
	}

	return s, cleanup
}

// documentOptions builds the shared workflow options from the settings and
// the positional file arguments.
func documentOptions(cmd *cobra.Command, args []string) (workflows.DocumentOptions, error) {
	f, err := document.ParseFormat(settings.Output.Format)
	if err != nil {
		return workflows.DocumentOptions{}, err
	}
	p, err := settings.Marker()
	if err != nil {
		return workflows.DocumentOptions{}, err
	}

	opts := workflows.DocumentOptions{
		FilePatterns: args,
		Output:       output,
		Format:       f,
		Marker:       p,
		Logger:       Logger,
	}
	if in := cmd.InOrStdin(); in != os.Stdin {
		opts.Stdin = in
	}
	return opts, nil
}

// writeContent prints document content to stdout exactly as produced.
func writeContent(cmd *cobra.Command, content []byte) error {
	if len(content) == 0 {
		return nil
	}
	_, err := cmd.OutOrStdout().Write(content)
	return err
}

// writtenFiles returns the files a workflow wrote.
func writtenFiles(files []workflows.FileResult) []string {
	var out []string
	for _, f := range files {
		if f.Output != "" {
			out = append(out, relPath(f.Output))
		}
	}
	return out
}

// relPath shows path relative to the working directory when it lies below it.
func relPath(path string) string {
	wd, err := os.Getwd()
	if err != nil {
		return path
	}
	if rel, err := filepath.Rel(wd, path); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}
	return path
}

func success(format string, a ...any) string {
	return ui.Success.Sprint("✓") + " " + fmt.Sprintf(format, a...)
}
