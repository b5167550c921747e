package cmd

import (
	"github.com/PolarWolf314/vault-nacl/internal/ui"
	"github.com/PolarWolf314/vault-nacl/internal/workflows"

	"github.com/spf13/cobra"
)

var decryptCmd = &cobra.Command{
	Use:   "decrypt [files...]",
	Short: "Prints the given documents with every sealed span opened",
	Long: `Opens every sealed span in the given documents and prints the result to
stdout, or to --output when a single document is given. Input files are never
modified.

Examples:
  # Print a decrypted file
  vault-nacl decrypt config/app.env

  # Decrypt a JSON document to a file
  vault-nacl decrypt --format json -o secrets.json secrets.sealed.json

  # Decrypt a piped document
  kubectl get cm app -o yaml | vault-nacl decrypt --format yaml`,
	RunE: runDecrypt,
}

func runDecrypt(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting decrypt command")

	opts, err := documentOptions(cmd, args)
	if err != nil {
		return err
	}

	pw, err := currentPassword(false)
	if err != nil {
		return err
	}

	s, cleanup := startSpinner(cmd, "Decrypting...")
	defer cleanup()

	result, err := workflows.Decrypt(cmd.Context(), workflows.DecryptOptions{
		DocumentOptions: opts,
		Password:        pw,
	})
	if err != nil {
		return err
	}
	Logger.Infof("Opened %s", ui.Plural(result.Spans, "span"))

	if err := writeContent(cmd, result.Content); err != nil {
		return err
	}
	if changed := writtenFiles(result.Files); len(changed) > 0 {
		s.FinalMSG = success("Opened %s into %s", ui.Plural(result.Spans, "span"), ui.Path.Sprint(changed[0]))
	}
	return nil
}
