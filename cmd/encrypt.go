package cmd

import (
	"fmt"

	"github.com/PolarWolf314/vault-nacl/internal/ui"
	"github.com/PolarWolf314/vault-nacl/internal/utils"
	"github.com/PolarWolf314/vault-nacl/internal/workflows"

	"github.com/spf13/cobra"
)

var encryptCmd = &cobra.Command{
	Use:   "encrypt [files...]",
	Short: "Seals every pending span in the given documents",
	Long: `Seals every VAULT_NACL(secret)VAULT_NACL span in the given documents and
rewrites them in place. Spans that are already sealed are checked against the
password first, so a document never ends up sealed under two passwords.

Files may be paths, directories or ** globs. With no files the document is
read from stdin and the result printed to stdout. With no files and no piped
input, a single secret is read from the terminal and printed as a sealed span
ready to paste into a document.

Examples:
  # Seal spans in place
  vault-nacl encrypt config/app.env

  # Seal every YAML file under deploy/
  vault-nacl encrypt --format auto 'deploy/**/*.yaml'

  # Seal a piped document
  cat app.env | vault-nacl encrypt --password-file ~/.vault-pass > app.sealed.env

  # Seal a single secret
  vault-nacl encrypt --digest sha512`,
	RunE: runEncrypt,
}

func runEncrypt(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting encrypt command")

	opts, err := documentOptions(cmd, args)
	if err != nil {
		return err
	}

	if len(args) == 0 && opts.Stdin == nil && utils.IsTerminal() {
		Logger.Debugf("No files and no piped input, sealing a single secret")
		return runEncryptSecret(cmd)
	}

	pw, err := currentPassword(true)
	if err != nil {
		return err
	}

	s, cleanup := startSpinner(cmd, "Encrypting...")
	defer cleanup()

	result, err := workflows.Encrypt(cmd.Context(), workflows.EncryptOptions{
		DocumentOptions: opts,
		Password:        pw,
		Vault:           settings.VaultConfig(),
		SplitLines:      settings.Output.SplitLines,
	})
	if err != nil {
		return err
	}
	Logger.Infof("Sealed with %s, %d iterations", result.Digest, result.Iterations)

	if err := writeContent(cmd, result.Content); err != nil {
		return err
	}

	changed := writtenFiles(result.Files)
	switch {
	case len(changed) > 0:
		s.FinalMSG = success("Sealed %s in %s:", ui.Plural(result.Spans, "span"), ui.Plural(len(changed), "file")) +
			utils.FormatPaths(changed)
	case len(args) > 0:
		s.FinalMSG = ui.Info.Sprint("ℹ") + " Nothing to encrypt in " + ui.Plural(len(result.Files), "file")
	}
	return nil
}

// runEncryptSecret prompts for one secret and prints it sealed.
func runEncryptSecret(cmd *cobra.Command) error {
	pw, err := currentPassword(true)
	if err != nil {
		return err
	}
	secret, err := utils.PromptPassword("Secret: ")
	if err != nil {
		return err
	}

	p, err := settings.Marker()
	if err != nil {
		return err
	}

	splitLines := true
	if cmd.Flags().Changed("split") {
		splitLines = split
	}

	s, cleanup := startSpinner(cmd, "Encrypting...")
	defer cleanup()

	span, err := workflows.EncryptSecret(cmd.Context(), workflows.EncryptSecretOptions{
		Password:   pw,
		Vault:      settings.VaultConfig(),
		Secret:     secret,
		SplitLines: splitLines,
		Marker:     p,
	})
	if err != nil {
		return err
	}

	s.FinalMSG = success("Secret sealed, paste the span below into your document")
	fmt.Fprintln(cmd.OutOrStdout(), span)
	return nil
}
