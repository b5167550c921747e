package cmd

import (
	"github.com/PolarWolf314/vault-nacl/internal/ui"
	"github.com/PolarWolf314/vault-nacl/internal/utils"
	"github.com/PolarWolf314/vault-nacl/internal/workflows"

	"github.com/spf13/cobra"
)

var rekeyCmd = &cobra.Command{
	Use:   "rekey [files...]",
	Short: "Reseals every span in the given documents under a new password",
	Long: `Opens every sealed span with the current password and seals it again with
the new password, digest and iteration count. Pending spans are sealed with the
new password too. Spans keep their line wrapping.

Every document is rekeyed before any is written, so a wrong current password
leaves all of them untouched.

The new password comes from --new-password, --new-password-file, or a prompt
that asks for it twice.

Examples:
  # Rotate the password of every env file
  vault-nacl rekey --password-file old.pass --new-password-file new.pass '**/*.env'

  # Move existing spans to sha512
  vault-nacl rekey --digest sha512 config/app.env`,
	RunE: runRekey,
}

func runRekey(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting rekey command")

	opts, err := documentOptions(cmd, args)
	if err != nil {
		return err
	}

	pw, err := currentPassword(false)
	if err != nil {
		return err
	}
	newPw, err := resolvePassword(newPassword, newPasswordFile, false, true, "New password: ")
	if err != nil {
		return err
	}

	s, cleanup := startSpinner(cmd, "Rekeying...")
	defer cleanup()

	result, err := workflows.Rekey(cmd.Context(), workflows.RekeyOptions{
		DocumentOptions: opts,
		Password:        pw,
		NewPassword:     newPw,
		NewVault:        settings.VaultConfig(),
		SplitLines:      settings.Output.SplitLines,
	})
	if err != nil {
		return err
	}
	Logger.Infof("Resealed with %s, %d iterations", result.Digest, result.Iterations)

	if err := writeContent(cmd, result.Content); err != nil {
		return err
	}

	changed := writtenFiles(result.Files)
	switch {
	case len(changed) > 0:
		s.FinalMSG = success("Rekeyed %s in %s:", ui.Plural(result.Spans, "span"), ui.Plural(len(changed), "file")) +
			utils.FormatPaths(changed)
	case len(args) > 0:
		s.FinalMSG = ui.Info.Sprint("ℹ") + " Nothing to rekey in " + ui.Plural(len(result.Files), "file")
	}
	return nil
}
