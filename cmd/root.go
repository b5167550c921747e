package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/PolarWolf314/vault-nacl/internal/audit"
	"github.com/PolarWolf314/vault-nacl/internal/configs"
	verrors "github.com/PolarWolf314/vault-nacl/internal/errors"
	logger "github.com/PolarWolf314/vault-nacl/internal/logging"
	"github.com/PolarWolf314/vault-nacl/internal/ui"
	"github.com/PolarWolf314/vault-nacl/internal/utils"
	"github.com/PolarWolf314/vault-nacl/internal/vault"

	"github.com/common-nighthawk/go-figure"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	verbose bool
	debug   bool
	Logger  logger.Logger

	configPath      string
	password        string
	passwordFile    string
	newPassword     string
	newPasswordFile string
	digest          string
	iterations      uint32
	output          string
	split           bool
	format          string
	markerName      string

	// settings is the loaded config with flag overrides applied.
	settings *configs.Config

	RootCmd = &cobra.Command{
		Use:   "vault-nacl",
		Short: "Password based encryption of secrets inside configuration files",
		Long: `vault-nacl seals secrets in place inside text, JSON, YAML, TOML and CBOR
documents. Wrap a value as VAULT_NACL(secret)VAULT_NACL and run encrypt; the
span becomes VAULT_NACL(<envelope>) and everything around it is left alone.

Envelopes are NaCl secretbox boxes keyed by PBKDF2, and carry their own digest,
iteration count and salt, so they can be opened with nothing but the password.

Passwords are taken from --password, --password-file, the VAULT_NACL_PASSWORD
environment variable, or an interactive prompt, in that order.

Examples:
  # Seal every pending span in a file
  vault-nacl encrypt config/app.env

  # Print the decrypted document
  vault-nacl decrypt --password-file ~/.vault-pass config/app.env

  # Seal a single secret and paste the result into a document
  vault-nacl encrypt`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			Logger = logger.Logger{
				Verbose: verbose,
				Debug:   debug,
				Out:     cmd.ErrOrStderr(),
				Err:     cmd.ErrOrStderr(),
			}
			Logger.Debugf("Initializing %s with verbose=%t, debug=%t", cmd.Name(), verbose, debug)
			return loadSettings(cmd)
		},
		Run: func(cmd *cobra.Command, args []string) {
			printBanner(cmd.OutOrStdout())
		},
	}
)

func init() {
	flags := RootCmd.PersistentFlags()
	flags.BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	flags.BoolVarP(&debug, "debug", "d", false, "enable debug output")
	flags.StringVar(&configPath, "config", "", "config file (default "+configs.DefaultConfigPath()+")")
	flags.StringVarP(&password, "password", "p", "", "password for the vault")
	flags.StringVar(&passwordFile, "password-file", "", "read the password from the first line of a file")
	flags.StringVar(&newPassword, "new-password", "", "password to rekey to")
	flags.StringVar(&newPasswordFile, "new-password-file", "", "read the new password from the first line of a file")
	flags.StringVar(&digest, "digest", "", "PBKDF2 digest for new spans (sha256, sha384, sha512, ripemd, whirlpool)")
	flags.Uint32Var(&iterations, "iterations", 0, "PBKDF2 iterations for new spans (default depends on digest)")
	flags.StringVarP(&output, "output", "o", "", "write the result to this file (single input only)")
	flags.BoolVar(&split, "split", false, "wrap new spans at 80 columns")
	flags.StringVar(&format, "format", "", "document format: text, json, yaml, toml, cbor or auto")
	flags.StringVar(&markerName, "marker", "", "marker name (default VAULT_NACL)")

	RootCmd.AddCommand(encryptCmd)
	RootCmd.AddCommand(decryptCmd)
	RootCmd.AddCommand(rekeyCmd)
	RootCmd.AddCommand(checkCmd)
	RootCmd.AddCommand(logCmd)
	RootCmd.AddCommand(ConfigCmd)
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	if err := RootCmd.Execute(); err != nil {
		printError(RootCmd.ErrOrStderr(), err)
		return 1
	}
	return 0
}

// loadSettings reads the config file and lays the command line over it.
func loadSettings(cmd *cobra.Command) error {
	cfg, err := configs.LoadConfig(configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("digest") {
		cfg.KDF.Digest = digest
	}
	if flags.Changed("iterations") {
		cfg.KDF.Iterations = iterations
	}
	if flags.Changed("split") {
		cfg.Output.SplitLines = split
	}
	if flags.Changed("format") {
		cfg.Output.Format = format
	}
	if flags.Changed("marker") {
		cfg.Output.Marker = markerName
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if cfg.Audit.Enabled {
		Logger.Debugf("Audit log: %s", cfg.AuditPath())
		audit.Enable(cfg.AuditPath())
	} else {
		audit.Disable()
	}

	settings = cfg
	return nil
}

// resolvePassword picks the password from the flag, the file, the
// environment, then the terminal.
func resolvePassword(value, file string, useEnv, confirm bool, prompt string) (string, error) {
	if value != "" {
		Logger.Debugf("Using password from flag")
		return value, nil
	}
	if file != "" {
		Logger.Debugf("Reading password from %s", file)
		return utils.ReadPasswordFile(file)
	}
	if useEnv {
		if pw, ok := utils.PasswordFromEnv(); ok {
			Logger.Debugf("Using password from %s", utils.PasswordEnv)
			return pw, nil
		}
	}
	if !utils.IsTerminal() && !utils.IsTTYAvailable() {
		return "", verrors.ErrNoPassword
	}
	if confirm {
		return utils.PromptNewPassword(prompt)
	}
	return utils.PromptPassword(prompt)
}

func currentPassword(confirm bool) (string, error) {
	return resolvePassword(password, passwordFile, true, confirm, "Password: ")
}

func printBanner(w io.Writer) {
	banner := figure.NewFigure("vault-nacl", "standard", true)
	fmt.Fprint(w, ui.Success.Sprint(banner.String()))
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run "+ui.Code.Sprint("vault-nacl --help")+" to see available commands.")
}

func printError(w io.Writer, err error) {
	if errors.Is(err, errNoSpans) {
		return
	}
	fmt.Fprintln(w, ui.Error.Sprint("Error: ")+err.Error())
	if h := hint(err); h != "" {
		fmt.Fprintln(w, ui.Info.Sprint("→")+" "+h)
	}
}

// hint suggests a fix for the common failures.
func hint(err error) string {
	switch {
	case errors.Is(err, verrors.ErrNoPassword):
		return "Pass " + ui.Flag.Sprint("--password") + ", " + ui.Flag.Sprint("--password-file") +
			" or set " + ui.Code.Sprint(utils.PasswordEnv)
	case errors.Is(err, verrors.ErrDecryptFailed):
		return "The password does not open this document, or a span was altered"
	case errors.Is(err, verrors.ErrNoInput):
		return "Pass files or pipe a document to this command"
	case errors.Is(err, verrors.ErrUnsupportedDigest):
		return "Choose one of sha256, sha384, sha512, ripemd or whirlpool for " + ui.Flag.Sprint("--digest")
	case errors.Is(err, verrors.ErrIterationsOutOfRange):
		return "Choose " + ui.Flag.Sprint("--iterations") + " between 1 and " + fmt.Sprint(vault.MaxIterations)
	}
	return ""
}

// ResetGlobalState resets all flag variables to their defaults for testing.
func ResetGlobalState() {
	verbose = false
	debug = false
	configPath = ""
	password = ""
	passwordFile = ""
	newPassword = ""
	newPasswordFile = ""
	digest = ""
	iterations = 0
	output = ""
	split = false
	format = ""
	markerName = ""
	settings = nil
	resetCheckState()
	resetLogState()
	resetConfigState()
	resetCobraFlagState(RootCmd)
	audit.Disable()
}

// resetCobraFlagState clears Changed on every flag so tests don't leak
// overrides into each other.
func resetCobraFlagState(c *cobra.Command) {
	unset := func(flag *pflag.Flag) { flag.Changed = false }
	c.Flags().VisitAll(unset)
	c.PersistentFlags().VisitAll(unset)
	for _, sub := range c.Commands() {
		resetCobraFlagState(sub)
	}
}
