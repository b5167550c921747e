package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/PolarWolf314/vault-nacl/internal/configs"
	"github.com/PolarWolf314/vault-nacl/internal/ui"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
)

var (
	configInitForce bool
	configShowJSON  bool

	// ConfigCmd is the top-level config command.
	ConfigCmd = &cobra.Command{
		Use:   "config",
		Short: "Manage vault-nacl configuration",
		Long: `Provides commands for managing the user configuration file.

The file holds the KDF defaults for new spans, output preferences and the
audit log switch. Command line flags always win over the file.

Examples:
  # Write a config file with the current settings
  vault-nacl config init --digest sha512 --split

  # Show the effective configuration
  vault-nacl config show`,
	}

	configInitCmd = &cobra.Command{
		Use:   "init",
		Short: "Write the current settings to the config file",
		RunE:  runConfigInit,
	}

	configShowCmd = &cobra.Command{
		Use:   "show",
		Short: "Display the effective configuration",
		RunE:  runConfigShow,
	}
)

func init() {
	configInitCmd.Flags().BoolVarP(&configInitForce, "force", "f", false, "overwrite an existing config file")
	configShowCmd.Flags().BoolVar(&configShowJSON, "json", false, "output in JSON format")
	ConfigCmd.AddCommand(configInitCmd)
	ConfigCmd.AddCommand(configShowCmd)
}

// resetConfigState resets the config commands' global state for testing.
func resetConfigState() {
	configInitForce = false
	configShowJSON = false
}

func configFile() string {
	if configPath != "" {
		return configPath
	}
	return configs.DefaultConfigPath()
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting config init command")
	path := configFile()

	if _, err := os.Stat(path); err == nil && !configInitForce {
		fmt.Fprintln(cmd.ErrOrStderr(), ui.Info.Sprint("ℹ")+" Config already exists at "+ui.Path.Sprint(path)+"\n"+
			ui.Info.Sprint("→")+" Run "+ui.Code.Sprint("vault-nacl config init --force")+" to overwrite it")
		return nil
	} else if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}

	Logger.Debugf("Writing config to %s", path)
	if err := configs.SaveConfig(path, settings); err != nil {
		return err
	}

	fmt.Fprintln(cmd.ErrOrStderr(), success("Config written to %s", ui.Path.Sprint(path)))
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting config show command")
	w := cmd.OutOrStdout()

	if configShowJSON {
		data, err := json.MarshalIndent(settings, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal config to JSON: %w", err)
		}
		fmt.Fprintln(w, string(data))
		return nil
	}

	fmt.Fprintln(w, ui.Muted.Sprint("# "+configFile()))
	if err := toml.NewEncoder(w).Encode(settings); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}
