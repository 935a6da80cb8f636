package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newLoginCmd creates and returns a new login command
func newLoginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Authenticate with the UniFi controller",
		Long: `Login to the UniFi controller to establish a session.
Subsequent commands authenticate transparently, so running login is only
needed to verify credentials or to store a new password.

Example:
  unifictl login --passwd=mypassword
  unifictl login  # uses the password from the config file or UNIFI_PASSWORD`,
		RunE: runLogin,
	}

	cmd.Flags().String("passwd", "", "Password for authentication")
	return cmd
}

// runLogin handles the login command execution
func runLogin(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	if cfg == nil {
		return fmt.Errorf("no configuration loaded")
	}

	passwd, _ := cmd.Flags().GetString("passwd")
	if passwd != "" {
		cfg.Password = passwd
	}
	if cfg.Password == "" {
		return fmt.Errorf("no password provided. Use --passwd, set UNIFI_PASSWORD, or store it in the config file")
	}

	client, err := cfg.NewClient()
	if err != nil {
		return err
	}
	if err := client.Authenticate(cmd.Context()); err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	// Persist a password supplied on the command line
	if passwd != "" {
		if err := cfg.WriteConfig(configFile); err != nil {
			return fmt.Errorf("failed to save configuration: %w", err)
		}
	}

	if jsonOutput {
		kv := map[string]interface{}{
			"status":  "success",
			"message": "Login successful",
			"server":  cfg.ServerURL,
		}
		printJSON(kv)
	} else {
		okLabel.Println("✓ Login successful")
	}

	return nil
}
