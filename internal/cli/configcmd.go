package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// newConfigCmd creates the config command group
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage unifictl configuration",
	}
	cmd.AddCommand(newConfigCreateCmd())
	cmd.AddCommand(newConfigShowCmd())
	return cmd
}

// newConfigCreateCmd creates and returns the config create command
func newConfigCreateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create the unifictl configuration file",
		Long: `Create the unifictl configuration file.

Example:
  unifictl config create --server 192.168.1.1:8443 --username admin --insecure`,
		RunE: runConfigCreate,
	}

	cmd.Flags().String("server", "", "Controller URL (host[:port])")
	cmd.Flags().String("username", "", "Controller account name")
	cmd.Flags().String("password", "", "Controller account password (optional; UNIFI_PASSWORD also works)")
	cmd.Flags().String("site", "default", "Site name")
	cmd.Flags().Bool("insecure", false, "Skip TLS certificate validation")
	cmd.MarkFlagRequired("server")
	cmd.MarkFlagRequired("username")
	return cmd
}

// runConfigCreate handles the config create command execution
func runConfigCreate(cmd *cobra.Command, args []string) error {
	server, _ := cmd.Flags().GetString("server")
	username, _ := cmd.Flags().GetString("username")
	password, _ := cmd.Flags().GetString("password")
	site, _ := cmd.Flags().GetString("site")
	insecure, _ := cmd.Flags().GetBool("insecure")

	cfg := Config{
		Version:     "v1",
		ServerURL:   normalizeServerURL(server),
		Username:    username,
		Password:    password,
		Site:        site,
		InsecureTLS: insecure,
	}

	if err := validate.Struct(&cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if err := cfg.WriteConfig(configFile); err != nil {
		return err
	}

	if jsonOutput {
		printJSON(map[string]string{"status": "success", "path": configFile})
	} else {
		okLabel.Printf("✓ Configuration written to %s\n", configFile)
	}
	return nil
}

// newConfigShowCmd creates and returns the config show command
func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the current configuration",
		RunE:  runConfigShow,
	}
}

// runConfigShow handles the config show command execution
func runConfigShow(cmd *cobra.Command, args []string) error {
	if err := LoadConfig(configFile); err != nil {
		return err
	}

	cfg := *GetConfig()
	if cfg.Password != "" {
		cfg.Password = "<redacted>"
	}

	if jsonOutput {
		printJSON(cfg)
		return nil
	}
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	fmt.Print(string(out))
	return nil
}
