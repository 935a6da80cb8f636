package cli

import (
	"fmt"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/avast/retry-go/v4"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/TeknoVenus/unifi-go/pkg/unifi"
)

// newStatusCmd creates and returns a new status command
func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show controller status",
		Long: `Query the controller's unauthenticated status endpoint and report
whether it is up and which software version it runs.

Examples:
  unifictl status
  unifictl status --wait
  unifictl status --min-version 7.0.0`,
		RunE: runStatus,
	}

	cmd.Flags().Bool("wait", false, "Wait for the controller to report ready")
	cmd.Flags().Uint("wait-attempts", 10, "Maximum attempts when waiting")
	cmd.Flags().String("min-version", "", "Fail unless the controller is at least this version")
	return cmd
}

// runStatus handles the status command execution
func runStatus(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	client, err := cfg.NewClient()
	if err != nil {
		return err
	}

	wait, _ := cmd.Flags().GetBool("wait")
	attempts, _ := cmd.Flags().GetUint("wait-attempts")
	minVersion, _ := cmd.Flags().GetString("min-version")

	var st unifi.ControllerStatus
	fetch := func() error {
		var err error
		st, err = client.Status(cmd.Context())
		if err != nil {
			return err
		}
		if !st.Up {
			return fmt.Errorf("controller is not ready")
		}
		return nil
	}

	if wait {
		err = retry.Do(fetch,
			retry.Context(cmd.Context()),
			retry.Attempts(attempts),
			retry.Delay(1*time.Second),
			retry.DelayType(retry.BackOffDelay),
			retry.LastErrorOnly(true),
			retry.OnRetry(func(n uint, err error) {
				log.Info().Uint("attempt", n+1).Err(err).Msg("controller not ready, retrying")
			}),
		)
	} else {
		err = fetch()
	}
	if err != nil {
		return err
	}

	if minVersion != "" {
		if err := checkMinVersion(st.ServerVersion, minVersion); err != nil {
			return err
		}
	}

	if jsonOutput {
		printJSON(map[string]any{
			"up":             st.Up,
			"server_version": st.ServerVersion,
			"uuid":           st.UUID,
		})
	} else {
		okLabel.Println("✓ Controller is up")
		fmt.Printf("Version: %s\n", st.ServerVersion)
	}
	return nil
}

// checkMinVersion enforces a minimum controller version.
func checkMinVersion(current, min string) error {
	c, err := semver.NewConstraint(">= " + min)
	if err != nil {
		return fmt.Errorf("invalid --min-version %q: %w", min, err)
	}
	v, err := semver.NewVersion(current)
	if err != nil {
		return fmt.Errorf("controller reported unparseable version %q: %w", current, err)
	}
	if !c.Check(v) {
		return fmt.Errorf("controller version %s is below required %s", current, min)
	}
	return nil
}
