package cli

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tidwall/sjson"
)

// newExecCmd creates and returns a new exec command
func newExecCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "exec [path] [key=value ...]",
		Short: "Invoke a controller command endpoint",
		Long: `Invoke a controller command endpoint with a JSON body built from
key=value arguments. Values that parse as JSON (numbers, booleans, objects,
arrays, quoted strings) are embedded as-is; everything else is sent as a
string. Keys may use dotted paths to build nested objects.

Examples:
  # Kick a wireless client
  unifictl exec cmd/stamgr cmd=kick-sta mac=aa:bb:cc:dd:ee:ff

  # Restart an access point
  unifictl exec cmd/devmgr cmd=restart mac=aa:bb:cc:dd:ee:ff`,
		Args: cobra.MinimumNArgs(1),
		RunE: runExec,
	}

	cmd.Flags().String("method", http.MethodPost, "HTTP method to use")
	return cmd
}

// runExec handles the exec command execution
func runExec(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	client, err := cfg.NewClient()
	if err != nil {
		return err
	}

	body, err := buildBody(args[1:])
	if err != nil {
		return err
	}

	method, _ := cmd.Flags().GetString("method")
	var payload any
	if body != "" {
		payload = json.RawMessage(body)
	}

	if err := client.Exec(cmd.Context(), method, cfg.SitePath(args[0]), payload); err != nil {
		return err
	}

	if jsonOutput {
		printJSON(map[string]string{"status": "success"})
	} else {
		okLabel.Println("✓ Command accepted")
	}
	return nil
}

// buildBody assembles a JSON object from key=value arguments.
func buildBody(kvs []string) (string, error) {
	if len(kvs) == 0 {
		return "", nil
	}
	body := "{}"
	for _, kv := range kvs {
		key, value, found := strings.Cut(kv, "=")
		if !found || key == "" {
			return "", fmt.Errorf("argument %q is not in key=value form", kv)
		}
		var err error
		if value != "" && json.Valid([]byte(value)) {
			body, err = sjson.SetRaw(body, key, value)
		} else {
			body, err = sjson.Set(body, key, value)
		}
		if err != nil {
			return "", fmt.Errorf("unable to set %q: %w", key, err)
		}
	}
	return body, nil
}
