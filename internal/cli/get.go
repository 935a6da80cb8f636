package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"

	"github.com/TeknoVenus/unifi-go/pkg/unifi"
)

// newGetCmd creates and returns a new get command
func newGetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "get [path]",
		Short: "Fetch objects from a controller endpoint",
		Long: `Fetch objects from a controller REST endpoint.

Paths without a leading slash are resolved against the configured site:
"stat/device" becomes "/api/s/<site>/stat/device".

Examples:
  # List adopted devices
  unifictl get stat/device

  # Fetch the current site as a single object
  unifictl get self --one

  # Extract one field from the result
  unifictl get stat/device --field 0.name`,
		Args: cobra.ExactArgs(1),
		RunE: runGet,
	}

	cmd.Flags().Bool("one", false, "Return only the first object")
	cmd.Flags().String("field", "", "Extract a field from the result (gjson path)")
	return cmd
}

// runGet handles the get command execution
func runGet(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	client, err := cfg.NewClient()
	if err != nil {
		return err
	}

	apiPath := cfg.SitePath(args[0])
	one, _ := cmd.Flags().GetBool("one")
	field, _ := cmd.Flags().GetString("field")

	var out []byte
	if one {
		item, err := unifi.GetOne[json.RawMessage](cmd.Context(), client, http.MethodGet, apiPath, nil)
		if err != nil {
			return err
		}
		out = item
		if out == nil {
			out = []byte("null")
		}
	} else {
		items, err := unifi.GetMany[json.RawMessage](cmd.Context(), client, http.MethodGet, apiPath, nil)
		if err != nil {
			return err
		}
		out, err = json.Marshal(items)
		if err != nil {
			return err
		}
	}

	if field != "" {
		res := gjson.GetBytes(out, field)
		if !res.Exists() {
			return fmt.Errorf("field %q not found in result", field)
		}
		fmt.Println(res.String())
		return nil
	}

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, out, "", "  "); err != nil {
		return err
	}
	fmt.Println(pretty.String())
	return nil
}
