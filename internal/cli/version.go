package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the current unifictl release.
// The version follows semantic versioning (MAJOR.MINOR.PATCH).
const Version = "0.3.0"

// newVersionCmd creates and returns a new version command
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the unifictl version",
		Run: func(cmd *cobra.Command, args []string) {
			if jsonOutput {
				printJSON(map[string]string{"version": Version})
			} else {
				fmt.Println(Version)
			}
		},
	}
}
