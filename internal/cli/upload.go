package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/h2non/filetype"
	"github.com/spf13/cobra"

	"github.com/TeknoVenus/unifi-go/pkg/unifi"
)

// newUploadCmd creates and returns a new upload command
func newUploadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "upload [endpoint] [file]",
		Short: "Upload a file to the controller",
		Long: `Upload a file to a controller endpoint as multipart/form-data.
The content type is sniffed from the file when not given explicitly.

Example:
  unifictl upload /upload/asset logo.png`,
		Args: cobra.ExactArgs(2),
		RunE: runUpload,
	}

	cmd.Flags().String("content-type", "", "Content type of the file (sniffed when empty)")
	cmd.Flags().String("name", "", "File name reported to the controller (defaults to the local name)")
	return cmd
}

// runUpload handles the upload command execution
func runUpload(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	client, err := cfg.NewClient()
	if err != nil {
		return err
	}

	data, err := os.ReadFile(args[1])
	if err != nil {
		return fmt.Errorf("unable to read %s: %w", args[1], err)
	}

	name, _ := cmd.Flags().GetString("name")
	if name == "" {
		name = filepath.Base(args[1])
	}

	contentType, _ := cmd.Flags().GetString("content-type")
	if contentType == "" {
		contentType = sniffContentType(data)
	}

	if err := client.Upload(cmd.Context(), unifi.UploadRequest{
		Path:        args[0],
		FileName:    name,
		ContentType: contentType,
		Data:        data,
	}); err != nil {
		return err
	}

	if jsonOutput {
		printJSON(map[string]string{
			"status":       "success",
			"file":         name,
			"content_type": contentType,
		})
	} else {
		okLabel.Printf("✓ Uploaded %s (%s)\n", name, contentType)
	}
	return nil
}

// sniffContentType infers the MIME type from the file header bytes.
func sniffContentType(data []byte) string {
	kind, err := filetype.Match(data)
	if err != nil || kind == filetype.Unknown {
		return "application/octet-stream"
	}
	return kind.MIME.Value
}
