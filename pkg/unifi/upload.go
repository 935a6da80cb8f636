package unifi

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"path"
	"strings"

	"github.com/google/uuid"
)

const (
	uploadNameField = "name"
	uploadFileField = "filedata"

	// loginRedirectMarker identifies the controller UI login page in a
	// redirect Location header.
	loginRedirectMarker = "/manage/account/login"
)

// UploadRequest describes a multipart file upload.
type UploadRequest struct {
	Path        string // endpoint path under the controller base URL
	FileName    string
	ContentType string
	Data        []byte
}

// Upload posts a file as multipart/form-data. The upload endpoints do not
// speak the envelope protocol, and they answer 404 on some successful
// uploads, so any response that is not a login redirect counts as success.
// Session expiry shows up as a redirect to the controller login page;
// redirect-following is disabled for this flow so the 302 stays observable.
// On expiry the client reauthenticates and retries once.
//
// If the retried attempt is again redirected to login, the call completes
// without error. Callers cannot distinguish that case from a successful
// upload; the behavior is kept for compatibility with the controller's
// established client contract.
func (c *Client) Upload(ctx context.Context, r UploadRequest) error {
	oplog := c.logger.With().
		Str("op_id", uuid.NewString()).
		Str("path", r.Path).
		Str("file", r.FileName).
		Logger()

	reauthed := false
	for {
		status, location, err := c.postMultipart(ctx, r)
		if err != nil {
			return err
		}
		if !isLoginRedirect(status, location) {
			oplog.Debug().Int("status", status).Msg("upload complete")
			return nil
		}
		if reauthed {
			oplog.Warn().Msg("upload redirected to login after reauthentication, giving up")
			return nil
		}
		oplog.Info().Msg("upload redirected to login, reauthenticating")
		if err := c.Authenticate(ctx); err != nil {
			return err
		}
		reauthed = true
	}
}

func (c *Client) postMultipart(ctx context.Context, r UploadRequest) (int, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.WriteField(uploadNameField, r.FileName); err != nil {
		return 0, "", fmt.Errorf("failed to build multipart body: %w", err)
	}
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name=%q; filename=%q`, uploadFileField, r.FileName))
	header.Set("Content-Type", r.ContentType)
	part, err := w.CreatePart(header)
	if err != nil {
		return 0, "", fmt.Errorf("failed to build multipart body: %w", err)
	}
	if _, err := part.Write(r.Data); err != nil {
		return 0, "", fmt.Errorf("failed to build multipart body: %w", err)
	}
	if err := w.Close(); err != nil {
		return 0, "", fmt.Errorf("failed to build multipart body: %w", err)
	}

	u := *c.baseURL
	u.Path = path.Join(u.Path, r.Path)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), &buf)
	if err != nil {
		return 0, "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Referer", c.baseURL.String())
	if token := c.session.csrfToken(c.baseURL); token != "" {
		req.Header.Set(csrfHeaderName, token)
	}

	resp, err := c.uploadClient.Do(req)
	if err != nil {
		return 0, "", ErrTransport.MsgErr("upload failed", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	return resp.StatusCode, resp.Header.Get("Location"), nil
}

func isLoginRedirect(status int, location string) bool {
	return status >= 300 && status < 400 && strings.Contains(location, loginRedirectMarker)
}
