package unifi

import (
	"context"
	"io"
	"net/http"
)

const statusPath = "/status"

// ControllerStatus reports the controller's self-described health and
// software version. The /status endpoint carries these fields inside the
// envelope metadata rather than the data sequence, so it is decoded apart
// from the generic envelope helpers.
type ControllerStatus struct {
	Up            bool
	ServerVersion string
	UUID          string
}

// Status queries the unauthenticated /status endpoint. It requires no
// session and never triggers reauthentication.
func (c *Client) Status(ctx context.Context) (ControllerStatus, error) {
	req, err := c.newRequest(ctx, request{method: http.MethodGet, path: statusPath})
	if err != nil {
		return ControllerStatus{}, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ControllerStatus{}, ErrTransport.MsgErr("request failed", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return ControllerStatus{}, ErrTransport.MsgErr("unable to read response body", err)
	}

	var payload struct {
		Meta struct {
			Meta
			Up            bool   `json:"up"`
			ServerVersion string `json:"server_version"`
			UUID          string `json:"uuid"`
		} `json:"meta"`
	}
	if err := codec.Unmarshal(raw, &payload); err != nil {
		return ControllerStatus{}, ErrDecode.
			MsgErr("unable to decode status response", err).
			Suffix(bodyPreview(raw)).
			SetStatusCode(resp.StatusCode)
	}
	if !payload.Meta.OK() {
		return ControllerStatus{}, ErrAPI.Msg(payload.Meta.Message)
	}
	return ControllerStatus{
		Up:            payload.Meta.Up,
		ServerVersion: payload.Meta.ServerVersion,
		UUID:          payload.Meta.UUID,
	}, nil
}
