package unifi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TeknoVenus/unifi-go/internal/common/apperrors"
)

func newTestClient(t *testing.T, h http.Handler, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(srv.URL, "admin", "secret", opts...)
	require.NoError(t, err)
	return c
}

func writeJSON(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(body))
}

type named struct {
	Name string `json:"name"`
}

func TestNewRejectsBadURL(t *testing.T) {
	_, err := New("not-a-url", "admin", "secret")
	assert.Error(t, err)

	_, err = New("://bad", "admin", "secret")
	assert.Error(t, err)
}

func TestGetOneReturnsFirstItem(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/api/s/default/self", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, `{"meta":{"rc":"ok","msg":""},"data":[{"name":"site1"}]}`)
	})
	c := newTestClient(t, r)

	got, err := GetOne[named](context.Background(), c, http.MethodGet, "/api/s/default/self", nil)
	require.NoError(t, err)
	assert.Equal(t, "site1", got.Name)
}

func TestGetOneErrorCarriesControllerMessage(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/api/s/default/missing", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, `{"meta":{"rc":"error","msg":"api.err.NotFound"},"data":[]}`)
	})
	c := newTestClient(t, r)

	_, err := GetOne[named](context.Background(), c, http.MethodGet, "/api/s/default/missing", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAPI)
	assert.Contains(t, err.Error(), "api.err.NotFound")
}

func TestGetOneEmptySuccessReturnsZeroValue(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/api/s/default/cmd/stamgr", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, `{"meta":{"rc":"ok","msg":""}}`)
	})
	c := newTestClient(t, r)

	got, err := GetOne[named](context.Background(), c, http.MethodPost, "/api/s/default/cmd/stamgr", map[string]string{"cmd": "kick-sta"})
	require.NoError(t, err)
	assert.Equal(t, named{}, got)
}

func TestGetManyReturnsDataVerbatim(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/api/s/default/stat/device", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, `{"meta":{"rc":"ok","msg":""},"data":[{"name":"ap1"},{"name":"ap2"}]}`)
	})
	c := newTestClient(t, r)

	got, err := GetMany[named](context.Background(), c, http.MethodGet, "/api/s/default/stat/device", nil)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "ap1", got[0].Name)
	assert.Equal(t, "ap2", got[1].Name)
}

func TestGetManyIgnoresErrorMetadata(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/api/s/default/stat/device", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, `{"meta":{"rc":"error","msg":"api.err.NoSiteContext"}}`)
	})
	c := newTestClient(t, r)

	got, err := GetMany[named](context.Background(), c, http.MethodGet, "/api/s/default/stat/device", nil)
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestResultCodeIsCaseInsensitive(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/api/s/default/self", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, `{"meta":{"rc":"OK","msg":""},"data":[{"name":"site1"}]}`)
	})
	c := newTestClient(t, r)

	got, err := GetOne[named](context.Background(), c, http.MethodGet, "/api/s/default/self", nil)
	require.NoError(t, err)
	assert.Equal(t, "site1", got.Name)
}

func TestReauthenticateAndRetry(t *testing.T) {
	loggedIn := false
	loginCalls := 0

	r := chi.NewRouter()
	r.Post("/api/login", func(w http.ResponseWriter, req *http.Request) {
		loginCalls++
		var body loginRequest
		require.NoError(t, json.NewDecoder(req.Body).Decode(&body))
		assert.Equal(t, "admin", body.Username)
		assert.Equal(t, "secret", body.Password)
		assert.False(t, body.Remember)
		assert.True(t, body.Strict)

		http.SetCookie(w, &http.Cookie{Name: "unifises", Value: "session-1"})
		http.SetCookie(w, &http.Cookie{Name: "csrf_token", Value: "tok123"})
		loggedIn = true
		writeJSON(w, `{"meta":{"rc":"ok","msg":""},"data":[]}`)
	})
	r.Post("/api/s/default/cmd/x", func(w http.ResponseWriter, req *http.Request) {
		if !loggedIn {
			writeJSON(w, `{"meta":{"rc":"error","msg":"api.err.LoginRequired"},"data":[]}`)
			return
		}
		assert.Equal(t, "tok123", req.Header.Get("X-Csrf-Token"))
		writeJSON(w, `{"meta":{"rc":"ok","msg":""},"data":[{"result":1}]}`)
	})
	c := newTestClient(t, r)

	type cmdResult struct {
		Result int `json:"result"`
	}
	got, err := GetOne[cmdResult](context.Background(), c, http.MethodPost, "/api/s/default/cmd/x", map[string]string{"cmd": "run"})
	require.NoError(t, err)
	assert.Equal(t, 1, got.Result)
	assert.Equal(t, 1, loginCalls)
}

func TestReauthenticationIsBoundedToOneRetry(t *testing.T) {
	loginCalls := 0
	endpointCalls := 0

	r := chi.NewRouter()
	r.Post("/api/login", func(w http.ResponseWriter, _ *http.Request) {
		loginCalls++
		writeJSON(w, `{"meta":{"rc":"ok","msg":""},"data":[]}`)
	})
	r.Get("/api/s/default/self", func(w http.ResponseWriter, _ *http.Request) {
		endpointCalls++
		writeJSON(w, `{"meta":{"rc":"error","msg":"api.err.LoginRequired"},"data":[]}`)
	})
	c := newTestClient(t, r)

	// A controller that always reports expiry must cause exactly one login
	// and one retry; the second expired envelope surfaces as an API error.
	_, err := GetOne[named](context.Background(), c, http.MethodGet, "/api/s/default/self", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAPI)
	assert.Contains(t, err.Error(), "api.err.LoginRequired")
	assert.Equal(t, 1, loginCalls)
	assert.Equal(t, 2, endpointCalls)

	// The envelope form returns the expired envelope as-is.
	env, err := Do[named](context.Background(), c, http.MethodGet, "/api/s/default/self", nil)
	require.NoError(t, err)
	assert.True(t, env.Meta.LoginRequired())
	assert.Equal(t, 2, loginCalls)
	assert.Equal(t, 4, endpointCalls)
}

func TestAuthenticationFailurePropagates(t *testing.T) {
	endpointCalls := 0

	r := chi.NewRouter()
	r.Post("/api/login", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, `{"meta":{"rc":"error","msg":"api.err.Invalid"},"data":[]}`)
	})
	r.Get("/api/s/default/self", func(w http.ResponseWriter, _ *http.Request) {
		endpointCalls++
		writeJSON(w, `{"meta":{"rc":"error","msg":"api.err.LoginRequired"},"data":[]}`)
	})
	c := newTestClient(t, r)

	_, err := GetOne[named](context.Background(), c, http.MethodGet, "/api/s/default/self", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAuthentication)
	assert.Contains(t, err.Error(), "api.err.Invalid")
	// The original request is not retried when the login itself fails.
	assert.Equal(t, 1, endpointCalls)
}

func TestCSRFHeaderOnlyWhenCookiePresent(t *testing.T) {
	var csrfHeaders []string
	var referers []string

	r := chi.NewRouter()
	r.Post("/api/login", func(w http.ResponseWriter, _ *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "unifises", Value: "session-1"})
		http.SetCookie(w, &http.Cookie{Name: "csrf_token", Value: "tok123"})
		writeJSON(w, `{"meta":{"rc":"ok","msg":""},"data":[]}`)
	})
	r.Get("/api/s/default/stat/health", func(w http.ResponseWriter, req *http.Request) {
		csrfHeaders = append(csrfHeaders, req.Header.Get("X-Csrf-Token"))
		referers = append(referers, req.Header.Get("Referer"))
		writeJSON(w, `{"meta":{"rc":"ok","msg":""},"data":[]}`)
	})
	c := newTestClient(t, r)

	_, err := GetMany[named](context.Background(), c, http.MethodGet, "/api/s/default/stat/health", nil)
	require.NoError(t, err)
	require.NoError(t, c.Authenticate(context.Background()))
	_, err = GetMany[named](context.Background(), c, http.MethodGet, "/api/s/default/stat/health", nil)
	require.NoError(t, err)

	require.Len(t, csrfHeaders, 2)
	assert.Empty(t, csrfHeaders[0], "no CSRF header before a csrf_token cookie exists")
	assert.Equal(t, "tok123", csrfHeaders[1])
	for _, ref := range referers {
		assert.Equal(t, c.BaseURL(), ref)
	}
}

func TestHasSession(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/api/login", func(w http.ResponseWriter, _ *http.Request) {
		http.SetCookie(w, &http.Cookie{Name: "unifises", Value: "session-1"})
		writeJSON(w, `{"meta":{"rc":"ok","msg":""},"data":[]}`)
	})
	c := newTestClient(t, r)

	assert.False(t, c.HasSession())
	require.NoError(t, c.Authenticate(context.Background()))
	assert.True(t, c.HasSession())
}

func TestTransportErrorSurfacesImmediately(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	c, err := New(srv.URL, "admin", "secret")
	require.NoError(t, err)
	srv.Close()

	_, err = GetMany[named](context.Background(), c, http.MethodGet, "/api/s/default/self", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTransport)
}

func TestDecodeErrorCarriesBody(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/api/s/default/self", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html>unexpected</html>"))
	})
	c := newTestClient(t, r)

	_, err := GetOne[named](context.Background(), c, http.MethodGet, "/api/s/default/self", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDecode)
	assert.Contains(t, err.Error(), "<html>unexpected</html>")

	var ae apperrors.Error
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, http.StatusOK, ae.StatusCode())
}

func TestRedirectsAreFollowed(t *testing.T) {
	r := chi.NewRouter()
	r.Get("/api/s/default/old", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, "/api/s/default/new", http.StatusFound)
	})
	r.Get("/api/s/default/new", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, `{"meta":{"rc":"ok","msg":""},"data":[{"name":"moved"}]}`)
	})
	c := newTestClient(t, r)

	got, err := GetOne[named](context.Background(), c, http.MethodGet, "/api/s/default/old", nil)
	require.NoError(t, err)
	assert.Equal(t, "moved", got.Name)
}

func TestExec(t *testing.T) {
	r := chi.NewRouter()
	r.Post("/api/s/default/cmd/devmgr", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, `{"meta":{"rc":"ok","msg":""}}`)
	})
	r.Post("/api/s/default/cmd/broken", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, `{"meta":{"rc":"error","msg":"api.err.InvalidPayload"},"data":[]}`)
	})
	c := newTestClient(t, r)

	err := c.Exec(context.Background(), http.MethodPost, "/api/s/default/cmd/devmgr", map[string]string{"cmd": "restart"})
	require.NoError(t, err)

	err = c.Exec(context.Background(), http.MethodPost, "/api/s/default/cmd/broken", map[string]string{"cmd": "restart"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAPI)
}
