package unifi

import (
	"net/http"
	"net/http/cookiejar"
	"net/url"
)

const (
	csrfCookieName = "csrf_token"
	csrfHeaderName = "X-Csrf-Token"
)

// sessionState holds the cookie jar for one client instance. The jar is
// shared with the underlying http.Clients, so Set-Cookie headers on every
// response update it without explicit observation. State is never cleared;
// the session persists until the controller invalidates it.
type sessionState struct {
	jar http.CookieJar
}

func newSessionState() (*sessionState, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &sessionState{jar: jar}, nil
}

// csrfToken returns the current csrf_token cookie value for the given URL's
// host, or "" when the cookie is absent. Absence is a normal condition: the
// caller simply omits the CSRF header.
func (s *sessionState) csrfToken(u *url.URL) string {
	for _, c := range s.jar.Cookies(u) {
		if c.Name == csrfCookieName {
			return c.Value
		}
	}
	return ""
}

// hasCookies reports whether any session cookies exist for the given URL's
// host.
func (s *sessionState) hasCookies(u *url.URL) bool {
	return len(s.jar.Cookies(u)) > 0
}
