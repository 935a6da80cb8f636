// Package unifi provides a session-authenticated client for the UniFi
// Network controller REST API.
//
// The controller wraps every JSON response in a metadata envelope:
//
//	{ "meta": {"rc": "ok", "msg": ""}, "data": [ ... ] }
//
// and authenticates requests with a session cookie plus a CSRF token derived
// from the csrf_token cookie. Sessions expire server-side; the client detects
// expiry from the "api.err.LoginRequired" error message, logs in again with
// the credentials supplied at construction, and retries the original request
// exactly once. File uploads use a parallel flow where expiry is signaled by
// a redirect to the controller's login page instead of an envelope error.
//
// Typed access goes through the package-level generic helpers:
//
//	client, err := unifi.New("https://192.168.1.1:8443", "admin", "secret")
//	if err != nil {
//		log.Fatal(err)
//	}
//	site, err := unifi.GetOne[Site](ctx, client, http.MethodGet, "/api/s/default/self", nil)
//
// A Client owns its session state. Independent calls may share one instance,
// but cookie and CSRF updates are last-writer-wins; callers that need strict
// serialization must coordinate externally.
package unifi
