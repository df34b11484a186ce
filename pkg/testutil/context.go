package testutil

import "net/http"

// AsShopper identifies the request as coming from the given user, the way
// the gateway adapter in front of the API does.
func AsShopper(req *http.Request, userID string) *http.Request {
	req.Header.Set("X-User-ID", userID)
	return req
}

// AsAdmin attaches the operator token, optionally naming the operator.
func AsAdmin(req *http.Request, token, userID string) *http.Request {
	req.Header.Set("X-Admin-Token", token)
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	return req
}
