package admin_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	adminmw "shopfront/pkg/platform/middleware/admin"
)

func protected(t *testing.T, configuredToken string) http.Handler {
	t.Helper()
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	next := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return adminmw.RequireAdminToken(configuredToken, log)(next)
}

func request(headerToken string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/admin/catalog/2b2t", nil)
	if headerToken != "" {
		req.Header.Set("X-Admin-Token", headerToken)
	}
	return req
}

func TestRequireAdminTokenMatch(t *testing.T) {
	rr := httptest.NewRecorder()
	protected(t, "s3cret").ServeHTTP(rr, request("s3cret"))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRequireAdminTokenRejectsMismatch(t *testing.T) {
	handler := protected(t, "s3cret")

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, request("wrong"))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, request(""))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRequireAdminTokenUnsetDisablesSurface(t *testing.T) {
	handler := protected(t, "")

	// Without a configured token nothing gets through, not even a
	// request with an empty header that would trivially "match".
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, request(""))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = httptest.NewRecorder()
	handler.ServeHTTP(rr, request("anything"))
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
