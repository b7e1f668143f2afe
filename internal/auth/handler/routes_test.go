package handler_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRegisterRoutes verifies that the auth routes are mounted.
func TestRegisterRoutes(t *testing.T) {
	env := newTestEnv(t)

	testCases := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/healthz"},
		{http.MethodPost, "/auth/register"},
		{http.MethodPost, "/auth/login"},
		{http.MethodPost, "/auth/refresh"},
		{http.MethodGet, "/auth/google/callback"},
	}

	for _, tc := range testCases {
		t.Run(fmt.Sprintf("%s_%s_exists", tc.method, tc.path), func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			resp, err := env.app.Test(req, -1)
			require.NoError(t, err)

			// We only care that the route exists; the handlers themselves
			// return 4xx for the empty requests used here.
			assert.NotEqual(t, http.StatusNotFound, resp.StatusCode)
		})
	}
}
