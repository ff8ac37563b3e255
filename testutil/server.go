package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// Route describes one canned response of a JSONServer.
type Route struct {
	// Status defaults to 200.
	Status int

	// Body is marshaled to JSON. Raw string bodies are written as-is.
	Body any
}

// JSONServer starts an httptest server answering from a path-prefix route
// table. Paths are matched by longest prefix so query-string endpoints (as
// TestRail uses) route correctly. The server is closed when the test ends.
func JSONServer(t *testing.T, routes map[string]Route) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		target := r.URL.Path
		if r.URL.RawQuery != "" {
			target += "?" + r.URL.RawQuery
		}

		var (
			best      string
			bestRoute Route
			found     bool
		)
		for prefix, route := range routes {
			if strings.HasPrefix(target, prefix) && len(prefix) > len(best) {
				best, bestRoute, found = prefix, route, true
			}
		}
		if !found {
			http.NotFound(w, r)
			return
		}

		status := bestRoute.Status
		if status == 0 {
			status = http.StatusOK
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)

		switch body := bestRoute.Body.(type) {
		case nil:
		case string:
			_, _ = w.Write([]byte(body))
		default:
			_ = json.NewEncoder(w).Encode(body)
		}
	}))

	t.Cleanup(srv.Close)
	return srv
}
