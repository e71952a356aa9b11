package testutil

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

// ServeDocument starts an HTTP server that answers every GET with the given
// document bytes. The server is shut down when the test finishes. Returns
// the URL to fetch the document from.
func ServeDocument(t *testing.T, contents []byte) string {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		_, _ = w.Write(contents)
	}))
	t.Cleanup(srv.Close)

	return srv.URL + "/openapi.yaml"
}

// ServeStatus starts an HTTP server that answers every request with the
// given status code and no body. Used to exercise fetch failures.
func ServeStatus(t *testing.T, status int) string {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	}))
	t.Cleanup(srv.Close)

	return srv.URL + "/openapi.yaml"
}
