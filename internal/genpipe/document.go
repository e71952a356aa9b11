package genpipe

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
)

// Document is an immutable description document plus the logical path used
// to name artifacts derived from it.
type Document struct {
	path string
	data []byte
}

// NewDocument wraps in-memory bytes as a document.
func NewDocument(logicalPath string, data []byte) Document {
	return Document{path: logicalPath, data: data}
}

// LoadDocument reads a document from local storage.
func LoadDocument(filePath string) (Document, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return Document{}, fmt.Errorf("failed to read document: %w", err)
	}
	return Document{path: filePath, data: data}, nil
}

// FetchDocument retrieves a document over HTTP(S). The fetch is a hard I/O
// boundary: any failure is returned as-is with no retry, and the caller
// decides whether that skips or fails the scenario.
func FetchDocument(ctx context.Context, client *http.Client, url string) (Document, error) {
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Document{}, fmt.Errorf("failed to build request for %s: %w", url, err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return Document{}, fmt.Errorf("failed to fetch %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Document{}, fmt.Errorf("failed to fetch %s: status %s", url, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Document{}, fmt.Errorf("failed to read body of %s: %w", url, err)
	}

	return Document{path: url, data: data}, nil
}

// Path returns the logical path or URL the document was loaded from.
func (d Document) Path() string {
	return d.path
}

// Name returns the base name of the document, used in log lines and
// failure attribution.
func (d Document) Name() string {
	return path.Base(d.path)
}

// Bytes returns the document contents. Callers must not mutate the
// returned slice; documents are immutable once loaded.
func (d Document) Bytes() []byte {
	return d.data
}

// Size returns the document length in bytes, recorded in scenario logs.
func (d Document) Size() int {
	return len(d.data)
}
