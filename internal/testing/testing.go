// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/duskrunner/vibemix/internal/services"
)

// MockCompleter is a test double for [services.Completer]. Responses are
// served in order; when exhausted, the last one repeats. A Func takes
// precedence over the response list.
type MockCompleter struct {
	Responses []string
	Err       error
	Func      func(ctx context.Context, prompt, system string) (string, error)
	Calls     []string
}

func (m *MockCompleter) Complete(ctx context.Context, prompt, system string) (string, error) {
	m.Calls = append(m.Calls, prompt)
	if m.Func != nil {
		return m.Func(ctx, prompt, system)
	}
	if m.Err != nil {
		return "", m.Err
	}
	if len(m.Responses) == 0 {
		return "", errors.New("mock completer has no responses")
	}

	idx := len(m.Calls) - 1
	if idx >= len(m.Responses) {
		idx = len(m.Responses) - 1
	}
	return m.Responses[idx], nil
}

// MockSearchProvider is a test double for [services.SearchProvider].
type MockSearchProvider struct {
	EndpointURL string
	URLs        []string
	Err         error
	Calls       int
}

func (m *MockSearchProvider) Endpoint() string { return m.EndpointURL }

func (m *MockSearchProvider) SearchURL(query string) string {
	return fmt.Sprintf("%ssearch?q=%s", m.EndpointURL, query)
}

func (m *MockSearchProvider) Search(ctx context.Context, query string) ([]string, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	return m.URLs, nil
}

// MockScrapeProvider is a test double for [services.ScrapeProvider]. Pages
// maps URL to markdown; Failures maps URL to an error.
type MockScrapeProvider struct {
	Pages    map[string]string
	Failures map[string]error
	Calls    []string
}

func (m *MockScrapeProvider) Name() string { return "mock" }

func (m *MockScrapeProvider) Scrape(ctx context.Context, url string, opts services.ScrapeOptions) (string, error) {
	m.Calls = append(m.Calls, url)
	if err, ok := m.Failures[url]; ok {
		return "", err
	}
	if markdown, ok := m.Pages[url]; ok {
		return markdown, nil
	}
	return "", fmt.Errorf("no content registered for %s", url)
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
