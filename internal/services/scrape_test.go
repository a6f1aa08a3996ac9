package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestFirecrawlService(t *testing.T) {
	t.Run("sends scrape options and returns markdown", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/v1/scrape" {
				t.Errorf("expected /v1/scrape path, got %s", r.URL.Path)
			}
			if r.Method != http.MethodPost {
				t.Errorf("expected POST, got %s", r.Method)
			}
			if r.Header.Get("Authorization") != "Bearer fc-test" {
				t.Error("expected bearer auth header")
			}

			var req map[string]any
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				t.Fatalf("failed to decode request: %v", err)
			}
			if req["url"] != "https://blog.example.com/top-songs" {
				t.Errorf("unexpected url: %v", req["url"])
			}
			if req["onlyMainContent"] != true {
				t.Error("expected onlyMainContent to be set")
			}

			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"success":true,"data":{"markdown":"# Top 10 Songs\n1. A - B"}}`)
		}))
		defer server.Close()

		svc := NewFirecrawlService(server.URL, "fc-test", 0, nil)
		markdown, err := svc.Scrape(context.Background(), "https://blog.example.com/top-songs", ScrapeOptions{
			MainContentOnly: true,
			RemoveImages:    true,
			UseCache:        true,
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.HasPrefix(markdown, "# Top 10 Songs") {
			t.Errorf("unexpected markdown: %q", markdown)
		}
	})

	t.Run("empty markdown is not an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"success":true,"data":{"markdown":""}}`)
		}))
		defer server.Close()

		svc := NewFirecrawlService(server.URL, "fc-test", 0, nil)
		markdown, err := svc.Scrape(context.Background(), "https://blog.example.com/empty", ScrapeOptions{})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if markdown != "" {
			t.Errorf("expected empty markdown, got %q", markdown)
		}
	})

	t.Run("rejected scrape is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"success":false,"error":"this website is not supported"}`)
		}))
		defer server.Close()

		svc := NewFirecrawlService(server.URL, "fc-test", 0, nil)
		if _, err := svc.Scrape(context.Background(), "https://blocked.example.com", ScrapeOptions{}); err == nil {
			t.Fatal("expected error for rejected scrape")
		}
	})

	t.Run("non-2xx status is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusPaymentRequired)
		}))
		defer server.Close()

		svc := NewFirecrawlService(server.URL, "fc-test", 0, nil)
		if _, err := svc.Scrape(context.Background(), "https://blog.example.com", ScrapeOptions{}); err == nil {
			t.Fatal("expected error for non-2xx status")
		}
	})
}

func TestReaderService(t *testing.T) {
	t.Run("converts fetched html to markdown", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html")
			fmt.Fprint(w, `<html><body><h1>Top Songs</h1><ul><li>A - B</li><li>C - D</li></ul></body></html>`)
		}))
		defer server.Close()

		svc := NewReaderService(0, nil)
		markdown, err := svc.Scrape(context.Background(), server.URL, ScrapeOptions{MainContentOnly: true})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(markdown, "Top Songs") {
			t.Errorf("expected heading in markdown, got %q", markdown)
		}
		if !strings.Contains(markdown, "A - B") {
			t.Errorf("expected list entry in markdown, got %q", markdown)
		}
	})

	t.Run("non-200 status is an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))
		defer server.Close()

		svc := NewReaderService(0, nil)
		if _, err := svc.Scrape(context.Background(), server.URL, ScrapeOptions{}); err == nil {
			t.Fatal("expected error for forbidden page")
		}
	})

	t.Run("name identifies the provider", func(t *testing.T) {
		if NewReaderService(0, nil).Name() != "reader" {
			t.Error("unexpected provider name")
		}
	})
}
