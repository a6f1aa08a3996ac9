package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/duskrunner/vibemix/internal/shared"
)

func TestSearxProvider(t *testing.T) {
	t.Run("SearchURL encodes the query", func(t *testing.T) {
		p := NewSearxProvider("https://searx.example.com/", 0, nil)
		got := p.SearchURL("chill study songs")
		if !strings.Contains(got, "q=chill+study+songs") {
			t.Errorf("query not encoded: %s", got)
		}
		if !strings.HasPrefix(got, "https://searx.example.com/search?") {
			t.Errorf("unexpected url shape: %s", got)
		}
		if !strings.Contains(got, "categories=general") {
			t.Errorf("missing fixed params: %s", got)
		}
	})

	t.Run("extracts result urls in order without duplicates", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/search" {
				t.Errorf("expected /search path, got %s", r.URL.Path)
			}
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"results":[
				{"url":"https://blog.example.com/top-songs","title":"Top Songs"},
				{"url":"https://mag.example.com/playlist-ideas","title":"Ideas"},
				{"url":"https://blog.example.com/top-songs","title":"Dup"}
			]}`)
		}))
		defer server.Close()

		p := NewSearxProvider(server.URL+"/", 0, nil)
		urls, err := p.Search(context.Background(), "chill study songs")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		want := []string{"https://blog.example.com/top-songs", "https://mag.example.com/playlist-ideas"}
		if len(urls) != len(want) {
			t.Fatalf("expected %d urls, got %d: %v", len(want), len(urls), urls)
		}
		for i := range want {
			if urls[i] != want[i] {
				t.Errorf("urls[%d] = %q, want %q", i, urls[i], want[i])
			}
		}
	})

	t.Run("html content type is a rate-limit signature", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			fmt.Fprint(w, "<html><body>verify you are human</body></html>")
		}))
		defer server.Close()

		p := NewSearxProvider(server.URL+"/", 0, nil)
		if _, err := p.Search(context.Background(), "q"); !errors.Is(err, shared.ErrRateLimited) {
			t.Fatalf("expected rate-limited classification, got %v", err)
		}
	})

	t.Run("known body signatures classify as rate limited", func(t *testing.T) {
		for _, body := range []string{"Too Many Requests", "502 Gateway timeout", "API disabled for this instance"} {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusTooManyRequests)
				fmt.Fprint(w, body)
			}))

			p := NewSearxProvider(server.URL+"/", 0, nil)
			_, err := p.Search(context.Background(), "q")
			server.Close()

			if !errors.Is(err, shared.ErrRateLimited) {
				t.Errorf("body %q: expected rate-limited classification, got %v", body, err)
			}
		}
	})

	t.Run("unsatisfiable-query signature is terminal", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprint(w, `{"error":"Could not create mix for query"}`)
		}))
		defer server.Close()

		p := NewSearxProvider(server.URL+"/", 0, nil)
		if _, err := p.Search(context.Background(), "q"); !errors.Is(err, shared.ErrTerminalSearch) {
			t.Fatalf("expected terminal classification, got %v", err)
		}
	})

	t.Run("unclassified failures are plain errors", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			fmt.Fprint(w, "boom")
		}))
		defer server.Close()

		p := NewSearxProvider(server.URL+"/", 0, nil)
		_, err := p.Search(context.Background(), "q")
		if err == nil {
			t.Fatal("expected error")
		}
		if errors.Is(err, shared.ErrRateLimited) || errors.Is(err, shared.ErrTerminalSearch) {
			t.Fatalf("expected unclassified error, got %v", err)
		}
	})

	t.Run("empty result list is structurally valid", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"results":[]}`)
		}))
		defer server.Close()

		p := NewSearxProvider(server.URL+"/", 0, nil)
		urls, err := p.Search(context.Background(), "q")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(urls) != 0 {
			t.Errorf("expected empty list, got %v", urls)
		}
	})
}
