package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/duskrunner/vibemix/internal/cache"
	"github.com/duskrunner/vibemix/internal/shared"
)

func TestVideoService(t *testing.T) {
	t.Run("returns top five videos only", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/api/v1/search" {
				t.Errorf("unexpected path: %s", r.URL.Path)
			}
			if r.URL.Query().Get("sortBy") != "relevance" {
				t.Error("expected sortBy=relevance")
			}

			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `[
				{"type":"channel","author":"Noise Channel"},
				{"type":"video","title":"Song 1","author":"A","videoId":"v1","videoThumbnails":[{"quality":"medium","url":"https://img/1"}]},
				{"type":"video","title":"Song 2","author":"B","videoId":"v2"},
				{"type":"playlist","title":"Mixtape"},
				{"type":"video","title":"Song 3","author":"C","videoId":"v3"},
				{"type":"video","title":"Song 4","author":"D","videoId":"v4"},
				{"type":"video","title":"Song 5","author":"E","videoId":"v5"},
				{"type":"video","title":"Song 6","author":"F","videoId":"v6"}
			]`)
		}))
		defer server.Close()

		svc := NewVideoService([]string{server.URL + "/"}, nil, nil)
		videos, err := svc.SearchVideos(context.Background(), "chill song")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(videos) != 5 {
			t.Fatalf("expected 5 videos, got %d", len(videos))
		}
		if videos[0].VideoID != "v1" || videos[4].VideoID != "v5" {
			t.Errorf("unexpected ordering: %+v", videos)
		}
		if videos[0].VideoURL != "https://www.youtube.com/watch?v=v1" {
			t.Errorf("unexpected video url: %s", videos[0].VideoURL)
		}
		if videos[0].ThumbnailURL != "https://img/1" {
			t.Errorf("unexpected thumbnail: %s", videos[0].ThumbnailURL)
		}
	})

	t.Run("rate-limited endpoint is cached and the next one serves", func(t *testing.T) {
		limited := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			fmt.Fprint(w, "Too Many Requests")
		}))
		defer limited.Close()

		var healthyCalls int
		healthy := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			healthyCalls++
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `[{"type":"video","title":"Song","author":"A","videoId":"v1"}]`)
		}))
		defer healthy.Close()

		limits := cache.NewRateLimits(0, time.Minute)
		svc := NewVideoService([]string{limited.URL + "/", healthy.URL + "/"}, limits, nil)

		videos, err := svc.SearchVideos(context.Background(), "q")
		if err != nil {
			t.Fatalf("expected fallback success, got %v", err)
		}
		if len(videos) != 1 {
			t.Fatalf("expected one video, got %d", len(videos))
		}
		if !limits.IsLimited(limited.URL + "/") {
			t.Error("expected first endpoint to be cached as limited")
		}

		// Second call should skip the limited endpoint entirely.
		if _, err := svc.SearchVideos(context.Background(), "q"); err != nil {
			t.Fatalf("expected second call to succeed, got %v", err)
		}
		if healthyCalls != 2 {
			t.Errorf("expected 2 healthy calls, got %d", healthyCalls)
		}
	})

	t.Run("all endpoints failing exhausts providers", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
			fmt.Fprint(w, "boom")
		}))
		defer server.Close()

		svc := NewVideoService([]string{server.URL + "/"}, nil, nil)
		if _, err := svc.SearchVideos(context.Background(), "q"); !errors.Is(err, shared.ErrProvidersExhausted) {
			t.Fatalf("expected exhaustion, got %v", err)
		}
	})

	t.Run("no endpoints is a configuration error", func(t *testing.T) {
		svc := NewVideoService(nil, nil, nil)
		if _, err := svc.SearchVideos(context.Background(), "q"); !errors.Is(err, shared.ErrMissingConfig) {
			t.Fatalf("expected config error, got %v", err)
		}
	})

	t.Run("mix failure signature is terminal across endpoints", func(t *testing.T) {
		var secondCalled bool
		first := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			fmt.Fprint(w, `{"error":"Could not create mix."}`)
		}))
		defer first.Close()
		second := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			secondCalled = true
		}))
		defer second.Close()

		svc := NewVideoService([]string{first.URL + "/", second.URL + "/"}, nil, nil)
		_, err := svc.Mix(context.Background(), "abc123")
		if !errors.Is(err, shared.ErrTerminalSearch) {
			t.Fatalf("expected terminal classification, got %v", err)
		}
		if secondCalled {
			t.Error("expected the terminal signature to stop the fallback loop")
		}
	})

	t.Run("mix returns seeded videos", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/api/v1/mixes/RDabc123" {
				t.Errorf("unexpected path: %s", r.URL.Path)
			}
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"videos":[
				{"title":"Song 1","author":"A","videoId":"v1"},
				{"title":"Song 2","author":"B","videoId":"v2"}
			]}`)
		}))
		defer server.Close()

		svc := NewVideoService([]string{server.URL + "/"}, nil, nil)
		videos, err := svc.Mix(context.Background(), "abc123")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(videos) != 2 {
			t.Fatalf("expected 2 videos, got %d", len(videos))
		}
	})
}
