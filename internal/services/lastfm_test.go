package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/duskrunner/vibemix/internal/shared"
)

func TestLastFMService(t *testing.T) {
	t.Run("prefers the extralarge cover image", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("method") != "track.getInfo" {
				t.Errorf("unexpected method param: %s", r.URL.Query().Get("method"))
			}
			if r.URL.Query().Get("api_key") != "lfm-test" {
				t.Error("expected api_key param")
			}
			if r.URL.Query().Get("format") != "json" {
				t.Error("expected json format param")
			}

			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"track":{"artist":{"name":"Khruangbin"},"album":{
				"title":"Con Todo El Mundo",
				"image":[
					{"#text":"https://img.example.com/s.png","size":"small"},
					{"#text":"https://img.example.com/m.png","size":"medium"},
					{"#text":"https://img.example.com/l.png","size":"large"},
					{"#text":"https://img.example.com/xl.png","size":"extralarge"}
				]}}}`)
		}))
		defer server.Close()

		svc := NewLastFMService(server.URL, "lfm-test", nil)
		info, err := svc.AlbumForTrack(context.Background(), "Khruangbin", "Maria Tambien")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if info.Artist != "Khruangbin" {
			t.Errorf("unexpected artist: %s", info.Artist)
		}
		if info.Title != "Con Todo El Mundo" {
			t.Errorf("unexpected album title: %s", info.Title)
		}
		if info.CoverURL != "https://img.example.com/xl.png" {
			t.Errorf("unexpected cover url: %s", info.CoverURL)
		}
	})

	t.Run("falls back to smaller cover sizes", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"track":{"artist":{"name":"A"},"album":{
				"title":"B",
				"image":[
					{"#text":"https://img.example.com/m.png","size":"medium"},
					{"#text":"","size":"extralarge"}
				]}}}`)
		}))
		defer server.Close()

		svc := NewLastFMService(server.URL, "lfm-test", nil)
		info, err := svc.AlbumForTrack(context.Background(), "A", "T")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if info.CoverURL != "https://img.example.com/m.png" {
			t.Errorf("unexpected cover url: %s", info.CoverURL)
		}
	})

	t.Run("track without album data is not an error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			fmt.Fprint(w, `{"track":{"artist":{"name":"Obscure Artist"}}}`)
		}))
		defer server.Close()

		svc := NewLastFMService(server.URL, "lfm-test", nil)
		info, err := svc.AlbumForTrack(context.Background(), "Obscure Artist", "B-Side")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if info.Artist != "Obscure Artist" {
			t.Errorf("unexpected artist: %s", info.Artist)
		}
		if info.Title != "" || info.CoverURL != "" {
			t.Errorf("expected empty album metadata, got %+v", info)
		}
	})

	t.Run("missing api key is a credentials error", func(t *testing.T) {
		svc := NewLastFMService("", "", nil)
		if _, err := svc.AlbumForTrack(context.Background(), "A", "T"); !errors.Is(err, shared.ErrMissingCredentials) {
			t.Fatalf("expected credentials error, got %v", err)
		}
	})

	t.Run("non-200 status is an api error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))
		defer server.Close()

		svc := NewLastFMService(server.URL, "lfm-test", nil)
		if _, err := svc.AlbumForTrack(context.Background(), "A", "T"); !errors.Is(err, shared.ErrAPIRequest) {
			t.Fatalf("expected api error, got %v", err)
		}
	})
}
