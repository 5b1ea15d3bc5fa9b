package serpapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/xd-ai/gemini-chat/src/search"
)

func TestFetchParsesOrganicResults(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("engine") != "google" || q.Get("q") != "ai regulation" || q.Get("api_key") != "serp-key" {
			t.Errorf("unexpected query params: %v", q)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"organic_results":[
			{"title":"One","link":"https://one.example","snippet":"first"},
			{"title":"Two","link":"https://two.example","snippet":"second"},
			{"title":"Three","link":"https://three.example","snippet":"third"}
		]}`))
	}))
	defer srv.Close()

	c := NewClientWithBaseURL(srv.URL)
	snippets, err := c.Fetch(context.Background(), "ai regulation", "serp-key")
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if len(snippets) != 3 {
		t.Fatalf("got %d snippets, want 3", len(snippets))
	}
	want := search.Snippet{Title: "One", Excerpt: "first", Source: "https://one.example"}
	if snippets[0] != want {
		t.Fatalf("first snippet = %+v, want %+v", snippets[0], want)
	}
	if snippets[2].Title != "Three" {
		t.Fatalf("order not preserved: %+v", snippets)
	}
}

func TestFetchCapsResults(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"organic_results":[
			{"title":"1"},{"title":"2"},{"title":"3"},{"title":"4"},{"title":"5"},{"title":"6"},{"title":"7"}
		]}`))
	}))
	defer srv.Close()

	c := NewClientWithBaseURL(srv.URL)
	snippets, err := c.Fetch(context.Background(), "q", "k")
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if len(snippets) != maxResults {
		t.Fatalf("got %d snippets, want %d", len(snippets), maxResults)
	}
}

func TestFetchEmptyKeySkipsNetwork(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer srv.Close()

	c := NewClientWithBaseURL(srv.URL)
	_, err := c.Fetch(context.Background(), "anything", "")
	if !errors.Is(err, search.ErrUnavailable) {
		t.Fatalf("got %v, want ErrUnavailable", err)
	}
	if hits.Load() != 0 {
		t.Fatalf("network was hit %d times with an empty key", hits.Load())
	}
}

func TestFetchFailuresAreUnavailable(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"auth failure", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}},
		{"server error", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}},
		{"garbage body", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("not json"))
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(tc.handler)
			defer srv.Close()

			c := NewClientWithBaseURL(srv.URL)
			_, err := c.Fetch(context.Background(), "q", "k")
			if !errors.Is(err, search.ErrUnavailable) {
				t.Fatalf("got %v, want ErrUnavailable", err)
			}
		})
	}
}

func TestFetchNoResults(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"organic_results":[]}`))
	}))
	defer srv.Close()

	c := NewClientWithBaseURL(srv.URL)
	snippets, err := c.Fetch(context.Background(), "q", "k")
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if len(snippets) != 0 {
		t.Fatalf("got %d snippets, want 0", len(snippets))
	}
}
