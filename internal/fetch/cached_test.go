package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestNewCachedFetcherDefaults(t *testing.T) {
	f := NewCachedFetcher(nil, nil)
	if f.options == nil {
		t.Fatal("options should default")
	}
	if f.cacheTTL == 0 {
		t.Error("cacheTTL should default")
	}
	if f.skipCache {
		t.Error("skipCache should default to false")
	}
}

func TestCachedFetcherWithoutDatabase(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html><body><main>CPCCWHS2001 Apply WHS requirements</main></body></html>"))
	}))
	defer server.Close()

	f := NewCachedFetcher(nil, nil)
	result, err := f.FetchText(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("FetchText() error = %v", err)
	}
	if result.FromCache {
		t.Error("no database, result cannot come from cache")
	}
	if !strings.Contains(result.Text, "CPCCWHS2001") {
		t.Errorf("Text = %q", result.Text)
	}
	if result.Catalogue != CatalogueUnknown {
		t.Errorf("Catalogue = %q, want %q", result.Catalogue, CatalogueUnknown)
	}
}

func TestCachedFetcherFetchFailure(t *testing.T) {
	f := NewCachedFetcher(nil, nil)
	if _, err := f.FetchText(context.Background(), "http://127.0.0.1:1/none"); err == nil {
		t.Fatal("expected fetch error")
	}
}
