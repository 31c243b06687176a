package catalog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"
)

const fakeStoreBody = `[
  {"id":1,"title":"Backpack","price":109.95,"description":"Fits a laptop","category":"men's clothing","image":"https://img/1.jpg","rating":{"rate":3.9,"count":120}},
  {"id":2,"title":"T-Shirt","price":22.3,"description":"Slim fit","category":"men's clothing","image":"https://img/2.jpg","rating":{"rate":4.1,"count":259}}
]`

func TestRemoteClientListDecodesProducts(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/products" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(fakeStoreBody))
	}))
	defer srv.Close()

	client := NewRemoteClient(WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	got, err := client.List(context.Background())
	if err != nil {
		t.Fatalf("list: %v", err)
	}

	want := []Product{
		{ID: 1, Title: "Backpack", Price: decimal.RequireFromString("109.95"), Description: "Fits a laptop", Category: "men's clothing", Image: "https://img/1.jpg", Source: SourceRemote},
		{ID: 2, Title: "T-Shirt", Price: decimal.RequireFromString("22.3"), Description: "Slim fit", Category: "men's clothing", Image: "https://img/2.jpg", Source: SourceRemote},
	}
	if diff := cmp.Diff(want, got, cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })); diff != "" {
		t.Fatalf("products mismatch (-want +got):\n%s", diff)
	}
}

func TestRemoteClientListLimitedSendsLimit(t *testing.T) {
	var gotLimit string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotLimit = r.URL.Query().Get("limit")
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client := NewRemoteClient(WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	if _, err := client.ListLimited(context.Background(), 5); err != nil {
		t.Fatalf("list limited: %v", err)
	}
	if gotLimit != "5" {
		t.Fatalf("expected limit=5, got %q", gotLimit)
	}
}

func TestRemoteClientNon200IsDependencyError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewRemoteClient(WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	_, err := client.List(context.Background())
	if !pkgerrors.IsCode(err, pkgerrors.CodeDependency) {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestRemoteClientRetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			http.Error(w, "busy", http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client := NewRemoteClient(WithBaseURL(srv.URL), WithHTTPClient(srv.Client()), WithRetries(3, time.Millisecond))
	if _, err := client.List(context.Background()); err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if calls != 3 {
		t.Fatalf("expected 3 calls, got %d", calls)
	}
}

func TestRemoteClientDoesNotRetryByDefault(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "busy", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client := NewRemoteClient(WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	if _, err := client.List(context.Background()); err == nil {
		t.Fatalf("expected error")
	}
	if calls != 1 {
		t.Fatalf("expected a single call, got %d", calls)
	}
}

func TestRemoteClientTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	client := NewRemoteClient(WithBaseURL(srv.URL), WithTimeout(20*time.Millisecond))
	if _, err := client.List(context.Background()); err == nil {
		t.Fatalf("expected timeout error")
	}
}
