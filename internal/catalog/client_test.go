package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"
)

func TestParseBaseURL_DefaultsAndNormalizes(t *testing.T) {
	u, err := parseBaseURL("")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Scheme != "http" {
		t.Fatalf("scheme = %q, want http", u.Scheme)
	}
	if u.Host != defaultAPIURL {
		t.Fatalf("host = %q, want %q", u.Host, defaultAPIURL)
	}

	u, err = parseBaseURL("https://example.com:1234/path?x=1#frag")
	if err != nil {
		t.Fatalf("parseBaseURL returned error: %v", err)
	}
	if u.Path != "" || u.RawQuery != "" || u.Fragment != "" {
		t.Fatalf("url not normalized: %q", u.String())
	}
	if u.Scheme != "https" {
		t.Fatalf("scheme = %q, want https", u.Scheme)
	}
}

func TestParseBaseURL_MissingHostErrors(t *testing.T) {
	if _, err := parseBaseURL("http://"); err == nil {
		t.Fatalf("parseBaseURL returned nil error, want error")
	}
}

type recordedRequest struct {
	path      string
	rawPath   string
	query     url.Values
	userAgent string
	requestID string
}

func newCatalogServer(t *testing.T, routes map[string]string) (*httptest.Server, func() []recordedRequest) {
	t.Helper()
	var mu sync.Mutex
	var seen []recordedRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		seen = append(seen, recordedRequest{
			path:      r.URL.Path,
			rawPath:   r.URL.EscapedPath(),
			query:     r.URL.Query(),
			userAgent: r.Header.Get("User-Agent"),
			requestID: r.Header.Get("X-Request-ID"),
		})
		mu.Unlock()

		body, ok := routes[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)

	return server, func() []recordedRequest {
		mu.Lock()
		defer mu.Unlock()
		return append([]recordedRequest(nil), seen...)
	}
}

func TestClient_FetchesEndpointsAndEncodesQueries(t *testing.T) {
	t.Parallel()

	server, requests := newCatalogServer(t, map[string]string{
		"/api/v1/phones":                   `{"success":true,"data":{"content":[{"id":"p1","name":"One"},{"id":"p2","name":"Two"}],"number":0,"size":20,"totalPages":3,"totalElements":42}}`,
		"/api/v1/phones/search":            `{"success":true,"data":[{"id":"p3","name":"Galaxy S24"}]}`,
		"/api/v1/phones/brand/Sony Xperia": `{"success":true,"data":[]}`,
		"/api/v1/phones/type/Gaming":       `{"success":true,"data":[{"id":"p4","usageTypes":["Gaming","Gaming"]}]}`,
		"/api/v1/phones/price-range":       `{"success":true,"data":[{"id":"p5","price":499.99}]}`,
	})

	c, err := NewClient(server.URL, 2*time.Second)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)

	list, err := c.Fetch(ctx, ListQuery(0, 20))
	if err != nil {
		t.Fatalf("Fetch(list) returned error: %v", err)
	}
	if len(list.Phones) != 2 || list.Phones[0].ID != "p1" || list.Phones[1].ID != "p2" {
		t.Fatalf("Fetch(list) phones = %#v, want p1,p2", list.Phones)
	}
	if list.Page == nil || list.Page.TotalPages != 3 || list.Page.TotalElements != 42 {
		t.Fatalf("Fetch(list) page = %#v, want totalPages=3 totalElements=42", list.Page)
	}

	search, err := c.Fetch(ctx, Query{Mode: ModeSearch, Param: "Galaxy"})
	if err != nil {
		t.Fatalf("Fetch(search) returned error: %v", err)
	}
	if len(search.Phones) != 1 || search.Phones[0].ID != "p3" {
		t.Fatalf("Fetch(search) phones = %#v, want p3", search.Phones)
	}
	if search.Page != nil {
		t.Fatalf("Fetch(search) page = %#v, want nil", search.Page)
	}

	brand, err := c.Fetch(ctx, Query{Mode: ModeBrand, Param: "Sony Xperia"})
	if err != nil {
		t.Fatalf("Fetch(brand) returned error: %v", err)
	}
	if brand.Phones == nil || len(brand.Phones) != 0 {
		t.Fatalf("Fetch(brand) phones = %#v, want empty non-nil slice", brand.Phones)
	}

	typed, err := c.Fetch(ctx, Query{Mode: ModeType, Param: "Gaming"})
	if err != nil {
		t.Fatalf("Fetch(type) returned error: %v", err)
	}
	if got := typed.Phones[0].UsageTypes; len(got) != 2 {
		t.Fatalf("usage types = %v, want duplicates preserved", got)
	}

	if _, err := c.Fetch(ctx, Query{Mode: ModePriceRange, MinPrice: 200, MaxPrice: 800.5}); err != nil {
		t.Fatalf("Fetch(price) returned error: %v", err)
	}

	got := requests()
	if len(got) != 5 {
		t.Fatalf("server saw %d requests, want 5", len(got))
	}
	if got[0].query.Get("page") != "0" || got[0].query.Get("size") != "20" {
		t.Fatalf("list query = %v, want page=0 size=20", got[0].query)
	}
	if got[1].query.Get("query") != "Galaxy" {
		t.Fatalf("search query = %v, want query=Galaxy", got[1].query)
	}
	if got[2].rawPath != "/api/v1/phones/brand/Sony%20Xperia" {
		t.Fatalf("brand path = %q, want escaped space", got[2].rawPath)
	}
	if got[4].query.Get("minPrice") != "200" || got[4].query.Get("maxPrice") != "800.5" {
		t.Fatalf("price query = %v, want minPrice=200 maxPrice=800.5", got[4].query)
	}
	for _, r := range got {
		if !strings.HasPrefix(r.userAgent, "phonecat/") {
			t.Fatalf("User-Agent = %q, want phonecat/*", r.userAgent)
		}
		if r.requestID == "" {
			t.Fatalf("request to %s carried no X-Request-ID", r.path)
		}
	}
	if list.RequestID != got[0].requestID {
		t.Fatalf("Listing.RequestID = %q, want %q", list.RequestID, got[0].requestID)
	}
}

func TestClient_FailureKinds(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/v1/phones/search":
			_, _ = w.Write([]byte("{not-json"))
		case "/api/v1/phones/brand/Apple":
			_, _ = w.Write([]byte(`{"success":false,"message":"brand lookup failed"}`))
		case "/api/v1/phones/price-range":
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"success":false,"message":"Minimum price cannot be greater than maximum price"}`))
		case "/api/v1/phones/type/Gaming":
			http.Error(w, "nope", http.StatusInternalServerError)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(server.Close)

	c, err := NewClient(server.URL, time.Second)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	ctx := context.Background()

	_, err = c.Fetch(ctx, Query{Mode: ModeSearch, Param: "x"})
	if !errors.Is(err, ErrProtocol) || !strings.Contains(err.Error(), "decode envelope") {
		t.Fatalf("Fetch(bad json) error = %v, want protocol decode error", err)
	}

	_, err = c.Fetch(ctx, Query{Mode: ModeBrand, Param: "Apple"})
	if !errors.Is(err, ErrApplication) {
		t.Fatalf("Fetch(success=false) error = %v, want application failure", err)
	}
	var fetchErr *Error
	if !errors.As(err, &fetchErr) || fetchErr.Message != "brand lookup failed" || fetchErr.RequestID == "" {
		t.Fatalf("Fetch(success=false) error = %#v, want message and request id", err)
	}

	_, err = c.Fetch(ctx, Query{Mode: ModePriceRange, MinPrice: 900, MaxPrice: 100})
	if !errors.Is(err, ErrApplication) || !errors.As(err, &fetchErr) || fetchErr.Status != http.StatusBadRequest {
		t.Fatalf("Fetch(400 envelope) error = %v, want application failure with status 400", err)
	}

	_, err = c.Fetch(ctx, Query{Mode: ModeType, Param: "Gaming"})
	if !errors.Is(err, ErrProtocol) || !strings.Contains(err.Error(), "returned status 500") {
		t.Fatalf("Fetch(500) error = %v, want protocol failure mentioning status 500", err)
	}
}

func TestClient_TransportFailure(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	addr := server.URL
	server.Close()

	c, err := NewClient(addr, time.Second)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	_, err = c.Fetch(context.Background(), ListQuery(0, 20))
	if !errors.Is(err, ErrTransport) {
		t.Fatalf("Fetch error = %v, want transport failure", err)
	}
	if Kind(err) != ErrTransport {
		t.Fatalf("Kind(err) = %v, want ErrTransport", Kind(err))
	}
}

func TestClient_CancelledContext(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(release)
		server.Close()
	})

	c, err := NewClient(server.URL, 5*time.Second)
	if err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err = c.Fetch(ctx, ListQuery(0, 20))
	if !errors.Is(err, ErrTransport) || !errors.Is(err, context.Canceled) {
		t.Fatalf("Fetch error = %v, want transport failure wrapping context.Canceled", err)
	}
}
