package providers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"nathanbeddoewebdev/ptrgen/internal/domain"
	"nathanbeddoewebdev/ptrgen/internal/retry"

	"github.com/google/go-cmp/cmp"
)

// --- Test helpers ---

// nbListJSON returns a NetBox list envelope.
func nbListJSON(next string, results ...any) map[string]any {
	env := map[string]any{
		"count":    len(results),
		"next":     nil,
		"previous": nil,
		"results":  results,
	}
	if next != "" {
		env["next"] = next
	}
	if results == nil {
		env["results"] = []any{}
	}
	return env
}

func testNBPrefixJSON(id int, cidr string, fields map[string]any) map[string]any {
	return map[string]any{
		"id":            id,
		"prefix":        cidr,
		"description":   "",
		"custom_fields": fields,
	}
}

func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		t.Errorf("failed to encode response: %v", err)
	}
}

// newNBServer routes on request path only; handlers inspect the query.
func newNBServer(t *testing.T, handlers map[string]http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Token test-token" {
			t.Errorf("Authorization header = %q", got)
		}
		if got := r.Header.Get("Accept"); got != "application/json" {
			t.Errorf("Accept header = %q", got)
		}
		h, ok := handlers[r.URL.Path]
		if !ok {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL)
			http.NotFound(w, r)
			return
		}
		h(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestNetBox(t *testing.T, serverURL string) *NetBoxSource {
	t.Helper()
	return NewNetBoxSource(serverURL+"/api/", "test-token", WithRetry(retry.Config{MaxAttempts: 3}))
}

// --- ListPrefixes ---

func TestNetBox_ListPrefixes(t *testing.T) {
	srv := newNBServer(t, map[string]http.HandlerFunc{
		"/api/ipam/prefixes/": func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Query().Get("limit") == "" {
				t.Error("expected limit query parameter")
			}
			writeJSON(t, w, nbListJSON("",
				testNBPrefixJSON(1, "192.0.2.0/24", map[string]any{"ptr_prefix": "host", "ptr_subdomain": "dc1", "ip6_arpa_zone": nil}),
				testNBPrefixJSON(2, "10.0.0.0/8", map[string]any{"ptr_prefix": nil, "ptr_subdomain": nil}),
				testNBPrefixJSON(3, "2001:db8::/64", map[string]any{"ptr_prefix": "srv", "ptr_subdomain": " lab ", "ip6_arpa_zone": "8.b.d.0.1.0.0.2.ip6.arpa"}),
				testNBPrefixJSON(4, "198.51.100.0/24", map[string]any{"ptr_prefix": "half"}),
				testNBPrefixJSON(5, "203.0.113.0/24", nil),
			))
		},
	})

	got, err := newTestNetBox(t, srv.URL).ListPrefixes(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []domain.Prefix{
		{ID: "1", CIDR: "192.0.2.0/24", Label: "host", Subdomain: "dc1"},
		{ID: "3", CIDR: "2001:db8::/64", Label: "srv", Subdomain: "lab", ArpaZone: "8.b.d.0.1.0.0.2.ip6.arpa"},
		{ID: "4", CIDR: "198.51.100.0/24", Label: "half"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("prefixes mismatch (-want +got):\n%s", diff)
	}
}

func TestNetBox_ListPrefixes_FollowsNext(t *testing.T) {
	var srv *httptest.Server
	calls := 0
	srv = newNBServer(t, map[string]http.HandlerFunc{
		"/api/ipam/prefixes/": func(w http.ResponseWriter, r *http.Request) {
			calls++
			fields := map[string]any{"ptr_prefix": "h", "ptr_subdomain": "s"}
			if r.URL.Query().Get("offset") == "" {
				writeJSON(t, w, nbListJSON(srv.URL+"/api/ipam/prefixes/?limit=1&offset=1",
					testNBPrefixJSON(1, "192.0.2.0/24", fields)))
				return
			}
			writeJSON(t, w, nbListJSON("", testNBPrefixJSON(2, "198.51.100.0/24", fields)))
		},
	})

	got, err := newTestNetBox(t, srv.URL).ListPrefixes(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 2 {
		t.Errorf("expected 2 page requests, got %d", calls)
	}
	if len(got) != 2 || got[0].CIDR != "192.0.2.0/24" || got[1].CIDR != "198.51.100.0/24" {
		t.Errorf("unexpected prefixes: %+v", got)
	}
}

func TestNetBox_PaginationLoop(t *testing.T) {
	var srv *httptest.Server
	srv = newNBServer(t, map[string]http.HandlerFunc{
		"/api/ipam/prefixes/": func(w http.ResponseWriter, r *http.Request) {
			writeJSON(t, w, nbListJSON(srv.URL+"/api/ipam/prefixes/?limit=1000"))
		},
	})

	_, err := newTestNetBox(t, srv.URL).ListPrefixes(context.Background())
	if !errors.Is(err, domain.ErrMalformedResponse) {
		t.Fatalf("expected ErrMalformedResponse for a self-referencing next link, got %v", err)
	}
}

func TestNetBox_ErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{"unauthorized", http.StatusForbidden, `{"detail":"Invalid token"}`, domain.ErrUnauthorized},
		{"not found", http.StatusNotFound, `{"detail":"Not found."}`, domain.ErrNotFound},
		{"rate limited", http.StatusTooManyRequests, ``, domain.ErrRateLimited},
		{"malformed", http.StatusOK, `<html>maintenance</html>`, domain.ErrMalformedResponse},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newNBServer(t, map[string]http.HandlerFunc{
				"/api/ipam/prefixes/": func(w http.ResponseWriter, r *http.Request) {
					w.WriteHeader(tt.status)
					_, _ = w.Write([]byte(tt.body))
				},
			})
			_, err := newTestNetBox(t, srv.URL).ListPrefixes(context.Background())
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if IsMalformed(err) != (tt.want == domain.ErrMalformedResponse) {
				t.Errorf("IsMalformed(%v) = %v", err, IsMalformed(err))
			}
		})
	}
}

func TestNetBox_ServerErrorIsNotMalformed(t *testing.T) {
	srv := newNBServer(t, map[string]http.HandlerFunc{
		"/api/ipam/prefixes/": func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		},
	})
	_, err := newTestNetBox(t, srv.URL).ListPrefixes(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if IsMalformed(err) {
		t.Errorf("a 500 is a retrieval failure, not a malformed response: %v", err)
	}
}

func TestNetBox_RetriesTransientStatus(t *testing.T) {
	calls := 0
	srv := newNBServer(t, map[string]http.HandlerFunc{
		"/api/ipam/prefixes/": func(w http.ResponseWriter, r *http.Request) {
			calls++
			if calls < 3 {
				http.Error(w, "upstream down", http.StatusServiceUnavailable)
				return
			}
			writeJSON(t, w, nbListJSON("", testNBPrefixJSON(1, "192.0.2.0/24", map[string]any{
				"ptr_prefix": "host", "ptr_subdomain": "dc1",
			})))
		},
	})

	got, err := newTestNetBox(t, srv.URL).ListPrefixes(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 || calls != 3 {
		t.Errorf("got %d prefixes after %d calls, want 1 after 3", len(got), calls)
	}
}

func TestNetBox_GivesUpAfterMaxAttempts(t *testing.T) {
	calls := 0
	srv := newNBServer(t, map[string]http.HandlerFunc{
		"/api/ipam/prefixes/": func(w http.ResponseWriter, r *http.Request) {
			calls++
			w.WriteHeader(http.StatusTooManyRequests)
		},
	})

	_, err := newTestNetBox(t, srv.URL).ListPrefixes(context.Background())
	if !errors.Is(err, domain.ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 calls, got %d", calls)
	}
}

func TestNetBox_MalformedIsNotRetried(t *testing.T) {
	calls := 0
	srv := newNBServer(t, map[string]http.HandlerFunc{
		"/api/ipam/prefixes/": func(w http.ResponseWriter, r *http.Request) {
			calls++
			_, _ = w.Write([]byte("{"))
		},
	})

	_, err := newTestNetBox(t, srv.URL).ListPrefixes(context.Background())
	if !IsMalformed(err) {
		t.Fatalf("expected malformed response, got %v", err)
	}
	if calls != 1 {
		t.Errorf("expected a single call, got %d", calls)
	}
}

// --- ListAddresses ---

func TestNetBox_ListAddresses(t *testing.T) {
	srv := newNBServer(t, map[string]http.HandlerFunc{
		"/api/ipam/ip-addresses/": func(w http.ResponseWriter, r *http.Request) {
			if got := r.URL.Query().Get("parent"); got != "192.0.2.0/24" {
				t.Errorf("parent = %q, want 192.0.2.0/24", got)
			}
			writeJSON(t, w, nbListJSON("",
				map[string]any{"id": 10, "address": "192.0.2.5/24", "dns_name": "mail.example.net"},
				map[string]any{"id": 11, "address": "192.0.2.6/24", "dns_name": ""},
			))
		},
	})

	got, err := newTestNetBox(t, srv.URL).ListAddresses(context.Background(), domain.Prefix{CIDR: "192.0.2.0/24"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []domain.AddressOverride{
		{Address: "192.0.2.5/24", DNSName: "mail.example.net"},
		{Address: "192.0.2.6/24"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("addresses mismatch (-want +got):\n%s", diff)
	}
}

func TestNetBox_ContextCanceled(t *testing.T) {
	srv := newNBServer(t, map[string]http.HandlerFunc{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestNetBox(t, srv.URL).ListAddresses(ctx, domain.Prefix{CIDR: "192.0.2.0/24"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestWithInsecureTLS(t *testing.T) {
	srv := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(t, w, nbListJSON(""))
	}))
	t.Cleanup(srv.Close)

	strict := NewNetBoxSource(srv.URL, "t")
	if _, err := strict.ListPrefixes(context.Background()); err == nil {
		t.Error("expected certificate error without WithInsecureTLS")
	}

	insecure := NewNetBoxSource(srv.URL, "t", WithInsecureTLS())
	if _, err := insecure.ListPrefixes(context.Background()); err != nil {
		t.Errorf("expected success with WithInsecureTLS, got %v", err)
	}
}
