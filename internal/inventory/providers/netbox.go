package providers

import (
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"nathanbeddoewebdev/ptrgen/internal/config"
	"nathanbeddoewebdev/ptrgen/internal/domain"
	"nathanbeddoewebdev/ptrgen/internal/retry"
	"nathanbeddoewebdev/ptrgen/internal/services/auth"

	"github.com/rs/zerolog"
)

const (
	netboxTimeout    = 30 * time.Second
	netboxTokenStore = "netbox"
	netboxPageSize   = 1000

	// Custom fields on NetBox prefixes that carry the PTR naming scheme.
	fieldPTRPrefix    = "ptr_prefix"
	fieldPTRSubdomain = "ptr_subdomain"
	fieldArpaZone     = "ip6_arpa_zone"
)

// Compile-time check that NetBoxSource satisfies domain.Source.
var _ domain.Source = (*NetBoxSource)(nil)

// NetBoxSource implements domain.Source against the NetBox REST API.
// Prefixes come from /ipam/prefixes/ and overrides from
// /ipam/ip-addresses/?parent=<prefix>. List endpoints are followed through
// their "next" links until exhausted.
type NetBoxSource struct {
	token   string
	baseURL string
	client  *http.Client
	retry   retry.Config
}

// NetBoxOption configures a NetBoxSource.
type NetBoxOption func(*NetBoxSource)

// WithInsecureTLS disables certificate verification. Only meant for
// inventories behind self-signed certificates.
func WithInsecureTLS() NetBoxOption {
	return func(n *NetBoxSource) {
		tr := http.DefaultTransport.(*http.Transport).Clone()
		tr.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
		n.client.Transport = tr
	}
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *http.Client) NetBoxOption {
	return func(n *NetBoxSource) { n.client = c }
}

// WithRetry replaces the retry policy for transient failures.
func WithRetry(cfg retry.Config) NetBoxOption {
	return func(n *NetBoxSource) { n.retry = cfg }
}

// NewNetBoxSource creates a NetBoxSource for the API rooted at baseURL
// (e.g. https://netbox.example.net/api).
func NewNetBoxSource(baseURL, token string, opts ...NetBoxOption) *NetBoxSource {
	n := &NetBoxSource{
		token:   token,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: netboxTimeout},
		retry:   retry.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// RegisterNetBox registers the NetBox source factory.
func RegisterNetBox() {
	Register("netbox", func(s config.Settings, store auth.Store) (domain.Source, error) {
		if s.NetBoxURL == "" {
			return nil, &config.ValidationError{Missing: []string{"netbox-url"}}
		}
		token, _, err := auth.ResolveToken(store, netboxTokenStore, s.NetBoxToken)
		if err != nil {
			return nil, fmt.Errorf("netbox auth: token not found (set $%s or run 'ptrgen auth login'): %w", config.EnvNetBoxToken, err)
		}
		var opts []NetBoxOption
		if s.IgnoreTLSVerification {
			opts = append(opts, WithInsecureTLS())
		}
		return NewNetBoxSource(s.NetBoxURL, token, opts...), nil
	})
}

// GetDisplayName returns the human-readable provider name.
func (n *NetBoxSource) GetDisplayName() string {
	return "NetBox"
}

// --- API response types ---

// nbList is the NetBox paginated list envelope.
type nbList[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

type nbPrefix struct {
	ID           int64          `json:"id"`
	Prefix       string         `json:"prefix"`
	Description  string         `json:"description"`
	CustomFields map[string]any `json:"custom_fields"`
}

type nbIPAddress struct {
	ID      int64  `json:"id"`
	Address string `json:"address"`
	DNSName string `json:"dns_name"`
}

// nbError is the body NetBox returns on most 4xx responses.
type nbError struct {
	Detail string `json:"detail"`
}

// --- HTTP helpers ---

// statusError maps an HTTP status to a domain sentinel.
func statusError(status int, body []byte) error {
	msg := strings.TrimSpace(string(body))
	var e nbError
	if json.Unmarshal(body, &e) == nil && e.Detail != "" {
		msg = e.Detail
	}
	if msg == "" {
		msg = http.StatusText(status)
	}

	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s", domain.ErrUnauthorized, msg)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", domain.ErrNotFound, msg)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", domain.ErrRateLimited, msg)
	case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return fmt.Errorf("%w: %s", domain.ErrUnavailable, msg)
	}
	return fmt.Errorf("netbox: unexpected status %d: %s", status, msg)
}

// getJSON fetches rawURL and decodes the body into out, retrying transient
// failures. Decode failures wrap domain.ErrMalformedResponse.
func (n *NetBoxSource) getJSON(ctx context.Context, rawURL string, out any) error {
	cfg := n.retry
	cfg.OnRetry = func(attempt int, err error, delay time.Duration) {
		zerolog.Ctx(ctx).Warn().
			Err(err).
			Str("url", rawURL).
			Int("attempt", attempt).
			Dur("backoff", delay).
			Msg("NetBox request failed, retrying")
	}
	return retry.Do(ctx, cfg, retry.IsTransient, func() error {
		return n.fetchJSON(ctx, rawURL, out)
	})
}

func (n *NetBoxSource) fetchJSON(ctx context.Context, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("netbox: failed to build request: %w", err)
	}
	req.Header.Set("Authorization", "Token "+n.token)
	req.Header.Set("Accept", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("netbox: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return statusError(resp.StatusCode, body)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("netbox: %w: %v", domain.ErrMalformedResponse, err)
	}
	return nil
}

// listAll walks a paginated endpoint starting at firstURL.
func listAll[T any](ctx context.Context, n *NetBoxSource, firstURL string) ([]T, error) {
	var all []T
	seen := map[string]bool{}

	next := firstURL
	for next != "" {
		if seen[next] {
			return nil, fmt.Errorf("netbox: %w: pagination loop at %s", domain.ErrMalformedResponse, next)
		}
		seen[next] = true

		var page nbList[T]
		if err := n.getJSON(ctx, next, &page); err != nil {
			return nil, err
		}
		all = append(all, page.Results...)

		next = ""
		if page.Next != nil {
			next = *page.Next
		}
	}
	return all, nil
}

func (n *NetBoxSource) endpoint(path string, query url.Values) string {
	query.Set("limit", strconv.Itoa(netboxPageSize))
	return n.baseURL + path + "?" + query.Encode()
}

// --- Source implementation ---

// ListPrefixes returns the prefixes that carry a PTR naming scheme, in the
// order NetBox lists them. Prefixes with neither ptr_prefix nor
// ptr_subdomain set are not PTR-managed and are left out; prefixes with only
// one of them are returned so the caller can report them.
func (n *NetBoxSource) ListPrefixes(ctx context.Context) ([]domain.Prefix, error) {
	raw, err := listAll[nbPrefix](ctx, n, n.endpoint("/ipam/prefixes/", url.Values{}))
	if err != nil {
		return nil, fmt.Errorf("failed to list prefixes: %w", err)
	}

	prefixes := make([]domain.Prefix, 0, len(raw))
	for _, p := range raw {
		converted := nbToDomainPrefix(p)
		if converted.Label == "" && converted.Subdomain == "" {
			continue
		}
		prefixes = append(prefixes, converted)
	}
	return prefixes, nil
}

// ListAddresses returns the IP addresses NetBox holds inside prefix.
func (n *NetBoxSource) ListAddresses(ctx context.Context, prefix domain.Prefix) ([]domain.AddressOverride, error) {
	query := url.Values{}
	query.Set("parent", prefix.CIDR)
	raw, err := listAll[nbIPAddress](ctx, n, n.endpoint("/ipam/ip-addresses/", query))
	if err != nil {
		return nil, fmt.Errorf("failed to list addresses for %q: %w", prefix.CIDR, err)
	}

	out := make([]domain.AddressOverride, 0, len(raw))
	for _, a := range raw {
		out = append(out, domain.AddressOverride{Address: a.Address, DNSName: a.DNSName})
	}
	return out, nil
}

// --- Conversion helpers ---

func nbToDomainPrefix(p nbPrefix) domain.Prefix {
	return domain.Prefix{
		ID:          strconv.FormatInt(p.ID, 10),
		CIDR:        p.Prefix,
		Label:       customString(p.CustomFields, fieldPTRPrefix),
		Subdomain:   customString(p.CustomFields, fieldPTRSubdomain),
		ArpaZone:    customString(p.CustomFields, fieldArpaZone),
		Description: p.Description,
	}
}

// customString returns a custom field as a trimmed string. Null, missing
// and non-string values yield "".
func customString(fields map[string]any, key string) string {
	s, ok := fields[key].(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

// IsMalformed reports whether err came from an unparsable inventory
// response rather than a failed request.
func IsMalformed(err error) bool {
	return errors.Is(err, domain.ErrMalformedResponse)
}
