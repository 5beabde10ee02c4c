package ptr

import (
	"errors"
	"net/netip"
	"slices"
	"testing"

	"nathanbeddoewebdev/ptrgen/internal/domain"

	"github.com/google/go-cmp/cmp"
)

func testPrefix(cidr string) domain.Prefix {
	return domain.Prefix{CIDR: cidr, Label: "host", Subdomain: "dc1"}
}

func TestExpand_IPv4Zone(t *testing.T) {
	tests := []struct {
		cidr string
		want string
	}{
		{"203.0.113.0/30", "113.0.203.in-addr.arpa"},
		{"192.0.2.0/24", "2.0.192.in-addr.arpa"},
		{"10.20.0.0/16", "0.20.10.in-addr.arpa"},
		// Host bits are masked before the zone is derived.
		{"192.0.2.77/24", "2.0.192.in-addr.arpa"},
	}
	for _, tt := range tests {
		t.Run(tt.cidr, func(t *testing.T) {
			exp, err := Expand(testPrefix(tt.cidr), ExpandOptions{})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if exp.Zone != tt.want {
				t.Errorf("Zone = %q, want %q", exp.Zone, tt.want)
			}
			if exp.Family != domain.Family4 {
				t.Errorf("Family = %v, want IPv4", exp.Family)
			}
		})
	}
}

func TestExpand_IPv6UsesArpaZone(t *testing.T) {
	p := testPrefix("2001:db8::/126")
	p.ArpaZone = "8.B.D.0.1.0.0.2.ip6.arpa."

	exp, err := Expand(p, ExpandOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if exp.Zone != "8.b.d.0.1.0.0.2.ip6.arpa" {
		t.Errorf("Zone = %q", exp.Zone)
	}
	if exp.Family != domain.Family6 {
		t.Errorf("Family = %v, want IPv6", exp.Family)
	}
}

func TestExpand_Skips(t *testing.T) {
	tests := []struct {
		name   string
		prefix domain.Prefix
		want   error
	}{
		{"invalid cidr", testPrefix("not-a-cidr"), ErrInvalidCIDR},
		{"missing mask", testPrefix("192.0.2.0"), ErrInvalidCIDR},
		{"missing label", domain.Prefix{CIDR: "192.0.2.0/24", Subdomain: "dc1"}, ErrMissingLabel},
		{"blank label", domain.Prefix{CIDR: "192.0.2.0/24", Label: "  ", Subdomain: "dc1"}, ErrMissingLabel},
		{"missing subdomain", domain.Prefix{CIDR: "192.0.2.0/24", Label: "host"}, ErrMissingSubdomain},
		{"ipv6 without zone", testPrefix("2001:db8::/126"), ErrMissingArpaZone},
		{"too large", domain.Prefix{CIDR: "2001:db8::/64", Label: "h", Subdomain: "s", ArpaZone: "8.b.d.0.1.0.0.2.ip6.arpa"}, ErrPrefixTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Expand(tt.prefix, ExpandOptions{})
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			var skip *SkipError
			if !errors.As(err, &skip) {
				t.Fatalf("expected *SkipError, got %T", err)
			}
			if skip.Prefix.CIDR != tt.prefix.CIDR {
				t.Errorf("SkipError.Prefix = %q, want %q", skip.Prefix.CIDR, tt.prefix.CIDR)
			}
		})
	}
}

func TestExpand_MaxAddresses(t *testing.T) {
	p := testPrefix("10.0.0.0/22")

	if _, err := Expand(p, ExpandOptions{MaxAddresses: 512}); !errors.Is(err, ErrPrefixTooLarge) {
		t.Fatalf("expected ErrPrefixTooLarge, got %v", err)
	}
	if _, err := Expand(p, ExpandOptions{MaxAddresses: 1024}); err != nil {
		t.Fatalf("limit equal to size should pass, got %v", err)
	}

	big := domain.Prefix{CIDR: "2001:db8::/64", Label: "h", Subdomain: "s", ArpaZone: "8.b.d.0.1.0.0.2.ip6.arpa"}
	exp, err := Expand(big, ExpandOptions{MaxAddresses: -1})
	if err != nil {
		t.Fatalf("negative limit should disable the cap, got %v", err)
	}
	if got := exp.Size().String(); got != "18446744073709551616" {
		t.Errorf("Size = %s", got)
	}
}

func TestExpansion_Addresses(t *testing.T) {
	exp, err := Expand(testPrefix("203.0.113.0/30"), ExpandOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []netip.Addr{
		netip.MustParseAddr("203.0.113.0"),
		netip.MustParseAddr("203.0.113.1"),
		netip.MustParseAddr("203.0.113.2"),
		netip.MustParseAddr("203.0.113.3"),
	}
	got := slices.Collect(exp.Addresses())
	if diff := cmp.Diff(want, got, cmp.Comparer(func(a, b netip.Addr) bool { return a == b })); diff != "" {
		t.Errorf("Addresses mismatch (-want +got):\n%s", diff)
	}

	// The sequence is restartable.
	again := slices.Collect(exp.Addresses())
	if len(again) != len(got) {
		t.Errorf("second pass yielded %d addresses, want %d", len(again), len(got))
	}

	usable := slices.Collect(exp.Usable())
	if len(usable) != 3 || usable[0] != want[1] {
		t.Errorf("Usable = %v, want .1 .2 .3", usable)
	}
}

func TestExpansion_AddressesStopsAtTopOfSpace(t *testing.T) {
	exp, err := Expand(testPrefix("255.255.255.252/30"), ExpandOptions{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := len(slices.Collect(exp.Addresses())); n != 4 {
		t.Errorf("expected 4 addresses, got %d", n)
	}
}

func TestIsReserved(t *testing.T) {
	tests := []struct {
		addr string
		want bool
	}{
		{"192.0.2.0", true},
		{"192.0.2.1", false},
		{"192.0.2.255", false},
		{"10.0.1.0", true},
		{"2001:db8::", true},
		{"2001:db8::1", false},
		{"2001:db8::1:0", true},
		{"2001:db8::100", false},
		{"::ffff:192.0.2.0", true},
	}
	for _, tt := range tests {
		t.Run(tt.addr, func(t *testing.T) {
			if got := IsReserved(netip.MustParseAddr(tt.addr)); got != tt.want {
				t.Errorf("IsReserved(%s) = %v, want %v", tt.addr, got, tt.want)
			}
		})
	}
}

func TestCanonicalAddress(t *testing.T) {
	tests := []struct {
		addr string
		want string
	}{
		{"192.0.2.5", "192.0.2.5"},
		{"2001:db8::1", "2001:0db8:0000:0000:0000:0000:0000:0001"},
		{"2001:DB8::AB", "2001:0db8:0000:0000:0000:0000:0000:00ab"},
		{"::ffff:192.0.2.5", "192.0.2.5"},
	}
	for _, tt := range tests {
		t.Run(tt.addr, func(t *testing.T) {
			if got := CanonicalAddress(netip.MustParseAddr(tt.addr)); got != tt.want {
				t.Errorf("CanonicalAddress(%s) = %q, want %q", tt.addr, got, tt.want)
			}
		})
	}
}

func TestParseAddress(t *testing.T) {
	valid := map[string]string{
		"192.0.2.5":        "192.0.2.5",
		"192.0.2.5/24":     "192.0.2.5",
		" 2001:db8::1/64 ": "2001:db8::1",
	}
	for in, want := range valid {
		got, err := ParseAddress(in)
		if err != nil {
			t.Errorf("ParseAddress(%q) unexpected error: %v", in, err)
			continue
		}
		if got.String() != want {
			t.Errorf("ParseAddress(%q) = %s, want %s", in, got, want)
		}
	}

	for _, in := range []string{"", "bogus", "192.0.2.5/abc", "192.0.2.500"} {
		if _, err := ParseAddress(in); err == nil {
			t.Errorf("ParseAddress(%q) expected error", in)
		}
	}
}
