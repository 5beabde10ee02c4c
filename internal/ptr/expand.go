// Package ptr synthesizes reverse-DNS PTR data from address allocations.
//
// A prefix is expanded into every usable address it contains, each address
// receives a deterministic auto-generated name, explicit overrides are laid
// on top, and the results are grouped per reverse zone. Everything here is
// pure, synchronous and free of I/O; fetching inventory and writing zone
// files live in other packages.
package ptr

import (
	"errors"
	"fmt"
	"iter"
	"math/big"
	"net/netip"
	"strings"

	"nathanbeddoewebdev/ptrgen/internal/domain"
)

// DefaultMaxAddresses is the enumeration ceiling applied by Expand when
// ExpandOptions.MaxAddresses is not set.
const DefaultMaxAddresses = 1 << 20

// Reasons a prefix is skipped. They are wrapped by *SkipError.
var (
	ErrInvalidCIDR      = errors.New("invalid CIDR")
	ErrMissingLabel     = errors.New("missing ptr label")
	ErrMissingSubdomain = errors.New("missing ptr subdomain")
	ErrMissingArpaZone  = errors.New("missing ip6.arpa zone")
	ErrPrefixTooLarge   = errors.New("prefix too large to enumerate")
)

// SkipError reports a prefix that cannot be expanded. The prefix is left
// out of the run; other prefixes are unaffected.
type SkipError struct {
	Prefix domain.Prefix
	Err    error
}

func (e *SkipError) Error() string {
	return fmt.Sprintf("skipping prefix %q: %v", e.Prefix.CIDR, e.Err)
}

func (e *SkipError) Unwrap() error { return e.Err }

// ExpandOptions tunes Expand.
type ExpandOptions struct {
	// MaxAddresses caps the number of addresses a prefix may contain.
	// Zero means DefaultMaxAddresses, a negative value disables the cap.
	MaxAddresses int64
}

// Expansion is a validated prefix ready for enumeration.
type Expansion struct {
	Source domain.Prefix
	Prefix netip.Prefix
	Family domain.Family
	Zone   string
}

// Expand validates p and derives the reverse zone it belongs to.
// Any problem is returned as a *SkipError.
func Expand(p domain.Prefix, opts ExpandOptions) (*Expansion, error) {
	skip := func(err error) error { return &SkipError{Prefix: p, Err: err} }

	if strings.TrimSpace(p.Label) == "" {
		return nil, skip(ErrMissingLabel)
	}
	if strings.TrimSpace(p.Subdomain) == "" {
		return nil, skip(ErrMissingSubdomain)
	}

	pfx, err := netip.ParsePrefix(strings.TrimSpace(p.CIDR))
	if err != nil {
		return nil, skip(fmt.Errorf("%w: %v", ErrInvalidCIDR, err))
	}
	pfx = netip.PrefixFrom(pfx.Addr().Unmap(), pfx.Bits()).Masked()
	if !pfx.IsValid() {
		return nil, skip(fmt.Errorf("%w: %s", ErrInvalidCIDR, p.CIDR))
	}

	exp := &Expansion{Source: p, Prefix: pfx}
	if pfx.Addr().Is4() {
		exp.Family = domain.Family4
		exp.Zone = ZoneFor4(pfx)
	} else {
		exp.Family = domain.Family6
		exp.Zone = NormalizeZone(p.ArpaZone)
		if exp.Zone == "" {
			return nil, skip(ErrMissingArpaZone)
		}
	}

	limit := opts.MaxAddresses
	if limit == 0 {
		limit = DefaultMaxAddresses
	}
	if limit > 0 && exp.Size().Cmp(big.NewInt(limit)) > 0 {
		return nil, skip(fmt.Errorf("%w: %s holds %s addresses, limit is %d",
			ErrPrefixTooLarge, pfx, exp.Size(), limit))
	}

	return exp, nil
}

// ZoneFor4 derives the in-addr.arpa zone of an IPv4 prefix: the host octet
// of the network address is dropped and the remaining three are reversed.
func ZoneFor4(pfx netip.Prefix) string {
	b := pfx.Masked().Addr().As4()
	return fmt.Sprintf("%d.%d.%d.in-addr.arpa", b[2], b[1], b[0])
}

// NormalizeZone lowercases and strips any trailing dot from a zone name.
func NormalizeZone(z string) string {
	return strings.ToLower(strings.TrimRight(strings.TrimSpace(z), "."))
}

// Size returns the number of addresses in the prefix.
func (e *Expansion) Size() *big.Int {
	hostBits := e.Prefix.Addr().BitLen() - e.Prefix.Bits()
	return new(big.Int).Lsh(big.NewInt(1), uint(hostBits))
}

// Addresses yields every address of the prefix in ascending order,
// reserved ones included. The sequence can be ranged over repeatedly.
func (e *Expansion) Addresses() iter.Seq[netip.Addr] {
	return func(yield func(netip.Addr) bool) {
		for addr := e.Prefix.Addr(); addr.IsValid() && e.Prefix.Contains(addr); addr = addr.Next() {
			if !yield(addr) {
				return
			}
		}
	}
}

// Usable yields the addresses that receive PTR records, i.e. Addresses
// without the reserved ones.
func (e *Expansion) Usable() iter.Seq[netip.Addr] {
	return func(yield func(netip.Addr) bool) {
		for addr := range e.Addresses() {
			if IsReserved(addr) {
				continue
			}
			if !yield(addr) {
				return
			}
		}
	}
}

// IsReserved reports whether addr is a "network" address that never gets a
// PTR record: an IPv4 address whose last octet is 0, or an IPv6 address
// whose lowest 16-bit group is 0000.
func IsReserved(addr netip.Addr) bool {
	addr = addr.Unmap()
	if addr.Is4() {
		return addr.As4()[3] == 0
	}
	b := addr.As16()
	return b[14] == 0 && b[15] == 0
}

// CanonicalAddress returns the key used for addr inside a record set:
// dotted quad for IPv4, the fully expanded hextet form for IPv6.
func CanonicalAddress(addr netip.Addr) string {
	addr = addr.Unmap()
	if addr.Is4() {
		return addr.String()
	}
	return addr.WithZone("").StringExpanded()
}

// ParseAddress accepts a plain address or an address/length pair as
// returned by inventories for assigned addresses.
func ParseAddress(s string) (netip.Addr, error) {
	s = strings.TrimSpace(s)
	if strings.Contains(s, "/") {
		pfx, err := netip.ParsePrefix(s)
		if err != nil {
			return netip.Addr{}, err
		}
		return pfx.Addr().Unmap(), nil
	}
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return netip.Addr{}, err
	}
	return addr.Unmap(), nil
}
