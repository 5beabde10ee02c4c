package ptr

import (
	"fmt"
	"net/netip"
	"strings"

	"github.com/miekg/dns"

	"nathanbeddoewebdev/ptrgen/internal/domain"
)

// IgnoreReason says why an override was not applied.
type IgnoreReason string

const (
	IgnoreBadAddress  IgnoreReason = "unparsable address"
	IgnoreOutOfPrefix IgnoreReason = "address outside prefix"
	IgnoreReserved    IgnoreReason = "network address"
)

// IgnoredOverride is an override that Overlay left out.
type IgnoredOverride struct {
	Override domain.AddressOverride
	Reason   IgnoreReason
}

func (i IgnoredOverride) String() string {
	return fmt.Sprintf("%s (%s)", i.Override.Address, i.Reason)
}

// OverlayResult summarizes an Overlay call.
type OverlayResult struct {
	// Applied counts overrides that inserted or replaced an entry.
	Applied int

	// Ignored lists overrides that were skipped, in input order. Blank
	// names are the normal case for unnamed addresses and are not listed.
	Ignored []IgnoredOverride

	// Suspicious lists applied names that are not syntactically valid
	// domain names. They are still applied.
	Suspicious []string
}

// Overlay lays explicit names over the auto-generated entries of set.
// Overrides are applied in order so the last one for an address wins.
// Blank names, addresses outside pfx and reserved addresses are ignored,
// which makes applying the same overrides twice a no-op.
func Overlay(set *ZoneRecordSet, pfx netip.Prefix, overrides []domain.AddressOverride) OverlayResult {
	var res OverlayResult

	for _, o := range overrides {
		name := strings.TrimSpace(o.DNSName)
		if name == "" {
			continue
		}

		addr, err := ParseAddress(o.Address)
		if err != nil {
			res.Ignored = append(res.Ignored, IgnoredOverride{Override: o, Reason: IgnoreBadAddress})
			continue
		}
		if !pfx.Contains(addr) {
			res.Ignored = append(res.Ignored, IgnoredOverride{Override: o, Reason: IgnoreOutOfPrefix})
			continue
		}
		if IsReserved(addr) {
			res.Ignored = append(res.Ignored, IgnoredOverride{Override: o, Reason: IgnoreReserved})
			continue
		}

		if _, ok := dns.IsDomainName(name); !ok {
			res.Suspicious = append(res.Suspicious, name)
		}

		set.Set(CanonicalAddress(addr), name)
		res.Applied++
	}

	return res
}
