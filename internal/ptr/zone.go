package ptr

import (
	"iter"
	"net/netip"
	"slices"
	"strings"

	"github.com/miekg/dns"

	"nathanbeddoewebdev/ptrgen/internal/domain"
)

// PTRRecord is a single rendered PTR pair.
type PTRRecord struct {
	// ReverseLabel is the owner name, e.g. "5.2.0.192.in-addr.arpa.".
	ReverseLabel string

	// Target is the host name the record points at. Always fully qualified.
	Target string
}

// String formats the record as a zone file line without the newline.
func (r PTRRecord) String() string {
	return r.ReverseLabel + " IN PTR " + r.Target
}

// ZoneRecordSet holds the address to name mapping of one reverse zone.
// Keys are canonical addresses (see CanonicalAddress) and are unique;
// iteration follows first-insertion order.
type ZoneRecordSet struct {
	Zone   string
	Family domain.Family

	names map[string]string
	order []string
}

// NewZoneRecordSet returns an empty record set for zone.
func NewZoneRecordSet(zone string, family domain.Family) *ZoneRecordSet {
	return &ZoneRecordSet{
		Zone:   zone,
		Family: family,
		names:  make(map[string]string),
	}
}

// Set inserts or replaces the name for a canonical address.
func (z *ZoneRecordSet) Set(address, name string) {
	if _, ok := z.names[address]; !ok {
		z.order = append(z.order, address)
	}
	z.names[address] = name
}

// Get returns the name stored for a canonical address.
func (z *ZoneRecordSet) Get(address string) (string, bool) {
	name, ok := z.names[address]
	return name, ok
}

// Len returns the number of addresses in the set.
func (z *ZoneRecordSet) Len() int { return len(z.order) }

// All yields address/name pairs in insertion order.
func (z *ZoneRecordSet) All() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for _, addr := range z.order {
			if !yield(addr, z.names[addr]) {
				return
			}
		}
	}
}

// Merge copies every entry of other into z. Entries of other win.
func (z *ZoneRecordSet) Merge(other *ZoneRecordSet) {
	for addr, name := range other.All() {
		z.Set(addr, name)
	}
}

// Records converts the set into PTR records, in insertion order.
// Entries whose key is not a valid address are dropped.
func (z *ZoneRecordSet) Records() []PTRRecord {
	records := make([]PTRRecord, 0, len(z.order))
	for addr, name := range z.All() {
		label, err := ReverseLabel(addr)
		if err != nil {
			continue
		}
		records = append(records, PTRRecord{ReverseLabel: label, Target: dns.Fqdn(name)})
	}
	return records
}

// RenderRecords returns the zone's PTR lines, each terminated by a newline.
func (z *ZoneRecordSet) RenderRecords() string {
	var b strings.Builder
	for _, r := range z.Records() {
		b.WriteString(r.String())
		b.WriteByte('\n')
	}
	return b.String()
}

// ReverseLabel returns the fully qualified reverse-DNS owner name of an
// address: "5.2.0.192.in-addr.arpa." for 192.0.2.5, the 32 nibbles in
// reverse order followed by "ip6.arpa." for IPv6.
func ReverseLabel(address string) (string, error) {
	addr, err := netip.ParseAddr(address)
	if err != nil {
		return "", err
	}
	return dns.ReverseAddr(addr.Unmap().String())
}

// Accumulator collects the per-prefix results of a run and groups them by
// reverse zone.
type Accumulator struct {
	ptrDomain string
	zones     map[string]*ZoneRecordSet
}

// NewAccumulator returns an empty accumulator generating names under ptrDomain.
func NewAccumulator(ptrDomain string) *Accumulator {
	return &Accumulator{
		ptrDomain: strings.TrimRight(strings.TrimSpace(ptrDomain), "."),
		zones:     make(map[string]*ZoneRecordSet),
	}
}

// Skeleton builds the auto-generated record set of a single prefix.
func (a *Accumulator) Skeleton(exp *Expansion) *ZoneRecordSet {
	scheme := Scheme{
		Label:     strings.TrimSpace(exp.Source.Label),
		Subdomain: strings.TrimSpace(exp.Source.Subdomain),
		Domain:    a.ptrDomain,
	}

	set := NewZoneRecordSet(exp.Zone, exp.Family)
	for addr := range exp.Usable() {
		set.Set(CanonicalAddress(addr), scheme.Name(addr))
	}
	return set
}

// Add expands a prefix, overlays its overrides and merges the result into
// the prefix's zone. Later calls overwrite earlier ones for addresses they
// have in common.
func (a *Accumulator) Add(exp *Expansion, overrides []domain.AddressOverride) OverlayResult {
	set := a.Skeleton(exp)
	res := Overlay(set, exp.Prefix, overrides)
	a.merge(set)
	return res
}

func (a *Accumulator) merge(set *ZoneRecordSet) {
	zone, ok := a.zones[set.Zone]
	if !ok {
		a.zones[set.Zone] = set
		return
	}
	zone.Merge(set)
}

// Zone returns the record set for name, if any prefix contributed to it.
func (a *Accumulator) Zone(name string) (*ZoneRecordSet, bool) {
	z, ok := a.zones[name]
	return z, ok
}

// Zones returns every zone, sorted by name.
func (a *Accumulator) Zones() []*ZoneRecordSet {
	names := make([]string, 0, len(a.zones))
	for name := range a.zones {
		names = append(names, name)
	}
	slices.Sort(names)

	zones := make([]*ZoneRecordSet, 0, len(names))
	for _, name := range names {
		zones = append(zones, a.zones[name])
	}
	return zones
}
