package domain

// Family is the IP address family of a prefix or zone.
type Family int

const (
	Family4 Family = 4
	Family6 Family = 6
)

// String returns "IPv4" or "IPv6".
func (f Family) String() string {
	switch f {
	case Family4:
		return "IPv4"
	case Family6:
		return "IPv6"
	}
	return "unknown"
}

// Prefix is a CIDR block from the inventory together with its PTR naming
// scheme.
type Prefix struct {
	// ID is the inventory-assigned identifier. Used for logging only.
	ID string `json:"id,omitempty"`

	// CIDR is the network in address/length form (e.g. "192.0.2.0/24").
	CIDR string `json:"prefix"`

	// Label is the short host-label prefix of generated names ("host" in
	// host-1-2-0-192.dc1.example.net).
	Label string `json:"ptr_prefix"`

	// Subdomain is the subdomain under which generated names are created.
	Subdomain string `json:"ptr_subdomain"`

	// ArpaZone is the ip6.arpa zone the prefix belongs to. Required for
	// IPv6 prefixes, ignored for IPv4 where the zone is derived.
	ArpaZone string `json:"ip6_arpa_zone,omitempty"`

	// Description is a free-form annotation carried through for logging.
	Description string `json:"description,omitempty"`
}

// AddressOverride is an individually assigned address with an optional
// explicit PTR target.
type AddressOverride struct {
	// Address is a plain address or address/length as returned by the
	// inventory (e.g. "192.0.2.5/24").
	Address string `json:"address"`

	// DNSName is the explicit PTR target. Empty or whitespace-only means
	// no override.
	DNSName string `json:"dns_name,omitempty"`
}
