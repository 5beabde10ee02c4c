package domain

import "context"

// Source is the interface that inventory backends must implement.
// It supplies the prefixes to expand and the per-prefix address overrides.
type Source interface {
	// GetDisplayName returns the human-readable source name (e.g. "NetBox").
	GetDisplayName() string

	// ListPrefixes returns every prefix known to the inventory, in the
	// inventory's own order.
	ListPrefixes(ctx context.Context) ([]Prefix, error)

	// ListAddresses returns the individually assigned addresses inside the
	// given prefix.
	ListAddresses(ctx context.Context, prefix Prefix) ([]AddressOverride, error)
}
