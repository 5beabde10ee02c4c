package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/netip"
	"os"
	"strings"
	"sync"

	"nathanbeddoewebdev/ptrgen/internal/config"
	"nathanbeddoewebdev/ptrgen/internal/domain"
	"nathanbeddoewebdev/ptrgen/internal/services/auth"
)

var _ domain.Source = (*FileSource)(nil)

// Inventory is the on-disk document read by FileSource. It mirrors the
// shape of the NetBox data: a flat prefix list and a flat address list.
//
//	{
//	  "prefixes": [
//	    {"prefix": "192.0.2.0/24", "ptr_prefix": "host", "ptr_subdomain": "dc1"}
//	  ],
//	  "addresses": [
//	    {"address": "192.0.2.10/24", "dns_name": "mail.example.net"}
//	  ]
//	}
type Inventory struct {
	Prefixes  []domain.Prefix          `json:"prefixes"`
	Addresses []domain.AddressOverride `json:"addresses"`
}

// FileSource serves prefixes and overrides from a JSON inventory file. The
// file is read once, on first use.
type FileSource struct {
	path string

	once sync.Once
	inv  *Inventory
	err  error
}

// NewFileSource returns a FileSource reading path.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

// RegisterFile registers the JSON file source factory.
func RegisterFile() {
	Register("file", func(s config.Settings, _ auth.Store) (domain.Source, error) {
		if s.InventoryFile == "" {
			return nil, &config.ValidationError{Missing: []string{"inventory-file"}}
		}
		return NewFileSource(s.InventoryFile), nil
	})
}

func (f *FileSource) GetDisplayName() string {
	return "Inventory file"
}

func (f *FileSource) load() (*Inventory, error) {
	f.once.Do(func() {
		data, err := os.ReadFile(f.path)
		if err != nil {
			f.err = fmt.Errorf("inventory file: %w", err)
			return
		}
		var inv Inventory
		if err := json.Unmarshal(data, &inv); err != nil {
			f.err = fmt.Errorf("inventory file %s: %w: %v", f.path, domain.ErrMalformedResponse, err)
			return
		}
		f.inv = &inv
	})
	return f.inv, f.err
}

// ListPrefixes returns the prefixes in file order.
func (f *FileSource) ListPrefixes(ctx context.Context) ([]domain.Prefix, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	inv, err := f.load()
	if err != nil {
		return nil, fmt.Errorf("failed to list prefixes: %w", err)
	}
	return inv.Prefixes, nil
}

// ListAddresses returns the addresses that fall inside prefix, in file
// order. Entries whose address cannot be parsed are passed through so the
// overlay can report them.
func (f *FileSource) ListAddresses(ctx context.Context, prefix domain.Prefix) ([]domain.AddressOverride, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	inv, err := f.load()
	if err != nil {
		return nil, fmt.Errorf("failed to list addresses for %q: %w", prefix.CIDR, err)
	}

	pfx, err := netip.ParsePrefix(strings.TrimSpace(prefix.CIDR))
	if err != nil {
		return nil, nil
	}
	pfx = pfx.Masked()

	var out []domain.AddressOverride
	for _, a := range inv.Addresses {
		addr, ok := hostAddr(a.Address)
		if ok && !pfx.Contains(addr) {
			continue
		}
		out = append(out, a)
	}
	return out, nil
}

// hostAddr parses "addr" or "addr/len".
func hostAddr(s string) (netip.Addr, bool) {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '/'); i >= 0 {
		s = s[:i]
	}
	addr, err := netip.ParseAddr(s)
	if err != nil {
		return netip.Addr{}, false
	}
	return addr.Unmap(), true
}
