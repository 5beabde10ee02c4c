package ptr

import (
	"fmt"
	"net/netip"
	"strings"
)

// Scheme is the naming scheme used for auto-generated PTR targets.
type Scheme struct {
	Label     string
	Subdomain string
	Domain    string
}

// Name returns the auto-generated PTR target for addr, without a trailing
// dot. It is a pure function of its inputs.
//
//	IPv4 203.0.113.1  -> host-1-113-0-203.dc1.example.net
//	IPv6 2001:db8::1  -> srv-1--db8-2001.dc1.example.net
func (s Scheme) Name(addr netip.Addr) string {
	addr = addr.Unmap()
	var host string
	if addr.Is4() {
		host = hostPart4(addr)
	} else {
		host = hostPart6(addr)
	}
	return fmt.Sprintf("%s-%s.%s.%s", s.Label, host, s.Subdomain, s.Domain)
}

// hostPart4 joins the octets host-first: 203.0.113.1 -> 1-113-0-203.
func hostPart4(addr netip.Addr) string {
	b := addr.As4()
	return fmt.Sprintf("%d-%d-%d-%d", b[3], b[2], b[1], b[0])
}

// hostPart6 joins the hextets lowest-first with leading zeros stripped. A run
// of all-zero hextets collapses into a single empty token, so it shows up
// as "--" in the result, e.g. 2001:db8::1 -> 1--db8-2001.
func hostPart6(addr netip.Addr) string {
	hextets := strings.Split(addr.StringExpanded(), ":")

	tokens := make([]string, 0, len(hextets))
	for i := len(hextets) - 1; i >= 0; i-- {
		t := strings.TrimLeft(hextets[i], "0")
		if t == "" && len(tokens) > 0 && tokens[len(tokens)-1] == "" {
			continue
		}
		tokens = append(tokens, t)
	}
	return strings.Join(tokens, "-")
}
