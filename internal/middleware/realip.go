package middleware

import (
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"strings"
)

// TrustedProxies lists the peers allowed to report the client address through
// X-Forwarded-For and X-Real-IP. The zero value trusts nobody.
type TrustedProxies struct {
	prefixes []netip.Prefix
}

// ParseTrustedProxies accepts single addresses ("10.0.0.7") and CIDR ranges ("10.0.0.0/8")
func ParseTrustedProxies(entries []string) (*TrustedProxies, error) {
	tp := &TrustedProxies{}
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		if strings.Contains(entry, "/") {
			prefix, err := netip.ParsePrefix(entry)
			if err != nil {
				return nil, fmt.Errorf("invalid trusted proxy %q: %w", entry, err)
			}
			tp.prefixes = append(tp.prefixes, prefix.Masked())
			continue
		}

		addr, err := netip.ParseAddr(entry)
		if err != nil {
			return nil, fmt.Errorf("invalid trusted proxy %q: %w", entry, err)
		}
		addr = addr.Unmap()
		tp.prefixes = append(tp.prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return tp, nil
}

// Contains reports whether addr belongs to a trusted proxy
func (tp *TrustedProxies) Contains(addr netip.Addr) bool {
	if tp == nil || !addr.IsValid() {
		return false
	}
	addr = addr.Unmap()
	for _, prefix := range tp.prefixes {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

// RealIPMiddleware rewrites r.RemoteAddr to the client address reported by a
// trusted proxy. Forwarding headers from any other peer are ignored.
// X-Forwarded-For is read right to left and the first hop that is not itself a
// trusted proxy is taken as the client.
func RealIPMiddleware(trusted *TrustedProxies) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if peer, ok := parseIP(getClientIP(r)); ok && trusted.Contains(peer) {
				if client, ok := forwardedClient(r, trusted); ok {
					r.RemoteAddr = client.String()
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

func forwardedClient(r *http.Request, trusted *TrustedProxies) (netip.Addr, bool) {
	if xff := r.Header.Values("X-Forwarded-For"); len(xff) > 0 {
		hops := strings.Split(strings.Join(xff, ","), ",")
		var client netip.Addr
		for i := len(hops) - 1; i >= 0; i-- {
			addr, ok := parseIP(hops[i])
			if !ok {
				break
			}
			client = addr
			if !trusted.Contains(addr) {
				break
			}
		}
		return client, client.IsValid()
	}

	return parseIP(r.Header.Get("X-Real-IP"))
}

func parseIP(s string) (netip.Addr, bool) {
	addr, err := netip.ParseAddr(strings.TrimSpace(s))
	if err != nil {
		return netip.Addr{}, false
	}
	return addr.Unmap(), true
}

// getClientIP returns the host part of r.RemoteAddr. Behind a trusted proxy
// RealIPMiddleware has already replaced it with the forwarded client address.
func getClientIP(r *http.Request) string {
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
