package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"

	"github.com/whisperbox/secrets"
)

// Headers consulted, in order, for the client address.
var forwardHeaders = []string{"X-Forwarded-For", "X-Real-Ip"}

// IANA-reserved IPv4 ranges that cannot be a client address.
var privateNets = mustParseCIDRs(
	"10.0.0.0/8",
	"100.64.0.0/10",
	"172.16.0.0/12",
	"192.0.0.0/24",
	"192.168.0.0/16",
	"198.18.0.0/15",
)

func mustParseCIDRs(cidrs ...string) []*net.IPNet {
	nets := make([]*net.IPNet, 0, len(cidrs))
	for _, c := range cidrs {
		_, n, err := net.ParseCIDR(c)
		if err != nil {
			panic(err)
		}
		nets = append(nets, n)
	}
	return nets
}

// InjectIPAddress grabs the IP address in the *http.Request.Header
// and promotes it to *http.Request.Context under secrets.IpAddrKey.
func InjectIPAddress() Adapter {
	return func(h http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := GetIPAddress(r.Header)
			r = r.Clone(context.WithValue(r.Context(), secrets.IpAddrKey, ip))
			h.ServeHTTP(w, r)
		})
	}
}

// GetIPAddress parses the "X-Forwarded-For" and "X-Real-Ip" headers
// for the client's IP address.
//
// Proxies append to these headers, so GetIPAddress marches right to left:
// the first public address is the one that reached our edge.
func GetIPAddress(hm http.Header) string {
	for _, h := range forwardHeaders {
		addrs := strings.Split(hm.Get(h), ",")
		for i := len(addrs) - 1; i >= 0; i-- {
			ip := net.ParseIP(strings.TrimSpace(addrs[i]))
			if ip == nil || !ip.IsGlobalUnicast() || isPrivate(ip) {
				continue
			}
			return ip.String()
		}
	}

	return "0.0.0.0"
}

// isPrivate checks whether the IP address is in a reserved IPv4 subnet.
func isPrivate(ip net.IP) bool {
	v4 := ip.To4()
	if v4 == nil {
		return false
	}

	for _, n := range privateNets {
		if n.Contains(v4) {
			return true
		}
	}

	return false
}
