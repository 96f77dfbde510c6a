package middleware

import (
	"fmt"
	"net"
	"strings"

	"github.com/labstack/echo/v4"
)

// NewIPExtractor decides where c.RealIP() comes from. Without trusted proxies the
// socket peer is the client and forwarding headers are ignored. With proxies, the
// X-Forwarded-For chain is walked back only through the listed CIDRs or addresses.
func NewIPExtractor(trustedProxies []string) (echo.IPExtractor, error) {
	if len(trustedProxies) == 0 {
		return echo.ExtractIPDirect(), nil
	}

	options := []echo.TrustOption{
		echo.TrustLoopback(false),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(false),
	}
	for _, proxy := range trustedProxies {
		ipRange, err := parseProxy(proxy)
		if err != nil {
			return nil, err
		}
		options = append(options, echo.TrustIPRange(ipRange))
	}
	return echo.ExtractIPFromXFFHeader(options...), nil
}

func parseProxy(proxy string) (*net.IPNet, error) {
	proxy = strings.TrimSpace(proxy)
	if !strings.Contains(proxy, "/") {
		ip := net.ParseIP(proxy)
		if ip == nil {
			return nil, fmt.Errorf("invalid trusted proxy %q", proxy)
		}
		bits := 128
		if ip.To4() != nil {
			ip = ip.To4()
			bits = 32
		}
		return &net.IPNet{IP: ip, Mask: net.CIDRMask(bits, bits)}, nil
	}

	_, ipRange, err := net.ParseCIDR(proxy)
	if err != nil {
		return nil, fmt.Errorf("invalid trusted proxy %q: %w", proxy, err)
	}
	return ipRange, nil
}
