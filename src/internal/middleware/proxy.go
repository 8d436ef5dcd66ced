package middleware

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

// ProxyTrust resolves the client address once per request. hops is the
// number of reverse proxies in front of the service; their entries at the
// right end of X-Forwarded-For are trusted, everything left of them is not.
func ProxyTrust(hops int) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := ResolveClientIP(c.Request.RemoteAddr, c.Request.Header.Values("X-Forwarded-For"), hops)
		c.Set(ClientIPKey, ip)
		c.Next()
	}
}

// ResolveClientIP walks hops entries leftwards from the socket peer through
// the forwarded-for chain. A chain shorter than hops yields its left-most
// entry.
func ResolveClientIP(remoteAddr string, forwardedFor []string, hops int) string {
	addr := socketIP(remoteAddr)
	if hops <= 0 {
		return addr
	}

	var chain []string
	for _, header := range forwardedFor {
		for _, part := range strings.Split(header, ",") {
			if p := strings.TrimSpace(part); p != "" {
				chain = append(chain, p)
			}
		}
	}
	if len(chain) == 0 {
		return addr
	}

	i := len(chain) - hops
	if i < 0 {
		i = 0
	}
	return socketIP(chain[i])
}

func socketIP(addr string) string {
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}

// ClientIP returns the address resolved by ProxyTrust, or the socket
// address when that stage did not run.
func ClientIP(c *gin.Context) string {
	if ip := c.GetString(ClientIPKey); ip != "" {
		return ip
	}
	return socketIP(c.Request.RemoteAddr)
}
