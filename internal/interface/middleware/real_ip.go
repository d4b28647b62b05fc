package middleware

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

// CtxRealIPKey holds the resolved client address.
const CtxRealIPKey = "real_ip"

// clientIPHeaders are consulted in order. X-Forwarded-For contributes its
// left-most entry.
var clientIPHeaders = []string{"CF-Connecting-IP", "X-Real-IP", "X-Forwarded-For"}

func headerIP(c *gin.Context, name string) string {
	v := c.GetHeader(name)
	if name == "X-Forwarded-For" {
		v, _, _ = strings.Cut(v, ",")
	}
	if ip := net.ParseIP(strings.TrimSpace(v)); ip != nil {
		return ip.String()
	}
	return ""
}

// RealIP resolves the client IP from proxy headers, falling back to
// c.ClientIP(), and stores it under CtxRealIPKey for the rate limiter and
// access log.
func RealIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := ""
		for _, h := range clientIPHeaders {
			if ip = headerIP(c, h); ip != "" {
				break
			}
		}
		if ip == "" {
			ip = c.ClientIP()
		}
		c.Set(CtxRealIPKey, ip)
		c.Next()
	}
}
