package middleware

import (
	"net"
	"strings"

	"github.com/gin-gonic/gin"
)

// forwardedHeaders are checked in order; the first valid IP wins.
var forwardedHeaders = []string{"CF-Connecting-IP", "X-Forwarded-For", "X-Real-IP"}

// RealIP stores the client IP in the Gin context under "real_ip".
// For X-Forwarded-For only the left-most address is considered.
func RealIP() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		for _, h := range forwardedHeaders {
			v := c.GetHeader(h)
			if v == "" {
				continue
			}
			first := strings.TrimSpace(strings.SplitN(v, ",", 2)[0])
			if parsed := net.ParseIP(first); parsed != nil {
				ip = parsed.String()
				break
			}
		}
		c.Set("real_ip", ip)
		c.Next()
	}
}
