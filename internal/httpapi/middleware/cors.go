package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// CORS sets the usual cross-origin headers for the configured origins. The
// special value "*" allows any origin without credentials.
func CORS(allowedOrigins []string) gin.HandlerFunc {
	allowAny := false
	origins := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		o = strings.TrimSpace(o)
		if o == "*" {
			allowAny = true
		}
		origins[strings.ToLower(o)] = true
	}

	return func(c *gin.Context) {
		requestOrigin := c.GetHeader("Origin")

		switch {
		case allowAny:
			c.Header("Access-Control-Allow-Origin", "*")
			c.Header("Access-Control-Allow-Credentials", "false")
			setCommonHeaders(c)
		case requestOrigin != "" && origins[strings.ToLower(requestOrigin)]:
			c.Header("Access-Control-Allow-Origin", requestOrigin)
			c.Header("Vary", "Origin")
			c.Header("Access-Control-Allow-Credentials", "true")
			setCommonHeaders(c)
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func setCommonHeaders(c *gin.Context) {
	c.Header("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
	c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, Accept")
	c.Header("Access-Control-Max-Age", "3600")
}
