package middleware

import "github.com/gin-gonic/gin"

// AdminResponseHeaders hardens admin responses: they carry stored values and
// credentials travel on the same connection, so nothing may be cached or
// sniffed.
func AdminResponseHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Next()
	}
}
