package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// CORS lets a browser form on allowedOrigin call the API and answers
// OPTIONS preflights directly. "*" allows any origin.
func CORS(allowedOrigin string) gin.HandlerFunc {
	const (
		allowedMethods = "GET, POST, PUT, DELETE, OPTIONS"
		allowedHeaders = "Content-Type, X-Request-ID"
		exposedHeaders = "X-Request-ID"
		maxAge         = "600"
	)

	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", allowedOrigin)
		c.Header("Access-Control-Allow-Methods", allowedMethods)
		c.Header("Access-Control-Allow-Headers", allowedHeaders)
		c.Header("Access-Control-Expose-Headers", exposedHeaders)
		c.Header("Access-Control-Max-Age", maxAge)

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
