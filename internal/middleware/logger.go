package middleware

import (
	"time" // Request latency

	"onesi/internal/metrics" // Prometheus collectors

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// RequestLogger logs every request through logrus and records its duration
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next() // Run the rest of the chain first
		latency := time.Since(start)
		status := c.Writer.Status()

		metrics.RecordRequest(c.Request.Method, c.FullPath(), status, latency)

		entry := logrus.WithFields(logrus.Fields{
			"method":    c.Request.Method,   // HTTP method
			"path":      c.Request.URL.Path, // Raw path
			"status":    status,             // Response status
			"latency":   latency.String(),   // Handling time
			"client_ip": c.ClientIP(),       // Caller address
		})
		switch {
		case status >= 500:
			entry.Error("Request failed")
		case status >= 400:
			entry.Warn("Request rejected")
		default:
			entry.Info("Request handled")
		}
	}
}
