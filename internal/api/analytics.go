package api

import (
	"net/http" // HTTP status codes

	"onesi/internal/domain"  // Period parsing
	"onesi/internal/service" // Application services

	"github.com/gin-gonic/gin" // Gin web framework
)

// AnalyticsHandler returns the caller's click summary for ?period=7d|30d|90d
func AnalyticsHandler(svc *service.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerID(c)
		if !ok {
			return
		}
		period, err := domain.ParsePeriod(c.Query("period")) // Empty means 30d
		if err != nil {
			respondError(c, err)
			return
		}
		fill := c.Query("fill") == "true" // Zero buckets for quiet days
		summary, err := svc.Analytics(c.Request.Context(), userID, period, fill)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, summary)
	}
}
