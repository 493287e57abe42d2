package api

import (
	"errors"   // Error inspection
	"net/http" // HTTP status codes

	"onesi/internal/domain"     // Domain error kinds
	"onesi/internal/middleware" // Authenticated user id

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
)

// statusFor maps a service error onto an HTTP status
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthenticated), errors.Is(err, domain.ErrForbidden):
		return http.StatusUnauthorized // Wrong owner is reported as 401 for client compatibility
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// respondError writes err as a {"message"} body
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		// Unexpected failures are logged and hidden from the caller
		logrus.WithFields(logrus.Fields{
			"method": c.Request.Method,   // HTTP method
			"path":   c.Request.URL.Path, // Request path
			"error":  err.Error(),        // Error message
		}).Error("Request failed")
		c.JSON(status, gin.H{"message": "Server Error"})
		return
	}
	c.JSON(status, gin.H{"message": domain.Message(err)})
}

// callerID returns the authenticated user id, answering 401 when it is missing
func callerID(c *gin.Context) (string, bool) {
	id, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "Not authorized, no token"})
	}
	return id, ok
}
