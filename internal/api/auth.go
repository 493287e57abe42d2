package api

import (
	"net/http" // HTTP status codes

	"onesi/internal/service" // Application services

	"github.com/gin-gonic/gin" // Gin web framework
)

// RegisterRequest is the sign-up body
type RegisterRequest struct {
	Username string `json:"username" binding:"required"` // Username must be provided
	Email    string `json:"email" binding:"required"`    // Email must be provided
	Password string `json:"password" binding:"required"` // Password must be provided
}

// LoginRequest is the sign-in body
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`    // Email must be provided
	Password string `json:"password" binding:"required"` // Password must be provided
}

// ProfileRequest is the profile update body; omitted fields are left unchanged
type ProfileRequest struct {
	Username        *string `json:"username" binding:"omitempty,max=64"`
	Bio             *string `json:"bio" binding:"omitempty,max=1000"`
	ProfilePhotoURL *string `json:"profilePhotoUrl" binding:"omitempty,max=2048"`
	Theme           *string `json:"theme"`
}

// RegisterHandler creates an account and returns its token
func RegisterHandler(svc *service.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"message": "Please provide username, email, and password"})
			return
		}
		res, err := svc.Register(c.Request.Context(), service.RegisterInput{
			Username: req.Username,
			Email:    req.Email,
			Password: req.Password,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, res)
	}
}

// LoginHandler authenticates a user and returns a JWT token
func LoginHandler(svc *service.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"message": "Please provide email and password"})
			return
		}
		res, err := svc.Login(c.Request.Context(), req.Email, req.Password)
		if err != nil {
			respondError(c, err) // Wrong credentials map to 401
			return
		}
		c.JSON(http.StatusOK, res)
	}
}

// GetProfileHandler returns the authenticated user's profile
func GetProfileHandler(svc *service.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerID(c)
		if !ok {
			return
		}
		user, err := svc.Profile(c.Request.Context(), userID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

// UpdateProfileHandler applies a partial profile update
func UpdateProfileHandler(svc *service.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerID(c)
		if !ok {
			return
		}
		var req ProfileRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": bindingMessage(err)})
			return
		}
		user, err := svc.UpdateProfile(c.Request.Context(), userID, service.ProfileInput{
			Username:        req.Username,
			Bio:             req.Bio,
			ProfilePhotoURL: req.ProfilePhotoURL,
			Theme:           req.Theme,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, user)
	}
}

// PublicProfileHandler returns the public page data of a username
func PublicProfileHandler(svc *service.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, err := svc.PublicProfile(c.Request.Context(), c.Param("username"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, page)
	}
}
