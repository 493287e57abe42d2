package api

import (
	"net/http" // HTTP status codes

	"onesi/internal/middleware" // Auth, logging and rate limiting
	"onesi/internal/repository" // User lookups for auth
	"onesi/internal/service"    // Application services

	"github.com/gin-gonic/gin"                                // Gin web framework
	"github.com/prometheus/client_golang/prometheus/promhttp" // Metrics endpoint
)

// RouterConfig carries what the router needs
type RouterConfig struct {
	Service        *service.Service
	Users          repository.UserRepository
	JWTSecret      string
	TrackLimiter   gin.HandlerFunc // Rate limit of public click tracking, nil disables it
	TrustedProxies []string
}

// NewRouter builds the gin engine with every route
func NewRouter(cfg RouterConfig) (*gin.Engine, error) {
	RegisterValidators()

	r := gin.New() // Gin router instance
	r.HandleMethodNotAllowed = true
	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies(cfg.TrustedProxies); err != nil {
		return nil, err
	}
	r.Use(gin.Recovery(), middleware.RequestLogger())

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Not Found - " + c.Request.URL.Path})
	})
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"message": "Method " + c.Request.Method + " Not Allowed"})
	})

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	svc := cfg.Service
	track := cfg.TrackLimiter
	if track == nil {
		track = func(c *gin.Context) { c.Next() }
	}

	// Public routes
	public := r.Group("/api")
	public.POST("/users/register", RegisterHandler(svc))                     // Registration endpoint
	public.POST("/users/login", LoginHandler(svc))                           // Login endpoint
	public.GET("/users/public-profile/:username", PublicProfileHandler(svc)) // Public page
	public.GET("/collections/public/:userId", PublicCollectionsHandler(svc)) // Public collection titles
	public.POST("/links/track/:id", track, TrackLinkHandler(svc))            // Link click
	public.POST("/products/track/:id", track, TrackProductHandler(svc))      // Product click

	// Protected routes
	private := r.Group("/api")
	private.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret), middleware.UserExistsMiddleware(cfg.Users))
	private.GET("/users/profile", GetProfileHandler(svc))    // Own profile
	private.PUT("/users/profile", UpdateProfileHandler(svc)) // Profile update

	private.GET("/links", ListLinksHandler(svc))             // List links
	private.POST("/links", CreateLinkHandler(svc))           // Create link
	private.GET("/links/preview", PreviewLinkHandler())      // Classify a URL
	private.POST("/links/reorder", ReorderLinksHandler(svc)) // Persist link order
	private.PUT("/links/:id", UpdateLinkHandler(svc))        // Update link
	private.DELETE("/links/:id", DeleteLinkHandler(svc))     // Delete link

	private.GET("/products", ListProductsHandler(svc))             // List products
	private.POST("/products", CreateProductHandler(svc))           // Create product
	private.POST("/products/reorder", ReorderProductsHandler(svc)) // Persist product order
	private.PUT("/products/:id", UpdateProductHandler(svc))        // Update product
	private.DELETE("/products/:id", DeleteProductHandler(svc))     // Delete product

	private.GET("/collections", ListCollectionsHandler(svc))             // List collections
	private.POST("/collections", CreateCollectionHandler(svc))           // Create collection
	private.POST("/collections/reorder", ReorderCollectionsHandler(svc)) // Persist collection order
	private.PUT("/collections/:id", RenameCollectionHandler(svc))        // Rename collection
	private.DELETE("/collections/:id", DeleteCollectionHandler(svc))     // Delete collection

	private.GET("/analytics", AnalyticsHandler(svc)) // Click summary

	return r, nil
}
