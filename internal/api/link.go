package api

import (
	"net/http" // HTTP status codes

	"onesi/internal/domain"  // Importing domain models
	"onesi/internal/service" // Application services

	"github.com/gin-gonic/gin" // Gin web framework
)

// LinkRequest is the create and update body of a link; omitted fields are left unchanged
type LinkRequest struct {
	Title        *string          `json:"title" binding:"omitempty,max=255"`
	URL          *string          `json:"url" binding:"omitempty,max=2048,weburl"`
	Type         *domain.LinkType `json:"type"`
	CollectionID *string          `json:"collectionId"` // "" removes the link from its collection
}

func (r LinkRequest) input() service.LinkInput {
	return service.LinkInput{Title: r.Title, URL: r.URL, Type: r.Type, CollectionID: r.CollectionID}
}

// ListLinksHandler returns the caller's links in display order
func ListLinksHandler(svc *service.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerID(c)
		if !ok {
			return
		}
		links, err := svc.ListLinks(c.Request.Context(), userID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, links)
	}
}

// CreateLinkHandler adds a link for the caller
func CreateLinkHandler(svc *service.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerID(c)
		if !ok {
			return
		}
		var req LinkRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": bindingMessage(err)})
			return
		}
		link, err := svc.CreateLink(c.Request.Context(), userID, req.input())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, link)
	}
}

// UpdateLinkHandler applies a partial update to one of the caller's links
func UpdateLinkHandler(svc *service.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerID(c)
		if !ok {
			return
		}
		id, ok := parseID(c, "id", "Invalid Link ID")
		if !ok {
			return
		}
		var req LinkRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": bindingMessage(err)})
			return
		}
		link, err := svc.UpdateLink(c.Request.Context(), userID, id, req.input())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, link)
	}
}

// DeleteLinkHandler removes one of the caller's links
func DeleteLinkHandler(svc *service.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerID(c)
		if !ok {
			return
		}
		id, ok := parseID(c, "id", "Invalid Link ID")
		if !ok {
			return
		}
		if err := svc.DeleteLink(c.Request.Context(), userID, id); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Link removed"})
	}
}

// ReorderLinksHandler persists a drag-and-drop order
func ReorderLinksHandler(svc *service.Service) gin.HandlerFunc {
	return reorderHandler(svc.ReorderLinks)
}

// TrackLinkHandler counts a public click on a link
func TrackLinkHandler(svc *service.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id", "Invalid Link ID")
		if !ok {
			return
		}
		if err := svc.TrackLink(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Click tracked"})
	}
}

// PreviewLinkHandler shows how a URL will be embedded
func PreviewLinkHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		url := c.Query("url")
		if url == "" {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Please provide a url"})
			return
		}
		c.JSON(http.StatusOK, service.PreviewLink(url))
	}
}
