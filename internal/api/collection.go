package api

import (
	"context"  // Reorder callbacks
	"net/http" // HTTP status codes

	"onesi/internal/service" // Application services

	"github.com/gin-gonic/gin" // Gin web framework
)

// CollectionRequest is the create and rename body of a collection
type CollectionRequest struct {
	Title string `json:"title" binding:"max=255"`
}

// ListCollectionsHandler returns the caller's collections in display order
func ListCollectionsHandler(svc *service.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerID(c)
		if !ok {
			return
		}
		collections, err := svc.ListCollections(c.Request.Context(), userID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, collections)
	}
}

// PublicCollectionsHandler lists a user's collection titles without authentication
func PublicCollectionsHandler(svc *service.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := parseID(c, "userId", "Invalid User ID")
		if !ok {
			return
		}
		collections, err := svc.PublicCollections(c.Request.Context(), userID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, collections)
	}
}

// CreateCollectionHandler adds a collection for the caller
func CreateCollectionHandler(svc *service.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerID(c)
		if !ok {
			return
		}
		var req CollectionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": bindingMessage(err)})
			return
		}
		collection, err := svc.CreateCollection(c.Request.Context(), userID, req.Title)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, collection)
	}
}

// RenameCollectionHandler changes the title of one of the caller's collections
func RenameCollectionHandler(svc *service.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerID(c)
		if !ok {
			return
		}
		id, ok := parseID(c, "id", "Invalid ID")
		if !ok {
			return
		}
		var req CollectionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": bindingMessage(err)})
			return
		}
		collection, err := svc.RenameCollection(c.Request.Context(), userID, id, req.Title)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, collection)
	}
}

// DeleteCollectionHandler removes one of the caller's collections and uncategorises its links
func DeleteCollectionHandler(svc *service.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerID(c)
		if !ok {
			return
		}
		id, ok := parseID(c, "id", "Invalid ID")
		if !ok {
			return
		}
		if err := svc.DeleteCollection(c.Request.Context(), userID, id); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Collection removed"})
	}
}

// ReorderCollectionsHandler persists a drag-and-drop order
func ReorderCollectionsHandler(svc *service.Service) gin.HandlerFunc {
	return reorderHandler(svc.ReorderCollections)
}

// reorderHandler binds a ReorderRequest and hands it to reorder
func reorderHandler(reorder func(ctx context.Context, callerID string, ids []string) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerID(c)
		if !ok {
			return
		}
		var req ReorderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": bindingMessage(err)})
			return
		}
		if err := reorder(c.Request.Context(), userID, req.IDs); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Order updated"})
	}
}
