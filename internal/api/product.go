package api

import (
	"net/http" // HTTP status codes

	"onesi/internal/service" // Application services

	"github.com/gin-gonic/gin" // Gin web framework
)

// ProductRequest is the create and update body of a product; omitted fields are left unchanged
type ProductRequest struct {
	Title       *string  `json:"title" binding:"omitempty,max=255"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price" binding:"omitempty,gte=0"`
	ImageURL    *string  `json:"imageUrl" binding:"omitempty,max=2048,weburl"`
	ProductURL  *string  `json:"productUrl" binding:"omitempty,max=2048,weburl"`
}

func (r ProductRequest) input() service.ProductInput {
	return service.ProductInput{
		Title:       r.Title,
		Description: r.Description,
		Price:       r.Price,
		ImageURL:    r.ImageURL,
		ProductURL:  r.ProductURL,
	}
}

// ListProductsHandler returns the caller's products in display order
func ListProductsHandler(svc *service.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerID(c)
		if !ok {
			return
		}
		products, err := svc.ListProducts(c.Request.Context(), userID)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, products)
	}
}

// CreateProductHandler adds a product for the caller
func CreateProductHandler(svc *service.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerID(c)
		if !ok {
			return
		}
		var req ProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": bindingMessage(err)})
			return
		}
		product, err := svc.CreateProduct(c.Request.Context(), userID, req.input())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, product)
	}
}

// UpdateProductHandler applies a partial update to one of the caller's products
func UpdateProductHandler(svc *service.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerID(c)
		if !ok {
			return
		}
		id, ok := parseID(c, "id", "Invalid Product ID")
		if !ok {
			return
		}
		var req ProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": bindingMessage(err)})
			return
		}
		product, err := svc.UpdateProduct(c.Request.Context(), userID, id, req.input())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, product)
	}
}

// DeleteProductHandler removes one of the caller's products
func DeleteProductHandler(svc *service.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerID(c)
		if !ok {
			return
		}
		id, ok := parseID(c, "id", "Invalid Product ID")
		if !ok {
			return
		}
		if err := svc.DeleteProduct(c.Request.Context(), userID, id); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Product removed"})
	}
}

// ReorderProductsHandler persists a drag-and-drop order
func ReorderProductsHandler(svc *service.Service) gin.HandlerFunc {
	return reorderHandler(svc.ReorderProducts)
}

// TrackProductHandler counts a public click on a product
func TrackProductHandler(svc *service.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "id", "Invalid Product ID")
		if !ok {
			return
		}
		if err := svc.TrackProduct(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Product click tracked"})
	}
}
