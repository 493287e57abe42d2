package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"onesi/internal/domain"
	"onesi/internal/utils"
)

// ProductInput carries product fields; nil means "not provided"
type ProductInput struct {
	Title       *string
	Description *string // "" clears the description
	Price       *float64
	ImageURL    *string
	ProductURL  *string
}

// ListProducts returns the caller's products in display order
func (s *Service) ListProducts(ctx context.Context, callerID string) ([]domain.Product, error) {
	return s.store.Products.ListByOwner(ctx, callerID)
}

// CreateProduct validates in and stores a new product owned by callerID
func (s *Service) CreateProduct(ctx context.Context, callerID string, in ProductInput) (*domain.Product, error) {
	if deref(in.Title) == "" || in.Price == nil || deref(in.ImageURL) == "" || deref(in.ProductURL) == "" {
		return nil, invalid("Title, price, image URL, and product URL are required.")
	}
	product := &domain.Product{
		UserID:      callerID,
		Title:       deref(in.Title),
		Description: deref(in.Description),
	}
	if err := applyProductFields(product, in); err != nil {
		return nil, err
	}
	existing, err := s.store.Products.ListByOwner(ctx, callerID)
	if err != nil {
		return nil, err
	}
	product.Order = len(existing)
	if err := s.store.Products.Create(ctx, product); err != nil {
		return nil, err
	}
	audit("Product created", logrus.Fields{"user_id": callerID, "product_id": product.ID, "price": product.Price})
	s.invalidateProfile(ctx, callerID)
	s.invalidateAnalytics(ctx, callerID)
	return product, nil
}

// UpdateProduct applies the provided fields of in to a product owned by callerID
func (s *Service) UpdateProduct(ctx context.Context, callerID, id string, in ProductInput) (*domain.Product, error) {
	product, err := lookup(ctx, s.store.Products.FindByID, id, "Product not found")
	if err != nil {
		return nil, err
	}
	if err := ensureOwner(product.UserID, callerID); err != nil {
		return nil, err
	}
	if in.Title != nil {
		if deref(in.Title) == "" {
			return nil, invalid("Title cannot be empty")
		}
		product.Title = deref(in.Title)
	}
	if in.Description != nil {
		product.Description = deref(in.Description)
	}
	if err := applyProductFields(product, in); err != nil {
		return nil, err
	}
	if err := s.store.Products.Update(ctx, product); err != nil {
		return nil, err
	}
	audit("Product updated", logrus.Fields{"user_id": callerID, "product_id": product.ID})
	s.invalidateProfile(ctx, callerID)
	s.invalidateAnalytics(ctx, callerID) // topProducts carries title and URL
	return product, nil
}

// applyProductFields validates and copies price and URLs when provided
func applyProductFields(product *domain.Product, in ProductInput) error {
	if in.Price != nil {
		if *in.Price < 0 {
			return invalid("Price must be a non-negative number")
		}
		product.Price = *in.Price
	}
	if in.ImageURL != nil {
		if !utils.IsValidURL(deref(in.ImageURL)) {
			return invalid("Please provide a valid image URL")
		}
		product.ImageURL = deref(in.ImageURL)
	}
	if in.ProductURL != nil {
		if !utils.IsValidURL(deref(in.ProductURL)) {
			return invalid("Please provide a valid product URL")
		}
		product.ProductURL = deref(in.ProductURL)
	}
	return nil
}

// DeleteProduct removes a product owned by callerID
func (s *Service) DeleteProduct(ctx context.Context, callerID, id string) error {
	product, err := lookup(ctx, s.store.Products.FindByID, id, "Product not found")
	if err != nil {
		return err
	}
	if err := ensureOwner(product.UserID, callerID); err != nil {
		return err
	}
	if err := s.store.Products.Delete(ctx, id); err != nil {
		return err
	}
	audit("Product deleted", logrus.Fields{"user_id": callerID, "product_id": id})
	s.invalidateProfile(ctx, callerID)
	s.invalidateAnalytics(ctx, callerID)
	return nil
}

// ReorderProducts stores ids as the caller's product order
func (s *Service) ReorderProducts(ctx context.Context, callerID string, ids []string) error {
	err := checkReorder(ctx, ids, callerID, func(ctx context.Context, id string) (string, error) {
		product, err := lookup(ctx, s.store.Products.FindByID, id, "Product not found")
		if err != nil {
			return "", err
		}
		return product.UserID, nil
	})
	if err != nil {
		return err
	}
	if err := s.store.Products.SetOrder(ctx, callerID, ids); err != nil {
		return err
	}
	s.invalidateProfile(ctx, callerID)
	return nil
}

// TrackProduct records a public click on a product
func (s *Service) TrackProduct(ctx context.Context, id string) error {
	product, err := lookup(ctx, s.store.Products.FindByID, id, "Product not found")
	if err != nil {
		return err
	}
	if err := s.store.Products.IncrementClicks(ctx, id); err != nil {
		return err
	}
	return s.recordClick(ctx, domain.TargetProduct, id, product.UserID)
}
