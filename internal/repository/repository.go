// Package repository defines the storage contracts the services are written against.
// Implementations live in gormrepo (MySQL/PostgreSQL) and memory.
// Lookups of a missing record return an error wrapping domain.ErrNotFound.
package repository

import (
	"context"

	"onesi/internal/domain"
)

// UserRepository stores accounts
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}

// LinkRepository stores links
type LinkRepository interface {
	Create(ctx context.Context, link *domain.Link) error
	FindByID(ctx context.Context, id string) (*domain.Link, error)
	// FindByIDs returns the links that still exist, in no particular order
	FindByIDs(ctx context.Context, ids []string) ([]domain.Link, error)
	// ListByOwner orders by sort order, then creation time
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Link, error)
	CountByOwner(ctx context.Context, ownerID string) (int64, error)
	Update(ctx context.Context, link *domain.Link) error
	Delete(ctx context.Context, id string) error
	IncrementClicks(ctx context.Context, id string) error
	// ClearCollection uncategorises every link of the collection
	ClearCollection(ctx context.Context, collectionID string) error
	// SetOrder stores ids[i] at sort order i for links owned by ownerID
	SetOrder(ctx context.Context, ownerID string, ids []string) error
}

// ProductRepository stores products
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	FindByID(ctx context.Context, id string) (*domain.Product, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Product, error)
	// TopByClicks ranks the owner's products by lifetime counter
	TopByClicks(ctx context.Context, ownerID string, limit int) ([]domain.Product, error)
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id string) error
	IncrementClicks(ctx context.Context, id string) error
	SetOrder(ctx context.Context, ownerID string, ids []string) error
}

// CollectionRepository stores collections
type CollectionRepository interface {
	Create(ctx context.Context, collection *domain.Collection) error
	FindByID(ctx context.Context, id string) (*domain.Collection, error)
	ListByOwner(ctx context.Context, ownerID string) ([]domain.Collection, error)
	Update(ctx context.Context, collection *domain.Collection) error
	Delete(ctx context.Context, id string) error
	SetOrder(ctx context.Context, ownerID string, ids []string) error
}

// ClickRepository is the append-only click log
type ClickRepository interface {
	Create(ctx context.Context, click *domain.Click) error
	// CountInWindow counts the owner's clicks inside w
	CountInWindow(ctx context.Context, ownerID string, w domain.Window) (int64, error)
	// DailyCounts buckets the owner's clicks inside w by UTC day, ascending, skipping empty days
	DailyCounts(ctx context.Context, ownerID string, w domain.Window) ([]domain.DailyClicks, error)
	// TopTargets ranks clicked targets of one type inside w, most clicked first
	TopTargets(ctx context.Context, ownerID string, target domain.TargetType, w domain.Window, limit int) ([]domain.TargetCount, error)
}

// Store bundles every repository of one backend
type Store struct {
	Users       UserRepository
	Links       LinkRepository
	Products    ProductRepository
	Collections CollectionRepository
	Clicks      ClickRepository
}
