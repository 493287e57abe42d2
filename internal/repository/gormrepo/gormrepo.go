// Package gormrepo implements the repositories on gorm, for MySQL and PostgreSQL.
package gormrepo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"onesi/internal/domain"
	"onesi/internal/repository"
)

// New builds every repository on top of one shared connection pool
func New(db *gorm.DB) repository.Store {
	return repository.Store{
		Users:       &UserRepo{db: db},
		Links:       &LinkRepo{db: db},
		Products:    &ProductRepo{db: db},
		Collections: &CollectionRepo{db: db},
		Clicks:      &ClickRepo{db: db},
	}
}

func newID() string {
	return uuid.NewString()
}

// first loads one row matching query, mapping a miss to domain.ErrNotFound
func first[T any](ctx context.Context, db *gorm.DB, what string, query any, args ...any) (*T, error) {
	var out T
	err := db.WithContext(ctx).Where(query, args...).First(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%s: %w", what, domain.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// setOrder writes ids[i] as the sort order of each row owned by ownerID
func setOrder(ctx context.Context, db *gorm.DB, model any, ownerID string, ids []string) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, id := range ids {
			if err := tx.Model(model).
				Where("id = ? AND user_id = ?", id, ownerID).
				UpdateColumn("sort_order", i).Error; err != nil {
				return err // Rollback
			}
		}
		return nil
	})
}

// incrementClicks bumps the lifetime counter of one row
func incrementClicks(ctx context.Context, db *gorm.DB, model any, what, id string) error {
	res := db.WithContext(ctx).Model(model).
		Where("id = ?", id).
		UpdateColumn("clicks", gorm.Expr("clicks + ?", 1))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%s: %w", what, domain.ErrNotFound)
	}
	return nil
}

// translate turns unique constraint violations into validation errors
func translate(err error, what string) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.NewError(domain.ErrValidation, what+" already exists")
	}
	return err
}
