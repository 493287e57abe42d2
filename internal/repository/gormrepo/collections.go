package gormrepo

import (
	"context"

	"gorm.io/gorm"

	"onesi/internal/domain"
)

// CollectionRepo stores collections with gorm
type CollectionRepo struct{ db *gorm.DB }

func (r *CollectionRepo) Create(ctx context.Context, c *domain.Collection) error {
	if c.ID == "" {
		c.ID = newID()
	}
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *CollectionRepo) FindByID(ctx context.Context, id string) (*domain.Collection, error) {
	return first[domain.Collection](ctx, r.db, "collection", "id = ?", id)
}

func (r *CollectionRepo) ListByOwner(ctx context.Context, ownerID string) ([]domain.Collection, error) {
	var collections []domain.Collection
	err := r.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("sort_order ASC").Order("created_at ASC").
		Find(&collections).Error
	return collections, err
}

func (r *CollectionRepo) Update(ctx context.Context, c *domain.Collection) error {
	return r.db.WithContext(ctx).Model(c).Select("title", "updated_at").Updates(c).Error
}

func (r *CollectionRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Collection{}).Error
}

func (r *CollectionRepo) SetOrder(ctx context.Context, ownerID string, ids []string) error {
	return setOrder(ctx, r.db, &domain.Collection{}, ownerID, ids)
}
