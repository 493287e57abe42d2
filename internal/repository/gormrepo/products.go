package gormrepo

import (
	"context"

	"gorm.io/gorm"

	"onesi/internal/domain"
)

// ProductRepo stores products with gorm
type ProductRepo struct{ db *gorm.DB }

func (r *ProductRepo) Create(ctx context.Context, p *domain.Product) error {
	if p.ID == "" {
		p.ID = newID()
	}
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *ProductRepo) FindByID(ctx context.Context, id string) (*domain.Product, error) {
	return first[domain.Product](ctx, r.db, "product", "id = ?", id)
}

func (r *ProductRepo) ListByOwner(ctx context.Context, ownerID string) ([]domain.Product, error) {
	var products []domain.Product
	err := r.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("sort_order ASC").Order("created_at ASC").
		Find(&products).Error
	return products, err
}

func (r *ProductRepo) TopByClicks(ctx context.Context, ownerID string, limit int) ([]domain.Product, error) {
	var products []domain.Product
	err := r.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("clicks DESC").Order("created_at ASC").
		Limit(limit).
		Find(&products).Error
	return products, err
}

func (r *ProductRepo) Update(ctx context.Context, p *domain.Product) error {
	return r.db.WithContext(ctx).Model(p).
		Select("title", "description", "price", "image_url", "product_url", "updated_at").
		Updates(p).Error
}

func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Product{}).Error
}

func (r *ProductRepo) IncrementClicks(ctx context.Context, id string) error {
	return incrementClicks(ctx, r.db, &domain.Product{}, "product", id)
}

func (r *ProductRepo) SetOrder(ctx context.Context, ownerID string, ids []string) error {
	return setOrder(ctx, r.db, &domain.Product{}, ownerID, ids)
}
