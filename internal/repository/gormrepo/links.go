package gormrepo

import (
	"context"

	"gorm.io/gorm"

	"onesi/internal/domain"
)

// LinkRepo stores links with gorm
type LinkRepo struct{ db *gorm.DB }

func (r *LinkRepo) Create(ctx context.Context, l *domain.Link) error {
	if l.ID == "" {
		l.ID = newID()
	}
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *LinkRepo) FindByID(ctx context.Context, id string) (*domain.Link, error) {
	return first[domain.Link](ctx, r.db, "link", "id = ?", id)
}

func (r *LinkRepo) FindByIDs(ctx context.Context, ids []string) ([]domain.Link, error) {
	var links []domain.Link
	if len(ids) == 0 {
		return links, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&links).Error
	return links, err
}

func (r *LinkRepo) ListByOwner(ctx context.Context, ownerID string) ([]domain.Link, error) {
	var links []domain.Link
	err := r.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("sort_order ASC").Order("created_at ASC").
		Find(&links).Error
	return links, err
}

func (r *LinkRepo) CountByOwner(ctx context.Context, ownerID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.Link{}).Where("user_id = ?", ownerID).Count(&n).Error
	return n, err
}

// Update writes the editable columns; the click counter is left to IncrementClicks
func (r *LinkRepo) Update(ctx context.Context, l *domain.Link) error {
	return r.db.WithContext(ctx).Model(l).
		Select("title", "url", "type", "collection_id", "updated_at").
		Updates(l).Error
}

func (r *LinkRepo) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Link{}).Error
}

func (r *LinkRepo) IncrementClicks(ctx context.Context, id string) error {
	return incrementClicks(ctx, r.db, &domain.Link{}, "link", id)
}

func (r *LinkRepo) ClearCollection(ctx context.Context, collectionID string) error {
	return r.db.WithContext(ctx).Model(&domain.Link{}).
		Where("collection_id = ?", collectionID).
		UpdateColumn("collection_id", gorm.Expr("NULL")).Error
}

func (r *LinkRepo) SetOrder(ctx context.Context, ownerID string, ids []string) error {
	return setOrder(ctx, r.db, &domain.Link{}, ownerID, ids)
}
