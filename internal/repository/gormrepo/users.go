package gormrepo

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"onesi/internal/domain"
)

// UserRepo stores users with gorm
type UserRepo struct{ db *gorm.DB }

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	if u.ID == "" {
		u.ID = newID()
	}
	return translate(r.db.WithContext(ctx).Create(u).Error, "User")
}

func (r *UserRepo) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return first[domain.User](ctx, r.db, "user", "id = ?", id)
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return first[domain.User](ctx, r.db, "user", "email = ?", strings.ToLower(strings.TrimSpace(email)))
}

func (r *UserRepo) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	return first[domain.User](ctx, r.db, "user", "username = ?", strings.TrimSpace(username))
}

// Update writes the profile fields; email and password are not editable here
func (r *UserRepo) Update(ctx context.Context, u *domain.User) error {
	err := r.db.WithContext(ctx).Model(u).
		Select("username", "bio", "profile_photo_url", "theme", "is_pro_user", "updated_at").
		Updates(u).Error
	return translate(err, "Username")
}
