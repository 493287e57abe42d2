package gormrepo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"onesi/internal/domain"
)

// ClickRepo stores the click log with gorm and aggregates it in SQL
type ClickRepo struct{ db *gorm.DB }

func (r *ClickRepo) Create(ctx context.Context, c *domain.Click) error {
	if c.ID == "" {
		c.ID = newID()
	}
	return r.db.WithContext(ctx).Create(c).Error
}

// inWindow scopes a query to one owner's clicks inside w
func (r *ClickRepo) inWindow(ctx context.Context, ownerID string, w domain.Window) *gorm.DB {
	return r.db.WithContext(ctx).Model(&domain.Click{}).
		Where("user_id = ? AND clicked_at >= ? AND clicked_at <= ?", ownerID, w.From.UTC(), w.To.UTC())
}

func (r *ClickRepo) CountInWindow(ctx context.Context, ownerID string, w domain.Window) (int64, error) {
	var n int64
	err := r.inWindow(ctx, ownerID, w).Count(&n).Error
	return n, err
}

func (r *ClickRepo) DailyCounts(ctx context.Context, ownerID string, w domain.Window) ([]domain.DailyClicks, error) {
	var rows []struct {
		Day    time.Time // DATE() scans as midnight UTC on both dialects
		Clicks int64
	}
	err := r.inWindow(ctx, ownerID, w).
		Select("DATE(clicked_at) AS day, COUNT(*) AS clicks").
		Group("DATE(clicked_at)").
		Order("day ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]domain.DailyClicks, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.DailyClicks{Date: row.Day.UTC().Format(time.DateOnly), Count: row.Clicks})
	}
	return out, nil
}

func (r *ClickRepo) TopTargets(ctx context.Context, ownerID string, target domain.TargetType, w domain.Window, limit int) ([]domain.TargetCount, error) {
	var rows []struct {
		TargetID string
		Clicks   int64
	}
	err := r.inWindow(ctx, ownerID, w).
		Where("target_type = ?", target).
		Select("target_id, COUNT(*) AS clicks").
		Group("target_id").
		Order("clicks DESC").Order("target_id ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]domain.TargetCount, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.TargetCount{TargetID: row.TargetID, Count: row.Clicks})
	}
	return out, nil
}
