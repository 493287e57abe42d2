package service

import (
	"context"
	"time"

	"onesi/internal/domain"
	"onesi/internal/utils"
)

// Analytics returns the click summary of ownerID over period.
// With fill set the histogram carries a zero bucket for every day without clicks.
func (s *Service) Analytics(ctx context.Context, ownerID string, period domain.Period, fill bool) (*domain.Analytics, error) {
	key := analyticsKey(ownerID, period, fill)
	var cached domain.Analytics
	if utils.GetCache(ctx, s.cache, key, &cached) {
		return &cached, nil
	}
	gen := s.gens.current(analyticsScope(ownerID))
	v, err, _ := s.group.Do(key, func() (any, error) {
		// The fill is shared by every waiter on key, so one caller going away must not fail the rest
		fillCtx := context.WithoutCancel(ctx)
		summary, err := s.computeAnalytics(fillCtx, ownerID, period, fill)
		if err != nil {
			return nil, err
		}
		if s.analyticsTTL > 0 && s.gens.current(analyticsScope(ownerID)) == gen {
			utils.SetCache(fillCtx, s.cache, key, summary, s.analyticsTTL)
		}
		return summary, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*domain.Analytics), nil
}

func (s *Service) computeAnalytics(ctx context.Context, ownerID string, period domain.Period, fill bool) (*domain.Analytics, error) {
	w := period.WindowEnding(s.now().UTC())
	summary := &domain.Analytics{Period: period}

	var err error
	if summary.TotalClicks, err = s.store.Clicks.CountInWindow(ctx, ownerID, w); err != nil {
		return nil, err
	}
	if summary.ClicksByDate, err = s.store.Clicks.DailyCounts(ctx, ownerID, w); err != nil {
		return nil, err
	}
	if fill {
		summary.ClicksByDate = fillDays(summary.ClicksByDate, w)
	}
	if summary.TopLinks, err = s.topLinks(ctx, ownerID, w); err != nil {
		return nil, err
	}
	if summary.TopProducts, err = s.topProducts(ctx, ownerID); err != nil {
		return nil, err
	}
	if summary.TotalLinks, err = s.store.Links.CountByOwner(ctx, ownerID); err != nil {
		return nil, err
	}
	return summary, nil
}

// topLinks ranks the owner's links by clicks inside w, dropping links deleted since
func (s *Service) topLinks(ctx context.Context, ownerID string, w domain.Window) ([]domain.TopLink, error) {
	ranked, err := s.store.Clicks.TopTargets(ctx, ownerID, domain.TargetLink, w, topLinksLimit)
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(ranked))
	for _, r := range ranked {
		ids = append(ids, r.TargetID)
	}
	links, err := s.store.Links.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]domain.Link, len(links))
	for _, l := range links {
		byID[l.ID] = l
	}
	out := make([]domain.TopLink, 0, len(ranked))
	for _, r := range ranked {
		l, ok := byID[r.TargetID]
		if !ok || l.UserID != ownerID {
			continue
		}
		out = append(out, domain.TopLink{ID: l.ID, Title: l.Title, URL: l.URL, Count: r.Count})
	}
	return out, nil
}

// topProducts ranks the owner's products by their lifetime counter
func (s *Service) topProducts(ctx context.Context, ownerID string) ([]domain.TopProduct, error) {
	products, err := s.store.Products.TopByClicks(ctx, ownerID, topProductsLimit)
	if err != nil {
		return nil, err
	}
	out := make([]domain.TopProduct, 0, len(products))
	for _, p := range products {
		out = append(out, domain.TopProduct{ID: p.ID, Title: p.Title, ProductURL: p.ProductURL, Clicks: p.Clicks})
	}
	return out, nil
}

// fillDays returns one bucket per UTC day of w, zero where daily has none
func fillDays(daily []domain.DailyClicks, w domain.Window) []domain.DailyClicks {
	counts := make(map[string]int64, len(daily))
	for _, d := range daily {
		counts[d.Date] = d.Count
	}
	from := w.From.UTC()
	day := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	out := make([]domain.DailyClicks, 0, len(daily))
	for end := w.To.UTC(); !day.After(end); day = day.AddDate(0, 0, 1) {
		key := day.Format(time.DateOnly)
		out = append(out, domain.DailyClicks{Date: key, Count: counts[key]})
	}
	return out
}
