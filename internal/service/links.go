package service

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"

	"onesi/internal/domain"
	"onesi/internal/metrics"
	"onesi/internal/utils"
)

// LinkInput carries link fields; nil means "not provided"
type LinkInput struct {
	Title        *string
	URL          *string
	Type         *domain.LinkType
	CollectionID *string // "" clears the collection
}

// ListLinks returns the caller's links in display order
func (s *Service) ListLinks(ctx context.Context, callerID string) ([]domain.Link, error) {
	return s.store.Links.ListByOwner(ctx, callerID)
}

// CreateLink validates in and stores a new link owned by callerID
func (s *Service) CreateLink(ctx context.Context, callerID string, in LinkInput) (*domain.Link, error) {
	title, url := deref(in.Title), deref(in.URL)
	if title == "" || url == "" {
		return nil, invalid("Please add a title and URL")
	}
	if !utils.IsValidURL(url) {
		return nil, invalid("Please provide a valid URL")
	}
	link := &domain.Link{UserID: callerID, Title: title, URL: url}
	if in.Type != nil && *in.Type != "" {
		if !in.Type.Valid() {
			return nil, invalid("Invalid link type")
		}
		link.Type = *in.Type
	} else {
		link.Type = detectType(url) // Derived from the classifier
	}
	collectionID, err := s.resolveCollection(ctx, callerID, in.CollectionID)
	if err != nil {
		return nil, err
	}
	link.CollectionID = collectionID
	count, err := s.store.Links.CountByOwner(ctx, callerID)
	if err != nil {
		return nil, err
	}
	link.Order = int(count) // New links go last
	if err := s.store.Links.Create(ctx, link); err != nil {
		return nil, err
	}
	audit("Link created", logrus.Fields{"user_id": callerID, "link_id": link.ID, "type": link.Type})
	s.invalidateProfile(ctx, callerID)
	s.invalidateAnalytics(ctx, callerID) // totalLinks changed
	return link, nil
}

// UpdateLink applies the provided fields of in to a link owned by callerID
func (s *Service) UpdateLink(ctx context.Context, callerID, id string, in LinkInput) (*domain.Link, error) {
	link, err := lookup(ctx, s.store.Links.FindByID, id, "Link not found")
	if err != nil {
		return nil, err
	}
	if err := ensureOwner(link.UserID, callerID); err != nil {
		return nil, err
	}
	if in.Title != nil {
		if deref(in.Title) == "" {
			return nil, invalid("Title cannot be empty")
		}
		link.Title = deref(in.Title)
	}
	if in.URL != nil {
		if !utils.IsValidURL(deref(in.URL)) {
			return nil, invalid("Please provide a valid URL")
		}
		link.URL = deref(in.URL)
	}
	if in.Type != nil {
		if !in.Type.Valid() {
			return nil, invalid("Invalid link type")
		}
		link.Type = *in.Type
	}
	if in.CollectionID != nil {
		if link.CollectionID, err = s.resolveCollection(ctx, callerID, in.CollectionID); err != nil {
			return nil, err
		}
	}
	if err := s.store.Links.Update(ctx, link); err != nil {
		return nil, err
	}
	audit("Link updated", logrus.Fields{"user_id": callerID, "link_id": link.ID})
	s.invalidateProfile(ctx, callerID)
	s.invalidateAnalytics(ctx, callerID) // topLinks carries title and URL
	return link, nil
}

// DeleteLink removes a link owned by callerID
func (s *Service) DeleteLink(ctx context.Context, callerID, id string) error {
	link, err := lookup(ctx, s.store.Links.FindByID, id, "Link not found")
	if err != nil {
		return err
	}
	if err := ensureOwner(link.UserID, callerID); err != nil {
		return err
	}
	if err := s.store.Links.Delete(ctx, id); err != nil {
		return err
	}
	audit("Link deleted", logrus.Fields{"user_id": callerID, "link_id": id})
	s.invalidateProfile(ctx, callerID)
	s.invalidateAnalytics(ctx, callerID)
	return nil
}

// ReorderLinks stores ids as the caller's link order
func (s *Service) ReorderLinks(ctx context.Context, callerID string, ids []string) error {
	err := checkReorder(ctx, ids, callerID, func(ctx context.Context, id string) (string, error) {
		link, err := lookup(ctx, s.store.Links.FindByID, id, "Link not found")
		if err != nil {
			return "", err
		}
		return link.UserID, nil
	})
	if err != nil {
		return err
	}
	if err := s.store.Links.SetOrder(ctx, callerID, ids); err != nil {
		return err
	}
	s.invalidateProfile(ctx, callerID)
	return nil
}

// TrackLink records a public click on a link
func (s *Service) TrackLink(ctx context.Context, id string) error {
	link, err := lookup(ctx, s.store.Links.FindByID, id, "Link not found")
	if err != nil {
		return err
	}
	if err := s.store.Links.IncrementClicks(ctx, id); err != nil {
		return err
	}
	return s.recordClick(ctx, domain.TargetLink, id, link.UserID)
}

// recordClick appends the click event and refreshes what depends on it
func (s *Service) recordClick(ctx context.Context, target domain.TargetType, targetID, ownerID string) error {
	click := &domain.Click{
		TargetID:   targetID,
		TargetType: target,
		UserID:     ownerID,
		ClickedAt:  s.now().UTC(),
	}
	if err := s.store.Clicks.Create(ctx, click); err != nil {
		return err
	}
	metrics.RecordClick(string(target))
	logrus.WithFields(logrus.Fields{
		"target":    target,
		"target_id": targetID,
		"user_id":   ownerID,
	}).Debug("Click tracked")
	s.invalidateAnalytics(ctx, ownerID)
	s.invalidateProfile(ctx, ownerID) // Public counters changed
	return nil
}

// resolveCollection checks that raw names a collection of callerID; "" and nil mean none
func (s *Service) resolveCollection(ctx context.Context, callerID string, raw *string) (*string, error) {
	id := deref(raw)
	if id == "" {
		return nil, nil
	}
	collection, err := s.store.Collections.FindByID(ctx, id)
	if err != nil || collection.UserID != callerID {
		if err != nil && !isNotFound(err) {
			return nil, err
		}
		return nil, invalid("Invalid collection")
	}
	return &collection.ID, nil
}

// PreviewLink classifies url for the dashboard editor
func PreviewLink(url string) utils.LinkDetails {
	return utils.ParseLink(url)
}

// detectType maps the classifier output onto a link type
func detectType(url string) domain.LinkType {
	switch utils.ParseLink(url).Type {
	case utils.KindImage:
		return domain.LinkImage
	case utils.KindVideo:
		return domain.LinkVideo
	}
	return domain.LinkStandard
}

// deref returns the trimmed value of p, "" for nil
func deref(p *string) string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(*p)
}
