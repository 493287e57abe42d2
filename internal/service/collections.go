package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"onesi/internal/domain"
)

// CollectionSummary is the public view of a collection
type CollectionSummary struct {
	ID    string `json:"_id"`
	Title string `json:"title"`
}

// ListCollections returns the caller's collections in display order
func (s *Service) ListCollections(ctx context.Context, callerID string) ([]domain.Collection, error) {
	return s.store.Collections.ListByOwner(ctx, callerID)
}

// PublicCollections lists the titles of userID's collections for the public page
func (s *Service) PublicCollections(ctx context.Context, userID string) ([]CollectionSummary, error) {
	collections, err := s.store.Collections.ListByOwner(ctx, userID)
	if err != nil {
		return nil, err
	}
	out := make([]CollectionSummary, 0, len(collections))
	for _, c := range collections {
		out = append(out, CollectionSummary{ID: c.ID, Title: c.Title})
	}
	return out, nil
}

// CreateCollection stores a new collection owned by callerID
func (s *Service) CreateCollection(ctx context.Context, callerID, title string) (*domain.Collection, error) {
	title = deref(&title)
	if title == "" {
		return nil, invalid("Title is required.")
	}
	existing, err := s.store.Collections.ListByOwner(ctx, callerID)
	if err != nil {
		return nil, err
	}
	collection := &domain.Collection{UserID: callerID, Title: title, Order: len(existing)}
	if err := s.store.Collections.Create(ctx, collection); err != nil {
		return nil, err
	}
	audit("Collection created", logrus.Fields{"user_id": callerID, "collection_id": collection.ID})
	s.invalidateProfile(ctx, callerID)
	return collection, nil
}

// RenameCollection changes the title of a collection owned by callerID
func (s *Service) RenameCollection(ctx context.Context, callerID, id, title string) (*domain.Collection, error) {
	collection, err := lookup(ctx, s.store.Collections.FindByID, id, "Collection not found")
	if err != nil {
		return nil, err
	}
	if err := ensureOwner(collection.UserID, callerID); err != nil {
		return nil, err
	}
	if title = deref(&title); title == "" {
		return nil, invalid("Title is required.")
	}
	collection.Title = title
	if err := s.store.Collections.Update(ctx, collection); err != nil {
		return nil, err
	}
	s.invalidateProfile(ctx, callerID)
	return collection, nil
}

// DeleteCollection uncategorises the member links, then removes the collection.
// The two writes are independent; readers treat a dangling collection id as uncategorised.
func (s *Service) DeleteCollection(ctx context.Context, callerID, id string) error {
	collection, err := lookup(ctx, s.store.Collections.FindByID, id, "Collection not found")
	if err != nil {
		return err
	}
	if err := ensureOwner(collection.UserID, callerID); err != nil {
		return err
	}
	if err := s.store.Links.ClearCollection(ctx, id); err != nil {
		return err
	}
	if err := s.store.Collections.Delete(ctx, id); err != nil {
		return err
	}
	audit("Collection deleted", logrus.Fields{"user_id": callerID, "collection_id": id})
	s.invalidateProfile(ctx, callerID)
	return nil
}

// ReorderCollections stores ids as the caller's collection order
func (s *Service) ReorderCollections(ctx context.Context, callerID string, ids []string) error {
	err := checkReorder(ctx, ids, callerID, func(ctx context.Context, id string) (string, error) {
		collection, err := lookup(ctx, s.store.Collections.FindByID, id, "Collection not found")
		if err != nil {
			return "", err
		}
		return collection.UserID, nil
	})
	if err != nil {
		return err
	}
	if err := s.store.Collections.SetOrder(ctx, callerID, ids); err != nil {
		return err
	}
	s.invalidateProfile(ctx, callerID)
	return nil
}
