// Package memory keeps every repository in process memory.
// It backs DB_DRIVER=memory and the service and handler tests.
package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"onesi/internal/domain"
	"onesi/internal/repository"
)

// DB holds the tables shared by the repositories of one Store
type DB struct {
	mu          sync.RWMutex
	users       map[string]domain.User
	links       map[string]domain.Link
	products    map[string]domain.Product
	collections map[string]domain.Collection
	clicks      []domain.Click
	now         func() time.Time
}

// NewDB returns empty tables stamped with the wall clock
func NewDB() *DB {
	return &DB{
		users:       make(map[string]domain.User),
		links:       make(map[string]domain.Link),
		products:    make(map[string]domain.Product),
		collections: make(map[string]domain.Collection),
		now:         func() time.Time { return time.Now().UTC() },
	}
}

// SetClock overrides the timestamps written on create and update
func (db *DB) SetClock(now func() time.Time) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.now = now
}

// New returns a Store over fresh tables
func New() repository.Store {
	return NewDB().Store()
}

// Store exposes the tables through the repository interfaces
func (db *DB) Store() repository.Store {
	return repository.Store{
		Users:       &UserRepo{db: db},
		Links:       &LinkRepo{db: db},
		Products:    &ProductRepo{db: db},
		Collections: &CollectionRepo{db: db},
		Clicks:      &ClickRepo{db: db},
	}
}

func notFound(what string) error {
	return fmt.Errorf("%s: %w", what, domain.ErrNotFound)
}

// byOrder sorts by sort order, then creation time
func byOrder[T any](items []T, order func(T) int, created func(T) time.Time) {
	slices.SortStableFunc(items, func(a, b T) int {
		if c := cmp.Compare(order(a), order(b)); c != 0 {
			return c
		}
		return created(a).Compare(created(b))
	})
}

// UserRepo stores users in memory
type UserRepo struct{ db *DB }

func (r *UserRepo) Create(_ context.Context, u *domain.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, other := range r.db.users {
		if other.Email == u.Email || other.Username == u.Username {
			return domain.NewError(domain.ErrValidation, "User already exists")
		}
	}
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	u.CreatedAt = r.db.now()
	u.UpdatedAt = u.CreatedAt
	r.db.users[u.ID] = *u
	return nil
}

func (r *UserRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	u, ok := r.db.users[id]
	if !ok {
		return nil, notFound("user")
	}
	return &u, nil
}

func (r *UserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.find(func(u domain.User) bool { return u.Email == email })
}

func (r *UserRepo) FindByUsername(_ context.Context, username string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	return r.find(func(u domain.User) bool { return u.Username == username })
}

func (r *UserRepo) find(match func(domain.User) bool) (*domain.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	for _, u := range r.db.users {
		if match(u) {
			return &u, nil
		}
	}
	return nil, notFound("user")
}

func (r *UserRepo) Update(_ context.Context, u *domain.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	stored, ok := r.db.users[u.ID]
	if !ok {
		return notFound("user")
	}
	for id, other := range r.db.users {
		if id != u.ID && other.Username == u.Username {
			return domain.NewError(domain.ErrValidation, "Username already exists")
		}
	}
	stored.Username = u.Username
	stored.Bio = u.Bio
	stored.ProfilePhotoURL = u.ProfilePhotoURL
	stored.Theme = u.Theme
	stored.IsProUser = u.IsProUser
	stored.UpdatedAt = r.db.now()
	u.UpdatedAt = stored.UpdatedAt
	r.db.users[u.ID] = stored
	return nil
}

// LinkRepo stores links in memory
type LinkRepo struct{ db *DB }

func (r *LinkRepo) Create(_ context.Context, l *domain.Link) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	if l.Type == "" {
		l.Type = domain.LinkStandard
	}
	l.CreatedAt = r.db.now()
	l.UpdatedAt = l.CreatedAt
	r.db.links[l.ID] = cloneLink(*l)
	return nil
}

func (r *LinkRepo) FindByID(_ context.Context, id string) (*domain.Link, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	l, ok := r.db.links[id]
	if !ok {
		return nil, notFound("link")
	}
	l = cloneLink(l)
	return &l, nil
}

func (r *LinkRepo) FindByIDs(_ context.Context, ids []string) ([]domain.Link, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	out := []domain.Link{}
	for _, id := range ids {
		if l, ok := r.db.links[id]; ok {
			out = append(out, cloneLink(l))
		}
	}
	return out, nil
}

func (r *LinkRepo) ListByOwner(_ context.Context, ownerID string) ([]domain.Link, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	out := []domain.Link{}
	for _, l := range r.db.links {
		if l.UserID == ownerID {
			out = append(out, cloneLink(l))
		}
	}
	byOrder(out, func(l domain.Link) int { return l.Order }, func(l domain.Link) time.Time { return l.CreatedAt })
	return out, nil
}

func (r *LinkRepo) CountByOwner(_ context.Context, ownerID string) (int64, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	var n int64
	for _, l := range r.db.links {
		if l.UserID == ownerID {
			n++
		}
	}
	return n, nil
}

func (r *LinkRepo) Update(_ context.Context, l *domain.Link) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	stored, ok := r.db.links[l.ID]
	if !ok {
		return notFound("link")
	}
	stored.Title = l.Title
	stored.URL = l.URL
	stored.Type = l.Type
	stored.CollectionID = l.CollectionID
	stored.UpdatedAt = r.db.now()
	l.UpdatedAt = stored.UpdatedAt
	r.db.links[l.ID] = cloneLink(stored)
	return nil
}

func (r *LinkRepo) Delete(_ context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	delete(r.db.links, id)
	return nil
}

func (r *LinkRepo) IncrementClicks(_ context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	l, ok := r.db.links[id]
	if !ok {
		return notFound("link")
	}
	l.Clicks++
	r.db.links[id] = l
	return nil
}

func (r *LinkRepo) ClearCollection(_ context.Context, collectionID string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for id, l := range r.db.links {
		if l.CollectionID != nil && *l.CollectionID == collectionID {
			l.CollectionID = nil
			r.db.links[id] = l
		}
	}
	return nil
}

func (r *LinkRepo) SetOrder(_ context.Context, ownerID string, ids []string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for i, id := range ids {
		if l, ok := r.db.links[id]; ok && l.UserID == ownerID {
			l.Order = i
			r.db.links[id] = l
		}
	}
	return nil
}

// cloneLink detaches the collection pointer from the stored row
func cloneLink(l domain.Link) domain.Link {
	if l.CollectionID != nil {
		id := *l.CollectionID
		l.CollectionID = &id
	}
	return l
}

// ProductRepo stores products in memory
type ProductRepo struct{ db *DB }

func (r *ProductRepo) Create(_ context.Context, p *domain.Product) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	p.CreatedAt = r.db.now()
	p.UpdatedAt = p.CreatedAt
	r.db.products[p.ID] = *p
	return nil
}

func (r *ProductRepo) FindByID(_ context.Context, id string) (*domain.Product, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	p, ok := r.db.products[id]
	if !ok {
		return nil, notFound("product")
	}
	return &p, nil
}

func (r *ProductRepo) ListByOwner(_ context.Context, ownerID string) ([]domain.Product, error) {
	out := r.owned(ownerID)
	byOrder(out, func(p domain.Product) int { return p.Order }, func(p domain.Product) time.Time { return p.CreatedAt })
	return out, nil
}

func (r *ProductRepo) TopByClicks(_ context.Context, ownerID string, limit int) ([]domain.Product, error) {
	out := r.owned(ownerID)
	slices.SortStableFunc(out, func(a, b domain.Product) int {
		if c := cmp.Compare(b.Clicks, a.Clicks); c != 0 {
			return c
		}
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *ProductRepo) owned(ownerID string) []domain.Product {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	out := []domain.Product{}
	for _, p := range r.db.products {
		if p.UserID == ownerID {
			out = append(out, p)
		}
	}
	return out
}

func (r *ProductRepo) Update(_ context.Context, p *domain.Product) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	stored, ok := r.db.products[p.ID]
	if !ok {
		return notFound("product")
	}
	stored.Title = p.Title
	stored.Description = p.Description
	stored.Price = p.Price
	stored.ImageURL = p.ImageURL
	stored.ProductURL = p.ProductURL
	stored.UpdatedAt = r.db.now()
	p.UpdatedAt = stored.UpdatedAt
	r.db.products[p.ID] = stored
	return nil
}

func (r *ProductRepo) Delete(_ context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	delete(r.db.products, id)
	return nil
}

func (r *ProductRepo) IncrementClicks(_ context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	p, ok := r.db.products[id]
	if !ok {
		return notFound("product")
	}
	p.Clicks++
	r.db.products[id] = p
	return nil
}

func (r *ProductRepo) SetOrder(_ context.Context, ownerID string, ids []string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for i, id := range ids {
		if p, ok := r.db.products[id]; ok && p.UserID == ownerID {
			p.Order = i
			r.db.products[id] = p
		}
	}
	return nil
}

// CollectionRepo stores collections in memory
type CollectionRepo struct{ db *DB }

func (r *CollectionRepo) Create(_ context.Context, c *domain.Collection) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.CreatedAt = r.db.now()
	c.UpdatedAt = c.CreatedAt
	r.db.collections[c.ID] = *c
	return nil
}

func (r *CollectionRepo) FindByID(_ context.Context, id string) (*domain.Collection, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	c, ok := r.db.collections[id]
	if !ok {
		return nil, notFound("collection")
	}
	return &c, nil
}

func (r *CollectionRepo) ListByOwner(_ context.Context, ownerID string) ([]domain.Collection, error) {
	r.db.mu.RLock()
	out := []domain.Collection{}
	for _, c := range r.db.collections {
		if c.UserID == ownerID {
			out = append(out, c)
		}
	}
	r.db.mu.RUnlock()
	byOrder(out, func(c domain.Collection) int { return c.Order }, func(c domain.Collection) time.Time { return c.CreatedAt })
	return out, nil
}

func (r *CollectionRepo) Update(_ context.Context, c *domain.Collection) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	stored, ok := r.db.collections[c.ID]
	if !ok {
		return notFound("collection")
	}
	stored.Title = c.Title
	stored.UpdatedAt = r.db.now()
	c.UpdatedAt = stored.UpdatedAt
	r.db.collections[c.ID] = stored
	return nil
}

func (r *CollectionRepo) Delete(_ context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	delete(r.db.collections, id)
	return nil
}

func (r *CollectionRepo) SetOrder(_ context.Context, ownerID string, ids []string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for i, id := range ids {
		if c, ok := r.db.collections[id]; ok && c.UserID == ownerID {
			c.Order = i
			r.db.collections[id] = c
		}
	}
	return nil
}

// ClickRepo keeps the click log in memory and aggregates it on read
type ClickRepo struct{ db *DB }

func (r *ClickRepo) Create(_ context.Context, c *domain.Click) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.ClickedAt.IsZero() {
		c.ClickedAt = r.db.now()
	}
	r.db.clicks = append(r.db.clicks, *c)
	return nil
}

// inWindow returns the owner's clicks inside w
func (r *ClickRepo) inWindow(ownerID string, w domain.Window) []domain.Click {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	var out []domain.Click
	for _, c := range r.db.clicks {
		if c.UserID == ownerID && w.Contains(c.ClickedAt) {
			out = append(out, c)
		}
	}
	return out
}

func (r *ClickRepo) CountInWindow(_ context.Context, ownerID string, w domain.Window) (int64, error) {
	return int64(len(r.inWindow(ownerID, w))), nil
}

func (r *ClickRepo) DailyCounts(_ context.Context, ownerID string, w domain.Window) ([]domain.DailyClicks, error) {
	counts := make(map[string]int64)
	for _, c := range r.inWindow(ownerID, w) {
		counts[c.ClickedAt.UTC().Format(time.DateOnly)]++
	}
	out := make([]domain.DailyClicks, 0, len(counts))
	for day, n := range counts {
		out = append(out, domain.DailyClicks{Date: day, Count: n})
	}
	slices.SortFunc(out, func(a, b domain.DailyClicks) int { return strings.Compare(a.Date, b.Date) })
	return out, nil
}

func (r *ClickRepo) TopTargets(_ context.Context, ownerID string, target domain.TargetType, w domain.Window, limit int) ([]domain.TargetCount, error) {
	counts := make(map[string]int64)
	for _, c := range r.inWindow(ownerID, w) {
		if c.TargetType == target {
			counts[c.TargetID]++
		}
	}
	out := make([]domain.TargetCount, 0, len(counts))
	for id, n := range counts {
		out = append(out, domain.TargetCount{TargetID: id, Count: n})
	}
	slices.SortFunc(out, func(a, b domain.TargetCount) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return strings.Compare(a.TargetID, b.TargetID)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
