// Package service implements the Onesi operations on top of the repositories.
// Every error it returns either wraps one of the domain error kinds or is unexpected.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"onesi/internal/domain"
	"onesi/internal/repository"
	"onesi/internal/utils"
)

// Top-N sizes of the analytics summary
const (
	topLinksLimit    = 5
	topProductsLimit = 5
)

// Options configures a Service
type Options struct {
	Cache             utils.Cache      // Read model cache, NopCache when nil
	CacheTTL          time.Duration    // TTL of cached public profiles
	AnalyticsCacheTTL time.Duration    // TTL of cached analytics summaries
	JWTSecret         string           // Secret used to sign tokens
	JWTTTL            time.Duration    // Lifetime of issued tokens
	Now               func() time.Time // Clock, time.Now when nil
}

// Service is the application layer shared by every handler
type Service struct {
	store        repository.Store
	cache        utils.Cache
	cacheTTL     time.Duration
	analyticsTTL time.Duration
	jwtSecret    string
	jwtTTL       time.Duration
	now          func() time.Time
	validate     *validator.Validate
	group        singleflight.Group // Collapses concurrent cache fills of one key
	gens         generations        // Invalidation counters guarding cache fills
}

// generations counts invalidations per cache scope. A fill only stores its
// result when no invalidation of its scope happened while it was computing.
type generations struct {
	mu sync.Mutex
	m  map[string]uint64
}

func (g *generations) current(scope string) uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.m[scope]
}

func (g *generations) bump(scope string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.m == nil {
		g.m = make(map[string]uint64)
	}
	g.m[scope]++
}

// New wires a Service over store
func New(store repository.Store, opts Options) *Service {
	s := &Service{
		store:        store,
		cache:        opts.Cache,
		cacheTTL:     opts.CacheTTL,
		analyticsTTL: opts.AnalyticsCacheTTL,
		jwtSecret:    opts.JWTSecret,
		jwtTTL:       opts.JWTTTL,
		now:          opts.Now,
		validate:     validator.New(),
	}
	if s.cache == nil {
		s.cache = utils.NopCache{}
	}
	if s.now == nil {
		s.now = time.Now
	}
	if s.jwtTTL <= 0 {
		s.jwtTTL = 30 * 24 * time.Hour
	}
	return s
}

func profileKey(userID string) string {
	return "profile:" + userID
}

// analyticsScope groups every analytics key of ownerID for invalidation
func analyticsScope(ownerID string) string {
	return "analytics:" + ownerID
}

func analyticsKey(ownerID string, p domain.Period, fill bool) string {
	key := fmt.Sprintf("%s:%s", analyticsScope(ownerID), p)
	if fill {
		key += ":fill"
	}
	return key
}

// invalidateProfile drops the cached public profile of ownerID
func (s *Service) invalidateProfile(ctx context.Context, ownerID string) {
	key := profileKey(ownerID)
	s.gens.bump(key)
	s.group.Forget(key)
	utils.DeleteCache(ctx, s.cache, key)
}

// invalidateAnalytics drops every cached analytics summary of ownerID
func (s *Service) invalidateAnalytics(ctx context.Context, ownerID string) {
	s.gens.bump(analyticsScope(ownerID))
	keys := make([]string, 0, 2*len(domain.Periods))
	for _, p := range domain.Periods {
		keys = append(keys, analyticsKey(ownerID, p, false), analyticsKey(ownerID, p, true))
	}
	for _, key := range keys {
		s.group.Forget(key)
	}
	utils.DeleteCache(ctx, s.cache, keys...)
}

// lookup loads one record, turning a miss into a not-found error carrying message
func lookup[T any](ctx context.Context, find func(context.Context, string) (*T, error), id, message string) (*T, error) {
	v, err := find(ctx, id)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.NewError(domain.ErrNotFound, message)
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

// ensureOwner rejects callers that do not own the record
func ensureOwner(ownerID, callerID string) error {
	if ownerID != callerID {
		return domain.NewError(domain.ErrForbidden, "User not authorized")
	}
	return nil
}

func invalid(message string) error {
	return domain.NewError(domain.ErrValidation, message)
}

// audit writes one structured audit line
func audit(event string, fields logrus.Fields) {
	fields["timestamp"] = time.Now().Format(time.RFC3339)
	logrus.WithFields(fields).Info(event)
}

// checkReorder validates a reorder request and the ownership of every id
func checkReorder(ctx context.Context, ids []string, callerID string, owner func(context.Context, string) (string, error)) error {
	if len(ids) == 0 {
		return invalid("Please provide the ids to reorder")
	}
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return invalid("Duplicate id in reorder request")
		}
		seen[id] = true
		ownerID, err := owner(ctx, id)
		if err != nil {
			return err
		}
		if err := ensureOwner(ownerID, callerID); err != nil {
			return err
		}
	}
	return nil
}

func isNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}
