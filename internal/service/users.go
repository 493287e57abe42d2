package service

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"

	"onesi/internal/domain"
	"onesi/internal/utils"
)

// Password length bounds; bcrypt ignores input past 72 bytes
const (
	minPasswordLen = 8
	maxPasswordLen = 72
)

// RegisterInput is the sign-up form
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// AuthResult is returned by Register and Login
type AuthResult struct {
	ID        string `json:"_id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	IsProUser bool   `json:"isProUser"`
	Token     string `json:"token"`
}

// ProfileInput carries profile fields; nil means "not provided"
type ProfileInput struct {
	Username        *string
	Bio             *string // "" clears the bio
	ProfilePhotoURL *string // "" clears the photo
	Theme           *string
}

// PublicUser is a profile without private fields
type PublicUser struct {
	ID              string       `json:"_id"`
	Username        string       `json:"username"`
	Bio             string       `json:"bio"`
	ProfilePhotoURL string       `json:"profilePhotoUrl"`
	Theme           domain.Theme `json:"theme"`
	IsProUser       bool         `json:"isProUser"`
}

// PublicLink is a link as rendered on the public page
type PublicLink struct {
	domain.Link
	Embed utils.LinkDetails `json:"embed"` // Classifier output
}

// PublicProfile is everything the public page renders
type PublicProfile struct {
	Profile     PublicUser          `json:"profile"`
	Links       []PublicLink        `json:"links"`
	Products    []domain.Product    `json:"products"`
	Collections []domain.Collection `json:"collections"`
}

// Register creates an account and signs a token for it
func (s *Service) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if username == "" || email == "" || in.Password == "" {
		return nil, invalid("Please provide username, email, and password")
	}
	if err := s.validate.Var(email, "email"); err != nil {
		return nil, invalid("Please provide a valid email")
	}
	if !s.validUsername(username) {
		return nil, invalid("Username must be at most 64 characters without spaces or slashes")
	}
	if len(in.Password) < minPasswordLen || len(in.Password) > maxPasswordLen {
		return nil, invalid("Password must be 8-72 characters")
	}
	if err := s.ensureNewUser(ctx, username, email); err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &domain.User{
		Username: username,
		Email:    email,
		Password: string(hash),
		Theme:    domain.ThemeDefault,
	}
	if err := s.store.Users.Create(ctx, user); err != nil {
		return nil, err
	}
	audit("User registered", logrus.Fields{"user_id": user.ID, "username": user.Username})
	return s.authResult(user)
}

// ensureNewUser rejects an email or username that is already taken
func (s *Service) ensureNewUser(ctx context.Context, username, email string) error {
	for _, find := range []func() (*domain.User, error){
		func() (*domain.User, error) { return s.store.Users.FindByEmail(ctx, email) },
		func() (*domain.User, error) { return s.store.Users.FindByUsername(ctx, username) },
	} {
		_, err := find()
		if err == nil {
			return invalid("User already exists")
		}
		if !isNotFound(err) {
			return err
		}
	}
	return nil
}

// validUsername keeps usernames usable as a URL path segment
func (s *Service) validUsername(username string) bool {
	return s.validate.Var(username, "max=64") == nil && !strings.ContainsAny(username, " /?#")
}

// Login checks credentials and signs a token
func (s *Service) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.store.Users.FindByEmail(ctx, email)
	if isNotFound(err) {
		return nil, domain.NewError(domain.ErrUnauthenticated, "Invalid email or password")
	}
	if err != nil {
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, domain.NewError(domain.ErrUnauthenticated, "Invalid email or password")
	}
	return s.authResult(user)
}

func (s *Service) authResult(user *domain.User) (*AuthResult, error) {
	token, err := utils.GenerateJWT(user.ID, s.jwtSecret, s.jwtTTL)
	if err != nil {
		return nil, err
	}
	return &AuthResult{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		IsProUser: user.IsProUser,
		Token:     token,
	}, nil
}

// Profile returns the caller's own account
func (s *Service) Profile(ctx context.Context, callerID string) (*domain.User, error) {
	return lookup(ctx, s.store.Users.FindByID, callerID, "User not found")
}

// UpdateProfile applies the provided fields of in to the caller's account
func (s *Service) UpdateProfile(ctx context.Context, callerID string, in ProfileInput) (*domain.User, error) {
	user, err := lookup(ctx, s.store.Users.FindByID, callerID, "User not found")
	if err != nil {
		return nil, err
	}
	if in.Username != nil {
		username := deref(in.Username)
		if username == "" {
			return nil, invalid("Username cannot be empty")
		}
		if !s.validUsername(username) {
			return nil, invalid("Username must be at most 64 characters without spaces or slashes")
		}
		if username != user.Username {
			other, err := s.store.Users.FindByUsername(ctx, username)
			if err == nil && other.ID != user.ID {
				return nil, invalid("Username already exists")
			}
			if err != nil && !isNotFound(err) {
				return nil, err
			}
		}
		user.Username = username
	}
	if in.Bio != nil {
		user.Bio = deref(in.Bio)
	}
	if in.ProfilePhotoURL != nil {
		photo := deref(in.ProfilePhotoURL)
		if photo != "" && !utils.IsValidURL(photo) {
			return nil, invalid("Please provide a valid profile photo URL")
		}
		user.ProfilePhotoURL = photo
	}
	if in.Theme != nil {
		theme := domain.Theme(deref(in.Theme))
		if !theme.Known() {
			return nil, invalid("Unknown theme")
		}
		if theme.RequiresPro() && !user.IsProUser {
			return nil, invalid("This theme requires a Pro account")
		}
		user.Theme = theme
	}
	if err := s.store.Users.Update(ctx, user); err != nil {
		return nil, err
	}
	audit("Profile updated", logrus.Fields{"user_id": user.ID})
	s.invalidateProfile(ctx, user.ID)
	return user, nil
}

// PublicProfile returns the public page of username
func (s *Service) PublicProfile(ctx context.Context, username string) (*PublicProfile, error) {
	user, err := s.store.Users.FindByUsername(ctx, username)
	if isNotFound(err) {
		return nil, domain.NewError(domain.ErrNotFound, "User not found")
	}
	if err != nil {
		return nil, err
	}
	key := profileKey(user.ID)
	var cached PublicProfile
	if utils.GetCache(ctx, s.cache, key, &cached) {
		return &cached, nil
	}
	gen := s.gens.current(key)
	v, err, _ := s.group.Do(key, func() (any, error) {
		fillCtx := context.WithoutCancel(ctx) // Shared by every visitor waiting on key
		page, err := s.buildPublicProfile(fillCtx, user)
		if err != nil {
			return nil, err
		}
		if s.cacheTTL > 0 && s.gens.current(key) == gen {
			utils.SetCache(fillCtx, s.cache, key, page, s.cacheTTL)
		}
		return page, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*PublicProfile), nil
}

func (s *Service) buildPublicProfile(ctx context.Context, user *domain.User) (*PublicProfile, error) {
	var (
		links       []domain.Link
		products    []domain.Product
		collections []domain.Collection
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		links, err = s.store.Links.ListByOwner(gctx, user.ID)
		return err
	})
	g.Go(func() (err error) {
		products, err = s.store.Products.ListByOwner(gctx, user.ID)
		return err
	})
	g.Go(func() (err error) {
		collections, err = s.store.Collections.ListByOwner(gctx, user.ID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	known := make(map[string]bool, len(collections))
	for _, c := range collections {
		known[c.ID] = true
	}
	page := &PublicProfile{
		Profile: PublicUser{
			ID:              user.ID,
			Username:        user.Username,
			Bio:             user.Bio,
			ProfilePhotoURL: user.ProfilePhotoURL,
			Theme:           user.Theme,
			IsProUser:       user.IsProUser,
		},
		Links:       make([]PublicLink, 0, len(links)),
		Products:    products,
		Collections: collections,
	}
	for _, l := range links {
		if l.CollectionID != nil && !known[*l.CollectionID] {
			l.CollectionID = nil // Collection deleted, show as uncategorised
		}
		page.Links = append(page.Links, PublicLink{Link: l, Embed: utils.ParseLink(l.URL)})
	}
	return page, nil
}
