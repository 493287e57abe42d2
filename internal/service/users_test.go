package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"onesi/internal/domain"
	"onesi/internal/utils"
)

func TestRegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	res, err := f.svc.Register(ctx, RegisterInput{Username: " ana ", Email: "Ana@Example.com", Password: "correct horse"})
	require.NoError(t, err)
	assert.Equal(t, "ana", res.Username)
	assert.Equal(t, "ana@example.com", res.Email)
	assert.False(t, res.IsProUser)
	claims, err := utils.ParseJWT(res.Token, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, res.ID, claims.UserID)

	stored, err := f.store.Users.FindByID(ctx, res.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", stored.Password)
	assert.Equal(t, domain.ThemeDefault, stored.Theme)

	login, err := f.svc.Login(ctx, "ANA@example.com", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, res.ID, login.ID)

	_, err = f.svc.Login(ctx, "ana@example.com", "wrong password")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	_, err = f.svc.Login(ctx, "nobody@example.com", "correct horse")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	assert.Equal(t, "Invalid email or password", domain.Message(err))
}

func TestRegisterValidation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.svc.Register(ctx, RegisterInput{Username: "ana", Email: "ana@example.com", Password: "password1"})
	require.NoError(t, err)

	tests := []struct {
		name string
		in   RegisterInput
	}{
		{"missing username", RegisterInput{Email: "x@example.com", Password: "password1"}},
		{"bad email", RegisterInput{Username: "x", Email: "not-an-email", Password: "password1"}},
		{"short password", RegisterInput{Username: "x", Email: "x@example.com", Password: "short"}},
		{"username with space", RegisterInput{Username: "a b", Email: "x@example.com", Password: "password1"}},
		{"duplicate email", RegisterInput{Username: "other", Email: "ANA@example.com", Password: "password1"}},
		{"duplicate username", RegisterInput{Username: "ana", Email: "new@example.com", Password: "password1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Register(ctx, tt.in)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
}

func TestUpdateProfile(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	ana := f.user(t, "ana")
	f.user(t, "bob")
	require.NoError(t, f.store.Users.Update(ctx, &domain.User{ID: ana, Username: "ana", Bio: "hello", Theme: domain.ThemeDefault}))

	updated, err := f.svc.UpdateProfile(ctx, ana, ProfileInput{ProfilePhotoURL: ptr("https://cdn.example.com/me.png")})
	require.NoError(t, err)
	assert.Equal(t, "hello", updated.Bio) // Untouched
	assert.Equal(t, "https://cdn.example.com/me.png", updated.ProfilePhotoURL)

	updated, err = f.svc.UpdateProfile(ctx, ana, ProfileInput{Bio: ptr("")})
	require.NoError(t, err)
	assert.Empty(t, updated.Bio)

	_, err = f.svc.UpdateProfile(ctx, ana, ProfileInput{Username: ptr("bob")})
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = f.svc.UpdateProfile(ctx, ana, ProfileInput{Username: ptr("")})
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = f.svc.UpdateProfile(ctx, ana, ProfileInput{Theme: ptr("neon")})
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = f.svc.UpdateProfile(ctx, ana, ProfileInput{Theme: ptr(string(domain.ThemeSunset))})
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = f.svc.UpdateProfile(ctx, "missing", ProfileInput{})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	renamed, err := f.svc.UpdateProfile(ctx, ana, ProfileInput{Username: ptr("ana2")})
	require.NoError(t, err)
	assert.Equal(t, "ana2", renamed.Username)
}

func TestProThemes(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	pro := &domain.User{Username: "pro", Email: "pro@example.com", IsProUser: true}
	require.NoError(t, f.store.Users.Create(ctx, pro))

	updated, err := f.svc.UpdateProfile(ctx, pro.ID, ProfileInput{Theme: ptr("midnight")})
	require.NoError(t, err)
	assert.Equal(t, domain.ThemeMidnight, updated.Theme)
}

func TestPublicProfile(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner := f.user(t, "ana")
	coll := f.collection(t, owner, "Videos")
	video, err := f.svc.CreateLink(ctx, owner, LinkInput{Title: ptr("Talk"), URL: ptr("https://youtu.be/abc123"), CollectionID: ptr(coll.ID)})
	require.NoError(t, err)
	f.link(t, owner, "Blog", "example.com")
	_, err = f.svc.CreateProduct(ctx, owner, validProduct())
	require.NoError(t, err)

	page, err := f.svc.PublicProfile(ctx, "ana")
	require.NoError(t, err)
	assert.Equal(t, owner, page.Profile.ID)
	assert.Equal(t, "ana", page.Profile.Username)
	require.Len(t, page.Links, 2)
	assert.Equal(t, video.ID, page.Links[0].ID)
	assert.Equal(t, utils.LinkDetails{Type: utils.KindVideo, Platform: utils.PlatformYouTube, VideoID: "abc123"}, page.Links[0].Embed)
	assert.Equal(t, utils.KindStandard, page.Links[1].Embed.Type)
	assert.Len(t, page.Products, 1)
	assert.Len(t, page.Collections, 1)
	assert.True(t, f.cache.has(profileKey(owner)))

	_, err = f.svc.PublicProfile(ctx, "nobody")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPublicProfileDanglingCollection(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner := f.user(t, "ana")
	coll := f.collection(t, owner, "Temp")
	_, err := f.svc.CreateLink(ctx, owner, LinkInput{Title: ptr("x"), URL: ptr("x.com"), CollectionID: ptr(coll.ID)})
	require.NoError(t, err)

	// Simulate a crash between the two writes of a collection delete
	require.NoError(t, f.store.Collections.Delete(ctx, coll.ID))

	page, err := f.svc.PublicProfile(ctx, "ana")
	require.NoError(t, err)
	require.Len(t, page.Links, 1)
	assert.Nil(t, page.Links[0].CollectionID)
	assert.Empty(t, page.Collections)
}

func TestPublicProfileCacheInvalidatedOnChange(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner := f.user(t, "ana")
	f.link(t, owner, "First", "first.com")

	page, err := f.svc.PublicProfile(ctx, "ana")
	require.NoError(t, err)
	require.Len(t, page.Links, 1)

	f.link(t, owner, "Second", "second.com")
	assert.False(t, f.cache.has(profileKey(owner)))

	page, err = f.svc.PublicProfile(ctx, "ana")
	require.NoError(t, err)
	assert.Len(t, page.Links, 2)
}
