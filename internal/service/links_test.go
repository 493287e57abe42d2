package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"onesi/internal/domain"
)

func TestCreateLinkValidation(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "ana")
	other := f.user(t, "bob")
	foreign := f.collection(t, other, "Theirs")

	tests := []struct {
		name string
		in   LinkInput
	}{
		{"missing title", LinkInput{URL: ptr("example.com")}},
		{"blank title", LinkInput{Title: ptr("   "), URL: ptr("example.com")}},
		{"missing url", LinkInput{Title: ptr("Site")}},
		{"malformed url", LinkInput{Title: ptr("Site"), URL: ptr("not a url at all !!")}},
		{"unknown type", LinkInput{Title: ptr("Site"), URL: ptr("example.com"), Type: ptr(domain.LinkType("audio"))}},
		{"unknown collection", LinkInput{Title: ptr("Site"), URL: ptr("example.com"), CollectionID: ptr("nope")}},
		{"foreign collection", LinkInput{Title: ptr("Site"), URL: ptr("example.com"), CollectionID: ptr(foreign.ID)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.CreateLink(context.Background(), owner, tt.in)
			assert.ErrorIs(t, err, domain.ErrValidation)
		})
	}
	n, err := f.store.Links.CountByOwner(context.Background(), owner)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCreateLinkDerivesType(t *testing.T) {
	f := newFixture(t)
	owner := f.user(t, "ana")

	video := f.link(t, owner, "Talk", "https://youtu.be/abc123")
	image := f.link(t, owner, "Pic", "example.com/cat.png")
	site := f.link(t, owner, "Blog", "example.com")
	explicit, err := f.svc.CreateLink(context.Background(), owner, LinkInput{
		Title: ptr("Shop"), URL: ptr("shop.example.com"), Type: ptr(domain.LinkProduct),
	})
	require.NoError(t, err)

	assert.Equal(t, domain.LinkVideo, video.Type)
	assert.Equal(t, domain.LinkImage, image.Type)
	assert.Equal(t, domain.LinkStandard, site.Type)
	assert.Equal(t, domain.LinkProduct, explicit.Type)
	assert.Equal(t, owner, site.UserID)
	assert.Equal(t, 2, site.Order) // Appended after the first two
}

func TestUpdateLinkPartial(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner := f.user(t, "ana")
	coll := f.collection(t, owner, "Videos")
	created, err := f.svc.CreateLink(ctx, owner, LinkInput{
		Title: ptr("old"), URL: ptr("https://youtu.be/abc123"), CollectionID: ptr(coll.ID),
	})
	require.NoError(t, err)

	updated, err := f.svc.UpdateLink(ctx, owner, created.ID, LinkInput{Title: ptr("new")})
	require.NoError(t, err)
	assert.Equal(t, "new", updated.Title)

	stored, err := f.store.Links.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "new", stored.Title)
	assert.Equal(t, created.URL, stored.URL)
	assert.Equal(t, created.Type, stored.Type)
	require.NotNil(t, stored.CollectionID)
	assert.Equal(t, coll.ID, *stored.CollectionID)

	// Empty collectionId clears the assignment
	_, err = f.svc.UpdateLink(ctx, owner, created.ID, LinkInput{CollectionID: ptr("")})
	require.NoError(t, err)
	stored, err = f.store.Links.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.CollectionID)
	assert.Equal(t, "new", stored.Title)

	// Empty required fields are rejected
	_, err = f.svc.UpdateLink(ctx, owner, created.ID, LinkInput{Title: ptr("")})
	assert.ErrorIs(t, err, domain.ErrValidation)
	_, err = f.svc.UpdateLink(ctx, owner, created.ID, LinkInput{URL: ptr("")})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestLinkOwnership(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner := f.user(t, "ana")
	intruder := f.user(t, "eve")
	link := f.link(t, owner, "Mine", "example.com")

	_, err := f.svc.UpdateLink(ctx, intruder, link.ID, LinkInput{Title: ptr("hacked")})
	assert.ErrorIs(t, err, domain.ErrForbidden)
	assert.ErrorIs(t, f.svc.DeleteLink(ctx, intruder, link.ID), domain.ErrForbidden)
	assert.ErrorIs(t, f.svc.ReorderLinks(ctx, intruder, []string{link.ID}), domain.ErrForbidden)

	stored, err := f.store.Links.FindByID(ctx, link.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mine", stored.Title)

	_, err = f.svc.UpdateLink(ctx, owner, "missing", LinkInput{Title: ptr("x")})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, "Link not found", domain.Message(err))
	assert.ErrorIs(t, f.svc.DeleteLink(ctx, owner, "missing"), domain.ErrNotFound)

	require.NoError(t, f.svc.DeleteLink(ctx, owner, link.ID))
	_, err = f.store.Links.FindByID(ctx, link.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReorderLinks(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner := f.user(t, "ana")
	a := f.link(t, owner, "a", "a.com")
	b := f.link(t, owner, "b", "b.com")
	c := f.link(t, owner, "c", "c.com")

	require.NoError(t, f.svc.ReorderLinks(ctx, owner, []string{c.ID, a.ID, b.ID}))
	links, err := f.svc.ListLinks(ctx, owner)
	require.NoError(t, err)
	require.Len(t, links, 3)
	assert.Equal(t, []string{"c", "a", "b"}, []string{links[0].Title, links[1].Title, links[2].Title})

	assert.ErrorIs(t, f.svc.ReorderLinks(ctx, owner, nil), domain.ErrValidation)
	assert.ErrorIs(t, f.svc.ReorderLinks(ctx, owner, []string{a.ID, a.ID}), domain.ErrValidation)
	assert.ErrorIs(t, f.svc.ReorderLinks(ctx, owner, []string{a.ID, "missing"}), domain.ErrNotFound)
}

func TestTrackLink(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	owner := f.user(t, "ana")
	link := f.link(t, owner, "Site", "example.com")

	require.NoError(t, f.svc.TrackLink(ctx, link.ID))
	require.NoError(t, f.svc.TrackLink(ctx, link.ID))

	stored, err := f.store.Links.FindByID(ctx, link.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, stored.Clicks)

	total, err := f.store.Clicks.CountInWindow(ctx, owner, domain.Period7d.WindowEnding(testNow))
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)

	err = f.svc.TrackLink(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPreviewLink(t *testing.T) {
	got := PreviewLink("https://vimeo.com/123456789")
	assert.Equal(t, "vimeo", got.Platform)
	assert.Equal(t, "123456789", got.VideoID)
}
