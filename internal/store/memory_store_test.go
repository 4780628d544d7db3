package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"portfolio-app/internal/domain/access"
	"portfolio-app/internal/domain/audio"
	"portfolio-app/internal/domain/users"
	"portfolio-app/internal/domain/works"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore() *MemoryStore {
	s := NewMemoryStore()
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	n := 0
	s.now = func() time.Time {
		n++
		return base.Add(time.Duration(n) * time.Minute)
	}
	return s
}

func seedArtwork(t *testing.T, s *MemoryStore, a works.Artwork) works.Artwork {
	t.Helper()
	require.NoError(t, s.CreateArtwork(context.Background(), &a))
	return a
}

func TestCreateArtworkAssignsIDAndTimestamps(t *testing.T) {
	s := newTestStore()
	a := seedArtwork(t, s, works.Artwork{Title: "Blue Hour", Kind: works.KindHuman})

	assert.NotEmpty(t, a.ID)
	assert.False(t, a.Created.IsZero())

	err := s.CreateArtwork(context.Background(), &works.Artwork{Title: "Blue Hour", Kind: works.KindAI})
	assert.ErrorIs(t, err, ErrConflict)
}

func TestUpdateArtwork(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()
	a := seedArtwork(t, s, works.Artwork{Title: "Draft", Kind: works.KindHuman, ImageURL: "https://img/1.png"})

	title := "Final"
	got, err := s.UpdateArtwork(ctx, a.ID, works.ArtworkPatch{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Final", got.Title)
	assert.Equal(t, "https://img/1.png", got.ImageURL)
	assert.Equal(t, a.Created, got.Created)
	assert.True(t, got.UpdatedAt.After(a.UpdatedAt))

	_, err = s.UpdateArtwork(ctx, "missing", works.ArtworkPatch{Title: &title})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteArtworkDetachesChildrenAndLinks(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()
	parent := seedArtwork(t, s, works.Artwork{Title: "Root", Kind: works.KindHuman})
	child := seedArtwork(t, s, works.Artwork{Title: "Child", Kind: works.KindAI, ParentID: &parent.ID})
	mix := audio.Audio{Title: "Mix", Kind: audio.KindMix}
	require.NoError(t, s.CreateAudio(ctx, &mix))
	require.NoError(t, s.LinkAudio(ctx, parent.ID, mix.ID))

	require.NoError(t, s.DeleteArtwork(ctx, parent.ID))

	_, err := s.GetArtwork(ctx, parent.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := s.GetArtwork(ctx, child.ID)
	require.NoError(t, err)
	assert.Nil(t, got.ParentID)

	linked, err := s.ListArtworkAudios(ctx, parent.ID, false)
	require.NoError(t, err)
	assert.Empty(t, linked)

	assert.ErrorIs(t, s.DeleteArtwork(ctx, parent.ID), ErrNotFound)
}

func TestListArtworksFiltersAndPages(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()
	for i := 1; i <= 15; i++ {
		seedArtwork(t, s, works.Artwork{
			Title:     fmt.Sprintf("Collage %02d", i),
			Kind:      works.KindHuman,
			Published: i%3 != 0,
			Tags:      []string{"paper"},
		})
	}
	seedArtwork(t, s, works.Artwork{Title: "Machine Dream", Kind: works.KindAI, Published: true, Tags: []string{"neon"}})

	t.Run("anonymous sees published only", func(t *testing.T) {
		page, err := s.ListArtworks(ctx, ListParams{Published: "unpublished"})
		require.NoError(t, err)
		assert.EqualValues(t, 11, page.Total)
		for _, a := range page.Items {
			assert.True(t, a.Published)
		}
		assert.Len(t, page.Items, 11)
		assert.Equal(t, 1, page.TotalPages)
	})

	t.Run("owner filters drafts", func(t *testing.T) {
		page, err := s.ListArtworks(ctx, ListParams{Published: "unpublished", Viewer: access.Owner(1, "o@x")})
		require.NoError(t, err)
		assert.EqualValues(t, 5, page.Total)
	})

	t.Run("page is clamped", func(t *testing.T) {
		page, err := s.ListArtworks(ctx, ListParams{Page: 99, PageSize: 5, Viewer: access.Owner(1, "o@x")})
		require.NoError(t, err)
		assert.Equal(t, 4, page.Page)
		assert.Len(t, page.Items, 1)
	})

	t.Run("search and type", func(t *testing.T) {
		page, err := s.ListArtworks(ctx, ListParams{Query: "neon", Kind: "ai"})
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, "Machine Dream", page.Items[0].Title)

		page, err = s.ListArtworks(ctx, ListParams{Query: "collage 0", Kind: "human", Viewer: access.Owner(1, "o@x")})
		require.NoError(t, err)
		assert.EqualValues(t, 9, page.Total)
	})

	t.Run("sort by title", func(t *testing.T) {
		page, err := s.ListArtworks(ctx, ListParams{SortBy: "title", SortOrder: "asc", PageSize: 2})
		require.NoError(t, err)
		assert.Equal(t, "Collage 01", page.Items[0].Title)
	})
}

func TestFindArtworksFamily(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()
	root := seedArtwork(t, s, works.Artwork{Title: "Root", Kind: works.KindHuman, Published: true})
	a1 := seedArtwork(t, s, works.Artwork{Title: "A1", Kind: works.KindAI, ParentID: &root.ID, Published: true})
	seedArtwork(t, s, works.Artwork{Title: "A2", Kind: works.KindAI, ParentID: &root.ID})
	seedArtwork(t, s, works.Artwork{Title: "Other", Kind: works.KindHuman, Published: true})

	got, err := s.FindArtworks(ctx, ArtworkQuery{FamilyOf: root.ID, ExcludeID: a1.ID})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Root", "A2"}, titles(got))

	got, err = s.FindArtworks(ctx, ArtworkQuery{FamilyOf: root.ID, ExcludeID: a1.ID, PublishedOnly: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"Root"}, titles(got))

	got, err = s.FindArtworks(ctx, ArtworkQuery{ChildrenOf: root.ID, Limit: 1})
	require.NoError(t, err)
	assert.Len(t, got, 1)

	has, err := s.HasChildren(ctx, root.ID)
	require.NoError(t, err)
	assert.True(t, has)
}

func TestGetArtworkBySlug(t *testing.T) {
	s := newTestStore()
	seedArtwork(t, s, works.Artwork{Title: "Blue Hour", Kind: works.KindHuman})

	got, err := s.GetArtworkBySlug(context.Background(), "blue-hour")
	require.NoError(t, err)
	assert.Equal(t, "Blue Hour", got.Title)

	_, err = s.GetArtworkBySlug(context.Background(), "red-hour")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAudioCRUDAndTags(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()
	mix := audio.Audio{Title: "Night Mix", Kind: audio.KindMix, Tags: []string{"ambient"}, Published: true}
	list := audio.Audio{Title: "Study", Kind: audio.KindPlaylist, Tags: []string{"focus"}}
	require.NoError(t, s.CreateAudio(ctx, &mix))
	require.NoError(t, s.CreateAudio(ctx, &list))

	got, err := s.ListAudios(ctx, "ambient", false)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, mix.ID, got[0].ID)

	got, err = s.ListAudios(ctx, "", true)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	published := true
	updated, err := s.UpdateAudio(ctx, list.ID, audio.AudioPatch{Published: &published})
	require.NoError(t, err)
	assert.True(t, updated.Published)

	require.NoError(t, s.DeleteAudio(ctx, list.ID))
	_, err = s.GetAudio(ctx, list.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLinks(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()
	art := seedArtwork(t, s, works.Artwork{Title: "Root", Kind: works.KindHuman})
	mix := audio.Audio{Title: "Mix", Kind: audio.KindMix}
	require.NoError(t, s.CreateAudio(ctx, &mix))

	assert.ErrorIs(t, s.LinkAudio(ctx, art.ID, "missing"), ErrNotFound)
	require.NoError(t, s.LinkAudio(ctx, art.ID, mix.ID))
	require.NoError(t, s.LinkAudio(ctx, art.ID, mix.ID))

	got, err := s.ListArtworkAudios(ctx, art.ID, false)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	got, err = s.ListArtworkAudios(ctx, art.ID, true)
	require.NoError(t, err)
	assert.Empty(t, got)

	require.NoError(t, s.UnlinkAudio(ctx, art.ID, mix.ID))
	assert.ErrorIs(t, s.UnlinkAudio(ctx, art.ID, mix.ID), ErrNotFound)
}

func TestUsers(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()
	sub := "google-123"
	u := users.User{Email: "artist@example.com", Role: users.RoleOwner, GoogleSub: &sub}
	require.NoError(t, s.SaveUser(ctx, &u))
	assert.NotZero(t, u.ID)

	got, err := s.GetUserByEmail(ctx, "artist@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	got, err = s.GetUserByGoogleSub(ctx, sub)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	dup := users.User{Email: "artist@example.com"}
	assert.ErrorIs(t, s.SaveUser(ctx, &dup), ErrConflict)

	_, err = s.GetUserByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNormalize(t *testing.T) {
	p := ListParams{Kind: "all", Published: "all", SortBy: "colour", SortOrder: "sideways", PageSize: 1000}.Normalize()
	assert.Equal(t, "", p.Kind)
	assert.Equal(t, "published", p.Published)
	assert.Equal(t, "created", p.SortBy)
	assert.Equal(t, "desc", p.SortOrder)
	assert.Equal(t, MaxPageSize, p.PageSize)
	assert.Equal(t, 1, p.Page)
}

func titles(in []works.Artwork) []string {
	out := make([]string, 0, len(in))
	for _, a := range in {
		out = append(out, a.Title)
	}
	return out
}
