package works

import (
	"testing"

	"portfolio-app/internal/domain/colour"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestNewDerivation(t *testing.T) {
	d, err := NewDerivation(KindHuman, nil)
	require.NoError(t, err)
	assert.Equal(t, Root{}, d)

	_, err = NewDerivation(KindHuman, ptr("p1"))
	assert.ErrorIs(t, err, ErrInvalidDerivation)

	d, err = NewDerivation(KindAI, ptr("p1"))
	require.NoError(t, err)
	parent, ok := ParentOf(d)
	assert.True(t, ok)
	assert.Equal(t, "p1", parent)

	d, err = NewDerivation(KindAI, ptr(""))
	require.NoError(t, err)
	_, ok = ParentOf(d)
	assert.False(t, ok)

	_, err = NewDerivation(Kind("sculpture"), nil)
	assert.ErrorIs(t, err, ErrInvalidKind)
}

func TestArtworkDerivation(t *testing.T) {
	human := Artwork{Kind: KindHuman}
	assert.Equal(t, Root{}, human.Derivation())

	ai := Artwork{Kind: KindAI, ParentID: ptr("h1")}
	parent, ok := ParentOf(ai.Derivation())
	assert.True(t, ok)
	assert.Equal(t, "h1", parent)
}

func TestArtworkPatchValidate(t *testing.T) {
	assert.NoError(t, ArtworkPatch{}.Validate())
	assert.ErrorIs(t, ArtworkPatch{Title: ptr("  ")}.Validate(), ErrInvalidPatch)
	assert.ErrorIs(t, ArtworkPatch{Kind: ptr(Kind("oil"))}.Validate(), ErrInvalidKind)
	assert.ErrorIs(t, ArtworkPatch{Colours: &[]colour.Colour{{Hex: "#12"}}}.Validate(), ErrInvalidPatch)
	assert.NoError(t, ArtworkPatch{Colours: &[]colour.Colour{{Hex: "#123456"}}}.Validate())
}

func TestArtworkPatchColumns(t *testing.T) {
	p := ArtworkPatch{
		Title:          ptr(" Blue Hour "),
		ParentID:       ptr(""),
		Tags:           &[]string{"blue"},
		ReviewAudioURL: ptr("https://cdn/review.mp3"),
	}
	cols := p.Columns()

	assert.Equal(t, "Blue Hour", cols["title"])
	assert.Contains(t, cols, "parent_id")
	assert.Nil(t, cols["parent_id"])
	assert.Contains(t, cols, "tags")
	assert.Contains(t, cols, "review_audio_url")
	assert.NotContains(t, cols, "image_url")
	assert.NotContains(t, cols, "published")
	assert.NotContains(t, cols, "colours")
	assert.True(t, ArtworkPatch{}.Empty())
}

func TestArtworkPatchApplyTo(t *testing.T) {
	a := Artwork{
		Title:     "Old",
		Kind:      KindAI,
		ParentID:  ptr("h1"),
		ImageURL:  "https://img/old.png",
		Published: true,
	}
	ArtworkPatch{
		Title:    ptr("New"),
		ParentID: ptr(""),
		Emotions: &[]string{"calm"},
	}.ApplyTo(&a)

	assert.Equal(t, "New", a.Title)
	assert.Nil(t, a.ParentID)
	assert.Equal(t, []string{"calm"}, []string(a.Emotions))
	assert.Equal(t, "https://img/old.png", a.ImageURL)
	assert.True(t, a.Published)
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "blue-hour", Slug("Blue Hour"))
	assert.Equal(t, "blue-hour", NormalizeSlug(" /Blue-Hour/ "))
}
