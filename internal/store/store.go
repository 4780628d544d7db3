package store

import (
	"context"
	"errors"
	"strings"

	"portfolio-app/internal/domain/access"
	"portfolio-app/internal/domain/audio"
	"portfolio-app/internal/domain/users"
	"portfolio-app/internal/domain/works"
)

var (
	ErrNotFound = errors.New("record not found")
	ErrConflict = errors.New("record already exists")
)

const (
	DefaultPage     = 1
	DefaultPageSize = 12
	MaxPageSize     = 100
)

// ArtworkStore persists artworks.
type ArtworkStore interface {
	CreateArtwork(ctx context.Context, a *works.Artwork) error
	GetArtwork(ctx context.Context, id string) (works.Artwork, error)
	GetArtworkBySlug(ctx context.Context, slug string) (works.Artwork, error)
	UpdateArtwork(ctx context.Context, id string, patch works.ArtworkPatch) (works.Artwork, error)
	DeleteArtwork(ctx context.Context, id string) error
	ListArtworks(ctx context.Context, p ListParams) (Page[works.Artwork], error)
	FindArtworks(ctx context.Context, q ArtworkQuery) ([]works.Artwork, error)
	HasChildren(ctx context.Context, id string) (bool, error)
}

// AudioStore persists audio entries.
type AudioStore interface {
	CreateAudio(ctx context.Context, a *audio.Audio) error
	GetAudio(ctx context.Context, id string) (audio.Audio, error)
	ListAudios(ctx context.Context, tag string, publishedOnly bool) ([]audio.Audio, error)
	UpdateAudio(ctx context.Context, id string, patch audio.AudioPatch) (audio.Audio, error)
	DeleteAudio(ctx context.Context, id string) error
}

// LinkStore manages artwork/audio links.
type LinkStore interface {
	LinkAudio(ctx context.Context, artworkID, audioID string) error
	UnlinkAudio(ctx context.Context, artworkID, audioID string) error
	ListArtworkAudios(ctx context.Context, artworkID string, publishedOnly bool) ([]audio.Audio, error)
}

// UserStore persists the owner account.
type UserStore interface {
	GetUserByEmail(ctx context.Context, email string) (users.User, error)
	GetUserByGoogleSub(ctx context.Context, sub string) (users.User, error)
	SaveUser(ctx context.Context, u *users.User) error
}

// Store is everything the service persists.
type Store interface {
	ArtworkStore
	AudioStore
	LinkStore
	UserStore
}

// ListParams filters and pages the artwork list.
type ListParams struct {
	Query     string
	Kind      string // "", "all", "human" or "ai"
	Published string // "", "all", "published" or "unpublished"
	SortBy    string // "created" or "title"
	SortOrder string // "asc" or "desc"
	Page      int
	PageSize  int
	Viewer    access.Viewer
}

// Normalize fills defaults and forces the published filter for viewers
// that cannot see drafts.
func (p ListParams) Normalize() ListParams {
	p.Query = strings.TrimSpace(p.Query)
	if p.Kind == "all" || !works.Kind(p.Kind).Valid() {
		p.Kind = ""
	}
	switch p.Published {
	case "published", "unpublished":
	default:
		p.Published = ""
	}
	if !p.Viewer.CanSeeDrafts() {
		p.Published = "published"
	}
	if p.SortBy != "title" {
		p.SortBy = "created"
	}
	if p.SortOrder != "asc" {
		p.SortOrder = "desc"
	}
	if p.PageSize <= 0 {
		p.PageSize = DefaultPageSize
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	if p.Page <= 0 {
		p.Page = DefaultPage
	}
	return p
}

// Page is one page of results. Page is clamped to [1, TotalPages].
type Page[T any] struct {
	Items      []T   `json:"data"`
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	TotalPages int   `json:"totalPages"`
}

func totalPages(total int64, pageSize int) int {
	if total == 0 {
		return 0
	}
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}

func clampPage(page, pages int) int {
	return min(max(1, page), max(1, pages))
}

// ArtworkQuery selects artworks by family. FamilyOf X matches X itself and
// every artwork whose parent is X.
type ArtworkQuery struct {
	FamilyOf      string
	ChildrenOf    string
	ExcludeID     string
	PublishedOnly bool
	Limit         int
}

var (
	_ Store = (*GormStore)(nil)
	_ Store = (*MemoryStore)(nil)
)
