package gallery

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"portfolio-app/internal/domain/access"
	"portfolio-app/internal/domain/colour"
	"portfolio-app/internal/domain/works"
	"portfolio-app/internal/store"
)

var ErrInvalidArtwork = errors.New("invalid artwork")

// Service is the artwork read/edit surface used by the HTTP layer.
// Pipeline writes go through the pipeline package instead.
type Service struct {
	store store.ArtworkStore
	rules *Rules
}

func NewService(s store.ArtworkStore, rules *Rules) *Service {
	return &Service{store: s, rules: rules}
}

// Get returns the artwork if viewer may see it. Drafts are reported as
// not found to anonymous viewers.
func (s *Service) Get(ctx context.Context, id string, viewer access.Viewer) (works.Artwork, error) {
	a, err := s.store.GetArtwork(ctx, id)
	if err != nil {
		return works.Artwork{}, err
	}
	return visible(a, viewer)
}

func (s *Service) GetBySlug(ctx context.Context, slug string, viewer access.Viewer) (works.Artwork, error) {
	a, err := s.store.GetArtworkBySlug(ctx, slug)
	if err != nil {
		return works.Artwork{}, err
	}
	return visible(a, viewer)
}

func visible(a works.Artwork, viewer access.Viewer) (works.Artwork, error) {
	if !a.Published && !viewer.CanSeeDrafts() {
		return works.Artwork{}, store.ErrNotFound
	}
	return a, nil
}

func (s *Service) List(ctx context.Context, p store.ListParams) (store.Page[works.Artwork], error) {
	return s.store.ListArtworks(ctx, p)
}

// Theme expands the artwork palette into tone ramps and text colours.
func (s *Service) Theme(ctx context.Context, id string, viewer access.Viewer) ([]colour.Swatch, error) {
	a, err := s.Get(ctx, id, viewer)
	if err != nil {
		return nil, err
	}
	return colour.Palette(a.Colours), nil
}

// NewArtwork is a direct create from the edit screen, without the pipeline.
type NewArtwork struct {
	Title                    string
	Kind                     works.Kind
	ParentID                 *string
	Description              string
	AccessibilityDescription string
	MainObjects              []string
	Tags                     []string
	Emotions                 []string
	Review                   string
	Colours                  []colour.Colour
	ImageURL                 string
	ReviewAudioURL           string
	Published                bool
}

func (s *Service) Create(ctx context.Context, in NewArtwork, owner access.Viewer) (works.Artwork, error) {
	if strings.TrimSpace(in.Title) == "" {
		return works.Artwork{}, fmt.Errorf("%w: title is required", ErrInvalidArtwork)
	}
	if !in.Kind.Valid() {
		return works.Artwork{}, fmt.Errorf("%w: %w", ErrInvalidArtwork, works.ErrInvalidKind)
	}
	for _, c := range in.Colours {
		if !colour.ValidHex(c.Hex) {
			return works.Artwork{}, fmt.Errorf("%w: colour %q is not a hex value", ErrInvalidArtwork, c.Hex)
		}
	}
	if in.ParentID != nil && *in.ParentID == "" {
		in.ParentID = nil
	}
	if err := s.rules.CheckCreate(ctx, in.Kind, in.ParentID); err != nil {
		return works.Artwork{}, err
	}

	a := works.Artwork{
		Title:                    strings.TrimSpace(in.Title),
		Kind:                     in.Kind,
		ParentID:                 in.ParentID,
		Description:              in.Description,
		AccessibilityDescription: in.AccessibilityDescription,
		MainObjects:              in.MainObjects,
		Tags:                     in.Tags,
		Emotions:                 in.Emotions,
		Review:                   in.Review,
		Colours:                  in.Colours,
		ImageURL:                 in.ImageURL,
		ReviewAudioURL:           in.ReviewAudioURL,
		Published:                in.Published,
		UserID:                   owner.UserID,
	}
	if err := s.store.CreateArtwork(ctx, &a); err != nil {
		return works.Artwork{}, err
	}
	return a, nil
}

// Update validates patch and the resulting derivation before merging it.
func (s *Service) Update(ctx context.Context, id string, patch works.ArtworkPatch) (works.Artwork, error) {
	if err := patch.Validate(); err != nil {
		return works.Artwork{}, err
	}
	existing, err := s.store.GetArtwork(ctx, id)
	if err != nil {
		return works.Artwork{}, err
	}
	if err := s.rules.CheckUpdate(ctx, existing, patch); err != nil {
		return works.Artwork{}, err
	}
	return s.store.UpdateArtwork(ctx, id, patch)
}

func (s *Service) SetPublished(ctx context.Context, id string, published bool) (works.Artwork, error) {
	return s.store.UpdateArtwork(ctx, id, works.ArtworkPatch{Published: &published})
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return s.store.DeleteArtwork(ctx, id)
}
