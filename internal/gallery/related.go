package gallery

import (
	"context"
	"fmt"

	"portfolio-app/internal/domain/access"
	"portfolio-app/internal/domain/works"
	"portfolio-app/internal/store"
)

// MaxRelated caps the related artworks list.
const MaxRelated = 10

// Resolver computes related artworks from the parent/child derivation link.
type Resolver struct {
	store store.ArtworkStore
}

func NewResolver(s store.ArtworkStore) *Resolver {
	return &Resolver{store: s}
}

// Related returns up to MaxRelated artworks related to id.
//
// For an ai artwork that is its parent plus its siblings. For a human
// artwork that is its direct ai children. The artwork itself is never
// included, and anonymous viewers only get published entries.
func (r *Resolver) Related(ctx context.Context, id string, kind works.Kind, viewer access.Viewer) ([]works.Artwork, error) {
	q := store.ArtworkQuery{
		ExcludeID:     id,
		PublishedOnly: !viewer.CanSeeDrafts(),
		Limit:         MaxRelated,
	}

	switch kind {
	case works.KindAI:
		a, err := r.store.GetArtwork(ctx, id)
		if err != nil {
			return nil, fmt.Errorf("failed to fetch related artworks: %w", err)
		}
		parent, ok := works.ParentOf(a.Derivation())
		if !ok {
			return []works.Artwork{}, nil
		}
		q.FamilyOf = parent
	case works.KindHuman:
		q.ChildrenOf = id
	default:
		return nil, works.ErrInvalidKind
	}

	out, err := r.store.FindArtworks(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch related artworks: %w", err)
	}
	return out, nil
}
