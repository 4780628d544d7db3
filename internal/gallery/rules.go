package gallery

import (
	"context"
	"errors"
	"fmt"

	"portfolio-app/internal/domain/works"
	"portfolio-app/internal/store"
)

// Rules enforces the derivation forest on writes: ai artworks may point at
// a human artwork, human artworks never have a parent, chains are one level deep.
type Rules struct {
	store store.ArtworkStore
}

func NewRules(s store.ArtworkStore) *Rules {
	return &Rules{store: s}
}

// CheckCreate validates the derivation of a new artwork.
func (r *Rules) CheckCreate(ctx context.Context, kind works.Kind, parentID *string) error {
	d, err := works.NewDerivation(kind, parentID)
	if err != nil {
		return err
	}
	parent, ok := works.ParentOf(d)
	if !ok {
		return nil
	}
	return r.checkParent(ctx, "", parent)
}

// CheckUpdate validates the derivation existing would have after patch.
func (r *Rules) CheckUpdate(ctx context.Context, existing works.Artwork, patch works.ArtworkPatch) error {
	kind := patch.ResultingKind(existing)
	d, err := works.NewDerivation(kind, patch.ResultingParent(existing))
	if err != nil {
		return err
	}

	if kind == works.KindAI && existing.Kind != works.KindAI {
		has, err := r.store.HasChildren(ctx, existing.ID)
		if err != nil {
			return err
		}
		if has {
			return fmt.Errorf("%w: artwork has ai derivatives and must stay human", works.ErrInvalidDerivation)
		}
	}

	parent, ok := works.ParentOf(d)
	if !ok {
		return nil
	}
	return r.checkParent(ctx, existing.ID, parent)
}

func (r *Rules) checkParent(ctx context.Context, selfID, parentID string) error {
	if parentID == selfID {
		return fmt.Errorf("%w: an artwork cannot be its own parent", works.ErrInvalidDerivation)
	}
	parent, err := r.store.GetArtwork(ctx, parentID)
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("%w: parent %s does not exist", works.ErrInvalidDerivation, parentID)
	}
	if err != nil {
		return err
	}
	if parent.Kind != works.KindHuman {
		return fmt.Errorf("%w: parent %s is not a human artwork", works.ErrInvalidDerivation, parentID)
	}
	return nil
}
