package works

import (
	"errors"
	"fmt"
	"strings"

	"portfolio-app/internal/domain/colour"

	"github.com/lib/pq"
	"gorm.io/datatypes"
)

var ErrInvalidPatch = errors.New("invalid artwork patch")

// ArtworkPatch is a partial update. Nil fields are left untouched.
// A ParentID pointing at "" clears the parent.
type ArtworkPatch struct {
	Title                    *string
	Kind                     *Kind
	ParentID                 *string
	Description              *string
	AccessibilityDescription *string
	MainObjects              *[]string
	Tags                     *[]string
	Emotions                 *[]string
	Review                   *string
	Colours                  *[]colour.Colour
	ImageURL                 *string
	ReviewAudioURL           *string
	Published                *bool
}

func (p ArtworkPatch) Validate() error {
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return fmt.Errorf("%w: title cannot be empty", ErrInvalidPatch)
	}
	if p.Kind != nil && !p.Kind.Valid() {
		return fmt.Errorf("%w: %w", ErrInvalidPatch, ErrInvalidKind)
	}
	if p.Colours != nil {
		for _, c := range *p.Colours {
			if !colour.ValidHex(c.Hex) {
				return fmt.Errorf("%w: colour %q is not a hex value", ErrInvalidPatch, c.Hex)
			}
		}
	}
	return nil
}

func (p ArtworkPatch) Empty() bool {
	return len(p.Columns()) == 0
}

// Columns maps the set fields to database columns.
func (p ArtworkPatch) Columns() map[string]any {
	cols := map[string]any{}
	if p.Title != nil {
		cols["title"] = strings.TrimSpace(*p.Title)
	}
	if p.Kind != nil {
		cols["artworks_type"] = string(*p.Kind)
	}
	if p.ParentID != nil {
		if *p.ParentID == "" {
			cols["parent_id"] = nil
		} else {
			cols["parent_id"] = *p.ParentID
		}
	}
	if p.Description != nil {
		cols["description"] = *p.Description
	}
	if p.AccessibilityDescription != nil {
		cols["accessibility_description"] = *p.AccessibilityDescription
	}
	if p.MainObjects != nil {
		cols["main_objects"] = pq.StringArray(*p.MainObjects)
	}
	if p.Tags != nil {
		cols["tags"] = pq.StringArray(*p.Tags)
	}
	if p.Emotions != nil {
		cols["emotions"] = pq.StringArray(*p.Emotions)
	}
	if p.Review != nil {
		cols["review"] = *p.Review
	}
	if p.Colours != nil {
		cols["colours"] = datatypes.NewJSONSlice(*p.Colours)
	}
	if p.ImageURL != nil {
		cols["image_url"] = *p.ImageURL
	}
	if p.ReviewAudioURL != nil {
		cols["review_audio_url"] = *p.ReviewAudioURL
	}
	if p.Published != nil {
		cols["published"] = *p.Published
	}
	return cols
}

// ApplyTo merges the set fields into a.
func (p ArtworkPatch) ApplyTo(a *Artwork) {
	if p.Title != nil {
		a.Title = strings.TrimSpace(*p.Title)
	}
	if p.Kind != nil {
		a.Kind = *p.Kind
	}
	if p.ParentID != nil {
		if *p.ParentID == "" {
			a.ParentID = nil
		} else {
			id := *p.ParentID
			a.ParentID = &id
		}
	}
	if p.Description != nil {
		a.Description = *p.Description
	}
	if p.AccessibilityDescription != nil {
		a.AccessibilityDescription = *p.AccessibilityDescription
	}
	if p.MainObjects != nil {
		a.MainObjects = append(pq.StringArray{}, *p.MainObjects...)
	}
	if p.Tags != nil {
		a.Tags = append(pq.StringArray{}, *p.Tags...)
	}
	if p.Emotions != nil {
		a.Emotions = append(pq.StringArray{}, *p.Emotions...)
	}
	if p.Review != nil {
		a.Review = *p.Review
	}
	if p.Colours != nil {
		a.Colours = append(datatypes.JSONSlice[colour.Colour]{}, *p.Colours...)
	}
	if p.ImageURL != nil {
		a.ImageURL = *p.ImageURL
	}
	if p.ReviewAudioURL != nil {
		a.ReviewAudioURL = *p.ReviewAudioURL
	}
	if p.Published != nil {
		a.Published = *p.Published
	}
}

// ResultingParent reports the parent id a would have after the patch.
func (p ArtworkPatch) ResultingParent(a Artwork) *string {
	if p.ParentID == nil {
		return a.ParentID
	}
	if *p.ParentID == "" {
		return nil
	}
	id := *p.ParentID
	return &id
}

// ResultingKind reports the kind a would have after the patch.
func (p ArtworkPatch) ResultingKind(a Artwork) Kind {
	if p.Kind == nil {
		return a.Kind
	}
	return *p.Kind
}
