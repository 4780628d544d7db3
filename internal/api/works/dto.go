package works

import (
	"strings"

	"portfolio-app/internal/domain/colour"
	"portfolio-app/internal/domain/works"
	"portfolio-app/internal/gallery"
)

// ---------- requests

type CreateArtworkRequest struct {
	Title                    string          `json:"title" binding:"required"`
	Type                     string          `json:"type" binding:"required"`
	ParentID                 *string         `json:"parentId"`
	Description              string          `json:"description"`
	AccessibilityDescription string          `json:"accessibilityDescription"`
	MainObjects              []string        `json:"mainObjects"`
	Tags                     []string        `json:"tags"`
	Emotions                 []string        `json:"emotions"`
	Review                   string          `json:"review"`
	Colours                  []colour.Colour `json:"colours"`
	ImageURL                 string          `json:"imageUrl"`
	ReviewAudioURL           string          `json:"reviewAudioUrl"`
	Published                bool            `json:"published"`
}

func (r CreateArtworkRequest) toNewArtwork() (gallery.NewArtwork, error) {
	kind, err := works.ParseKind(r.Type)
	if err != nil {
		return gallery.NewArtwork{}, err
	}
	return gallery.NewArtwork{
		Title:                    r.Title,
		Kind:                     kind,
		ParentID:                 r.ParentID,
		Description:              r.Description,
		AccessibilityDescription: r.AccessibilityDescription,
		MainObjects:              r.MainObjects,
		Tags:                     r.Tags,
		Emotions:                 r.Emotions,
		Review:                   r.Review,
		Colours:                  r.Colours,
		ImageURL:                 r.ImageURL,
		ReviewAudioURL:           r.ReviewAudioURL,
		Published:                r.Published,
	}, nil
}

// UpdateArtworkRequest is a partial edit. Omitted fields are left alone and
// "parentId": "" detaches the artwork from its parent.
type UpdateArtworkRequest struct {
	Title                    *string          `json:"title"`
	Type                     *string          `json:"type"`
	ParentID                 *string          `json:"parentId"`
	Description              *string          `json:"description"`
	AccessibilityDescription *string          `json:"accessibilityDescription"`
	MainObjects              *[]string        `json:"mainObjects"`
	Tags                     *[]string        `json:"tags"`
	Emotions                 *[]string        `json:"emotions"`
	Review                   *string          `json:"review"`
	Colours                  *[]colour.Colour `json:"colours"`
	ImageURL                 *string          `json:"imageUrl"`
	ReviewAudioURL           *string          `json:"reviewAudioUrl"`
	Published                *bool            `json:"published"`
}

func (r UpdateArtworkRequest) toPatch() works.ArtworkPatch {
	p := works.ArtworkPatch{
		Title:                    r.Title,
		ParentID:                 r.ParentID,
		Description:              r.Description,
		AccessibilityDescription: r.AccessibilityDescription,
		MainObjects:              r.MainObjects,
		Tags:                     r.Tags,
		Emotions:                 r.Emotions,
		Review:                   r.Review,
		Colours:                  r.Colours,
		ImageURL:                 r.ImageURL,
		ReviewAudioURL:           r.ReviewAudioURL,
		Published:                r.Published,
	}
	if r.Type != nil {
		k := works.Kind(strings.TrimSpace(*r.Type))
		p.Kind = &k
	}
	return p
}

type RegenerateRequest struct {
	Title       string `json:"title"`
	Information string `json:"information"`
}
