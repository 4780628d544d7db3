package works

import (
	"errors"
	"time"

	"portfolio-app/internal/domain/colour"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Kind string

const (
	KindHuman Kind = "human"
	KindAI    Kind = "ai"
)

var ErrInvalidKind = errors.New("artwork type must be human or ai")

func (k Kind) Valid() bool {
	return k == KindHuman || k == KindAI
}

// ParseKind accepts the wire values "human" and "ai".
func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if !k.Valid() {
		return "", ErrInvalidKind
	}
	return k, nil
}

type Artwork struct {
	ID    string `gorm:"type:uuid;primaryKey" json:"id"`
	Title string `gorm:"type:varchar(255);not null;uniqueIndex:idx_artworks_title" json:"title"`
	Kind  Kind   `gorm:"column:artworks_type;type:text;not null;index" json:"type"`

	// ai artworks may point at the human artwork they were derived from.
	ParentID *string `gorm:"type:uuid;index" json:"parentId"`

	Description              string         `gorm:"type:text" json:"description"`
	AccessibilityDescription string         `gorm:"type:text" json:"accessibilityDescription"`
	MainObjects              pq.StringArray `gorm:"type:text[]" json:"mainObjects"`
	Tags                     pq.StringArray `gorm:"type:text[]" json:"tags"`
	Emotions                 pq.StringArray `gorm:"type:text[]" json:"emotions"`
	Review                   string         `gorm:"type:text" json:"review"`

	Colours datatypes.JSONSlice[colour.Colour] `gorm:"type:jsonb" json:"colours"`

	ImageURL       string `gorm:"type:varchar(1024)" json:"imageUrl"`
	ReviewAudioURL string `gorm:"type:varchar(1024)" json:"reviewAudioUrl"`

	Published bool `gorm:"not null;default:false;index" json:"published"`
	UserID    uint `gorm:"index" json:"userId"`

	Created   time.Time `gorm:"<-:create;autoCreateTime" json:"created"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (a *Artwork) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

// Derivation returns the artwork's place in the parent/child forest.
func (a Artwork) Derivation() Derivation {
	if a.Kind == KindAI {
		return Derived{Parent: a.ParentID}
	}
	return Root{}
}

// HasParent reports whether the artwork references a parent.
func (a Artwork) HasParent() bool {
	return a.ParentID != nil && *a.ParentID != ""
}
