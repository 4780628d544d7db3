package audio

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

type Kind string

const (
	KindMix      Kind = "mix"
	KindPlaylist Kind = "playlist"
)

var (
	ErrInvalidKind  = errors.New("audio type must be mix or playlist")
	ErrInvalidPatch = errors.New("invalid audio patch")
)

func (k Kind) Valid() bool {
	return k == KindMix || k == KindPlaylist
}

type Audio struct {
	ID          string         `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string         `gorm:"type:varchar(255);not null;uniqueIndex:idx_audios_title" json:"title"`
	Kind        Kind           `gorm:"column:audio_type;type:text;not null" json:"type"`
	Description string         `gorm:"type:text" json:"description"`
	Tags        pq.StringArray `gorm:"type:text[]" json:"tags"`
	AudioURL    string         `gorm:"type:varchar(1024)" json:"audioUrl"`
	ImageURL    string         `gorm:"type:varchar(1024)" json:"imageUrl"`
	Published   bool           `gorm:"not null;default:false;index" json:"published"`
	UserID      uint           `gorm:"index" json:"userId"`

	Created   time.Time `gorm:"<-:create;autoCreateTime" json:"created"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (a *Audio) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}

func (a Audio) HasTag(tag string) bool {
	for _, t := range a.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

type AudioPatch struct {
	Title       *string
	Kind        *Kind
	Description *string
	Tags        *[]string
	AudioURL    *string
	ImageURL    *string
	Published   *bool
}

func (p AudioPatch) Validate() error {
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return fmt.Errorf("%w: title cannot be empty", ErrInvalidPatch)
	}
	if p.Kind != nil && !p.Kind.Valid() {
		return fmt.Errorf("%w: %w", ErrInvalidPatch, ErrInvalidKind)
	}
	return nil
}

func (p AudioPatch) Columns() map[string]any {
	cols := map[string]any{}
	if p.Title != nil {
		cols["title"] = strings.TrimSpace(*p.Title)
	}
	if p.Kind != nil {
		cols["audio_type"] = string(*p.Kind)
	}
	if p.Description != nil {
		cols["description"] = *p.Description
	}
	if p.Tags != nil {
		cols["tags"] = pq.StringArray(*p.Tags)
	}
	if p.AudioURL != nil {
		cols["audio_url"] = *p.AudioURL
	}
	if p.ImageURL != nil {
		cols["image_url"] = *p.ImageURL
	}
	if p.Published != nil {
		cols["published"] = *p.Published
	}
	return cols
}

func (p AudioPatch) ApplyTo(a *Audio) {
	if p.Title != nil {
		a.Title = strings.TrimSpace(*p.Title)
	}
	if p.Kind != nil {
		a.Kind = *p.Kind
	}
	if p.Description != nil {
		a.Description = *p.Description
	}
	if p.Tags != nil {
		a.Tags = append(pq.StringArray{}, *p.Tags...)
	}
	if p.AudioURL != nil {
		a.AudioURL = *p.AudioURL
	}
	if p.ImageURL != nil {
		a.ImageURL = *p.ImageURL
	}
	if p.Published != nil {
		a.Published = *p.Published
	}
}
