package audios

import (
	"strings"

	"portfolio-app/internal/domain/audio"
)

type CreateAudioRequest struct {
	Title       string   `json:"title" binding:"required"`
	Type        string   `json:"type" binding:"required,oneof=mix playlist"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	AudioURL    string   `json:"audioUrl" binding:"omitempty,url"`
	ImageURL    string   `json:"imageUrl" binding:"omitempty,url"`
	Published   bool     `json:"published"`
}

func (r CreateAudioRequest) toAudio(ownerID uint) audio.Audio {
	return audio.Audio{
		Title:       strings.TrimSpace(r.Title),
		Kind:        audio.Kind(r.Type),
		Description: r.Description,
		Tags:        cleanTags(r.Tags),
		AudioURL:    r.AudioURL,
		ImageURL:    r.ImageURL,
		Published:   r.Published,
		UserID:      ownerID,
	}
}

type UpdateAudioRequest struct {
	Title       *string   `json:"title"`
	Type        *string   `json:"type"`
	Description *string   `json:"description"`
	Tags        *[]string `json:"tags"`
	AudioURL    *string   `json:"audioUrl"`
	ImageURL    *string   `json:"imageUrl"`
	Published   *bool     `json:"published"`
}

func (r UpdateAudioRequest) toPatch() audio.AudioPatch {
	p := audio.AudioPatch{
		Title:       r.Title,
		Description: r.Description,
		AudioURL:    r.AudioURL,
		ImageURL:    r.ImageURL,
		Published:   r.Published,
	}
	if r.Type != nil {
		k := audio.Kind(strings.TrimSpace(*r.Type))
		p.Kind = &k
	}
	if r.Tags != nil {
		tags := cleanTags(*r.Tags)
		p.Tags = &tags
	}
	return p
}

func (r UpdateAudioRequest) empty() bool {
	return r.Title == nil && r.Type == nil && r.Description == nil && r.Tags == nil &&
		r.AudioURL == nil && r.ImageURL == nil && r.Published == nil
}

// cleanTags trims tags and drops blanks and case-insensitive duplicates.
func cleanTags(in []string) []string {
	out := make([]string, 0, len(in))
	seen := map[string]bool{}
	for _, t := range in {
		t = strings.TrimSpace(t)
		key := strings.ToLower(t)
		if t == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, t)
	}
	return out
}
