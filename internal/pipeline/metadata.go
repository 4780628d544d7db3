package pipeline

import (
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"strings"
	"sync"

	"portfolio-app/internal/domain/works"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
	"github.com/microcosm-cc/bluemonday"
)

// Metadata is the structured output requested from the generator.
type Metadata struct {
	Title                    string   `json:"title" validate:"required" jsonschema_description:"If a title is provided use it verbatim. Otherwise a sharp and witty title specific to the objects, colours and textures of the piece, in sentence case with a full stop."`
	Description              string   `json:"description" validate:"required" jsonschema_description:"A description for website visitors. Matter-of-fact yet engaging. Describe patterns, colours, textures and the emotions evoked without jargon."`
	AccessibilityDescription string   `json:"accessibilityDescription" validate:"required" jsonschema_description:"A comprehensive visual description of colours, shapes, textures and composition that lets someone picture the artwork without seeing it."`
	MainObjects              []string `json:"mainObjects" validate:"required" jsonschema_description:"The main objects including patterns, colours, shapes and identifiable textures."`
	Tags                     []string `json:"tags" validate:"required" jsonschema_description:"Tags that categorize the image by content and emotional impact."`
	Emotions                 []string `json:"emotions" validate:"required" jsonschema_description:"Emotions the artwork might evoke based on content, palette and mood."`
	Review                   string   `json:"review" validate:"required" jsonschema_description:"A critical, direct and humorous review of the piece in the fixed reviewer voice."`
}

// envelope mirrors the top-level object the model is asked to return.
type envelope struct {
	ArtworkMetadata Metadata `json:"artwork_metadata"`
}

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema

	validate = validator.New()
	strip    = bluemonday.StrictPolicy()
)

// Schema is the JSON schema of the generator response.
func Schema() *jsonschema.Schema {
	schemaOnce.Do(func() {
		r := &jsonschema.Reflector{
			DoNotReference: true,
			ExpandedStruct: true,
		}
		schema = r.Reflect(&envelope{})
		schema.Version = ""
		schema.ID = ""
	})
	return schema
}

// parseMetadata decodes and validates raw generator output. A non-empty
// title overrides the generated one.
func parseMetadata(raw []byte, title string) (Metadata, error) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Metadata{}, fmt.Errorf("decode response: %w", err)
	}
	md := env.ArtworkMetadata
	if err := validate.Struct(md); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fe.Field())
			}
			return Metadata{}, fmt.Errorf("missing fields: %s", strings.Join(fields, ", "))
		}
		return Metadata{}, err
	}

	md = md.cleaned()
	if t := strings.TrimSpace(title); t != "" {
		md.Title = t
	}
	if strings.TrimSpace(md.Title) == "" || strings.TrimSpace(md.Review) == "" {
		return Metadata{}, errors.New("title and review must not be blank")
	}
	return md, nil
}

func (m Metadata) cleaned() Metadata {
	return Metadata{
		Title:                    cleanText(m.Title),
		Description:              cleanText(m.Description),
		AccessibilityDescription: cleanText(m.AccessibilityDescription),
		MainObjects:              cleanList(m.MainObjects),
		Tags:                     cleanList(m.Tags),
		Emotions:                 cleanList(m.Emotions),
		Review:                   cleanText(m.Review),
	}
}

func cleanText(s string) string {
	return strings.TrimSpace(html.UnescapeString(strip.Sanitize(s)))
}

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if c := cleanText(s); c != "" {
			out = append(out, c)
		}
	}
	return out
}

// MetadataPatch is the update-mode merge payload. It never carries the
// image URL, the colours or the published flag.
func MetadataPatch(md Metadata, audioURL string) works.ArtworkPatch {
	mainObjects := append([]string{}, md.MainObjects...)
	tags := append([]string{}, md.Tags...)
	emotions := append([]string{}, md.Emotions...)
	return works.ArtworkPatch{
		Title:                    &md.Title,
		Description:              &md.Description,
		AccessibilityDescription: &md.AccessibilityDescription,
		MainObjects:              &mainObjects,
		Tags:                     &tags,
		Emotions:                 &emotions,
		Review:                   &md.Review,
		ReviewAudioURL:           &audioURL,
	}
}
