package pipeline

import (
	"fmt"
	"strings"

	"portfolio-app/internal/domain/works"
)

const persona = `You are an art copywriter writing in British English for a personal portfolio of digital collages and AI-curated artworks.
Write engaging, literal descriptions of what is actually in the image. Do not invent meaning that is not visible.
The accessibility description must let someone who cannot see the image picture it in full: composition, colours, textures, positions of elements.
The review is written in the voice of a witty, irreverent critic who is fond of the artist but never gushing. Keep it to one or two short paragraphs.
Never use stock phrases such as "juxtapose", "juxtaposition", "captivating", "tapestry", "testament to", "delve" or "evokes a sense of".
Every field is mandatory. mainObjects, tags and emotions are short lowercase phrases.`

const temperature = 0.8

func kindLabel(k works.Kind) string {
	if k == works.KindAI {
		return "ai artwork"
	}
	return "digital collage"
}

// buildInstruction assembles the user-facing instruction for one image.
func buildInstruction(kind works.Kind, title, extra string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Analyse this %s-created image. Focus on identifying details, patterns, and distinct elements in the artwork.", kindLabel(kind))
	if kind == works.KindAI {
		b.WriteString(" The piece was curated from AI output by the artist, so describe it as a curated work rather than a generated one.")
	} else {
		b.WriteString(" The piece is a human-made digital collage assembled from found imagery.")
	}
	if t := strings.TrimSpace(title); t != "" {
		fmt.Fprintf(&b, "\nThe artwork is titled %q. Use this title verbatim in the title field.", t)
	}
	if e := strings.TrimSpace(extra); e != "" {
		b.WriteString("\nUse the information provided: ")
		b.WriteString(e)
	}
	return b.String()
}
