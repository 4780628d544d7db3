package colour

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var ErrInvalidHex = errors.New("invalid hex colour")

// Colour is one entry of an artwork palette, in extraction rank order.
type Colour struct {
	Hex string `json:"hex"`
}

// Swatch is a palette colour expanded for theming.
type Swatch struct {
	Hex   string   `json:"hex"`
	Tones []string `json:"tones"`
	Text  string   `json:"text"`
}

// ValidHex reports whether s is a 6-digit hex colour, with or without a leading '#'.
func ValidHex(s string) bool {
	_, _, _, err := parseHex(s)
	return err == nil
}

func parseHex(s string) (r, g, b int, err error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) != 6 {
		return 0, 0, 0, fmt.Errorf("%w: %q", ErrInvalidHex, s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return 0, 0, 0, fmt.Errorf("%w: %q", ErrInvalidHex, s)
	}
	return int(v >> 16 & 0xff), int(v >> 8 & 0xff), int(v & 0xff), nil
}

// Tones expands hex into a 7-step ramp: three lighter stops, the input
// itself (index 3, returned verbatim) and three darker stops.
func Tones(hex string) ([]string, error) {
	r, g, b, err := parseHex(hex)
	if err != nil {
		return nil, err
	}
	h, s, l := rgbToHSL(r, g, b)

	return []string{
		hslToHex(h, math.Max(s-15, 0), math.Min(l+40, 95)),
		hslToHex(h, math.Max(s-10, 0), math.Min(l+30, 90)),
		hslToHex(h, math.Max(s-5, 0), math.Min(l+20, 85)),
		hex,
		hslToHex(h, math.Min(s+5, 100), math.Max(l-10, 25)),
		hslToHex(h, math.Min(s+10, 100), math.Max(l-20, 20)),
		hslToHex(h, math.Min(s+15, 100), math.Max(l-35, 10)),
	}, nil
}

// TextColour picks a readable foreground for the given background: a dark
// shade of it on light backgrounds, a pale tint on dark ones.
func TextColour(background string) (string, error) {
	r, g, b, err := parseHex(background)
	if err != nil {
		return "", err
	}
	rf, gf, bf := float64(r), float64(g), float64(b)
	luminance := (0.299*rf + 0.587*gf + 0.114*bf) / 255
	if luminance > 0.5 {
		return rgba(rf*0.3, gf*0.3, bf*0.4), nil
	}
	return rgba(rf+(255-rf)*0.7, gf+(255-gf)*0.7, bf+(255-bf)*0.6), nil
}

// AdjustBrightness multiplies every channel by factor, clamped to [0,255].
func AdjustBrightness(hex string, factor float64) (string, error) {
	r, g, b, err := parseHex(hex)
	if err != nil {
		return "", err
	}
	scale := func(c int) int {
		v := int(math.Round(float64(c) * factor))
		return min(255, max(0, v))
	}
	return fmt.Sprintf("#%02x%02x%02x", scale(r), scale(g), scale(b)), nil
}

// Palette expands every valid colour into a swatch. Invalid entries are skipped.
func Palette(colours []Colour) []Swatch {
	out := make([]Swatch, 0, len(colours))
	for _, c := range colours {
		tones, err := Tones(c.Hex)
		if err != nil {
			continue
		}
		text, _ := TextColour(c.Hex)
		out = append(out, Swatch{Hex: c.Hex, Tones: tones, Text: text})
	}
	return out
}

// ParseColours normalizes ingestion colour data into an ordered palette.
// raw may be a JSON string or bytes, or any value that marshals to an array of
// [hex, weight] pairs. Anything else yields an empty list.
func ParseColours(raw any) []Colour {
	var data []byte
	switch v := raw.(type) {
	case nil:
		return []Colour{}
	case string:
		data = []byte(v)
	case []byte:
		data = v
	case json.RawMessage:
		data = v
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return []Colour{}
		}
		data = b
	}

	var pairs [][]json.RawMessage
	if err := json.Unmarshal(data, &pairs); err != nil {
		return []Colour{}
	}
	out := make([]Colour, 0, len(pairs))
	for _, p := range pairs {
		if len(p) == 0 {
			return []Colour{}
		}
		var hex string
		if err := json.Unmarshal(p[0], &hex); err != nil || !ValidHex(hex) {
			return []Colour{}
		}
		out = append(out, Colour{Hex: hex})
	}
	return out
}

func rgbToHSL(r, g, b int) (h, s, l float64) {
	rf, gf, bf := float64(r)/255, float64(g)/255, float64(b)/255
	mx := math.Max(rf, math.Max(gf, bf))
	mn := math.Min(rf, math.Min(gf, bf))
	l = (mx + mn) / 2

	if mx != mn {
		d := mx - mn
		if l > 0.5 {
			s = d / (2 - mx - mn)
		} else {
			s = d / (mx + mn)
		}
		switch mx {
		case rf:
			h = (gf - bf) / d
			if gf < bf {
				h += 6
			}
		case gf:
			h = (bf-rf)/d + 2
		default:
			h = (rf-gf)/d + 4
		}
		h /= 6
	}
	return h * 360, s * 100, l * 100
}

func hslToHex(h, s, l float64) string {
	l /= 100
	a := s * math.Min(l, 1-l) / 100
	channel := func(n float64) int {
		k := math.Mod(n+h/30, 12)
		c := l - a*math.Max(math.Min(math.Min(k-3, 9-k), 1), -1)
		return min(255, max(0, int(math.Round(255*c))))
	}
	return fmt.Sprintf("#%02x%02x%02x", channel(0), channel(8), channel(4))
}

func rgba(r, g, b float64) string {
	f := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
	return fmt.Sprintf("rgba(%s,%s,%s, 1)", f(r), f(g), f(b))
}
