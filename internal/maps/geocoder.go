// Package maps adapts third-party geocoding and routing APIs to the
// coordinate contract the pricing engine consumes.
package maps

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"oyadrop/internal/types"
)

const (
	// MinQueryLength is the shortest input worth sending to a provider.
	MinQueryLength = 3
	MaxSuggestions = 5
)

var ErrNoResults = errors.New("address could not be resolved")

// Suggestion is one resolved address candidate.
type Suggestion struct {
	PlaceID     string      `json:"place_id"`
	DisplayName string      `json:"display_name"`
	Position    types.Point `json:"-"`
}

// Geocoder resolves free text into address candidates. An empty slice
// means the text is unresolved.
type Geocoder interface {
	Autocomplete(ctx context.Context, text string) ([]Suggestion, error)
}

// normalizeQuery trims text and reports whether it is long enough to look up.
func normalizeQuery(text string) (string, bool) {
	q := strings.Join(strings.Fields(text), " ")
	return q, utf8.RuneCountInString(q) >= MinQueryLength
}

// Resolve returns the coordinate of the best candidate for text.
func Resolve(ctx context.Context, g Geocoder, text string) (Suggestion, error) {
	results, err := g.Autocomplete(ctx, text)
	if err != nil {
		return Suggestion{}, err
	}
	if len(results) == 0 {
		return Suggestion{}, ErrNoResults
	}
	return results[0], nil
}
