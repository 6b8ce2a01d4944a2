// Package variants parses the delimited multi-candidate blob returned by the
// AI description-enhancement call into discrete candidates.
package variants

import (
	"errors"
	"strings"
)

// Delimiter joins candidate variants inside a single generated text blob.
const Delimiter = "|||"

// MaxVariants caps how many candidates are surfaced to the user.
const MaxVariants = 3

// ErrNoVariants is returned when the blob contains no usable candidates.
// This is a user-facing extraction failure, not a silent empty result.
var ErrNoVariants = errors.New("no variants produced")

type Variant struct {
	ID   int    `json:"id"`
	Text string `json:"text"`
}

// Parse splits the blob on the delimiter, trims each part, drops empty parts
// and returns at most MaxVariants candidates with 1-based position ids.
func Parse(blob string) ([]Variant, error) {
	parts := strings.Split(blob, Delimiter)

	out := make([]Variant, 0, MaxVariants)
	for _, part := range parts {
		text := strings.TrimSpace(part)
		if text == "" {
			continue
		}
		out = append(out, Variant{ID: len(out) + 1, Text: text})
		if len(out) == MaxVariants {
			break
		}
	}

	if len(out) == 0 {
		return nil, ErrNoVariants
	}
	return out, nil
}
