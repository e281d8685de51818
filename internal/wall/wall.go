// Package wall maps stored pledge records into the public-safe cards shown
// on the pledge wall. No other field of a record leaves this projection.
package wall

import (
	"strings"

	"greenpledge/internal/model"
)

type Card struct {
	DisplayName  string `json:"name"`
	PhotoURL     string `json:"photo_url,omitempty"`
	AvatarLetter string `json:"avatar_letter,omitempty"`
}

// Project builds one card per record. The photo wins when present, otherwise
// the card carries the uppercased first letter of the name for the placeholder
// avatar. A record with an empty name gets an empty letter rather than a
// panic.
func Project(records []model.Pledge) []Card {
	cards := make([]Card, len(records))
	for i, r := range records {
		card := Card{DisplayName: r.Name, PhotoURL: r.PhotoURL}
		if card.PhotoURL == "" {
			card.AvatarLetter = initialLetter(r.Name)
		}
		cards[i] = card
	}
	return cards
}

func initialLetter(name string) string {
	for _, r := range name {
		return strings.ToUpper(string(r))
	}
	return ""
}
