package model

import (
	"encoding/json"
	"strings"
	"time"
)

// Category vocabularies are closed sets fixed at build time. Values outside
// a vocabulary are dropped during aggregation, never rejected on input.
var (
	InterestedVocabulary = []string{"Investment", "Dealership", "Others"}
	LookingForVocabulary = []string{"Padel", "Sports courts & flooring", "Spa and wellness products"}
)

type Pledge struct {
	ID         int        `db:"id" json:"id"`
	Name       string     `db:"name" json:"name"`
	Email      string     `db:"email" json:"email"`
	Phone      string     `db:"phone,omitempty" json:"phone,omitempty"`
	Company    string     `db:"company,omitempty" json:"company,omitempty"`
	Country    string     `db:"country,omitempty" json:"country,omitempty"`
	Pledge     bool       `db:"pledge" json:"pledge"`
	Interested StringList `db:"interested" json:"interested"`
	LookingFor StringList `db:"looking_for" json:"lookingFor"`
	PhotoURL   string     `db:"photo_url" json:"photo_url,omitempty"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at" json:"updated_at"`
}

// StringList is a category set. Current clients submit a JSON array; early
// admin revisions stored a single comma-joined string, so decoding accepts
// both shapes here and nowhere else.
type StringList []string

func (l *StringList) UnmarshalJSON(data []byte) error {
	var values []string
	if err := json.Unmarshal(data, &values); err == nil {
		*l = values
		return nil
	}

	var joined string
	if err := json.Unmarshal(data, &joined); err != nil {
		return err
	}
	*l = SplitJoined(joined)
	return nil
}

// SplitJoined decodes the legacy comma-joined storage shape. Blank segments
// are dropped so "a,,b" and "a, b" both come back as two values.
func SplitJoined(joined string) StringList {
	if joined == "" {
		return nil
	}
	parts := strings.Split(joined, ",")
	out := make(StringList, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Joined renders the set in its comma-joined storage shape.
func (l StringList) Joined() string {
	return strings.Join(l, ",")
}

func (l StringList) Contains(value string) bool {
	for _, v := range l {
		if v == value {
			return true
		}
	}
	return false
}

// Toggle removes value from the set when present and appends it otherwise.
// Toggling the same value twice returns an equivalent set.
func Toggle(set StringList, value string) StringList {
	if set.Contains(value) {
		out := make(StringList, 0, len(set)-1)
		for _, v := range set {
			if v != value {
				out = append(out, v)
			}
		}
		if len(out) == 0 {
			return nil
		}
		return out
	}
	out := make(StringList, 0, len(set)+1)
	out = append(out, set...)
	return append(out, value)
}
