// Package report derives admin-facing summaries from pledge records:
// category counts for the dashboard charts and the pledges.csv export.
package report

import (
	"strconv"
	"strings"

	"greenpledge/internal/model"
)

// Headers is the fixed column order of the pledges.csv export.
var Headers = []string{"ID", "Name", "Email", "Phone", "Country", "Pledge", "Interested", "Looking For"}

// Count is one chart bucket. A result slice always carries exactly the
// vocabulary's categories, in vocabulary order.
type Count struct {
	Category string `json:"category"`
	Total    int    `json:"total"`
}

// CountByCategory tallies how many sets contain each vocabulary entry.
// Values outside the vocabulary are dropped silently.
func CountByCategory(sets []model.StringList, vocabulary []string) []Count {
	index := make(map[string]int, len(vocabulary))
	counts := make([]Count, len(vocabulary))
	for i, category := range vocabulary {
		counts[i] = Count{Category: category}
		index[category] = i
	}

	for _, set := range sets {
		for _, value := range set {
			if i, ok := index[value]; ok {
				counts[i].Total++
			}
		}
	}
	return counts
}

// CountInterested aggregates the "interested" sets of records against the
// Investment/Dealership/Others vocabulary.
func CountInterested(records []model.Pledge) []Count {
	sets := make([]model.StringList, len(records))
	for i, r := range records {
		sets[i] = r.Interested
	}
	return CountByCategory(sets, model.InterestedVocabulary)
}

// CountLookingFor aggregates the "looking for" sets of records.
func CountLookingFor(records []model.Pledge) []Count {
	sets := make([]model.StringList, len(records))
	for i, r := range records {
		sets[i] = r.LookingFor
	}
	return CountByCategory(sets, model.LookingForVocabulary)
}

// Rows flattens records into CSV cells, one row per record, preserving
// input order. Multi-value sets become a single ", "-joined cell and the
// pledge flag renders as Yes/No.
func Rows(records []model.Pledge) [][]string {
	rows := make([][]string, len(records))
	for i, r := range records {
		pledged := "No"
		if r.Pledge {
			pledged = "Yes"
		}
		rows[i] = []string{
			strconv.Itoa(r.ID),
			r.Name,
			r.Email,
			r.Phone,
			r.Country,
			pledged,
			strings.Join(r.Interested, ", "),
			strings.Join(r.LookingFor, ", "),
		}
	}
	return rows
}

// SerializeCSV joins the header row and data rows with newlines. Every cell
// is double-quoted regardless of content, with embedded quotes doubled.
func SerializeCSV(headers []string, rows [][]string) string {
	var b strings.Builder
	writeRow(&b, headers)
	for _, row := range rows {
		b.WriteByte('\n')
		writeRow(&b, row)
	}
	return b.String()
}

func writeRow(b *strings.Builder, cells []string) {
	for i, cell := range cells {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(cell, `"`, `""`))
		b.WriteByte('"')
	}
}
