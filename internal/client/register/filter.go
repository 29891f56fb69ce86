package register

import (
	"strings"

	"github.com/dmitrijs2005/auditdesk/internal/client/models"
)

// AllLocations is the facet value that disables the location restriction.
const AllLocations = "All Plants"

// Apply returns the records matching location and query, in store order.
// The location restriction is skipped for AllLocations (or ""); the query
// is a case-insensitive substring matched against every non-empty value of
// a record. The input is not modified.
func Apply(records []models.Record, query, location string) []models.Record {
	out := make([]models.Record, 0, len(records))
	for _, r := range records {
		if matches(r, strings.ToLower(query), location) {
			out = append(out, r)
		}
	}
	return out
}

func matches(r models.Record, lowerQuery, location string) bool {
	if location != "" && location != AllLocations && r.Location != location {
		return false
	}
	if lowerQuery == "" {
		return true
	}
	for _, v := range r.Values() {
		if strings.Contains(strings.ToLower(v), lowerQuery) {
			return true
		}
	}
	return false
}

// Locations lists the distinct non-empty locations of records in order of
// first appearance, with AllLocations first.
func Locations(records []models.Record) []string {
	seen := make(map[string]struct{}, len(records))
	out := []string{AllLocations}
	for _, r := range records {
		if r.Location == "" {
			continue
		}
		if _, ok := seen[r.Location]; ok {
			continue
		}
		seen[r.Location] = struct{}{}
		out = append(out, r.Location)
	}
	return out
}
