package search

import "github.com/orgscope/orgscope/internal/models"

// FilterByOpenIssues keeps records whose open-issue count falls inside the
// given bounds. A nil bound (or a bound of zero) leaves that side open, so
// passing (nil, nil) returns the input unchanged. Order is preserved and
// the function never fails.
func FilterByOpenIssues(records []models.RepositoryRecord, min, max *int) []models.RepositoryRecord {
	if !boundSet(min) && !boundSet(max) {
		return records
	}

	out := make([]models.RepositoryRecord, 0, len(records))
	for _, r := range records {
		if boundSet(min) && r.OpenIssuesCount < *min {
			continue
		}
		if boundSet(max) && r.OpenIssuesCount > *max {
			continue
		}
		out = append(out, r)
	}
	return out
}

// boundSet reports whether a bound is active. Zero counts as unset.
func boundSet(b *int) bool {
	return b != nil && *b != 0
}
