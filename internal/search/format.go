package search

import (
	"fmt"

	"github.com/orgscope/orgscope/internal/models"
)

// Row is one formatted table row, keyed by the repository ID.
type Row struct {
	Key        int64
	Name       string
	OpenIssues int
	Stars      int
}

// RepoRows shapes repository records into table rows. Identity mapping,
// no failure mode.
func RepoRows(records []models.RepositoryRecord) []Row {
	rows := make([]Row, 0, len(records))
	for _, r := range records {
		rows = append(rows, Row{
			Key:        r.ID,
			Name:       r.Name,
			OpenIssues: r.OpenIssuesCount,
			Stars:      r.StargazersCount,
		})
	}
	return rows
}

// AccountOptions maps account candidates to the option strings shown in the
// autocomplete list. Nil in, nil out.
func AccountOptions(candidates []models.AccountCandidate) []string {
	if candidates == nil {
		return nil
	}
	options := make([]string, 0, len(candidates))
	for _, c := range candidates {
		options = append(options, c.Login)
	}
	return options
}

// TotalLabel renders the human-readable result count. With no filtered
// count the label reports the full total; with one it reports the filtered
// count, marked "on current page" when an issue-count range is active,
// since that count covers only the fetched page.
func TotalLabel(total int, filtered *int, rangeActive bool) string {
	if filtered == nil {
		return fmt.Sprintf("Found %d item%s in total", total, plural(total))
	}

	label := fmt.Sprintf("Found %d item%s", *filtered, plural(*filtered))
	if rangeActive {
		label += " on current page"
	}
	return label
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
