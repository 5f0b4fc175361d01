package search

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/orgscope/orgscope/internal/models"
)

func TestTotalLabel(t *testing.T) {
	tests := []struct {
		name        string
		total       int
		filtered    *int
		rangeActive bool
		want        string
	}{
		{name: "plural total", total: 5, want: "Found 5 items in total"},
		{name: "singular total", total: 1, want: "Found 1 item in total"},
		{name: "zero total", total: 0, want: "Found 0 items in total"},
		{name: "filtered with range", total: 10, filtered: intp(3), rangeActive: true, want: "Found 3 items on current page"},
		{name: "filtered without range", total: 10, filtered: intp(3), want: "Found 3 items"},
		{name: "filtered singular", total: 10, filtered: intp(1), want: "Found 1 item"},
		{name: "filtered singular with range", total: 10, filtered: intp(1), rangeActive: true, want: "Found 1 item on current page"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TotalLabel(tt.total, tt.filtered, tt.rangeActive))
		})
	}
}

func TestRepoRows(t *testing.T) {
	rows := RepoRows([]models.RepositoryRecord{
		{ID: 42, Name: "hello-world", OpenIssuesCount: 3, StargazersCount: 1200},
	})

	assert.Equal(t, []Row{{Key: 42, Name: "hello-world", OpenIssues: 3, Stars: 1200}}, rows)
}

func TestAccountOptions(t *testing.T) {
	assert.Nil(t, AccountOptions(nil))

	options := AccountOptions([]models.AccountCandidate{
		{Login: "octocat"},
		{Login: "octo-org"},
	})
	assert.Equal(t, []string{"octocat", "octo-org"}, options)
}
