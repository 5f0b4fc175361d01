package search

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orgscope/orgscope/internal/api"
	"github.com/orgscope/orgscope/internal/models"
)

func selectOctocat(t *testing.T) (*Session, FetchPlan) {
	t.Helper()
	s := NewSession()
	plan := s.SelectOrg("octocat")
	require.Equal(t, FetchListing, plan.Kind)
	return s, plan
}

func TestSetOrgQueryPlansAccountSearch(t *testing.T) {
	s := NewSession()

	plan := s.SetOrgQuery("octo")
	assert.Equal(t, FetchAccounts, plan.Kind)
	assert.Equal(t, "octo", plan.Query)
	assert.True(t, s.LoadingOrgs())

	// Same settled value again must not plan a second fetch
	again := s.SetOrgQuery("octo")
	assert.Equal(t, FetchNone, again.Kind)
}

func TestEmptyOrgQueryClearsCandidates(t *testing.T) {
	s := NewSession()
	plan := s.SetOrgQuery("octo")
	s.ApplyAccounts(plan.Gen, []models.AccountCandidate{{Login: "octocat"}}, nil)
	require.Len(t, s.Candidates(), 1)

	plan = s.SetOrgQuery("")
	assert.Equal(t, FetchNone, plan.Kind)
	assert.Nil(t, s.Candidates())
}

func TestSelectOrgPlansListing(t *testing.T) {
	s, plan := selectOctocat(t)

	assert.Equal(t, "octocat", plan.Login)
	assert.Equal(t, DefaultRepoPage, plan.Page)
	assert.Equal(t, DefaultRepoLimit, plan.PageSize)
	assert.Equal(t, models.RepoTypeAll, plan.Type)
	assert.True(t, s.LoadingRepos())
}

func TestListingTotalComesFromAccountMetadata(t *testing.T) {
	s, plan := selectOctocat(t)

	s.ApplyListing(plan.Gen, 8, []models.RepositoryRecord{{ID: 1, Name: "hello"}}, nil)
	assert.Equal(t, 8, s.Total())
	assert.False(t, s.LoadingRepos())
	assert.Equal(t, "Found 8 items in total", s.TotalLabel())
	assert.Len(t, s.Rows(), 1)
}

func TestRepoFilterResetsPageAndSwitchesToSearch(t *testing.T) {
	s, _ := selectOctocat(t)
	s.SetPage(2)
	require.Equal(t, 2, s.Page())

	plan := s.SetRepoQuery("tool")
	assert.Equal(t, FetchSearch, plan.Kind)
	assert.Equal(t, "tool", plan.Query)
	assert.Equal(t, DefaultRepoPage, plan.Page)
	assert.Equal(t, DefaultRepoPage, s.Page())
}

func TestIssueBoundEditKeepsPage(t *testing.T) {
	s, _ := selectOctocat(t)
	s.SetRepoQuery("tool")
	s.SetPage(1)

	plan := s.SetIssueBounds(intp(5), nil)
	assert.Equal(t, FetchSearch, plan.Kind)
	assert.Equal(t, 1, plan.Page, "editing issue bounds alone must not reset the page")
	assert.Equal(t, 1, s.Page())
}

func TestInvalidBoundsSkipFetchAndKeepResults(t *testing.T) {
	s, plan := selectOctocat(t)
	s.ApplyListing(plan.Gen, 3, []models.RepositoryRecord{{ID: 1, Name: "kept"}}, nil)

	gate := s.SetIssueBounds(intp(10), intp(5))
	assert.Equal(t, FetchNone, gate.Kind)
	assert.Equal(t, "Min should be less than max", s.ValidationMessage())
	assert.Empty(t, s.ErrorMessage())
	assert.Len(t, s.Rows(), 1, "prior results must not be cleared by a validation failure")
}

func TestSearchWithoutRangeUsesServerTotal(t *testing.T) {
	s, _ := selectOctocat(t)
	plan := s.SetRepoQuery("tool")

	s.ApplySearch(plan.Gen, models.RepositoryPage{
		Items:      []models.RepositoryRecord{{ID: 1, Name: "tool-belt", OpenIssuesCount: 2}},
		TotalCount: 42,
	}, nil)

	assert.Equal(t, 42, s.Total())
	assert.Equal(t, "Found 42 items", s.TotalLabel())
}

func TestSearchWithRangeFiltersCurrentPage(t *testing.T) {
	s, _ := selectOctocat(t)
	s.SetRepoQuery("tool")
	plan := s.SetIssueBounds(intp(5), nil)

	s.ApplySearch(plan.Gen, models.RepositoryPage{
		Items: []models.RepositoryRecord{
			{ID: 1, Name: "low", OpenIssuesCount: 3},
			{ID: 2, Name: "mid", OpenIssuesCount: 5},
			{ID: 3, Name: "high", OpenIssuesCount: 9},
		},
		TotalCount: 120,
	}, nil)

	rows := s.Rows()
	require.Len(t, rows, 2)
	assert.Equal(t, "mid", rows[0].Name)
	assert.Equal(t, "high", rows[1].Name)

	// The total is page-scoped on this path, and the label says so
	assert.Equal(t, 2, s.Total())
	assert.Equal(t, "Found 2 items on current page", s.TotalLabel())
}

func TestNotFoundMeansZeroRepositories(t *testing.T) {
	s, plan := selectOctocat(t)

	s.ApplyListing(plan.Gen, 0, nil, &api.APIError{StatusCode: http.StatusNotFound, Message: "Not Found"})

	assert.Equal(t, 0, s.Total())
	assert.Empty(t, s.ErrorMessage(), "a 404 must not reach the error banner")
	assert.False(t, s.LoadingRepos())
}

func TestAPIErrorSurfacesBannerMessage(t *testing.T) {
	s, plan := selectOctocat(t)

	s.ApplyListing(plan.Gen, 0, nil, &api.APIError{StatusCode: http.StatusBadGateway, Message: "upstream sad"})

	assert.Equal(t, "upstream sad", s.ErrorMessage())
	assert.False(t, s.LoadingRepos())
	assert.NoError(t, s.Fatal())
}

func TestUnexpectedFailurePropagatesAsFatal(t *testing.T) {
	s, plan := selectOctocat(t)

	boom := errors.New("connection reset")
	s.ApplyListing(plan.Gen, 0, nil, boom)

	assert.Empty(t, s.ErrorMessage())
	assert.ErrorIs(t, s.Fatal(), boom)
}

func TestStaleResponseIsDropped(t *testing.T) {
	s := NewSession()
	first := s.SetOrgQuery("oc")
	second := s.SetOrgQuery("octo")

	s.ApplyAccounts(first.Gen, []models.AccountCandidate{{Login: "stale"}}, nil)
	assert.Nil(t, s.Candidates(), "a superseded response must not overwrite state")

	s.ApplyAccounts(second.Gen, []models.AccountCandidate{{Login: "octocat"}}, nil)
	require.Len(t, s.Candidates(), 1)
	assert.Equal(t, "octocat", s.Candidates()[0].Login)
}

func TestRetryClearsErrorAndResetsPage(t *testing.T) {
	s, _ := selectOctocat(t)
	s.SetPage(3)
	plan := s.SetPage(4)
	s.ApplyListing(plan.Gen, 0, nil, &api.APIError{StatusCode: 500, Message: "boom"})
	require.NotEmpty(t, s.ErrorMessage())

	retry := s.Retry()
	assert.Empty(t, s.ErrorMessage())
	assert.Equal(t, DefaultRepoPage, s.Page())
	assert.Equal(t, FetchListing, retry.Kind)
}

func TestPlanWithoutSelectionIsNoop(t *testing.T) {
	s := NewSession()
	assert.Equal(t, FetchNone, s.SetRepoQuery("tool").Kind)
	assert.Equal(t, FetchNone, s.SetPage(1).Kind)
	assert.Equal(t, FetchNone, s.Retry().Kind)
}

func TestMaxPage(t *testing.T) {
	s, plan := selectOctocat(t)
	s.ApplyListing(plan.Gen, 25, nil, nil)
	assert.Equal(t, 2, s.MaxPage())

	s2, plan2 := selectOctocat(t)
	s2.ApplyListing(plan2.Gen, 0, nil, nil)
	assert.Equal(t, 0, s2.MaxPage())
}
