package ui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orgscope/orgscope/internal/models"
	"github.com/orgscope/orgscope/internal/search"
)

// stubLookup counts calls and serves canned responses.
type stubLookup struct {
	searchAccountCalls int
	getAccountCalls    int
	listCalls          int
	searchRepoCalls    int

	lastListPage   int
	lastSearchText string

	candidates []models.AccountCandidate
	account    models.Account
	records    []models.RepositoryRecord
	page       models.RepositoryPage
}

func (s *stubLookup) SearchAccounts(ctx context.Context, query string) ([]models.AccountCandidate, int, error) {
	s.searchAccountCalls++
	return s.candidates, len(s.candidates), nil
}

func (s *stubLookup) GetAccount(ctx context.Context, login string) (models.Account, error) {
	s.getAccountCalls++
	return s.account, nil
}

func (s *stubLookup) ListRepositoriesForUser(ctx context.Context, login string, page, pageSize int, repoType models.RepoType) ([]models.RepositoryRecord, error) {
	s.listCalls++
	s.lastListPage = page
	return s.records, nil
}

func (s *stubLookup) SearchRepositories(ctx context.Context, org, text string, page, pageSize int) (models.RepositoryPage, error) {
	s.searchRepoCalls++
	s.lastSearchText = text
	return s.page, nil
}

func typeRune(t *testing.T, m Model, r rune) Model {
	t.Helper()
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	return next.(Model)
}

func settle(t *testing.T, m Model, field inputField) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(debounceMsg{field: field, seq: m.seqs[field]})
	return next.(Model), cmd
}

func TestDebounceFiresOncePerSettledValue(t *testing.T) {
	stub := &stubLookup{candidates: []models.AccountCandidate{{Login: "octocat"}}}
	m := NewModel(stub)

	for _, r := range "octo" {
		m = typeRune(t, m, r)
	}
	assert.Equal(t, 4, m.seqs[fieldOrg], "every keystroke restarts the debounce timer")

	// Ticks from earlier keystrokes are stale and must not fetch
	next, cmd := m.Update(debounceMsg{field: fieldOrg, seq: 1})
	m = next.(Model)
	assert.Nil(t, cmd)

	// The final tick fires exactly one account search
	m, cmd = settle(t, m, fieldOrg)
	require.NotNil(t, cmd)
	next, _ = m.Update(cmd())
	m = next.(Model)
	assert.Equal(t, 1, stub.searchAccountCalls)
}

func TestSelectCandidateFetchesListing(t *testing.T) {
	stub := &stubLookup{
		candidates: []models.AccountCandidate{{Login: "octocat"}},
		account:    models.Account{Login: "octocat", PublicRepos: 8},
		records:    []models.RepositoryRecord{{ID: 1, Name: "hello", OpenIssuesCount: 2, StargazersCount: 5}},
	}
	m := NewModel(stub)

	for _, r := range "octo" {
		m = typeRune(t, m, r)
	}
	m, cmd := settle(t, m, fieldOrg)
	require.NotNil(t, cmd)
	next, _ := m.Update(cmd())
	m = next.(Model)
	require.Len(t, m.session.Candidates(), 1)

	// Enter selects the highlighted candidate and triggers the listing
	next, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	require.NotNil(t, cmd)

	next, _ = m.Update(cmd())
	m = next.(Model)

	assert.Equal(t, 1, stub.getAccountCalls)
	assert.Equal(t, 1, stub.listCalls)
	assert.Equal(t, search.DefaultRepoPage, stub.lastListPage)
	assert.Equal(t, "octocat", m.session.SelectedOrg())
	assert.Equal(t, 8, m.session.Total())
	assert.Len(t, m.table.Rows(), 1)
}

func TestRepoFilterSwitchesToSearch(t *testing.T) {
	stub := &stubLookup{
		candidates: []models.AccountCandidate{{Login: "octocat"}},
		account:    models.Account{Login: "octocat", PublicRepos: 8},
		page: models.RepositoryPage{
			Items:      []models.RepositoryRecord{{ID: 2, Name: "tool-belt", OpenIssuesCount: 6, StargazersCount: 1}},
			TotalCount: 1,
		},
	}
	m := NewModel(stub)

	for _, r := range "octo" {
		m = typeRune(t, m, r)
	}
	m, cmd := settle(t, m, fieldOrg)
	next, _ := m.Update(cmd())
	m = next.(Model)
	next, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(Model)
	next, _ = m.Update(cmd())
	m = next.(Model)

	// Focus moved to the repo filter on selection; type a filter
	require.Equal(t, fieldRepoQuery, m.focus)
	for _, r := range "tool" {
		m = typeRune(t, m, r)
	}
	m, cmd = settle(t, m, fieldRepoQuery)
	require.NotNil(t, cmd)
	next, _ = m.Update(cmd())
	m = next.(Model)

	assert.Equal(t, 1, stub.searchRepoCalls)
	assert.Equal(t, "tool", stub.lastSearchText)
	assert.Equal(t, 1, m.session.Total())
	require.Len(t, m.table.Rows(), 1)
	assert.Equal(t, "tool-belt", m.table.Rows()[0][0])
}

func TestParseBound(t *testing.T) {
	assert.Nil(t, parseBound(""))
	assert.Nil(t, parseBound("  "))
	require.NotNil(t, parseBound("12"))
	assert.Equal(t, 12, *parseBound("12"))
}
