package ui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/orgscope/orgscope/internal/models"
	"github.com/orgscope/orgscope/internal/search"
)

// Result messages carry the generation number of the request that produced
// them so superseded responses are dropped on arrival.

type accountsMsg struct {
	gen        uint64
	candidates []models.AccountCandidate
	err        error
}

type listingMsg struct {
	gen     uint64
	total   int
	records []models.RepositoryRecord
	err     error
}

type searchResultMsg struct {
	gen  uint64
	page models.RepositoryPage
	err  error
}

// debounceMsg fires when an input's debounce window elapses. A tick whose
// sequence no longer matches the input's current sequence is stale (the
// user kept typing) and is ignored.
type debounceMsg struct {
	field inputField
	seq   int
}

func debounceTick(field inputField, seq int) tea.Cmd {
	return tea.Tick(search.DebounceInterval, func(time.Time) tea.Msg {
		return debounceMsg{field: field, seq: seq}
	})
}

// runPlan turns a fetch plan into the command that executes it.
func (m Model) runPlan(plan search.FetchPlan) tea.Cmd {
	switch plan.Kind {
	case search.FetchAccounts:
		return m.fetchAccounts(plan)
	case search.FetchListing:
		return m.fetchListing(plan)
	case search.FetchSearch:
		return m.fetchSearch(plan)
	}
	return nil
}

func (m Model) fetchAccounts(plan search.FetchPlan) tea.Cmd {
	return func() tea.Msg {
		candidates, _, err := m.client.SearchAccounts(context.Background(), plan.Query)
		return accountsMsg{gen: plan.Gen, candidates: candidates, err: err}
	}
}

func (m Model) fetchListing(plan search.FetchPlan) tea.Cmd {
	return func() tea.Msg {
		// The account metadata (repo total) and the page itself are
		// independent lookups; fetch them concurrently.
		g, ctx := errgroup.WithContext(context.Background())

		var account models.Account
		var records []models.RepositoryRecord

		g.Go(func() error {
			a, err := m.client.GetAccount(ctx, plan.Login)
			if err != nil {
				return err
			}
			account = a
			return nil
		})
		g.Go(func() error {
			r, err := m.client.ListRepositoriesForUser(ctx, plan.Login, plan.Page, plan.PageSize, plan.Type)
			if err != nil {
				return err
			}
			records = r
			return nil
		})

		if err := g.Wait(); err != nil {
			return listingMsg{gen: plan.Gen, err: err}
		}
		return listingMsg{gen: plan.Gen, total: account.PublicRepos, records: records}
	}
}

func (m Model) fetchSearch(plan search.FetchPlan) tea.Cmd {
	return func() tea.Msg {
		page, err := m.client.SearchRepositories(context.Background(), plan.Login, plan.Query, plan.Page, plan.PageSize)
		return searchResultMsg{gen: plan.Gen, page: page, err: err}
	}
}
