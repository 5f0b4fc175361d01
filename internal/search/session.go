// Package search holds the query/filter/pagination core: a Session that
// owns all mutable state for one browsing session, plus the pure helpers
// that shape and filter results. The Session never performs I/O itself —
// each transition returns a FetchPlan describing the remote call to make,
// and the caller feeds classified results back through the Apply methods.
package search

import (
	"time"

	"github.com/orgscope/orgscope/internal/api"
	"github.com/orgscope/orgscope/internal/models"
)

const (
	// DefaultRepoLimit is the fixed page size for repository results.
	DefaultRepoLimit = 10
	// DefaultRepoPage is the starting (0-based) page number.
	DefaultRepoPage = 0
	// DebounceInterval is how long an input must settle before dependent
	// work runs.
	DebounceInterval = 200 * time.Millisecond
)

// FetchKind identifies which remote operation a plan wants.
type FetchKind int

const (
	FetchNone FetchKind = iota
	FetchAccounts
	FetchListing
	FetchSearch
)

// FetchPlan describes one remote call the caller should issue. Gen is a
// per-slot generation number: responses carry it back and stale ones are
// dropped, so a slow in-flight response can never overwrite fresher state.
type FetchPlan struct {
	Kind     FetchKind
	Gen      uint64
	Query    string // account search text, or repo-name filter text
	Login    string
	Page     int
	PageSize int
	Type     models.RepoType
}

// Session owns every piece of mutable state for one browsing session.
// Derived values (rows, labels) are recomputed from it on demand.
type Session struct {
	orgQuery    string
	selectedOrg string
	page        int
	repoQuery   string
	minIssues   *int
	maxIssues   *int
	repoType    models.RepoType

	candidates []models.AccountCandidate
	total      int
	listing    []models.RepositoryRecord
	filtered   *models.RepositoryPage

	errMsg        string
	validationMsg string
	fatalErr      error
	loadingOrgs   bool
	loadingRepos  bool

	accountGen uint64
	repoGen    uint64
}

// NewSession creates a session at the default page with no filters.
func NewSession() *Session {
	return &Session{
		page:     DefaultRepoPage,
		repoType: models.RepoTypeAll,
	}
}

// InvalidateSelection clears the selected organization. Called on every
// edit of the organization box, since typing invalidates downstream
// results.
func (s *Session) InvalidateSelection() {
	s.selectedOrg = ""
}

// SetOrgQuery records the settled organization query and plans the account
// search. An empty query clears the candidate list without a fetch.
func (s *Session) SetOrgQuery(query string) FetchPlan {
	if query == s.orgQuery {
		return FetchPlan{Kind: FetchNone}
	}
	s.orgQuery = query
	s.errMsg = ""
	s.page = DefaultRepoPage

	if query == "" {
		s.candidates = nil
		return FetchPlan{Kind: FetchNone}
	}

	s.loadingOrgs = true
	s.accountGen++
	return FetchPlan{Kind: FetchAccounts, Gen: s.accountGen, Query: query}
}

// SelectOrg commits an organization choice, clears the free-text query
// state behind the autocomplete, and plans the repository fetch.
func (s *Session) SelectOrg(login string) FetchPlan {
	s.selectedOrg = login
	s.orgQuery = ""
	s.candidates = nil
	s.errMsg = ""
	s.page = DefaultRepoPage
	return s.planRepoFetch()
}

// SetRepoQuery records the settled repo-name filter. Changing it resets the
// page to the default.
func (s *Session) SetRepoQuery(query string) FetchPlan {
	if query == s.repoQuery {
		return FetchPlan{Kind: FetchNone}
	}
	s.repoQuery = query
	s.page = DefaultRepoPage
	return s.planRepoFetch()
}

// SetIssueBounds records the settled issue-count range. Editing the bounds
// alone does NOT reset the page.
func (s *Session) SetIssueBounds(min, max *int) FetchPlan {
	if boundEq(min, s.minIssues) && boundEq(max, s.maxIssues) {
		return FetchPlan{Kind: FetchNone}
	}
	s.minIssues = min
	s.maxIssues = max
	return s.planRepoFetch()
}

func boundEq(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// SetPage moves to the given 0-based page and re-plans the repo fetch.
func (s *Session) SetPage(page int) FetchPlan {
	if page < 0 || page == s.page {
		return FetchPlan{Kind: FetchNone}
	}
	s.page = page
	return s.planRepoFetch()
}

// SetRepoType switches the listing type (all/owner/member) and re-plans.
func (s *Session) SetRepoType(t models.RepoType) FetchPlan {
	if !t.Valid() || t == s.repoType {
		return FetchPlan{Kind: FetchNone}
	}
	s.repoType = t
	s.page = DefaultRepoPage
	return s.planRepoFetch()
}

// Retry clears the error state, resets the page to the default, and
// re-plans the repository fetch.
func (s *Session) Retry() FetchPlan {
	s.errMsg = ""
	s.page = DefaultRepoPage
	return s.planRepoFetch()
}

// planRepoFetch decides between the plain listing and the scoped search.
// The validity gate runs first: an invalid bound relation surfaces a
// validation message and skips the fetch, leaving prior results in place.
func (s *Session) planRepoFetch() FetchPlan {
	if s.selectedOrg == "" {
		return FetchPlan{Kind: FetchNone}
	}

	if !s.BoundsValid() {
		s.validationMsg = "Min should be less than max"
		return FetchPlan{Kind: FetchNone}
	}
	s.validationMsg = ""
	s.errMsg = ""
	s.loadingRepos = true
	s.repoGen++

	if s.FiltersActive() {
		return FetchPlan{
			Kind:     FetchSearch,
			Gen:      s.repoGen,
			Login:    s.selectedOrg,
			Query:    s.repoQuery,
			Page:     s.page,
			PageSize: DefaultRepoLimit,
		}
	}

	// Plain listing: any previously filtered result set is stale now.
	s.filtered = nil
	return FetchPlan{
		Kind:     FetchListing,
		Gen:      s.repoGen,
		Login:    s.selectedOrg,
		Page:     s.page,
		PageSize: DefaultRepoLimit,
		Type:     s.repoType,
	}
}

// ApplyAccounts commits an account-search result. Results from superseded
// requests are dropped.
func (s *Session) ApplyAccounts(gen uint64, candidates []models.AccountCandidate, err error) {
	if gen != s.accountGen {
		return
	}
	s.loadingOrgs = false
	if err != nil {
		s.applyError(err)
		return
	}
	s.candidates = candidates
}

// ApplyListing commits an account-metadata + listing result. A 404 means
// the account has zero public repositories: total drops to 0 and no error
// is surfaced.
func (s *Session) ApplyListing(gen uint64, total int, records []models.RepositoryRecord, err error) {
	if gen != s.repoGen {
		return
	}
	s.loadingRepos = false
	if err != nil {
		if api.IsNotFound(err) {
			s.total = 0
			s.listing = nil
			return
		}
		s.applyError(err)
		return
	}
	s.total = total
	s.listing = records
	s.filtered = nil
}

// ApplySearch commits a scoped-search result. When an issue-count bound is
// active the fetched page is filtered client-side and the reported total
// becomes the filtered count for the current page only — the service can't
// filter by issue count server-side, so a true cross-page total isn't
// available on this path.
func (s *Session) ApplySearch(gen uint64, page models.RepositoryPage, err error) {
	if gen != s.repoGen {
		return
	}
	s.loadingRepos = false
	if err != nil {
		s.applyError(err)
		return
	}

	if s.RangeActive() {
		items := FilterByOpenIssues(page.Items, s.minIssues, s.maxIssues)
		s.filtered = &models.RepositoryPage{Items: items, TotalCount: len(items)}
		s.total = len(items)
		return
	}

	s.filtered = &page
	s.total = page.TotalCount
}

// applyError surfaces recognizable API errors to the banner and local
// argument errors as an inline validation message; anything else is held as
// a fatal fault for the caller to propagate, never swallowed.
func (s *Session) applyError(err error) {
	if ae, ok := api.AsAPIError(err); ok {
		s.errMsg = ae.Message
		return
	}
	if ve, ok := api.AsValidationError(err); ok {
		s.validationMsg = ve.Reason
		return
	}
	s.fatalErr = err
}

// FiltersActive reports whether any filter (name text or issue bound) is
// in effect, which switches the data source from listing to search.
func (s *Session) FiltersActive() bool {
	return s.repoQuery != "" || s.RangeActive()
}

// RangeActive reports whether an issue-count bound is in effect.
func (s *Session) RangeActive() bool {
	return boundSet(s.minIssues) || boundSet(s.maxIssues)
}

// BoundsValid reports whether the bound relation holds: with both bounds
// set, min must be strictly less than max.
func (s *Session) BoundsValid() bool {
	if s.minIssues == nil || s.maxIssues == nil {
		return true
	}
	return *s.minIssues < *s.maxIssues
}

// Rows returns the display dataset: the filtered page when filters are
// active and a result has arrived, otherwise the plain listing.
func (s *Session) Rows() []Row {
	if s.FiltersActive() && s.filtered != nil {
		return RepoRows(s.filtered.Items)
	}
	return RepoRows(s.listing)
}

// TotalLabel renders the result-count label for the current view.
func (s *Session) TotalLabel() string {
	var filtered *int
	if s.FiltersActive() && s.filtered != nil {
		count := s.filtered.TotalCount
		filtered = &count
	}
	return TotalLabel(s.total, filtered, s.RangeActive())
}

// MaxPage returns the number of the last reachable 0-based page.
func (s *Session) MaxPage() int {
	if s.total <= 0 {
		return 0
	}
	return (s.total - 1) / DefaultRepoLimit
}

func (s *Session) SelectedOrg() string                    { return s.selectedOrg }
func (s *Session) Page() int                              { return s.page }
func (s *Session) Total() int                             { return s.total }
func (s *Session) RepoType() models.RepoType              { return s.repoType }
func (s *Session) Candidates() []models.AccountCandidate  { return s.candidates }
func (s *Session) ErrorMessage() string                   { return s.errMsg }
func (s *Session) ValidationMessage() string              { return s.validationMsg }
func (s *Session) Fatal() error                           { return s.fatalErr }
func (s *Session) LoadingOrgs() bool                      { return s.loadingOrgs }
func (s *Session) LoadingRepos() bool                     { return s.loadingRepos }
