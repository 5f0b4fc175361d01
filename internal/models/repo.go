package models

// AccountCandidate is a single match from an account search, presented as a
// selectable option in the organization autocomplete.
type AccountCandidate struct {
	Login string `json:"login"`
}

// Account holds the public metadata for a resolved account.
type Account struct {
	Login       string `json:"login"`
	PublicRepos int    `json:"public_repos"`
}

// RepositoryRecord is the metadata for one repository. Identity is ID;
// records are immutable once fetched for a given page.
type RepositoryRecord struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	OpenIssuesCount int    `json:"open_issues_count"`
	StargazersCount int    `json:"stargazers_count"`
}

// RepositoryPage is one page of repository records plus the total count
// reported by the service for the whole result set.
type RepositoryPage struct {
	Items      []RepositoryRecord `json:"items"`
	TotalCount int                `json:"total_count"`
}

// RepoType selects which repositories a listing returns.
type RepoType string

const (
	RepoTypeAll    RepoType = "all"
	RepoTypeOwner  RepoType = "owner"
	RepoTypeMember RepoType = "member"
)

// Valid reports whether t is one of the three recognized listing types.
func (t RepoType) Valid() bool {
	switch t {
	case RepoTypeAll, RepoTypeOwner, RepoTypeMember:
		return true
	}
	return false
}

// Next cycles to the following listing type, wrapping after member.
func (t RepoType) Next() RepoType {
	switch t {
	case RepoTypeAll:
		return RepoTypeOwner
	case RepoTypeOwner:
		return RepoTypeMember
	default:
		return RepoTypeAll
	}
}
