// Package ui renders the orgscope TUI: an organization autocomplete, a
// repo-name filter, a min/max open-issue range, and a paginated results
// table. All session state lives in search.Session; this model routes user
// events into it and executes the fetch plans it returns.
package ui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/orgscope/orgscope/internal/api"
	"github.com/orgscope/orgscope/internal/search"
)

type inputField int

const (
	fieldOrg inputField = iota
	fieldRepoQuery
	fieldMin
	fieldMax
	fieldCount
)

// maxVisibleCandidates limits the autocomplete dropdown height.
const maxVisibleCandidates = 5

// Model is the top-level TUI model.
type Model struct {
	client  api.Lookup
	session *search.Session
	layout  Layout

	inputs  [fieldCount]textinput.Model
	seqs    [fieldCount]int // debounce sequence per input
	focus   inputField
	table   table.Model
	spinner spinner.Model

	candidateCursor int
	fatalErr        error
	quitting        bool
}

// NewModel creates the TUI model around a lookup client.
func NewModel(client api.Lookup) Model {
	layout := DefaultLayout()

	org := textinput.New()
	org.Placeholder = "Please start typing organization name"
	org.CharLimit = 100
	org.Focus()

	repo := textinput.New()
	repo.Placeholder = "Filter by name"
	repo.CharLimit = 100

	min := textinput.New()
	min.Placeholder = "Minimum"
	min.CharLimit = 9
	min.Validate = digitsOnly

	max := textinput.New()
	max.Placeholder = "Maximum"
	max.CharLimit = 9
	max.Validate = digitsOnly

	t := table.New(
		table.WithColumns(tableColumns(layout)),
		table.WithRows(nil),
		table.WithHeight(layout.TableHeight),
	)
	ApplyTableStyles(&t)

	m := Model{
		client:  client,
		session: search.NewSession(),
		layout:  layout,
		table:   t,
		spinner: NewAppSpinner(),
	}
	m.inputs[fieldOrg] = org
	m.inputs[fieldRepoQuery] = repo
	m.inputs[fieldMin] = min
	m.inputs[fieldMax] = max
	m.applyLayout()
	return m
}

// FatalErr returns the unexpected failure that terminated the session, if
// any. The caller surfaces it as a hard fault after the program exits.
func (m Model) FatalErr() error {
	return m.fatalErr
}

func digitsOnly(s string) error {
	for _, r := range s {
		if r < '0' || r > '9' {
			return fmt.Errorf("digits only")
		}
	}
	return nil
}

func tableColumns(layout Layout) []table.Column {
	usable := layout.InnerWidth - 6 // column separators
	return []table.Column{
		{Title: "Name", Width: usable / 2},
		{Title: "Open issues count", Width: usable / 4},
		{Title: "Stars", Width: usable - usable/2 - usable/4},
	}
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = NewLayout(msg.Width, msg.Height)
		m.applyLayout()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case debounceMsg:
		return m.handleDebounce(msg)

	case accountsMsg:
		m.session.ApplyAccounts(msg.gen, msg.candidates, msg.err)
		if m.candidateCursor >= len(m.session.Candidates()) {
			m.candidateCursor = 0
		}
		return m.afterApply()

	case listingMsg:
		m.session.ApplyListing(msg.gen, msg.total, msg.records, msg.err)
		m.refreshTable()
		return m.afterApply()

	case searchResultMsg:
		m.session.ApplySearch(msg.gen, msg.page, msg.err)
		m.refreshTable()
		return m.afterApply()

	case tea.KeyMsg:
		return m.handleKeys(msg)
	}

	return m, nil
}

func (m *Model) applyLayout() {
	m.table.SetColumns(tableColumns(m.layout))
	m.table.SetWidth(m.layout.InnerWidth)
	m.table.SetHeight(m.layout.TableHeight)
	m.inputs[fieldOrg].Width = m.layout.InnerWidth - 20
	m.inputs[fieldRepoQuery].Width = m.layout.InnerWidth/2 - 10
	m.inputs[fieldMin].Width = 12
	m.inputs[fieldMax].Width = 12
}

func (m Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		m.quitting = true
		return m, tea.Quit

	case "tab":
		m.cycleFocus(1)
		return m, nil

	case "shift+tab":
		m.cycleFocus(-1)
		return m, nil

	case "up":
		if m.focus == fieldOrg && len(m.session.Candidates()) > 0 {
			if m.candidateCursor > 0 {
				m.candidateCursor--
			}
			return m, nil
		}
		m.table.MoveUp(1)
		return m, nil

	case "down":
		if m.focus == fieldOrg && len(m.session.Candidates()) > 0 {
			if m.candidateCursor < len(m.session.Candidates())-1 {
				m.candidateCursor++
			}
			return m, nil
		}
		m.table.MoveDown(1)
		return m, nil

	case "enter":
		if m.focus == fieldOrg && len(m.session.Candidates()) > 0 {
			return m.selectCandidate()
		}
		return m, nil

	case "pgdown":
		if m.session.Page() < m.session.MaxPage() {
			plan := m.session.SetPage(m.session.Page() + 1)
			return m, m.runPlan(plan)
		}
		return m, nil

	case "pgup":
		if m.session.Page() > search.DefaultRepoPage {
			plan := m.session.SetPage(m.session.Page() - 1)
			return m, m.runPlan(plan)
		}
		return m, nil

	case "ctrl+r":
		plan := m.session.Retry()
		return m, m.runPlan(plan)

	case "ctrl+t":
		plan := m.session.SetRepoType(m.session.RepoType().Next())
		return m, m.runPlan(plan)
	}

	return m.updateFocusedInput(msg)
}

// updateFocusedInput routes a key into the focused text input and, when the
// value actually changed, restarts that input's debounce timer.
func (m Model) updateFocusedInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	prev := m.inputs[m.focus].Value()

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)

	if m.inputs[m.focus].Value() != prev {
		if m.focus == fieldOrg {
			// Editing the search box invalidates the current selection
			m.session.InvalidateSelection()
			m.candidateCursor = 0
		}
		m.seqs[m.focus]++
		return m, tea.Batch(cmd, debounceTick(m.focus, m.seqs[m.focus]))
	}
	return m, cmd
}

func (m Model) handleDebounce(msg debounceMsg) (tea.Model, tea.Cmd) {
	if msg.seq != m.seqs[msg.field] {
		// The user kept typing; a newer timer is pending
		return m, nil
	}

	switch msg.field {
	case fieldOrg:
		plan := m.session.SetOrgQuery(strings.TrimSpace(m.inputs[fieldOrg].Value()))
		return m, m.runPlan(plan)

	case fieldRepoQuery:
		plan := m.session.SetRepoQuery(strings.TrimSpace(m.inputs[fieldRepoQuery].Value()))
		return m, m.runPlan(plan)

	case fieldMin, fieldMax:
		plan := m.session.SetIssueBounds(
			parseBound(m.inputs[fieldMin].Value()),
			parseBound(m.inputs[fieldMax].Value()),
		)
		return m, m.runPlan(plan)
	}
	return m, nil
}

func (m Model) selectCandidate() (tea.Model, tea.Cmd) {
	candidates := m.session.Candidates()
	if m.candidateCursor >= len(candidates) {
		return m, nil
	}
	login := candidates[m.candidateCursor].Login

	plan := m.session.SelectOrg(login)

	// Programmatic value change; invalidate any pending debounce timer
	m.inputs[fieldOrg].SetValue(login)
	m.inputs[fieldOrg].CursorEnd()
	m.seqs[fieldOrg]++

	m.setFocus(fieldRepoQuery)
	return m, m.runPlan(plan)
}

func (m *Model) cycleFocus(dir int) {
	fields := m.visibleFields()
	idx := 0
	for i, f := range fields {
		if f == m.focus {
			idx = i
			break
		}
	}
	idx = (idx + dir + len(fields)) % len(fields)
	m.setFocus(fields[idx])
}

func (m *Model) visibleFields() []inputField {
	if m.session.SelectedOrg() == "" {
		return []inputField{fieldOrg}
	}
	return []inputField{fieldOrg, fieldRepoQuery, fieldMin, fieldMax}
}

func (m *Model) setFocus(f inputField) {
	for i := range m.inputs {
		m.inputs[i].Blur()
	}
	m.focus = f
	m.inputs[f].Focus()
}

func (m Model) afterApply() (tea.Model, tea.Cmd) {
	if err := m.session.Fatal(); err != nil {
		m.fatalErr = err
		m.quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m *Model) refreshTable() {
	rows := m.session.Rows()
	tableRows := make([]table.Row, 0, len(rows))
	for _, r := range rows {
		tableRows = append(tableRows, table.Row{
			r.Name,
			strconv.Itoa(r.OpenIssues),
			strconv.Itoa(r.Stars),
		})
	}
	m.table.SetRows(tableRows)
	m.table.SetCursor(0)
}

func parseBound(s string) *int {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil
	}
	return &n
}
