package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/montanaflynn/stats"
)

// View implements tea.Model
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(ViewHeader("orgscope - GitHub organization repositories", m.layout.InnerWidth))
	b.WriteString("\n")

	b.WriteString(m.renderSearchRow())
	b.WriteString(m.renderCandidates())

	if m.session.SelectedOrg() != "" && m.session.ErrorMessage() == "" {
		b.WriteString("\n")
		b.WriteString(m.renderFilterRow())
		b.WriteString("\n")
		b.WriteString(m.renderResults())
	}

	if msg := m.session.ErrorMessage(); msg != "" {
		b.WriteString("\n")
		b.WriteString(ErrorStyle.Render(msg))
		b.WriteString("\n")
		b.WriteString(HelpStyle.Render("ctrl+r: try again"))
		b.WriteString("\n")
	}

	content := BorderedBox(m.layout).Render(b.String())
	help := HelpStyle.Render(m.helpText())
	return content + "\n" + help + "\n"
}

func (m Model) renderSearchRow() string {
	var b strings.Builder
	b.WriteString(LabelStyle.Render("Organization"))
	b.WriteString("\n")
	b.WriteString(m.inputs[fieldOrg].View())
	if m.session.LoadingOrgs() {
		b.WriteString(" ")
		b.WriteString(m.spinner.View())
	}
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderCandidates() string {
	candidates := m.session.Candidates()
	if len(candidates) == 0 || m.session.SelectedOrg() != "" {
		return ""
	}

	var b strings.Builder
	for i, c := range candidates {
		if i >= maxVisibleCandidates {
			b.WriteString(DimStyle.Render(fmt.Sprintf("  … %d more", len(candidates)-i)))
			b.WriteString("\n")
			break
		}
		line := "  " + c.Login
		if i == m.candidateCursor {
			line = SelectedStyle.Render("> " + c.Login)
		} else {
			line = NormalStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) renderFilterRow() string {
	name := lipgloss.JoinVertical(lipgloss.Left,
		LabelStyle.Render("Find a repository"),
		m.inputs[fieldRepoQuery].View(),
	)
	min := lipgloss.JoinVertical(lipgloss.Left,
		LabelStyle.Render("Min open issues"),
		m.inputs[fieldMin].View(),
	)
	max := lipgloss.JoinVertical(lipgloss.Left,
		LabelStyle.Render("Max open issues"),
		m.inputs[fieldMax].View(),
	)

	row := lipgloss.JoinHorizontal(lipgloss.Top, name, "   ", min, "   ", max)
	if msg := m.session.ValidationMessage(); msg != "" {
		row += "\n" + ValidationStyle.Render(msg)
	}
	return row + "\n"
}

func (m Model) renderResults() string {
	var b strings.Builder

	label := m.session.TotalLabel()
	page := fmt.Sprintf("Page %d/%d", m.session.Page()+1, m.session.MaxPage()+1)
	gap := m.layout.InnerWidth - lipgloss.Width(label) - lipgloss.Width(page)
	if gap < 1 {
		gap = 1
	}
	b.WriteString(AccentStyle.Render(label))
	b.WriteString(strings.Repeat(" ", gap))
	b.WriteString(DimStyle.Render(page))
	if m.session.LoadingRepos() {
		b.WriteString(" ")
		b.WriteString(m.spinner.View())
	}
	b.WriteString("\n")

	b.WriteString(m.table.View())
	b.WriteString("\n")

	if line := m.pageStatsLine(); line != "" {
		b.WriteString(DimStyle.Render(line))
		b.WriteString("\n")
	}
	return b.String()
}

// pageStatsLine summarizes the open-issue counts on the visible page.
func (m Model) pageStatsLine() string {
	rows := m.session.Rows()
	if len(rows) == 0 {
		return ""
	}

	counts := make([]float64, 0, len(rows))
	for _, r := range rows {
		counts = append(counts, float64(r.OpenIssues))
	}

	mean, err := stats.Mean(counts)
	if err != nil {
		return ""
	}
	median, err := stats.Median(counts)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("open issues on page: mean %.1f, median %.0f", mean, median)
}

func (m Model) helpText() string {
	if m.session.SelectedOrg() == "" {
		return "type to search | up/down: choose | enter: select | esc: quit"
	}
	return fmt.Sprintf(
		"tab: next field | pgup/pgdn: page | ctrl+t: type (%s) | ctrl+r: retry | esc: quit",
		m.session.RepoType(),
	)
}
