package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Cyber-Donchichi/Fhg-scoutier/internal/engine"
	"github.com/Cyber-Donchichi/Fhg-scoutier/internal/model"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			Padding(0, 1)

	statusBarStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Background(lipgloss.Color("236")).
			Padding(0, 1)

	selectedStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("62")).
			Foreground(lipgloss.Color("230")).
			Padding(0, 1)

	unvisitedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")).
			Bold(true)

	visitedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	urlStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("33"))

	tagStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("220"))

	searchStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("236")).
			Foreground(lipgloss.Color("230")).
			Padding(0, 1)

	progressStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))
)

func (m appModel) renderHeader() string {
	filterText := "All"
	switch m.filter.Visited {
	case engine.UnvisitedOnly:
		filterText = "Unvisited"
	case engine.VisitedOnly:
		filterText = "Visited"
	}

	tagText := ""
	if m.filter.Tag != "" {
		tagText = fmt.Sprintf("  [Tag: %s]", m.filter.Tag)
	}

	visited, total := m.engine.Stats()
	pct := 0
	if total > 0 {
		pct = visited * 100 / total
	}

	header := fmt.Sprintf("scoutier  [Filter: %s]%s  [%d links]", filterText, tagText, len(m.visible))
	progress := progressStyle.Render(fmt.Sprintf("%d / %d visited · %d%% completed", visited, total, pct))
	return headerStyle.Render(header) + "  " + progress
}

func (m appModel) renderSearchBar() string {
	prompt := fmt.Sprintf("/%s", m.filter.Text)
	return searchStyle.Width(m.width - 2).Render(prompt)
}

func (m appModel) renderList() string {
	if m.confirmClear {
		return m.renderClearConfirmation()
	}

	if len(m.visible) == 0 {
		return "No links found. Add some with 'scoutier add <url>' or press 'q' to quit."
	}

	links := m.engine.Links()
	current := m.engine.CurrentIndex()

	var b strings.Builder
	listHeight := m.height - 6
	for pos, index := range m.visible {
		if pos >= listHeight {
			break
		}
		line := m.renderLink(&links[index], index == current, pos == m.selected)
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

func (m appModel) renderLink(link *model.Link, current, selected bool) string {
	statusIcon := "○"
	statusColor := unvisitedStyle
	if link.Visited {
		statusIcon = "●"
		statusColor = visitedStyle
	}

	title := link.DisplayTitle()
	if len(title) > 60 {
		title = title[:57] + "..."
	}

	tagsStr := ""
	if len(link.Tags) > 0 {
		tagsStr = fmt.Sprintf(" [%s]", strings.Join(link.Tags, ","))
	}

	marker := " "
	if current {
		marker = "▸"
	}

	line := fmt.Sprintf("%s%s %s %s%s",
		marker,
		statusColor.Render(statusIcon),
		title,
		urlStyle.Render(link.URL),
		tagStyle.Render(tagsStr),
	)

	if selected {
		return selectedStyle.Render(line)
	}
	return " " + line
}

func (m appModel) renderStatusBar() string {
	var parts []string

	if m.statusMsg != "" {
		parts = append(parts, m.statusMsg)
	} else {
		parts = append(parts, fmt.Sprintf("%d/%d", m.selected+1, len(m.visible)))
	}

	parts = append(parts, "[enter]open [n]ext [p]rev [v]isit [r]efresh [tab]filter [t]ag [/]search [D]elete-all [q]uit")

	return statusBarStyle.Width(m.width).Render(strings.Join(parts, "  |  "))
}

func (m appModel) renderClearConfirmation() string {
	_, total := m.engine.Stats()
	confirmText := fmt.Sprintf("Delete ALL %d links?\n\n[y]es / [n]o", total)
	return selectedStyle.Width(m.width - 4).Padding(1, 2).Render(confirmText)
}
