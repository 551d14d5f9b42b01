package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/goliatone/go-portfolio/internal/gallery"
)

type styles struct {
	title     lipgloss.Style
	tab       lipgloss.Style
	activeTab lipgloss.Style
	cursor    lipgloss.Style
	muted     lipgloss.Style
	errorText lipgloss.Style
	lightbox  lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		title:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")),
		tab:       lipgloss.NewStyle().Padding(0, 1).Foreground(lipgloss.Color("245")),
		activeTab: lipgloss.NewStyle().Padding(0, 1).Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("205")),
		cursor:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")),
		muted:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		errorText: lipgloss.NewStyle().Foreground(lipgloss.Color("196")),
		lightbox:  lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("205")).Padding(1, 2),
	}
}

// View implements tea.Model.
func (m *Model) View() string {
	state := m.view.Snapshot()
	sections := []string{m.styles.title.Render("Portfolio")}

	switch state.Status {
	case gallery.StatusPending:
		sections = append(sections, m.styles.muted.Render("Loading portfolio..."))
		return strings.Join(sections, "\n\n")
	case gallery.StatusFailed:
		sections = append(sections,
			m.styles.errorText.Render(state.Error),
			m.styles.muted.Render("press r to retry"),
		)
	}

	sections = append(sections, m.renderFilters(state))
	if state.Lightbox.Open {
		sections = append(sections, m.renderLightbox(state.Lightbox))
	} else {
		sections = append(sections, m.renderGrid(state))
	}
	sections = append(sections, m.help.View(m.keys))
	return strings.Join(sections, "\n\n")
}

func (m *Model) renderFilters(state gallery.RenderState) string {
	tabs := make([]string, 0, len(state.Filters))
	for _, filter := range state.Filters {
		if filter == state.ActiveFilter {
			tabs = append(tabs, m.styles.activeTab.Render(filter))
			continue
		}
		tabs = append(tabs, m.styles.tab.Render(filter))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m *Model) renderGrid(state gallery.RenderState) string {
	var b strings.Builder
	if len(state.Items) == 0 {
		b.WriteString(m.styles.muted.Render("No items in this category."))
	}
	for i, item := range state.Items {
		marker := "  "
		title := item.Title
		if i == m.cursor {
			marker = m.styles.cursor.Render("> ")
			title = m.styles.cursor.Render(title)
		}
		fmt.Fprintf(&b, "%s%s", marker, title)
		if item.Category != "" {
			fmt.Fprintf(&b, "  %s", m.styles.muted.Render(item.Category))
		}
		b.WriteString("\n")
	}
	b.WriteString(m.styles.muted.Render(fmt.Sprintf("Page %d/%d - %d items", state.Page, state.TotalPages, state.FilteredCount)))
	return b.String()
}

func (m *Model) renderLightbox(box gallery.LightboxState) string {
	lines := []string{}
	if box.Item != nil {
		lines = append(lines, m.styles.title.Render(box.Item.Title))
		if box.Item.Category != "" {
			lines = append(lines, m.styles.muted.Render(box.Item.Category))
		}
		if box.Item.Description != "" {
			lines = append(lines, "", box.Item.Description)
		}
	}
	lines = append(lines, "")
	switch {
	case box.Unavailable:
		lines = append(lines, m.styles.errorText.Render("Image unavailable"))
	case box.Loaded:
		lines = append(lines, box.ImageURL)
	default:
		lines = append(lines, box.ImageURL+" "+m.styles.muted.Render("(loading)"))
	}
	lines = append(lines, "", m.styles.muted.Render(fmt.Sprintf("%d / %d", box.Index+1, box.Count)))
	return m.styles.lightbox.Render(strings.Join(lines, "\n"))
}
