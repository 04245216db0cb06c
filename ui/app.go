// Package ui is the interactive ticket browser: a fuzzy-filtered list with
// a detail pane showing comments and logged time.
package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/sahilm/fuzzy"

	"github.com/teranth/ltm/db"
	"github.com/teranth/ltm/model"
)

type mode int

const (
	modeNormal mode = iota
	modeDetail
	modeDelete
)

type App struct {
	db       *db.DB
	tickets  []model.Ticket
	filtered []model.Ticket

	// UI state
	mode   mode
	cursor int
	width  int
	height int
	err    string
	status string

	// Search
	searchInput textinput.Model

	// Detail pane
	detail viewport.Model
}

func NewApp(database *db.DB) (*App, error) {
	tickets, err := database.ListTickets(db.ListFilter{})
	if err != nil {
		return nil, err
	}

	search := textinput.New()
	search.Placeholder = "Search tickets..."
	search.Focus()

	app := &App{
		db:          database,
		tickets:     tickets,
		filtered:    tickets,
		searchInput: search,
		detail:      viewport.New(80, 20),
	}

	return app, nil
}

func (a *App) Init() tea.Cmd {
	return textinput.Blink
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width - 4  // account for app padding
		a.height = msg.Height - 2 // account for app padding
		a.detail.Width = a.width - 4
		a.detail.Height = a.height - 8
		return a, nil

	case tea.KeyMsg:
		a.err = ""
		a.status = ""

		switch a.mode {
		case modeNormal:
			return a.updateNormal(msg)
		case modeDetail:
			return a.updateDetail(msg)
		case modeDelete:
			return a.updateDelete(msg)
		}
	}

	return a, nil
}

func (a *App) updateNormal(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return a, tea.Quit

	case "esc":
		if a.searchInput.Value() == "" {
			return a, tea.Quit
		}
		a.searchInput.SetValue("")
		a.filterTickets()

	case "up", "ctrl+p":
		if a.cursor > 0 {
			a.cursor--
		}

	case "down", "ctrl+n":
		if a.cursor < len(a.filtered)-1 {
			a.cursor++
		}

	case "enter":
		if len(a.filtered) > 0 {
			a.openDetail()
		}
		return a, nil

	case "ctrl+d":
		if len(a.filtered) > 0 {
			a.mode = modeDelete
		}
		return a, nil

	default:
		var cmd tea.Cmd
		a.searchInput, cmd = a.searchInput.Update(msg)
		a.filterTickets()
		return a, cmd
	}

	return a, nil
}

func (a *App) updateDetail(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return a, tea.Quit

	case "esc", "q":
		a.mode = modeNormal
		a.searchInput.Focus()
		return a, nil

	default:
		var cmd tea.Cmd
		a.detail, cmd = a.detail.Update(msg)
		return a, cmd
	}
}

func (a *App) updateDelete(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		if len(a.filtered) > 0 {
			t := a.filtered[a.cursor]
			if err := a.db.DeleteTicket(t.ID); err != nil {
				a.err = err.Error()
			} else {
				a.status = "Deleted!"
				a.refreshTickets()
				if a.cursor >= len(a.filtered) && a.cursor > 0 {
					a.cursor--
				}
			}
		}
		a.mode = modeNormal
		return a, nil

	case "n", "N", "esc":
		a.mode = modeNormal
		return a, nil
	}

	return a, nil
}

func (a *App) openDetail() {
	t := a.filtered[a.cursor]
	comments, err := a.db.Comments(t.ID)
	if err != nil {
		a.err = err.Error()
		return
	}
	logs, err := a.db.TimeLogs(t.ID)
	if err != nil {
		a.err = err.Error()
		return
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("#%d %s", t.ID, t.Name)))
	b.WriteString("\n\n")
	b.WriteString(labelStyle.Render("Project: ") + t.Project + "\n")
	b.WriteString(labelStyle.Render("Status:  ") + statusStyle(t.Status).Render(t.Status) + "\n")
	b.WriteString(labelStyle.Render("Created: ") + t.CreatedAt.Format("2006-01-02 15:04") + "\n")
	if t.Description != "" {
		b.WriteString("\n" + t.Description + "\n")
	}

	b.WriteString("\n" + labelStyle.Render(fmt.Sprintf("Comments (%d)", len(comments))) + "\n")
	for _, c := range comments {
		b.WriteString(mutedStyle.Render(c.CreatedAt.Format("2006-01-02")) + "  " + c.Content + "\n")
	}

	total := 0
	for _, l := range logs {
		total += l.Hours*60 + l.Minutes
	}
	b.WriteString("\n" + labelStyle.Render(fmt.Sprintf("Time logged: %dh %dm (%d entries)", total/60, total%60, len(logs))) + "\n")
	for _, l := range logs {
		b.WriteString(mutedStyle.Render(fmt.Sprintf("  %s  %dh %dm\n", l.CreatedAt.Format("2006-01-02"), l.Hours, l.Minutes)))
	}

	a.detail.SetContent(b.String())
	a.detail.GotoTop()
	a.mode = modeDetail
}

func (a *App) refreshTickets() {
	tickets, err := a.db.ListTickets(db.ListFilter{})
	if err != nil {
		a.err = err.Error()
		return
	}
	a.tickets = tickets
	a.filterTickets()
}

func (a *App) filterTickets() {
	query := a.searchInput.Value()
	if query == "" {
		a.filtered = a.tickets
		return
	}

	// Build searchable strings
	var targets []string
	for _, t := range a.tickets {
		targets = append(targets, fmt.Sprintf("#%d %s %s", t.ID, t.Project, t.Name))
	}

	matches := fuzzy.Find(query, targets)
	a.filtered = make([]model.Ticket, len(matches))
	for i, m := range matches {
		a.filtered[i] = a.tickets[m.Index]
	}

	if a.cursor >= len(a.filtered) {
		a.cursor = max(0, len(a.filtered)-1)
	}
}

func (a *App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	var b strings.Builder

	// Title
	b.WriteString(titleStyle.Render("ltm"))
	b.WriteString("\n\n")

	if a.mode == modeDetail {
		b.WriteString(borderStyle.Width(a.width - 4).Render(a.detail.View()))
		b.WriteString("\n")
		b.WriteString(helpKeyStyle.Render("esc") + " " + helpStyle.Render("back"))
		return appStyle.Render(b.String())
	}

	// Search bar
	b.WriteString(a.searchInput.View())
	b.WriteString("\n\n")

	listHeight := a.height - 10
	if listHeight < 3 {
		listHeight = 3
	}
	b.WriteString(a.renderList(listHeight))

	// Delete confirmation
	if a.mode == modeDelete && len(a.filtered) > 0 {
		t := a.filtered[a.cursor]
		b.WriteString("\n")
		b.WriteString(warningStyle.Render(fmt.Sprintf("Delete ticket #%d '%s'? (y/n)", t.ID, t.Name)))
		b.WriteString("\n")
	}

	// Status/error
	if a.err != "" {
		b.WriteString(errorStyle.Render("Error: " + a.err))
		b.WriteString("\n")
	}
	if a.status != "" {
		b.WriteString(successStyle.Render(a.status))
		b.WriteString("\n")
	}

	// Help bar
	b.WriteString(a.renderHelp())

	return appStyle.Render(b.String())
}

func (a *App) renderList(height int) string {
	if len(a.filtered) == 0 {
		return mutedStyle.Render("No tickets found.\n")
	}

	var lines []string
	start := 0
	if a.cursor >= height {
		start = a.cursor - height + 1
	}

	end := start + height
	if end > len(a.filtered) {
		end = len(a.filtered)
	}

	for i := start; i < end; i++ {
		t := a.filtered[i]
		prefix := "  "
		style := normalStyle
		if i == a.cursor {
			prefix = "▸ "
			style = selectedStyle
		}

		name := style.Render(fmt.Sprintf("%s#%d %s", prefix, t.ID, truncate(t.Name, a.width-14)))
		preview := previewStyle.Render("  " + t.Project + " · ") + statusStyle(t.Status).Render(t.Status)
		lines = append(lines, name, preview)
	}

	return strings.Join(lines, "\n") + "\n"
}

func (a *App) renderHelp() string {
	if a.mode != modeNormal {
		return ""
	}

	keys := []struct{ key, desc string }{
		{"enter", "details"},
		{"ctrl+d", "delete"},
		{"esc", "quit"},
	}

	var parts []string
	for _, k := range keys {
		parts = append(parts, helpKeyStyle.Render(k.key)+" "+helpStyle.Render(k.desc))
	}

	return strings.Join(parts, "  ")
}

func truncate(s string, max int) string {
	if max < 4 || len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
