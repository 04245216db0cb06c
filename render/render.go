// Package render turns one command result, or one error, into either a
// human-readable report or a JSON document. Both forms come from the same
// value so they cannot diverge.
package render

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/teranth/ltm/model"
)

type Renderer struct {
	Out    io.Writer
	Err    io.Writer
	JSON   bool
	Pretty bool
	color  bool
}

// New builds a renderer for the process's real output surface. Color is
// suppressed when NO_COLOR is set.
func New(out, errOut io.Writer) *Renderer {
	_, noColor := os.LookupEnv("NO_COLOR")
	return &Renderer{Out: out, Err: errOut, color: !noColor}
}

// jsonEnvelope is the stable success shape for the structured channel.
type jsonEnvelope struct {
	OK      bool   `json:"ok"`
	Op      string `json:"op"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// jsonError is the stable error shape for the structured channel.
type jsonError struct {
	Error       bool           `json:"error"`
	Code        string         `json:"code"`
	Message     string         `json:"message"`
	Details     map[string]any `json:"details,omitempty"`
	Suggestions []string       `json:"suggestions,omitempty"`
}

func (r *Renderer) Result(res Result) {
	if r.JSON {
		r.writeJSON(r.Out, jsonEnvelope{OK: true, Op: res.Op, Message: res.Message, Data: res.Payload})
		return
	}

	if res.Notice != "" {
		fmt.Fprintln(r.Out, r.paint(warningStyle, "⚠️  "+res.Notice))
	}
	r.writeText(res)
}

// Failure reports an error on the channel the invocation asked for. JSON
// errors go to stdout like the Rust original; text errors go to stderr.
func (r *Renderer) Failure(err error) {
	if r.JSON {
		r.writeJSON(r.Out, errorEnvelope(err))
		return
	}

	fmt.Fprintln(r.Err, r.paint(errorStyle, "❌ Error: "+errorMessage(err)))
	if s := errorSuggestions(err); len(s) > 0 {
		fmt.Fprintln(r.Err, r.paint(mutedStyle, "🤔 Did you mean: "+strings.Join(s, ", ")))
	}
	if a, ok := err.(*model.AmbiguousTargetError); ok {
		for _, id := range a.Candidates {
			fmt.Fprintf(r.Err, "  • ticket %d\n", id)
		}
	}
}

func errorEnvelope(err error) jsonError {
	out := jsonError{
		Error:       true,
		Code:        model.ErrorCode(err),
		Message:     errorMessage(err),
		Suggestions: errorSuggestions(err),
	}
	switch e := err.(type) {
	case *model.ValidationError:
		out.Details = map[string]any{"field": e.Field, "value": e.Value}
	case *model.NotFoundError:
		out.Details = map[string]any{"entity": e.Entity, "id": e.Key}
	case *model.ConflictError:
		out.Details = map[string]any{"reason": e.Reason}
	case *model.AmbiguousTargetError:
		out.Details = map[string]any{"candidates": e.Candidates}
	case *model.UnknownCommandError:
		out.Details = map[string]any{"input": e.Input}
	}
	return out
}

func errorMessage(err error) string {
	return err.Error()
}

func errorSuggestions(err error) []string {
	switch e := err.(type) {
	case *model.ValidationError:
		return e.Suggestions
	case *model.NotFoundError:
		return e.Suggestions
	case *model.UnknownCommandError:
		return e.Suggestions
	}
	return nil
}

func (r *Renderer) writeJSON(w io.Writer, v any) {
	enc := json.NewEncoder(w)
	if r.Pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(v); err != nil {
		fmt.Fprintln(r.Err, "❌ Error: encoding output:", err)
	}
}

func (r *Renderer) writeText(res Result) {
	switch p := res.Payload.(type) {
	case TicketList:
		r.ticketTable(p)
	case TicketDetails:
		r.ticketDetails(p)
	case ProjectList:
		if len(p.Projects) == 0 {
			fmt.Fprintln(r.Out, "ℹ️  No projects found")
			return
		}
		fmt.Fprintln(r.Out, r.paint(titleStyle, "📁 Projects:"))
		for _, name := range p.Projects {
			fmt.Fprintf(r.Out, "  • %s\n", name)
		}
	case model.ProjectSummary:
		fmt.Fprintln(r.Out, r.paint(titleStyle, fmt.Sprintf("📊 Project Summary for '%s':", p.Project)))
		fmt.Fprintf(r.Out, "   📋 Total Tickets: %d\n", p.TotalTickets)
		fmt.Fprintf(r.Out, "   🟢 Open Tickets: %d\n", p.OpenTickets)
		fmt.Fprintf(r.Out, "   🔴 Closed Tickets: %d\n", p.ClosedTickets)
		fmt.Fprintf(r.Out, "   ⏱️  Total Time: %.2f hours\n", p.TotalTimeHours)
	case CommentList:
		if len(p.Comments) == 0 {
			fmt.Fprintf(r.Out, "ℹ️  No comments found for ticket %d\n", p.TicketID)
			return
		}
		fmt.Fprintln(r.Out, r.paint(titleStyle, fmt.Sprintf("💬 Comments for ticket %d:", p.TicketID)))
		for i, c := range p.Comments {
			fmt.Fprintf(r.Out, "  %d. %s - %s\n", i+1, c.CreatedAt.Format("2006-01-02 15:04"), c.Content)
		}
	case model.Comment:
		fmt.Fprintf(r.Out, "💬 Comment #%d (ticket %d at %s):\n%s\n",
			p.ID, p.TicketID, p.CreatedAt.Format("2006-01-02 15:04"), p.Content)
	case TimeLogList:
		if len(p.Logs) == 0 {
			fmt.Fprintf(r.Out, "ℹ️  No time logs for ticket %d\n", p.TicketID)
			return
		}
		fmt.Fprintln(r.Out, r.paint(titleStyle, fmt.Sprintf("⏱️  Time logs for ticket %d:", p.TicketID)))
		for _, l := range p.Logs {
			span := ""
			if l.StartedAt != nil && l.EndedAt != nil {
				span = fmt.Sprintf(" (%s → %s)",
					l.StartedAt.Format("2006-01-02 15:04"), l.EndedAt.Format("2006-01-02 15:04"))
			}
			fmt.Fprintf(r.Out, "  • #%d: %dh %dm%s\n", l.ID, l.Hours, l.Minutes, span)
		}
	case TimeSummary:
		fmt.Fprintf(r.Out, "⏱️  Time summary for ticket %d: %dh %dm (%d logs)\n",
			p.TicketID, p.Hours, p.Minutes, p.Entries)
	case TimerList:
		if len(p.Timers) == 0 {
			fmt.Fprintln(r.Out, "ℹ️  No active timers")
			return
		}
		fmt.Fprintln(r.Out, r.paint(titleStyle, "⏱️  Active Timers:"))
		for _, t := range p.Timers {
			state := "▶️  RUNNING"
			if t.State == "paused" {
				state = "⏸️  PAUSED"
			}
			label := fmt.Sprintf("Ticket %d", t.TicketID)
			if t.Name != "" {
				label = fmt.Sprintf("Ticket %d ('%s')", t.TicketID, t.Name)
			}
			fmt.Fprintf(r.Out, "  • %s: %dh %dm - %s\n", label, t.Hours, t.Minutes, state)
		}
	}

	if res.Message != "" {
		r.success(res.Message)
	}
}

func (r *Renderer) ticketTable(list TicketList) {
	if len(list.Tickets) == 0 {
		fmt.Fprintln(r.Out, "📊 No tickets found")
		return
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		Headers("ID", "Project", "Name", "Status", "Updated")
	if r.color {
		t = t.BorderStyle(borderStyle)
	}
	for _, tk := range list.Tickets {
		t.Row(
			strconv.FormatInt(tk.ID, 10),
			truncate(tk.Project, 15),
			truncate(tk.Name, 25),
			r.statusCell(tk.Status),
			tk.UpdatedAt.Format("2006-01-02"),
		)
	}
	fmt.Fprintln(r.Out, t.Render())
	fmt.Fprintf(r.Out, "📊 %d tickets (%d open, %d closed)\n",
		list.Summary.TotalTickets, list.Summary.OpenTickets, list.Summary.ClosedTickets)
}

func (r *Renderer) ticketDetails(d TicketDetails) {
	t := d.Ticket
	fmt.Fprintln(r.Out, r.paint(titleStyle, fmt.Sprintf("📋 Ticket #%d: %s", t.ID, t.Name)))
	fmt.Fprintf(r.Out, "   🏷️  Project: %s\n", t.Project)
	fmt.Fprintf(r.Out, "   📊 Status: %s\n", r.statusCell(t.Status))
	fmt.Fprintf(r.Out, "   📅 Created: %s\n", t.CreatedAt.Format("2006-01-02 15:04"))
	if t.Description != "" {
		description := t.Description
		if !d.Full {
			description = truncate(description, 200)
		}
		fmt.Fprintf(r.Out, "   %s\n", r.paint(mutedStyle, description))
	}

	fmt.Fprintf(r.Out, "   💬 Comments: %d\n", len(d.Comments))
	for _, c := range d.Comments {
		fmt.Fprintf(r.Out, "      • %s - %s\n", c.CreatedAt.Format("2006-01-02"), c.Content)
	}

	totalMinutes := 0
	for _, l := range d.TimeLogs {
		totalMinutes += l.Hours*60 + l.Minutes
	}
	fmt.Fprintf(r.Out, "   ⏱️  Time logged: %dh %dm (%d entries)\n",
		totalMinutes/60, totalMinutes%60, len(d.TimeLogs))
}

func (r *Renderer) statusCell(status string) string {
	text := statusSymbol(status) + " " + status
	if !r.color {
		return text
	}
	if style, ok := statusStyles[strings.ToLower(status)]; ok {
		return style.Render(text)
	}
	return text
}

func (r *Renderer) success(msg string) {
	fmt.Fprintln(r.Out, r.paint(successStyle, "✅ "+msg))
}

func (r *Renderer) paint(style lipgloss.Style, s string) string {
	if !r.color {
		return s
	}
	return style.Render(s)
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-3]) + "..."
}
