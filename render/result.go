package render

import "github.com/teranth/ltm/model"

// Result is the single value both output modes derive from. Notice is a
// deprecation warning for the text surface only; it never enters the
// structured payload.
type Result struct {
	Op      string
	Notice  string
	Message string
	Payload any
}

type ListSummary struct {
	TotalTickets  int `json:"total_tickets"`
	OpenTickets   int `json:"open_tickets"`
	ClosedTickets int `json:"closed_tickets"`
}

type TicketList struct {
	Tickets       []model.Ticket `json:"tickets"`
	Summary       ListSummary    `json:"summary"`
	ProjectFilter string         `json:"project_filter,omitempty"`
}

// NewTicketList derives the open/closed summary the same way for both
// output modes.
func NewTicketList(tickets []model.Ticket, projectFilter string) TicketList {
	closed := 0
	for _, t := range tickets {
		if model.ClosedLike(t.Status) {
			closed++
		}
	}
	return TicketList{
		Tickets: tickets,
		Summary: ListSummary{
			TotalTickets:  len(tickets),
			OpenTickets:   len(tickets) - closed,
			ClosedTickets: closed,
		},
		ProjectFilter: projectFilter,
	}
}

type TicketDetails struct {
	Ticket   model.Ticket    `json:"ticket"`
	Comments []model.Comment `json:"comments"`
	TimeLogs []model.TimeLog `json:"time_logs"`

	// Full disables description truncation on the text surface.
	Full bool `json:"-"`
}

type TicketCreated struct {
	TicketID int64  `json:"ticket_id"`
	Project  string `json:"project"`
	Name     string `json:"name"`
}

type StatusChanged struct {
	TicketID int64  `json:"ticket_id"`
	Status   string `json:"status"`
}

type ProjectList struct {
	Projects []string `json:"projects"`
}

type CommentList struct {
	TicketID int64           `json:"ticket_id"`
	Comments []model.Comment `json:"comments"`
}

type TimeLogged struct {
	TicketID int64 `json:"ticket_id"`
	Hours    int   `json:"hours"`
	Minutes  int   `json:"minutes"`
}

type TimeLogList struct {
	TicketID int64           `json:"ticket_id"`
	Logs     []model.TimeLog `json:"time_logs"`
}

type TimeSummary struct {
	TicketID int64 `json:"ticket_id"`
	Hours    int   `json:"hours"`
	Minutes  int   `json:"minutes"`
	Entries  int   `json:"entries"`
}

type TimerStatus struct {
	TicketID int64  `json:"ticket_id"`
	Name     string `json:"name,omitempty"`
	Hours    int    `json:"hours"`
	Minutes  int    `json:"minutes"`
	State    string `json:"state"` // running or paused
}

type TimerList struct {
	Timers []TimerStatus `json:"timers"`
}
