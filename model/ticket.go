package model

import "time"

type Ticket struct {
	ID          int64     `json:"id"`
	Project     string    `json:"project"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Comment struct {
	ID        int64     `json:"id"`
	TicketID  int64     `json:"ticket_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type TimeLog struct {
	ID        int64      `json:"id"`
	TicketID  int64      `json:"ticket_id"`
	Hours     int        `json:"hours"`
	Minutes   int        `json:"minutes"`
	StartedAt *time.Time `json:"started_at,omitempty"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

type ProjectSummary struct {
	Project        string  `json:"project"`
	TotalTickets   int64   `json:"total_tickets"`
	OpenTickets    int64   `json:"open_tickets"`
	ClosedTickets  int64   `json:"closed_tickets"`
	TotalTimeHours float64 `json:"total_time_hours"`
}
