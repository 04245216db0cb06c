package db

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/teranth/ltm/model"

	_ "github.com/mattn/go-sqlite3"
)

// ErrNotFound distinguishes a missing row from a store failure.
var ErrNotFound = errors.New("not found")

type DB struct {
	conn *sql.DB
}

// New opens the database under ~/.ltm, creating it if needed.
func New() (*DB, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}

	dir := filepath.Join(home, ".ltm")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, err
	}

	return Open(filepath.Join(dir, "tickets.db"))
}

// Open opens a database at an explicit path. Tests use temp paths.
func Open(path string) (*DB, error) {
	conn, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, err
	}
	return db, nil
}

func (d *DB) migrate() error {
	_, err := d.conn.Exec(`
		CREATE TABLE IF NOT EXISTS tickets (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			project TEXT NOT NULL,
			name TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'open',
			created_at DATETIME NOT NULL,
			updated_at DATETIME NOT NULL
		);
		CREATE TABLE IF NOT EXISTS comments (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			ticket_id INTEGER NOT NULL,
			content TEXT NOT NULL,
			created_at DATETIME NOT NULL,
			FOREIGN KEY (ticket_id) REFERENCES tickets(id)
		);
		CREATE TABLE IF NOT EXISTS time_logs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			ticket_id INTEGER NOT NULL,
			hours INTEGER NOT NULL,
			minutes INTEGER NOT NULL,
			started_at DATETIME,
			ended_at DATETIME,
			created_at DATETIME NOT NULL,
			FOREIGN KEY (ticket_id) REFERENCES tickets(id)
		);
		CREATE INDEX IF NOT EXISTS idx_tickets_project ON tickets(project);
		CREATE INDEX IF NOT EXISTS idx_comments_ticket ON comments(ticket_id);
		CREATE INDEX IF NOT EXISTS idx_time_logs_ticket ON time_logs(ticket_id);
	`)
	return err
}

// Init re-runs the schema migration. Kept for the explicit init command.
func (d *DB) Init() error {
	return d.migrate()
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) AddTicket(project, name, description string) (int64, error) {
	now := time.Now().UTC()
	result, err := d.conn.Exec(
		`INSERT INTO tickets (project, name, description, status, created_at, updated_at)
		 VALUES (?, ?, ?, 'open', ?, ?)`,
		project, name, description, now, now,
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

func (d *DB) GetTicket(id int64) (model.Ticket, error) {
	var t model.Ticket
	err := d.conn.QueryRow(
		`SELECT id, project, name, description, status, created_at, updated_at
		 FROM tickets WHERE id = ?`, id,
	).Scan(&t.ID, &t.Project, &t.Name, &t.Description, &t.Status, &t.CreatedAt, &t.UpdatedAt)
	if err == sql.ErrNoRows {
		return model.Ticket{}, ErrNotFound
	}
	return t, err
}

// TicketExists is the existence check used by validation.
func (d *DB) TicketExists(id int64) (bool, error) {
	var n int
	err := d.conn.QueryRow(`SELECT COUNT(*) FROM tickets WHERE id = ?`, id).Scan(&n)
	return n > 0, err
}

// ListFilter narrows and orders ListTickets. Zero values mean no filter.
type ListFilter struct {
	Project string
	Status  string
	Sort    string // updated (default), created, status, project
}

func (d *DB) ListTickets(f ListFilter) ([]model.Ticket, error) {
	query := `SELECT id, project, name, description, status, created_at, updated_at FROM tickets`
	var clauses []string
	var args []any
	if f.Project != "" {
		clauses = append(clauses, "project = ?")
		args = append(args, f.Project)
	}
	if f.Status != "" {
		clauses = append(clauses, "LOWER(status) = ?")
		args = append(args, f.Status)
	}
	for i, c := range clauses {
		if i == 0 {
			query += " WHERE " + c
		} else {
			query += " AND " + c
		}
	}

	switch f.Sort {
	case "created", "created_at":
		query += " ORDER BY created_at DESC"
	case "status":
		query += " ORDER BY status ASC, updated_at DESC"
	case "project":
		query += " ORDER BY project ASC, updated_at DESC"
	default:
		query += " ORDER BY updated_at DESC"
	}

	rows, err := d.conn.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tickets []model.Ticket
	for rows.Next() {
		var t model.Ticket
		if err := rows.Scan(&t.ID, &t.Project, &t.Name, &t.Description, &t.Status, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		tickets = append(tickets, t)
	}
	return tickets, rows.Err()
}

func (d *DB) UpdateTicketStatus(id int64, status string) error {
	return d.updateTicket(id, "status", status)
}

func (d *DB) UpdateTicketName(id int64, name string) error {
	return d.updateTicket(id, "name", name)
}

func (d *DB) UpdateTicketDescription(id int64, description string) error {
	return d.updateTicket(id, "description", description)
}

func (d *DB) MoveTicket(id int64, project string) error {
	return d.updateTicket(id, "project", project)
}

func (d *DB) updateTicket(id int64, column, value string) error {
	result, err := d.conn.Exec(
		fmt.Sprintf("UPDATE tickets SET %s = ?, updated_at = ? WHERE id = ?", column),
		value, time.Now().UTC(), id,
	)
	if err != nil {
		return err
	}
	return affectedOne(result)
}

// CopyTicket duplicates a ticket, optionally into another project.
func (d *DB) CopyTicket(id int64, project string) (int64, error) {
	src, err := d.GetTicket(id)
	if err != nil {
		return 0, err
	}
	if project == "" {
		project = src.Project
	}
	now := time.Now().UTC()
	result, err := d.conn.Exec(
		`INSERT INTO tickets (project, name, description, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		project, src.Name, src.Description, src.Status, now, now,
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// DeleteTicket removes the ticket together with its comments and time logs.
func (d *DB) DeleteTicket(id int64) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM comments WHERE ticket_id = ?`, id); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM time_logs WHERE ticket_id = ?`, id); err != nil {
		return err
	}
	result, err := tx.Exec(`DELETE FROM tickets WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if err := affectedOne(result); err != nil {
		return err
	}
	return tx.Commit()
}

func (d *DB) AddComment(ticketID int64, content string) (int64, error) {
	result, err := d.conn.Exec(
		`INSERT INTO comments (ticket_id, content, created_at) VALUES (?, ?, ?)`,
		ticketID, content, time.Now().UTC(),
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

func (d *DB) Comments(ticketID int64) ([]model.Comment, error) {
	rows, err := d.conn.Query(
		`SELECT id, ticket_id, content, created_at FROM comments
		 WHERE ticket_id = ? ORDER BY created_at DESC`, ticketID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []model.Comment
	for rows.Next() {
		var c model.Comment
		if err := rows.Scan(&c.ID, &c.TicketID, &c.Content, &c.CreatedAt); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

func (d *DB) GetComment(id int64) (model.Comment, error) {
	var c model.Comment
	err := d.conn.QueryRow(
		`SELECT id, ticket_id, content, created_at FROM comments WHERE id = ?`, id,
	).Scan(&c.ID, &c.TicketID, &c.Content, &c.CreatedAt)
	if err == sql.ErrNoRows {
		return model.Comment{}, ErrNotFound
	}
	return c, err
}

func (d *DB) UpdateComment(id int64, content string) error {
	result, err := d.conn.Exec(`UPDATE comments SET content = ? WHERE id = ?`, content, id)
	if err != nil {
		return err
	}
	return affectedOne(result)
}

func (d *DB) DeleteComment(id int64) error {
	result, err := d.conn.Exec(`DELETE FROM comments WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return affectedOne(result)
}

func (d *DB) AddTimeLog(ticketID int64, hours, minutes int, startedAt, endedAt *time.Time) (int64, error) {
	result, err := d.conn.Exec(
		`INSERT INTO time_logs (ticket_id, hours, minutes, started_at, ended_at, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		ticketID, hours, minutes, nullTime(startedAt), nullTime(endedAt), time.Now().UTC(),
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

func (d *DB) TimeLogs(ticketID int64) ([]model.TimeLog, error) {
	rows, err := d.conn.Query(
		`SELECT id, ticket_id, hours, minutes, started_at, ended_at, created_at
		 FROM time_logs WHERE ticket_id = ? ORDER BY created_at DESC`, ticketID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var logs []model.TimeLog
	for rows.Next() {
		var l model.TimeLog
		var started, ended sql.NullTime
		if err := rows.Scan(&l.ID, &l.TicketID, &l.Hours, &l.Minutes, &started, &ended, &l.CreatedAt); err != nil {
			return nil, err
		}
		if started.Valid {
			l.StartedAt = &started.Time
		}
		if ended.Valid {
			l.EndedAt = &ended.Time
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}

func (d *DB) UpdateTimeLog(id int64, hours, minutes int) error {
	result, err := d.conn.Exec(`UPDATE time_logs SET hours = ?, minutes = ? WHERE id = ?`, hours, minutes, id)
	if err != nil {
		return err
	}
	return affectedOne(result)
}

func (d *DB) DeleteTimeLog(id int64) error {
	result, err := d.conn.Exec(`DELETE FROM time_logs WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return affectedOne(result)
}

// ProjectNames returns the distinct project names, sorted. This is the live
// candidate set for project suggestions, queried fresh on every call.
func (d *DB) ProjectNames() ([]string, error) {
	rows, err := d.conn.Query(`SELECT DISTINCT project FROM tickets ORDER BY project ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (d *DB) ProjectSummary(project string) (model.ProjectSummary, error) {
	summary := model.ProjectSummary{Project: project}
	err := d.conn.QueryRow(
		`SELECT
			COUNT(DISTINCT t.id),
			COUNT(DISTINCT CASE WHEN t.status = 'open' THEN t.id END),
			COUNT(DISTINCT CASE WHEN t.status = 'closed' THEN t.id END),
			COALESCE(SUM(tl.hours + tl.minutes / 60.0), 0.0)
		 FROM tickets t
		 LEFT JOIN time_logs tl ON t.id = tl.ticket_id
		 WHERE t.project = ?`,
		project,
	).Scan(&summary.TotalTickets, &summary.OpenTickets, &summary.ClosedTickets, &summary.TotalTimeHours)
	return summary, err
}

func affectedOne(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func nullTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC()
}
