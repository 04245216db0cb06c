package db

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	d, err := Open(filepath.Join(t.TempDir(), "tickets.db"))
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })
	return d
}

func TestAddAndGetTicket(t *testing.T) {
	d := testDB(t)

	id, err := d.AddTicket("backend", "Fix login", "sessions expire early")
	require.NoError(t, err)

	ticket, err := d.GetTicket(id)
	require.NoError(t, err)
	assert.Equal(t, "backend", ticket.Project)
	assert.Equal(t, "Fix login", ticket.Name)
	assert.Equal(t, "sessions expire early", ticket.Description)
	assert.Equal(t, "open", ticket.Status)
	assert.False(t, ticket.CreatedAt.IsZero())
}

func TestGetTicketMissing(t *testing.T) {
	d := testDB(t)

	_, err := d.GetTicket(99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTicketExists(t *testing.T) {
	d := testDB(t)

	id, err := d.AddTicket("backend", "Fix login", "")
	require.NoError(t, err)

	ok, err := d.TicketExists(id)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = d.TicketExists(id + 1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestUpdateTicketFields(t *testing.T) {
	d := testDB(t)

	id, err := d.AddTicket("backend", "Fix login", "")
	require.NoError(t, err)

	require.NoError(t, d.UpdateTicketStatus(id, "in-progress"))
	require.NoError(t, d.UpdateTicketName(id, "Fix login redirect"))
	require.NoError(t, d.UpdateTicketDescription(id, "redirect loops on expiry"))
	require.NoError(t, d.MoveTicket(id, "infra"))

	ticket, err := d.GetTicket(id)
	require.NoError(t, err)
	assert.Equal(t, "in-progress", ticket.Status)
	assert.Equal(t, "Fix login redirect", ticket.Name)
	assert.Equal(t, "redirect loops on expiry", ticket.Description)
	assert.Equal(t, "infra", ticket.Project)

	assert.ErrorIs(t, d.UpdateTicketStatus(99, "open"), ErrNotFound)
}

func TestListTicketsFilterAndSort(t *testing.T) {
	d := testDB(t)

	a, err := d.AddTicket("backend", "A", "")
	require.NoError(t, err)
	b, err := d.AddTicket("frontend", "B", "")
	require.NoError(t, err)
	require.NoError(t, d.UpdateTicketStatus(b, "closed"))

	all, err := d.ListTickets(ListFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	backend, err := d.ListTickets(ListFilter{Project: "backend"})
	require.NoError(t, err)
	require.Len(t, backend, 1)
	assert.Equal(t, a, backend[0].ID)

	closed, err := d.ListTickets(ListFilter{Status: "closed"})
	require.NoError(t, err)
	require.Len(t, closed, 1)
	assert.Equal(t, b, closed[0].ID)

	byProject, err := d.ListTickets(ListFilter{Sort: "project"})
	require.NoError(t, err)
	require.Len(t, byProject, 2)
	assert.Equal(t, "backend", byProject[0].Project)
}

func TestCopyTicket(t *testing.T) {
	d := testDB(t)

	id, err := d.AddTicket("backend", "Fix login", "desc")
	require.NoError(t, err)
	require.NoError(t, d.UpdateTicketStatus(id, "blocked"))

	copyID, err := d.CopyTicket(id, "")
	require.NoError(t, err)
	require.NotEqual(t, id, copyID)

	copied, err := d.GetTicket(copyID)
	require.NoError(t, err)
	assert.Equal(t, "backend", copied.Project)
	assert.Equal(t, "blocked", copied.Status)

	moved, err := d.CopyTicket(id, "infra")
	require.NoError(t, err)
	ticket, err := d.GetTicket(moved)
	require.NoError(t, err)
	assert.Equal(t, "infra", ticket.Project)
}

func TestDeleteTicketCascades(t *testing.T) {
	d := testDB(t)

	id, err := d.AddTicket("backend", "Fix login", "")
	require.NoError(t, err)
	_, err = d.AddComment(id, "note")
	require.NoError(t, err)
	_, err = d.AddTimeLog(id, 1, 30, nil, nil)
	require.NoError(t, err)

	require.NoError(t, d.DeleteTicket(id))

	_, err = d.GetTicket(id)
	assert.ErrorIs(t, err, ErrNotFound)

	comments, err := d.Comments(id)
	require.NoError(t, err)
	assert.Empty(t, comments)

	logs, err := d.TimeLogs(id)
	require.NoError(t, err)
	assert.Empty(t, logs)

	assert.ErrorIs(t, d.DeleteTicket(id), ErrNotFound)
}

func TestCommentCRUD(t *testing.T) {
	d := testDB(t)

	ticketID, err := d.AddTicket("backend", "Fix login", "")
	require.NoError(t, err)

	commentID, err := d.AddComment(ticketID, "first")
	require.NoError(t, err)

	comment, err := d.GetComment(commentID)
	require.NoError(t, err)
	assert.Equal(t, ticketID, comment.TicketID)
	assert.Equal(t, "first", comment.Content)

	require.NoError(t, d.UpdateComment(commentID, "revised"))
	comment, err = d.GetComment(commentID)
	require.NoError(t, err)
	assert.Equal(t, "revised", comment.Content)

	require.NoError(t, d.DeleteComment(commentID))
	_, err = d.GetComment(commentID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTimeLogsOptionalSpan(t *testing.T) {
	d := testDB(t)

	ticketID, err := d.AddTicket("backend", "Fix login", "")
	require.NoError(t, err)

	_, err = d.AddTimeLog(ticketID, 2, 30, nil, nil)
	require.NoError(t, err)

	started := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	ended := started.Add(90 * time.Minute)
	_, err = d.AddTimeLog(ticketID, 1, 30, &started, &ended)
	require.NoError(t, err)

	logs, err := d.TimeLogs(ticketID)
	require.NoError(t, err)
	require.Len(t, logs, 2)

	var manual, tracked int
	for _, l := range logs {
		if l.StartedAt == nil {
			manual++
			assert.Nil(t, l.EndedAt)
		} else {
			tracked++
			require.NotNil(t, l.EndedAt)
			assert.Equal(t, 90*time.Minute, l.EndedAt.Sub(*l.StartedAt))
		}
	}
	assert.Equal(t, 1, manual)
	assert.Equal(t, 1, tracked)
}

func TestUpdateAndDeleteTimeLog(t *testing.T) {
	d := testDB(t)

	ticketID, err := d.AddTicket("backend", "Fix login", "")
	require.NoError(t, err)
	logID, err := d.AddTimeLog(ticketID, 1, 0, nil, nil)
	require.NoError(t, err)

	require.NoError(t, d.UpdateTimeLog(logID, 2, 15))
	logs, err := d.TimeLogs(ticketID)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, 2, logs[0].Hours)
	assert.Equal(t, 15, logs[0].Minutes)

	require.NoError(t, d.DeleteTimeLog(logID))
	assert.ErrorIs(t, d.DeleteTimeLog(logID), ErrNotFound)
}

func TestProjectNamesDistinctSorted(t *testing.T) {
	d := testDB(t)

	for _, p := range []string{"zeta", "backend", "zeta", "infra"} {
		_, err := d.AddTicket(p, "T", "")
		require.NoError(t, err)
	}

	names, err := d.ProjectNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"backend", "infra", "zeta"}, names)
}

func TestProjectSummary(t *testing.T) {
	d := testDB(t)

	a, err := d.AddTicket("backend", "A", "")
	require.NoError(t, err)
	b, err := d.AddTicket("backend", "B", "")
	require.NoError(t, err)
	require.NoError(t, d.UpdateTicketStatus(b, "closed"))
	_, err = d.AddTicket("frontend", "C", "")
	require.NoError(t, err)

	_, err = d.AddTimeLog(a, 1, 30, nil, nil)
	require.NoError(t, err)
	_, err = d.AddTimeLog(b, 0, 30, nil, nil)
	require.NoError(t, err)

	summary, err := d.ProjectSummary("backend")
	require.NoError(t, err)
	assert.Equal(t, int64(2), summary.TotalTickets)
	assert.Equal(t, int64(1), summary.OpenTickets)
	assert.Equal(t, int64(1), summary.ClosedTickets)
	assert.InDelta(t, 2.0, summary.TotalTimeHours, 1e-9)
}
