package render

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranth/ltm/model"
)

func testRenderer() (*Renderer, *bytes.Buffer, *bytes.Buffer) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return &Renderer{Out: out, Err: errOut}, out, errOut
}

func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var doc map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	return doc
}

func TestJSONSuccessEnvelope(t *testing.T) {
	r, out, _ := testRenderer()
	r.JSON = true

	r.Result(Result{
		Op:      "ticket create",
		Message: "Ticket created with ID: 1",
		Payload: TicketCreated{TicketID: 1, Project: "backend", Name: "Fix login"},
	})

	doc := decode(t, out)
	assert.Equal(t, true, doc["ok"])
	assert.Equal(t, "ticket create", doc["op"])
	assert.Equal(t, "Ticket created with ID: 1", doc["message"])
	data := doc["data"].(map[string]any)
	assert.Equal(t, "backend", data["project"])
	assert.Equal(t, float64(1), data["ticket_id"])
}

func TestJSONOmitsDeprecationNotice(t *testing.T) {
	r, out, _ := testRenderer()
	r.JSON = true

	r.Result(Result{
		Op:      "ticket create",
		Notice:  "'ltm add' is deprecated. Use 'ltm ticket create' instead.",
		Message: "Ticket created with ID: 1",
	})

	assert.NotContains(t, out.String(), "deprecated")
}

func TestTextShowsDeprecationNotice(t *testing.T) {
	r, out, _ := testRenderer()

	r.Result(Result{
		Notice:  "'ltm add' is deprecated. Use 'ltm ticket create' instead.",
		Message: "Ticket created with ID: 1",
	})

	assert.Contains(t, out.String(), "deprecated")
	assert.Contains(t, out.String(), "✅ Ticket created with ID: 1")
}

func TestJSONErrorEnvelope(t *testing.T) {
	r, out, errOut := testRenderer()
	r.JSON = true

	r.Failure(&model.ValidationError{
		Field:       "status",
		Value:       "in-progres",
		Reason:      "must be one of: open, in-progress",
		Code:        "INVALID_STATUS",
		Suggestions: []string{"in-progress"},
	})

	doc := decode(t, out)
	assert.Equal(t, true, doc["error"])
	assert.Equal(t, "INVALID_STATUS", doc["code"])
	assert.Equal(t, []any{"in-progress"}, doc["suggestions"])
	details := doc["details"].(map[string]any)
	assert.Equal(t, "status", details["field"])
	assert.Empty(t, errOut.String()) // JSON errors stay on stdout
}

func TestJSONErrorCodePerType(t *testing.T) {
	cases := []struct {
		err  error
		code string
	}{
		{&model.NotFoundError{Entity: "ticket", Key: "9"}, "TICKET_NOT_FOUND"},
		{&model.ConflictError{Reason: "timer running"}, "CONFLICT"},
		{&model.AmbiguousTargetError{Candidates: []int64{1, 2}}, "AMBIGUOUS_TARGET"},
		{&model.NoActiveSessionError{}, "NO_ACTIVE_SESSION"},
		{&model.UnknownCommandError{Input: "tiket"}, "UNKNOWN_COMMAND"},
	}
	for _, c := range cases {
		r, out, _ := testRenderer()
		r.JSON = true
		r.Failure(c.err)
		assert.Equal(t, c.code, decode(t, out)["code"], "error %T", c.err)
	}
}

func TestTextErrorGoesToStderr(t *testing.T) {
	r, out, errOut := testRenderer()

	r.Failure(&model.NotFoundError{
		Entity:      "project",
		Key:         "backnd",
		Suggestions: []string{"backend"},
	})

	assert.Empty(t, out.String())
	assert.Contains(t, errOut.String(), "❌ Error: project backnd not found")
	assert.Contains(t, errOut.String(), "Did you mean: backend")
}

func TestTextAmbiguousListsCandidates(t *testing.T) {
	r, _, errOut := testRenderer()

	r.Failure(&model.AmbiguousTargetError{Candidates: []int64{3, 7}})

	assert.Contains(t, errOut.String(), "ticket 3")
	assert.Contains(t, errOut.String(), "ticket 7")
}

func TestTicketTableText(t *testing.T) {
	r, out, _ := testRenderer()

	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	tickets := []model.Ticket{
		{ID: 1, Project: "backend", Name: "Fix login", Status: "open", CreatedAt: now, UpdatedAt: now},
		{ID: 2, Project: "backend", Name: "Ship it", Status: "closed", CreatedAt: now, UpdatedAt: now},
	}
	r.Result(Result{Payload: NewTicketList(tickets, "")})

	text := out.String()
	assert.Contains(t, text, "Fix login")
	assert.Contains(t, text, "2 tickets (1 open, 1 closed)")
}

func TestEmptyListsRenderHints(t *testing.T) {
	r, out, _ := testRenderer()

	r.Result(Result{Payload: NewTicketList(nil, "")})
	assert.Contains(t, out.String(), "No tickets found")

	out.Reset()
	r.Result(Result{Payload: ProjectList{}})
	assert.Contains(t, out.String(), "No projects found")

	out.Reset()
	r.Result(Result{Payload: TimerList{}})
	assert.Contains(t, out.String(), "No active timers")
}

func TestPrettyJSONIndents(t *testing.T) {
	r, out, _ := testRenderer()
	r.JSON = true
	r.Pretty = true

	r.Result(Result{Op: "project list", Payload: ProjectList{Projects: []string{"backend"}}})

	assert.True(t, strings.Contains(out.String(), "\n  "))
	decode(t, out)
}

func TestNewHonorsNoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	r := New(&bytes.Buffer{}, &bytes.Buffer{})
	assert.False(t, r.color)

	out := &bytes.Buffer{}
	r.Out = out
	r.Result(Result{Message: "done"})
	assert.Equal(t, "✅ done\n", out.String())
}

func TestTicketDetailsTruncatesDescription(t *testing.T) {
	now := time.Now()
	long := strings.Repeat("x", 300)
	details := TicketDetails{
		Ticket: model.Ticket{ID: 1, Project: "backend", Name: "Fix login",
			Status: "open", Description: long, CreatedAt: now, UpdatedAt: now},
	}

	r, out, _ := testRenderer()
	r.Result(Result{Payload: details})
	assert.Contains(t, out.String(), "...")

	out.Reset()
	details.Full = true
	r.Result(Result{Payload: details})
	assert.Contains(t, out.String(), long)
}

func TestClosedLikeCountsLegacyStatuses(t *testing.T) {
	now := time.Now()
	tickets := []model.Ticket{
		{ID: 1, Status: "open", CreatedAt: now, UpdatedAt: now},
		{ID: 2, Status: "closed", CreatedAt: now, UpdatedAt: now},
		{ID: 3, Status: "done", CreatedAt: now, UpdatedAt: now},
		{ID: 4, Status: "completed", CreatedAt: now, UpdatedAt: now},
	}
	list := NewTicketList(tickets, "")
	assert.Equal(t, 3, list.Summary.ClosedTickets)
	assert.Equal(t, 1, list.Summary.OpenTickets)
}
