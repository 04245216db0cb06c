package validate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranth/ltm/model"
)

func testEngine() *Engine {
	return NewEngine(func() ([]string, error) {
		return []string{"backend", "frontend", "infra"}, nil
	})
}

func TestTicketID(t *testing.T) {
	e := testEngine()

	id, err := e.TicketID("42")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	for _, raw := range []string{"abc", "0", "-1", "1.5", ""} {
		_, err := e.TicketID(raw)
		var ve *model.ValidationError
		require.ErrorAs(t, err, &ve, "input %q", raw)
		assert.Equal(t, "INVALID_TICKET_ID", ve.Code)
	}
}

func TestIDUsesFieldNameInCode(t *testing.T) {
	e := testEngine()

	_, err := e.ID("time log id", "nope")
	var ve *model.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "INVALID_TIME_LOG_ID", ve.Code)
}

func TestProjectName(t *testing.T) {
	e := testEngine()

	name, err := e.ProjectName("my-project_2")
	require.NoError(t, err)
	assert.Equal(t, "my-project_2", name)

	for _, raw := range []string{"", "has space", "emoji🎉", strings.Repeat("a", 51)} {
		_, err := e.ProjectName(raw)
		var ve *model.ValidationError
		require.ErrorAs(t, err, &ve, "input %q", raw)
		assert.Equal(t, "INVALID_PROJECT_NAME", ve.Code)
	}
}

func TestKnownProjectSuggestsFromLiveNames(t *testing.T) {
	e := testEngine()

	name, err := e.KnownProject("backend")
	require.NoError(t, err)
	assert.Equal(t, "backend", name)

	_, err = e.KnownProject("backnd")
	var nf *model.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "project", nf.Entity)
	assert.Contains(t, nf.Suggestions, "backend")
}

func TestStatusNormalizesCase(t *testing.T) {
	e := testEngine()

	status, err := e.Status("OPEN")
	require.NoError(t, err)
	assert.Equal(t, "open", status)
}

func TestStatusRejectsWithSuggestions(t *testing.T) {
	e := testEngine()

	_, err := e.Status("in-progres")
	var ve *model.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "INVALID_STATUS", ve.Code)
	assert.Contains(t, ve.Suggestions, "in-progress")
}

func TestContentBounds(t *testing.T) {
	e := testEngine()

	_, err := e.Content(KindTicketName, "")
	var ve *model.ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "INVALID_CONTENT_LENGTH", ve.Code)

	_, err = e.Content(KindTicketName, strings.Repeat("x", 101))
	require.Error(t, err)

	// Description allows what a ticket name rejects.
	long := strings.Repeat("x", 101)
	got, err := e.Content(KindDescription, long)
	require.NoError(t, err)
	assert.Equal(t, long, got)

	_, err = e.Content(KindComment, strings.Repeat("x", 1001))
	require.Error(t, err)
}

func TestDuration(t *testing.T) {
	e := testEngine()

	cases := []struct {
		raw     string
		hours   int
		minutes int
	}{
		{"2h30m", 2, 30},
		{"2h", 2, 0},
		{"45m", 0, 45},
		{"90m", 1, 30},
		{"1.5h", 1, 30},
		{"1.75h", 1, 45},
		{"0.5h", 0, 30},
		{"2h75m", 3, 15}, // minutes carry into hours
		{"24h", 24, 0},
		{" 2H30M ", 2, 30},
	}
	for _, c := range cases {
		hours, minutes, err := e.Duration(c.raw)
		require.NoError(t, err, "input %q", c.raw)
		assert.Equal(t, c.hours, hours, "input %q", c.raw)
		assert.Equal(t, c.minutes, minutes, "input %q", c.raw)
	}
}

func TestDurationRejects(t *testing.T) {
	e := testEngine()

	for _, raw := range []string{"", "abc", "h30m", "0h0m", "0h", "0m", "25h", "-2h"} {
		_, _, err := e.Duration(raw)
		var ve *model.ValidationError
		require.ErrorAs(t, err, &ve, "input %q", raw)
		assert.Equal(t, "INVALID_TIME", ve.Code, "input %q", raw)
	}
}

func TestTimeBounds(t *testing.T) {
	e := testEngine()

	hours, minutes, err := e.Time(2, 30)
	require.NoError(t, err)
	assert.Equal(t, 2, hours)
	assert.Equal(t, 30, minutes)

	for _, c := range [][2]int{{25, 0}, {-1, 0}, {1, 60}, {0, -5}} {
		_, _, err := e.Time(c[0], c[1])
		require.Error(t, err, "input %v", c)
	}
}
