// Package validate applies per-field constraints and, on failure, asks the
// suggestion engine for corrections drawn from the live candidate sets.
package validate

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/teranth/ltm/model"
	"github.com/teranth/ltm/suggest"
)

var projectNameRe = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

const maxProjectNameLen = 50

// ContentKind selects the length bounds for free-text fields.
type ContentKind int

const (
	KindTicketName ContentKind = iota
	KindDescription
	KindComment
)

func (k ContentKind) limits() (int, int) {
	switch k {
	case KindTicketName:
		return 1, 100
	case KindDescription:
		return 1, 2000
	default:
		return 1, 1000
	}
}

func (k ContentKind) label() string {
	switch k {
	case KindTicketName:
		return "ticket name"
	case KindDescription:
		return "description"
	default:
		return "comment"
	}
}

// Engine holds the live candidate sources consulted when a field fails.
// Projects is queried fresh on each failure so suggestions reflect current
// data.
type Engine struct {
	Projects func() ([]string, error)
	Scorer   suggest.Scorer
}

func NewEngine(projects func() ([]string, error)) *Engine {
	return &Engine{Projects: projects, Scorer: suggest.JaroWinkler{}}
}

// ID parses a positive integer identifier for the named field.
func (e *Engine) ID(field, raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, &model.ValidationError{
			Field:  field,
			Value:  raw,
			Reason: "must be a positive number",
			Code:   "INVALID_" + strings.ToUpper(strings.ReplaceAll(field, " ", "_")),
		}
	}
	return id, nil
}

// TicketID parses a positive ticket identifier. Existence in the store is
// the dispatcher's concern.
func (e *Engine) TicketID(raw string) (int64, error) {
	return e.ID("ticket id", raw)
}

func (e *Engine) ProjectName(name string) (string, error) {
	if len(name) == 0 || len(name) > maxProjectNameLen || !projectNameRe.MatchString(name) {
		return "", &model.ValidationError{
			Field:       "project name",
			Value:       name,
			Reason:      "only letters, numbers, hyphens, underscores allowed, 1-50 characters",
			Code:        "INVALID_PROJECT_NAME",
			Suggestions: e.projectSuggestions(name),
		}
	}
	return name, nil
}

// KnownProject validates the name and requires it to exist in the store.
func (e *Engine) KnownProject(name string) (string, error) {
	name, err := e.ProjectName(name)
	if err != nil {
		return "", err
	}
	names, err := e.Projects()
	if err != nil {
		return "", &model.InternalError{Op: "list projects", Cause: err}
	}
	for _, n := range names {
		if n == name {
			return name, nil
		}
	}
	return "", &model.NotFoundError{
		Entity:      "project",
		Key:         name,
		Suggestions: suggest.Top(e.Scorer, name, names),
	}
}

func (e *Engine) Status(raw string) (string, error) {
	status := strings.ToLower(raw)
	if model.ValidStatus(status) {
		return status, nil
	}
	return "", &model.ValidationError{
		Field:       "status",
		Value:       raw,
		Reason:      "must be one of: " + strings.Join(model.Statuses, ", "),
		Code:        "INVALID_STATUS",
		Suggestions: suggest.Top(e.Scorer, status, model.Statuses),
	}
}

func (e *Engine) Content(kind ContentKind, text string) (string, error) {
	min, max := kind.limits()
	if len(text) < min || len(text) > max {
		return "", &model.ValidationError{
			Field:  kind.label(),
			Value:  truncate(text, 40),
			Reason: fmt.Sprintf("must be between %d and %d characters", min, max),
			Code:   "INVALID_CONTENT_LENGTH",
		}
	}
	return text, nil
}

var (
	compoundRe = regexp.MustCompile(`^(?:(\d+)h)?(?:(\d+)m)?$`)
	decimalRe  = regexp.MustCompile(`^(\d+(?:\.\d+)?)h?$`)
)

// Duration parses "2h30m", "1.5h" or "90m" into whole hours and minutes.
// Fractional hours round to the nearest minute, minute totals of 60 or more
// carry into hours, and a zero total is rejected.
func (e *Engine) Duration(raw string) (int, int, error) {
	s := strings.ToLower(strings.TrimSpace(raw))
	hours, minutes := 0, 0
	parsed := false

	if m := compoundRe.FindStringSubmatch(s); m != nil && s != "" && (m[1] != "" || m[2] != "") {
		hours, _ = strconv.Atoi("0" + m[1])
		minutes, _ = strconv.Atoi("0" + m[2])
		parsed = true
	} else if m := decimalRe.FindStringSubmatch(s); m != nil {
		f, err := strconv.ParseFloat(m[1], 64)
		if err == nil {
			hours = int(f)
			minutes = int(math.Round((f - float64(hours)) * 60))
			parsed = true
		}
	}

	if !parsed {
		return 0, 0, durationError(raw, "use a form like 2h30m, 1.5h or 90m")
	}

	hours += minutes / 60
	minutes %= 60

	if hours == 0 && minutes == 0 {
		return 0, 0, durationError(raw, "duration must be greater than zero")
	}
	if hours > 24 {
		return 0, 0, durationError(raw, "hours must be 0-24")
	}
	return hours, minutes, nil
}

// Time checks manually supplied hour and minute values.
func (e *Engine) Time(hours, minutes int) (int, int, error) {
	if hours < 0 || hours > 24 || minutes < 0 || minutes > 59 {
		return 0, 0, durationError(
			fmt.Sprintf("%dh %dm", hours, minutes),
			"hours must be 0-24, minutes must be 0-59",
		)
	}
	return hours, minutes, nil
}

func (e *Engine) projectSuggestions(input string) []string {
	if e.Projects == nil {
		return nil
	}
	names, err := e.Projects()
	if err != nil {
		return nil
	}
	return suggest.Top(e.Scorer, input, names)
}

func durationError(value, reason string) error {
	return &model.ValidationError{
		Field:  "duration",
		Value:  value,
		Reason: reason,
		Code:   "INVALID_TIME",
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
