package model

import (
	"fmt"
	"strconv"
	"strings"
)

// ValidationError reports a field that failed its constraint, with ranked
// corrections when a candidate set was available.
type ValidationError struct {
	Field       string   `json:"field"`
	Value       string   `json:"value"`
	Reason      string   `json:"reason"`
	Code        string   `json:"code"`
	Suggestions []string `json:"suggestions,omitempty"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

type NotFoundError struct {
	Entity      string   `json:"entity"`
	Key         string   `json:"id"`
	Suggestions []string `json:"suggestions,omitempty"`
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.Key)
}

func TicketNotFound(id int64) *NotFoundError {
	return &NotFoundError{Entity: "ticket", Key: strconv.FormatInt(id, 10)}
}

type ConflictError struct {
	Reason string `json:"reason"`
}

func (e *ConflictError) Error() string { return e.Reason }

// AmbiguousTargetError lists the ticket ids a caller must pick between.
type AmbiguousTargetError struct {
	Candidates []int64 `json:"candidates"`
}

func (e *AmbiguousTargetError) Error() string {
	parts := make([]string, len(e.Candidates))
	for i, id := range e.Candidates {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return "multiple active timers, specify a ticket id: " + strings.Join(parts, ", ")
}

type NoActiveSessionError struct{}

func (e *NoActiveSessionError) Error() string { return "no active timers" }

type UnknownCommandError struct {
	Input       string   `json:"input"`
	Suggestions []string `json:"suggestions,omitempty"`
}

func (e *UnknownCommandError) Error() string {
	return fmt.Sprintf("unknown command %q", e.Input)
}

// InternalError wraps a collaborator failure with the operation that hit it.
type InternalError struct {
	Op    string
	Cause error
}

func (e *InternalError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Cause)
}

func (e *InternalError) Unwrap() error { return e.Cause }

// ErrorCode maps any error to the stable code reported on the structured
// output channel.
func ErrorCode(err error) string {
	switch e := err.(type) {
	case *ValidationError:
		if e.Code != "" {
			return e.Code
		}
		return "VALIDATION_ERROR"
	case *NotFoundError:
		return strings.ToUpper(strings.ReplaceAll(e.Entity, " ", "_")) + "_NOT_FOUND"
	case *ConflictError:
		return "CONFLICT"
	case *AmbiguousTargetError:
		return "AMBIGUOUS_TARGET"
	case *NoActiveSessionError:
		return "NO_ACTIVE_SESSION"
	case *UnknownCommandError:
		return "UNKNOWN_COMMAND"
	default:
		return "INTERNAL"
	}
}
