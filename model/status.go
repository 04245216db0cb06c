package model

import "strings"

// Statuses is the fixed status enumeration. Order matters only for display
// and suggestion candidates; membership is what validation checks.
var Statuses = []string{
	"open",
	"in-progress",
	"testing",
	"blocked",
	"closed",
	"cancelled",
}

const (
	StatusOpen       = "open"
	StatusInProgress = "in-progress"
	StatusBlocked    = "blocked"
	StatusClosed     = "closed"
)

func ValidStatus(s string) bool {
	s = strings.ToLower(s)
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

// ClosedLike reports whether a status counts as closed in list summaries.
// Older databases may still contain "completed" or "done" rows.
func ClosedLike(s string) bool {
	switch strings.ToLower(s) {
	case "closed", "completed", "done":
		return true
	}
	return false
}
