// Package cli resolves raw argument tokens to canonical actions and
// executes them. Resolution is a pure table lookup; hierarchical commands,
// legacy flat forms and deprecated aliases all land on the same action.
package cli

import "fmt"

// Op identifies a canonical operation.
type Op string

const (
	OpInit Op = "init"

	OpTicketCreate Op = "ticket create"
	OpTicketList   Op = "ticket list"
	OpTicketShow   Op = "ticket show"
	OpTicketUpdate Op = "ticket update"
	OpTicketDelete Op = "ticket delete"
	OpTicketMove   Op = "ticket move"
	OpTicketCopy   Op = "ticket copy"

	OpProjectShow    Op = "project show"
	OpProjectList    Op = "project list"
	OpProjectSummary Op = "project summary"
	OpProjectStats   Op = "project stats"

	OpCommentAdd    Op = "comment add"
	OpCommentList   Op = "comment list"
	OpCommentShow   Op = "comment show"
	OpCommentUpdate Op = "comment update"
	OpCommentDelete Op = "comment delete"

	OpTimeStart   Op = "time start"
	OpTimeStop    Op = "time stop"
	OpTimeCancel  Op = "time cancel"
	OpTimePause   Op = "time pause"
	OpTimeResume  Op = "time resume"
	OpTimeLog     Op = "time log"
	OpTimeList    Op = "time list"
	OpTimeActive  Op = "time active"
	OpTimeSummary Op = "time summary"
	OpTimeUpdate  Op = "time update"
	OpTimeDelete  Op = "time delete"

	OpUpdateStatus      Op = "update status"
	OpUpdateName        Op = "update name"
	OpUpdateDescription Op = "update description"
	OpUpdateProject     Op = "update project"

	OpOpen     Op = "open"
	OpComplete Op = "complete"
	OpBlock    Op = "block"
	OpStart    Op = "start"
	OpClose    Op = "close"
)

// CommandSpec binds one or more token paths to a canonical operation. A
// deprecated spec resolves to exactly the same action as its canonical
// counterpart; only the notice differs.
type CommandSpec struct {
	Op         Op
	Name       string   // primary path, e.g. "ticket create" or "add"
	Aliases    []string // alternative paths
	Deprecated bool
	Notice     string
}

func defaultSpecs() []CommandSpec {
	return []CommandSpec{
		{Op: OpInit, Name: "init"},

		// Hierarchical ticket commands
		{Op: OpTicketCreate, Name: "ticket create", Aliases: []string{"ticket add", "ticket new"}},
		{Op: OpTicketList, Name: "ticket list", Aliases: []string{"ticket ls"}},
		{Op: OpTicketShow, Name: "ticket show", Aliases: []string{"ticket view", "ticket info"}},
		{Op: OpTicketUpdate, Name: "ticket update", Aliases: []string{"ticket edit"}},
		{Op: OpTicketDelete, Name: "ticket delete", Aliases: []string{"ticket rm", "ticket remove"}},
		{Op: OpTicketMove, Name: "ticket move", Aliases: []string{"ticket mv"}},
		{Op: OpTicketCopy, Name: "ticket copy", Aliases: []string{"ticket cp"}},

		// Projects
		{Op: OpProjectShow, Name: "project show", Aliases: []string{"project view", "project info"}},
		{Op: OpProjectList, Name: "project list", Aliases: []string{"project ls", "projects"}},
		{Op: OpProjectSummary, Name: "project summary"},
		{Op: OpProjectStats, Name: "project stats"},

		// Comments
		{Op: OpCommentAdd, Name: "comment add", Aliases: []string{"comment create", "comment note"}},
		{Op: OpCommentList, Name: "comment list", Aliases: []string{"comment ls"}},
		{Op: OpCommentShow, Name: "comment show"},
		{Op: OpCommentUpdate, Name: "comment update", Aliases: []string{"comment edit"}},
		{Op: OpCommentDelete, Name: "comment delete", Aliases: []string{"comment rm"}},

		// Time tracking
		{Op: OpTimeStart, Name: "time start", Aliases: []string{"time begin"}},
		{Op: OpTimeStop, Name: "time stop", Aliases: []string{"time end"}},
		{Op: OpTimeCancel, Name: "time cancel", Aliases: []string{"time abort"}},
		{Op: OpTimePause, Name: "time pause"},
		{Op: OpTimeResume, Name: "time resume"},
		{Op: OpTimeLog, Name: "time log", Aliases: []string{"time add"}},
		{Op: OpTimeList, Name: "time list", Aliases: []string{"time ls"}},
		{Op: OpTimeActive, Name: "time active", Aliases: []string{"time status", "active", "timer"}},
		{Op: OpTimeSummary, Name: "time summary"},
		{Op: OpTimeUpdate, Name: "time update", Aliases: []string{"time edit"}},
		{Op: OpTimeDelete, Name: "time delete", Aliases: []string{"time rm"}},

		// Field updates ("set" is the documented alias for "update")
		{Op: OpUpdateStatus, Name: "update status", Aliases: []string{"set status"}},
		{Op: OpUpdateName, Name: "update name", Aliases: []string{"set name"}},
		{Op: OpUpdateDescription, Name: "update description", Aliases: []string{"set description"}},
		{Op: OpUpdateProject, Name: "update project", Aliases: []string{"set project"}},

		// Quick status shortcuts
		{Op: OpOpen, Name: "open"},
		{Op: OpComplete, Name: "complete"},
		{Op: OpBlock, Name: "block"},
		{Op: OpStart, Name: "start"},
		{Op: OpClose, Name: "close"},

		// Legacy flat forms
		{
			Op: OpTicketCreate, Name: "add", Deprecated: true,
			Notice: "'ltm add' is deprecated. Use 'ltm ticket create' instead.",
		},
		{
			Op: OpUpdateStatus, Name: "status", Deprecated: true,
			Notice: "'ltm status' is deprecated. Use 'ltm update status' or 'ltm set status' instead.",
		},
		{Op: OpTicketDelete, Name: "delete", Aliases: []string{"rm"}},
		{Op: OpTicketList, Name: "list", Aliases: []string{"ls"}},
		{Op: OpTicketShow, Name: "show", Aliases: []string{"view"}},
		{
			Op: OpTimeLog, Name: "log", Deprecated: true,
			Notice: "'ltm log' is deprecated. Use 'ltm time log' instead.",
		},
		{
			Op: OpProjectShow, Name: "proj", Deprecated: true,
			Notice: "'ltm proj' is deprecated. Use 'ltm project show' instead.",
		},
	}
}

// Registry is the immutable alias table built once at startup.
type Registry struct {
	byPath map[string]*CommandSpec
	paths  []string
}

// NewRegistry builds the table and enforces the no-collision invariant: a
// path mapping to two commands is a programming error, not a runtime case.
func NewRegistry() (*Registry, error) {
	return buildRegistry(defaultSpecs())
}

func buildRegistry(specs []CommandSpec) (*Registry, error) {
	r := &Registry{byPath: make(map[string]*CommandSpec)}
	for i := range specs {
		spec := &specs[i]
		for _, path := range append([]string{spec.Name}, spec.Aliases...) {
			if other, ok := r.byPath[path]; ok {
				return nil, fmt.Errorf("command table broken: %q maps to both %q and %q", path, other.Op, spec.Op)
			}
			r.byPath[path] = spec
			r.paths = append(r.paths, path)
		}
	}
	return r, nil
}

// Paths returns every recognized token path. Used to suggest corrections
// for unknown commands.
func (r *Registry) Paths() []string {
	return r.paths
}
