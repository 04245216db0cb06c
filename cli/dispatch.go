package cli

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/teranth/ltm/db"
	"github.com/teranth/ltm/model"
	"github.com/teranth/ltm/render"
	"github.com/teranth/ltm/suggest"
	"github.com/teranth/ltm/timer"
	"github.com/teranth/ltm/validate"
)

// Dispatcher executes one resolved action against the ticket store and the
// in-memory session store. It owns the session store for the invocation;
// timer state does not outlive the process.
type Dispatcher struct {
	DB       *db.DB
	Sessions *timer.Store
	Registry *Registry
	Fields   *validate.Engine

	// Confirm asks before destructive actions. Stubbed in tests.
	Confirm func(prompt string) bool
}

func NewDispatcher(database *db.DB, sessions *timer.Store, confirm func(string) bool) (*Dispatcher, error) {
	registry, err := NewRegistry()
	if err != nil {
		return nil, &model.InternalError{Op: "build command table", Cause: err}
	}
	if confirm == nil {
		confirm = func(string) bool { return true }
	}
	return &Dispatcher{
		DB:       database,
		Sessions: sessions,
		Registry: registry,
		Fields:   validate.NewEngine(database.ProjectNames),
		Confirm:  confirm,
	}, nil
}

// Run resolves and executes one command invocation. Validation completes
// before any state-mutating call; a failure leaves both stores untouched.
func (d *Dispatcher) Run(tokens []string) (render.Result, error) {
	action, notice, err := d.Registry.Resolve(tokens)
	if err != nil {
		return render.Result{}, err
	}
	res, err := d.execute(action)
	if err != nil {
		return render.Result{}, err
	}
	res.Op = string(action.Op)
	res.Notice = notice
	return res, nil
}

func (d *Dispatcher) execute(a Action) (render.Result, error) {
	switch a.Op {
	case OpInit:
		if err := d.DB.Init(); err != nil {
			return render.Result{}, &model.InternalError{Op: "initialize database", Cause: err}
		}
		return render.Result{Message: "Database initialized successfully!"}, nil

	case OpTicketCreate:
		return d.ticketCreate(a)
	case OpTicketList:
		return d.ticketList(a)
	case OpTicketShow:
		return d.ticketShow(a)
	case OpTicketUpdate:
		return d.ticketUpdate(a)
	case OpTicketDelete:
		return d.ticketDelete(a)
	case OpTicketMove, OpUpdateProject:
		return d.ticketMove(a)
	case OpTicketCopy:
		return d.ticketCopy(a)

	case OpProjectShow, OpProjectSummary:
		return d.projectSummary(a)
	case OpProjectList:
		return d.projectList()
	case OpProjectStats:
		if len(a.Args) == 0 {
			return d.projectList()
		}
		return d.projectSummary(a)

	case OpCommentAdd:
		return d.commentAdd(a)
	case OpCommentList:
		return d.commentList(a)
	case OpCommentShow:
		return d.commentShow(a)
	case OpCommentUpdate:
		return d.commentUpdate(a)
	case OpCommentDelete:
		return d.commentDelete(a)

	case OpTimeStart:
		return d.timeStart(a)
	case OpTimeStop:
		return d.timeStop(a)
	case OpTimeCancel:
		return d.timeCancel(a)
	case OpTimePause:
		return d.timePause(a)
	case OpTimeResume:
		return d.timeResume(a)
	case OpTimeLog:
		return d.timeLog(a)
	case OpTimeList:
		return d.timeList(a)
	case OpTimeActive:
		return d.timeActive()
	case OpTimeSummary:
		return d.timeSummary(a)
	case OpTimeUpdate:
		return d.timeUpdate(a)
	case OpTimeDelete:
		return d.timeDelete(a)

	case OpUpdateStatus:
		return d.updateStatus(a, "", a.Flags.Force)
	case OpUpdateName:
		return d.updateName(a)
	case OpUpdateDescription:
		return d.updateDescription(a)

	case OpOpen:
		return d.quickStatus(a, model.StatusOpen)
	case OpComplete:
		return d.quickStatus(a, model.StatusClosed)
	case OpBlock:
		return d.block(a)
	case OpStart:
		return d.startWork(a)
	case OpClose:
		return d.closeTicket(a)
	}

	// Unreachable while the table and this switch stay in sync.
	return render.Result{}, &model.InternalError{
		Op:    string(a.Op),
		Cause: errors.New("operation not implemented"),
	}
}

// requireTicket validates the identifier and checks the record exists.
func (d *Dispatcher) requireTicket(raw string) (model.Ticket, error) {
	id, err := d.Fields.TicketID(raw)
	if err != nil {
		return model.Ticket{}, err
	}
	ticket, err := d.DB.GetTicket(id)
	if errors.Is(err, db.ErrNotFound) {
		return model.Ticket{}, model.TicketNotFound(id)
	}
	if err != nil {
		return model.Ticket{}, &model.InternalError{Op: "load ticket", Cause: err}
	}
	return ticket, nil
}

func (d *Dispatcher) ticketCreate(a Action) (render.Result, error) {
	if err := needArgs(a, 2, "ticket create <project> <name> [description]"); err != nil {
		return render.Result{}, err
	}
	project, err := d.Fields.ProjectName(a.Args[0])
	if err != nil {
		return render.Result{}, err
	}
	name, err := d.Fields.Content(validate.KindTicketName, a.Args[1])
	if err != nil {
		return render.Result{}, err
	}
	description := strings.Join(a.Args[2:], " ")
	if description != "" {
		if description, err = d.Fields.Content(validate.KindDescription, description); err != nil {
			return render.Result{}, err
		}
	}

	id, err := d.DB.AddTicket(project, name, description)
	if err != nil {
		return render.Result{}, &model.InternalError{Op: "create ticket", Cause: err}
	}
	return render.Result{
		Message: fmt.Sprintf("Ticket created with ID: %d", id),
		Payload: render.TicketCreated{TicketID: id, Project: project, Name: name},
	}, nil
}

func (d *Dispatcher) ticketList(a Action) (render.Result, error) {
	filter := db.ListFilter{Project: a.Flags.Project, Status: a.Flags.Status, Sort: a.Flags.Sort}
	if len(a.Args) > 0 && filter.Project == "" {
		// Legacy flat form takes the project as a positional.
		filter.Project = a.Args[0]
	}

	var err error
	if filter.Project != "" {
		if filter.Project, err = d.Fields.ProjectName(filter.Project); err != nil {
			return render.Result{}, err
		}
	}
	if filter.Status != "" {
		if filter.Status, err = d.Fields.Status(filter.Status); err != nil {
			return render.Result{}, err
		}
	}

	tickets, err := d.DB.ListTickets(filter)
	if err != nil {
		return render.Result{}, &model.InternalError{Op: "list tickets", Cause: err}
	}

	res := render.Result{Payload: render.NewTicketList(tickets, filter.Project)}
	if len(tickets) > 0 {
		res.Message = fmt.Sprintf("Found %d ticket(s)", len(tickets))
	}
	return res, nil
}

func (d *Dispatcher) ticketShow(a Action) (render.Result, error) {
	if err := needArgs(a, 1, "ticket show <id>"); err != nil {
		return render.Result{}, err
	}
	ticket, err := d.requireTicket(a.Args[0])
	if err != nil {
		return render.Result{}, err
	}
	comments, err := d.DB.Comments(ticket.ID)
	if err != nil {
		return render.Result{}, &model.InternalError{Op: "load comments", Cause: err}
	}
	logs, err := d.DB.TimeLogs(ticket.ID)
	if err != nil {
		return render.Result{}, &model.InternalError{Op: "load time logs", Cause: err}
	}
	return render.Result{
		Payload: render.TicketDetails{Ticket: ticket, Comments: comments, TimeLogs: logs, Full: a.Flags.Full},
	}, nil
}

func (d *Dispatcher) ticketUpdate(a Action) (render.Result, error) {
	if err := needArgs(a, 3, "ticket update <id> <field> <value>"); err != nil {
		return render.Result{}, err
	}
	field := strings.ToLower(a.Args[1])
	rest := Action{Op: a.Op, Args: append([]string{a.Args[0]}, a.Args[2:]...), Flags: a.Flags}
	switch field {
	case "name":
		return d.updateName(rest)
	case "description":
		return d.updateDescription(rest)
	case "status":
		return d.updateStatus(rest, "", a.Flags.Force)
	case "project":
		return d.ticketMove(rest)
	}
	fields := []string{"name", "description", "status", "project"}
	return render.Result{}, &model.ValidationError{
		Field:       "field",
		Value:       a.Args[1],
		Reason:      "supported fields: " + strings.Join(fields, ", "),
		Code:        "INVALID_FIELD",
		Suggestions: suggest.Top(suggest.JaroWinkler{}, field, fields),
	}
}

func (d *Dispatcher) ticketDelete(a Action) (render.Result, error) {
	if err := needArgs(a, 1, "ticket delete <id>"); err != nil {
		return render.Result{}, err
	}
	ticket, err := d.requireTicket(a.Args[0])
	if err != nil {
		return render.Result{}, err
	}
	if !a.Flags.Force && !d.Confirm(fmt.Sprintf("delete ticket %d ('%s')", ticket.ID, ticket.Name)) {
		return render.Result{Message: "Operation cancelled"}, nil
	}
	if err := d.DB.DeleteTicket(ticket.ID); err != nil {
		return render.Result{}, d.storeErr("delete ticket", ticket.ID, err)
	}
	return render.Result{Message: fmt.Sprintf("Ticket %d deleted", ticket.ID)}, nil
}

func (d *Dispatcher) ticketMove(a Action) (render.Result, error) {
	if err := needArgs(a, 2, "ticket move <id> <project>"); err != nil {
		return render.Result{}, err
	}
	ticket, err := d.requireTicket(a.Args[0])
	if err != nil {
		return render.Result{}, err
	}
	project, err := d.Fields.ProjectName(a.Args[1])
	if err != nil {
		return render.Result{}, err
	}
	if err := d.DB.MoveTicket(ticket.ID, project); err != nil {
		return render.Result{}, d.storeErr("move ticket", ticket.ID, err)
	}
	return render.Result{
		Message: fmt.Sprintf("Ticket %d moved to project '%s'", ticket.ID, project),
	}, nil
}

func (d *Dispatcher) ticketCopy(a Action) (render.Result, error) {
	if err := needArgs(a, 1, "ticket copy <id> [project]"); err != nil {
		return render.Result{}, err
	}
	ticket, err := d.requireTicket(a.Args[0])
	if err != nil {
		return render.Result{}, err
	}
	project := ""
	if len(a.Args) > 1 {
		if project, err = d.Fields.ProjectName(a.Args[1]); err != nil {
			return render.Result{}, err
		}
	}
	newID, err := d.DB.CopyTicket(ticket.ID, project)
	if err != nil {
		return render.Result{}, d.storeErr("copy ticket", ticket.ID, err)
	}
	return render.Result{
		Message: fmt.Sprintf("Copied ticket %d to new ticket %d", ticket.ID, newID),
		Payload: render.TicketCreated{TicketID: newID, Project: project, Name: ticket.Name},
	}, nil
}

func (d *Dispatcher) projectSummary(a Action) (render.Result, error) {
	if err := needArgs(a, 1, "project show <name>"); err != nil {
		return render.Result{}, err
	}
	project, err := d.Fields.KnownProject(a.Args[0])
	if err != nil {
		return render.Result{}, err
	}
	summary, err := d.DB.ProjectSummary(project)
	if err != nil {
		return render.Result{}, &model.InternalError{Op: "load project summary", Cause: err}
	}
	return render.Result{Payload: summary}, nil
}

func (d *Dispatcher) projectList() (render.Result, error) {
	names, err := d.DB.ProjectNames()
	if err != nil {
		return render.Result{}, &model.InternalError{Op: "list projects", Cause: err}
	}
	res := render.Result{Payload: render.ProjectList{Projects: names}}
	if len(names) > 0 {
		res.Message = fmt.Sprintf("Found %d project(s)", len(names))
	}
	return res, nil
}

func (d *Dispatcher) commentAdd(a Action) (render.Result, error) {
	if err := needArgs(a, 2, "comment add <ticket-id> <content>"); err != nil {
		return render.Result{}, err
	}
	ticket, err := d.requireTicket(a.Args[0])
	if err != nil {
		return render.Result{}, err
	}
	content, err := d.Fields.Content(validate.KindComment, strings.Join(a.Args[1:], " "))
	if err != nil {
		return render.Result{}, err
	}
	if _, err := d.DB.AddComment(ticket.ID, content); err != nil {
		return render.Result{}, &model.InternalError{Op: "add comment", Cause: err}
	}
	return render.Result{
		Message: fmt.Sprintf("Comment added to ticket %d ('%s')", ticket.ID, ticket.Name),
	}, nil
}

func (d *Dispatcher) commentList(a Action) (render.Result, error) {
	if err := needArgs(a, 1, "comment list <ticket-id>"); err != nil {
		return render.Result{}, err
	}
	ticket, err := d.requireTicket(a.Args[0])
	if err != nil {
		return render.Result{}, err
	}
	comments, err := d.DB.Comments(ticket.ID)
	if err != nil {
		return render.Result{}, &model.InternalError{Op: "load comments", Cause: err}
	}
	res := render.Result{Payload: render.CommentList{TicketID: ticket.ID, Comments: comments}}
	if len(comments) > 0 {
		res.Message = fmt.Sprintf("Found %d comment(s)", len(comments))
	}
	return res, nil
}

func (d *Dispatcher) commentShow(a Action) (render.Result, error) {
	if err := needArgs(a, 1, "comment show <id>"); err != nil {
		return render.Result{}, err
	}
	id, err := d.Fields.ID("comment id", a.Args[0])
	if err != nil {
		return render.Result{}, err
	}
	comment, err := d.DB.GetComment(id)
	if errors.Is(err, db.ErrNotFound) {
		return render.Result{}, &model.NotFoundError{Entity: "comment", Key: a.Args[0]}
	}
	if err != nil {
		return render.Result{}, &model.InternalError{Op: "load comment", Cause: err}
	}
	return render.Result{Payload: comment}, nil
}

func (d *Dispatcher) commentUpdate(a Action) (render.Result, error) {
	if err := needArgs(a, 2, "comment update <id> <content>"); err != nil {
		return render.Result{}, err
	}
	id, err := d.Fields.ID("comment id", a.Args[0])
	if err != nil {
		return render.Result{}, err
	}
	content, err := d.Fields.Content(validate.KindComment, strings.Join(a.Args[1:], " "))
	if err != nil {
		return render.Result{}, err
	}
	if err := d.DB.UpdateComment(id, content); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return render.Result{}, &model.NotFoundError{Entity: "comment", Key: a.Args[0]}
		}
		return render.Result{}, &model.InternalError{Op: "update comment", Cause: err}
	}
	return render.Result{Message: fmt.Sprintf("Comment #%d updated", id)}, nil
}

func (d *Dispatcher) commentDelete(a Action) (render.Result, error) {
	if err := needArgs(a, 1, "comment delete <id>"); err != nil {
		return render.Result{}, err
	}
	id, err := d.Fields.ID("comment id", a.Args[0])
	if err != nil {
		return render.Result{}, err
	}
	if !a.Flags.Force && !d.Confirm(fmt.Sprintf("delete comment #%d", id)) {
		return render.Result{Message: "Operation cancelled"}, nil
	}
	if err := d.DB.DeleteComment(id); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return render.Result{}, &model.NotFoundError{Entity: "comment", Key: a.Args[0]}
		}
		return render.Result{}, &model.InternalError{Op: "delete comment", Cause: err}
	}
	return render.Result{Message: fmt.Sprintf("Deleted comment #%d", id)}, nil
}

func (d *Dispatcher) timeStart(a Action) (render.Result, error) {
	if err := needArgs(a, 1, "time start <ticket-id>"); err != nil {
		return render.Result{}, err
	}
	ticket, err := d.requireTicket(a.Args[0])
	if err != nil {
		return render.Result{}, err
	}
	if err := d.Sessions.Start(ticket.ID); err != nil {
		return render.Result{}, err
	}
	return render.Result{
		Message: fmt.Sprintf("Started time tracking for ticket %d ('%s')", ticket.ID, ticket.Name),
	}, nil
}

func (d *Dispatcher) timeStop(a Action) (render.Result, error) {
	var stopped timer.Stopped
	var err error
	if len(a.Args) > 0 {
		var ticket model.Ticket
		if ticket, err = d.requireTicket(a.Args[0]); err != nil {
			return render.Result{}, err
		}
		stopped, err = d.Sessions.Stop(ticket.ID)
	} else {
		stopped, err = d.Sessions.StopOnly()
	}
	if err != nil {
		return render.Result{}, err
	}

	hours, minutes := splitDuration(stopped.Elapsed)
	if _, err := d.DB.AddTimeLog(stopped.TicketID, hours, minutes, &stopped.StartedAt, &stopped.EndedAt); err != nil {
		return render.Result{}, &model.InternalError{Op: "log time", Cause: err}
	}
	return render.Result{
		Message: fmt.Sprintf("Logged %dh %dm for ticket %d", hours, minutes, stopped.TicketID),
		Payload: render.TimeLogged{TicketID: stopped.TicketID, Hours: hours, Minutes: minutes},
	}, nil
}

func (d *Dispatcher) timeCancel(a Action) (render.Result, error) {
	var id int64
	if len(a.Args) > 0 {
		ticket, err := d.requireTicket(a.Args[0])
		if err != nil {
			return render.Result{}, err
		}
		if err := d.Sessions.Cancel(ticket.ID); err != nil {
			return render.Result{}, err
		}
		id = ticket.ID
	} else {
		var err error
		if id, err = d.Sessions.CancelOnly(); err != nil {
			return render.Result{}, err
		}
	}
	return render.Result{
		Message: fmt.Sprintf("Cancelled time tracking for ticket %d", id),
	}, nil
}

func (d *Dispatcher) timePause(a Action) (render.Result, error) {
	if err := needArgs(a, 1, "time pause <ticket-id>"); err != nil {
		return render.Result{}, err
	}
	id, err := d.Fields.TicketID(a.Args[0])
	if err != nil {
		return render.Result{}, err
	}
	if err := d.Sessions.Pause(id); err != nil {
		return render.Result{}, err
	}
	return render.Result{Message: fmt.Sprintf("Paused time tracking for ticket %d", id)}, nil
}

func (d *Dispatcher) timeResume(a Action) (render.Result, error) {
	if err := needArgs(a, 1, "time resume <ticket-id>"); err != nil {
		return render.Result{}, err
	}
	id, err := d.Fields.TicketID(a.Args[0])
	if err != nil {
		return render.Result{}, err
	}
	if err := d.Sessions.Resume(id); err != nil {
		return render.Result{}, err
	}
	return render.Result{Message: fmt.Sprintf("Resumed time tracking for ticket %d", id)}, nil
}

func (d *Dispatcher) timeLog(a Action) (render.Result, error) {
	if err := needArgs(a, 2, "time log <ticket-id> <duration>"); err != nil {
		return render.Result{}, err
	}
	ticket, err := d.requireTicket(a.Args[0])
	if err != nil {
		return render.Result{}, err
	}
	hours, minutes, err := d.Fields.Duration(a.Args[1])
	if err != nil {
		return render.Result{}, err
	}
	if _, err := d.DB.AddTimeLog(ticket.ID, hours, minutes, nil, nil); err != nil {
		return render.Result{}, &model.InternalError{Op: "log time", Cause: err}
	}
	return render.Result{
		Message: fmt.Sprintf("Logged %dh %dm for ticket %d ('%s')", hours, minutes, ticket.ID, ticket.Name),
		Payload: render.TimeLogged{TicketID: ticket.ID, Hours: hours, Minutes: minutes},
	}, nil
}

func (d *Dispatcher) timeList(a Action) (render.Result, error) {
	if err := needArgs(a, 1, "time list <ticket-id>"); err != nil {
		return render.Result{}, err
	}
	ticket, err := d.requireTicket(a.Args[0])
	if err != nil {
		return render.Result{}, err
	}
	logs, err := d.DB.TimeLogs(ticket.ID)
	if err != nil {
		return render.Result{}, &model.InternalError{Op: "load time logs", Cause: err}
	}
	res := render.Result{Payload: render.TimeLogList{TicketID: ticket.ID, Logs: logs}}
	if len(logs) > 0 {
		res.Message = fmt.Sprintf("Found %d time log(s)", len(logs))
	}
	return res, nil
}

func (d *Dispatcher) timeActive() (render.Result, error) {
	now := d.Sessions.Now()
	var timers []render.TimerStatus
	for _, s := range d.Sessions.Active() {
		hours, minutes := splitDuration(s.Elapsed(now))
		state := "running"
		if s.Paused() {
			state = "paused"
		}
		name := ""
		if ticket, err := d.DB.GetTicket(s.TicketID); err == nil {
			name = ticket.Name
		}
		timers = append(timers, render.TimerStatus{
			TicketID: s.TicketID,
			Name:     name,
			Hours:    hours,
			Minutes:  minutes,
			State:    state,
		})
	}
	res := render.Result{Payload: render.TimerList{Timers: timers}}
	if len(timers) > 0 {
		res.Message = fmt.Sprintf("%d active timer(s)", len(timers))
	}
	return res, nil
}

func (d *Dispatcher) timeSummary(a Action) (render.Result, error) {
	if err := needArgs(a, 1, "time summary <ticket-id>"); err != nil {
		return render.Result{}, err
	}
	ticket, err := d.requireTicket(a.Args[0])
	if err != nil {
		return render.Result{}, err
	}
	logs, err := d.DB.TimeLogs(ticket.ID)
	if err != nil {
		return render.Result{}, &model.InternalError{Op: "load time logs", Cause: err}
	}
	total := 0
	for _, l := range logs {
		total += l.Hours*60 + l.Minutes
	}
	return render.Result{
		Payload: render.TimeSummary{
			TicketID: ticket.ID,
			Hours:    total / 60,
			Minutes:  total % 60,
			Entries:  len(logs),
		},
	}, nil
}

func (d *Dispatcher) timeUpdate(a Action) (render.Result, error) {
	if err := needArgs(a, 2, "time update <log-id> <duration>"); err != nil {
		return render.Result{}, err
	}
	id, err := d.Fields.ID("time log id", a.Args[0])
	if err != nil {
		return render.Result{}, err
	}
	hours, minutes, err := d.Fields.Duration(a.Args[1])
	if err != nil {
		return render.Result{}, err
	}
	if err := d.DB.UpdateTimeLog(id, hours, minutes); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return render.Result{}, &model.NotFoundError{Entity: "time log", Key: a.Args[0]}
		}
		return render.Result{}, &model.InternalError{Op: "update time log", Cause: err}
	}
	return render.Result{
		Message: fmt.Sprintf("Time log #%d updated to %dh %dm", id, hours, minutes),
	}, nil
}

func (d *Dispatcher) timeDelete(a Action) (render.Result, error) {
	if err := needArgs(a, 1, "time delete <log-id>"); err != nil {
		return render.Result{}, err
	}
	id, err := d.Fields.ID("time log id", a.Args[0])
	if err != nil {
		return render.Result{}, err
	}
	if !a.Flags.Force && !d.Confirm(fmt.Sprintf("delete time log #%d", id)) {
		return render.Result{Message: "Operation cancelled"}, nil
	}
	if err := d.DB.DeleteTimeLog(id); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return render.Result{}, &model.NotFoundError{Entity: "time log", Key: a.Args[0]}
		}
		return render.Result{}, &model.InternalError{Op: "delete time log", Cause: err}
	}
	return render.Result{Message: fmt.Sprintf("Deleted time log #%d", id)}, nil
}

// updateStatus handles "update status <id> <status>" and the quick
// shortcuts that pass a fixed status with confirmation skipped.
func (d *Dispatcher) updateStatus(a Action, fixed string, skipConfirm bool) (render.Result, error) {
	if fixed == "" {
		if err := needArgs(a, 2, "update status <id> <status>"); err != nil {
			return render.Result{}, err
		}
	} else if err := needArgs(a, 1, "<command> <id>"); err != nil {
		return render.Result{}, err
	}

	status := fixed
	var err error
	if status == "" {
		if status, err = d.Fields.Status(a.Args[1]); err != nil {
			return render.Result{}, err
		}
	}
	ticket, err := d.requireTicket(a.Args[0])
	if err != nil {
		return render.Result{}, err
	}

	if !skipConfirm && !d.Confirm(fmt.Sprintf("update status of ticket %d ('%s')", ticket.ID, ticket.Name)) {
		return render.Result{Message: "Operation cancelled"}, nil
	}
	if err := d.DB.UpdateTicketStatus(ticket.ID, status); err != nil {
		return render.Result{}, d.storeErr("update status", ticket.ID, err)
	}
	return render.Result{
		Message: fmt.Sprintf("Ticket %d status updated to: %s", ticket.ID, status),
		Payload: render.StatusChanged{TicketID: ticket.ID, Status: status},
	}, nil
}

func (d *Dispatcher) updateName(a Action) (render.Result, error) {
	if err := needArgs(a, 2, "update name <id> <name>"); err != nil {
		return render.Result{}, err
	}
	ticket, err := d.requireTicket(a.Args[0])
	if err != nil {
		return render.Result{}, err
	}
	name, err := d.Fields.Content(validate.KindTicketName, strings.Join(a.Args[1:], " "))
	if err != nil {
		return render.Result{}, err
	}
	if err := d.DB.UpdateTicketName(ticket.ID, name); err != nil {
		return render.Result{}, d.storeErr("update name", ticket.ID, err)
	}
	return render.Result{Message: fmt.Sprintf("Ticket %d name updated", ticket.ID)}, nil
}

func (d *Dispatcher) updateDescription(a Action) (render.Result, error) {
	if err := needArgs(a, 2, "update description <id> <text>"); err != nil {
		return render.Result{}, err
	}
	ticket, err := d.requireTicket(a.Args[0])
	if err != nil {
		return render.Result{}, err
	}
	description, err := d.Fields.Content(validate.KindDescription, strings.Join(a.Args[1:], " "))
	if err != nil {
		return render.Result{}, err
	}
	if err := d.DB.UpdateTicketDescription(ticket.ID, description); err != nil {
		return render.Result{}, d.storeErr("update description", ticket.ID, err)
	}
	return render.Result{Message: fmt.Sprintf("Ticket %d description updated", ticket.ID)}, nil
}

func (d *Dispatcher) quickStatus(a Action, status string) (render.Result, error) {
	return d.updateStatus(a, status, true)
}

func (d *Dispatcher) block(a Action) (render.Result, error) {
	if err := needArgs(a, 1, "block <id> [reason]"); err != nil {
		return render.Result{}, err
	}

	reason := strings.Join(a.Args[1:], " ")
	if reason != "" {
		var err error
		if reason, err = d.Fields.Content(validate.KindComment, reason); err != nil {
			return render.Result{}, err
		}
	}

	res, err := d.updateStatus(Action{Op: a.Op, Args: a.Args[:1], Flags: a.Flags}, model.StatusBlocked, true)
	if err != nil {
		return render.Result{}, err
	}

	if reason != "" {
		id, _ := d.Fields.TicketID(a.Args[0])
		if _, err := d.DB.AddComment(id, "Blocked: "+reason); err != nil {
			return render.Result{}, &model.InternalError{Op: "add blocking comment", Cause: err}
		}
		res.Message += " (reason recorded as comment)"
	}
	return res, nil
}

// startWork is the "start" shortcut: in-progress status plus a running
// timer in one step.
func (d *Dispatcher) startWork(a Action) (render.Result, error) {
	if err := needArgs(a, 1, "start <id>"); err != nil {
		return render.Result{}, err
	}
	ticket, err := d.requireTicket(a.Args[0])
	if err != nil {
		return render.Result{}, err
	}
	if err := d.Sessions.Start(ticket.ID); err != nil {
		return render.Result{}, err
	}
	if err := d.DB.UpdateTicketStatus(ticket.ID, model.StatusInProgress); err != nil {
		// Roll the timer back so a store failure leaves no half-applied state.
		d.Sessions.Cancel(ticket.ID)
		return render.Result{}, d.storeErr("update status", ticket.ID, err)
	}
	return render.Result{
		Message: fmt.Sprintf("Started working on ticket %d (status: in-progress, timer: started)", ticket.ID),
		Payload: render.StatusChanged{TicketID: ticket.ID, Status: model.StatusInProgress},
	}, nil
}

func (d *Dispatcher) closeTicket(a Action) (render.Result, error) {
	if err := needArgs(a, 1, "close <id> [status]"); err != nil {
		return render.Result{}, err
	}
	status := model.StatusClosed
	if len(a.Args) > 1 {
		var err error
		if status, err = d.Fields.Status(a.Args[1]); err != nil {
			return render.Result{}, err
		}
	}
	return d.updateStatus(Action{Op: a.Op, Args: a.Args[:1], Flags: a.Flags}, status, a.Flags.Force)
}

func (d *Dispatcher) storeErr(op string, id int64, err error) error {
	if errors.Is(err, db.ErrNotFound) {
		return model.TicketNotFound(id)
	}
	return &model.InternalError{Op: op, Cause: err}
}

func needArgs(a Action, n int, usage string) error {
	if len(a.Args) >= n {
		return nil
	}
	return &model.ValidationError{
		Field:  "arguments",
		Value:  strings.Join(a.Args, " "),
		Reason: "usage: ltm " + usage,
		Code:   "MISSING_ARGUMENT",
	}
}

func splitDuration(d time.Duration) (int, int) {
	minutes := int(d.Minutes())
	return minutes / 60, minutes % 60
}
