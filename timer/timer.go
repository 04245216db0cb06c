// Package timer holds the in-memory time-tracking sessions for one process
// invocation. State is lost on exit; durability would require backing the
// store with the database.
package timer

import (
	"fmt"
	"sort"
	"time"

	"github.com/teranth/ltm/model"
)

// Session is an open tracking interval for one ticket. A ticket with no
// session is idle.
type Session struct {
	TicketID  int64
	StartedAt time.Time
	PausedAt  time.Time     // zero unless paused
	Accrued   time.Duration // time banked before the last resume
}

func (s *Session) Paused() bool { return !s.PausedAt.IsZero() }

// Elapsed is the tracked time as of now. A negative value from a clock
// anomaly clamps to zero.
func (s *Session) Elapsed(now time.Time) time.Duration {
	d := s.Accrued
	if !s.Paused() {
		d += now.Sub(s.StartedAt)
	}
	if d < 0 {
		return 0
	}
	return d
}

// Stopped is the outcome of a stop transition, handed to the caller for
// persistence.
type Stopped struct {
	TicketID  int64
	StartedAt time.Time
	EndedAt   time.Time
	Elapsed   time.Duration
}

type Store struct {
	now      func() time.Time
	sessions map[int64]*Session
}

func NewStore(now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{now: now, sessions: make(map[int64]*Session)}
}

// Start opens a session for the ticket. A ticket that already has a running
// or paused session is rejected, never overwritten.
func (st *Store) Start(id int64) error {
	if _, ok := st.sessions[id]; ok {
		return &model.ConflictError{Reason: fmt.Sprintf("timer for ticket %d is already running", id)}
	}
	st.sessions[id] = &Session{TicketID: id, StartedAt: st.now()}
	return nil
}

// Stop closes the session and returns its elapsed time.
func (st *Store) Stop(id int64) (Stopped, error) {
	s, ok := st.sessions[id]
	if !ok {
		return Stopped{}, timerNotFound(id)
	}
	now := st.now()
	delete(st.sessions, id)
	return Stopped{
		TicketID:  id,
		StartedAt: s.StartedAt,
		EndedAt:   now,
		Elapsed:   s.Elapsed(now),
	}, nil
}

// StopOnly stops the single active session. With none it fails with
// NoActiveSession; with several the caller must disambiguate.
func (st *Store) StopOnly() (Stopped, error) {
	id, err := st.onlyActive()
	if err != nil {
		return Stopped{}, err
	}
	return st.Stop(id)
}

// Cancel drops the session, discarding its elapsed time.
func (st *Store) Cancel(id int64) error {
	if _, ok := st.sessions[id]; !ok {
		return timerNotFound(id)
	}
	delete(st.sessions, id)
	return nil
}

// CancelOnly cancels the single active session, with StopOnly's targeting
// rules.
func (st *Store) CancelOnly() (int64, error) {
	id, err := st.onlyActive()
	if err != nil {
		return 0, err
	}
	return id, st.Cancel(id)
}

func (st *Store) Pause(id int64) error {
	s, ok := st.sessions[id]
	if !ok {
		return timerNotFound(id)
	}
	if s.Paused() {
		return &model.ConflictError{Reason: fmt.Sprintf("timer for ticket %d is already paused", id)}
	}
	now := st.now()
	segment := now.Sub(s.StartedAt)
	if segment > 0 {
		s.Accrued += segment
	}
	s.PausedAt = now
	return nil
}

func (st *Store) Resume(id int64) error {
	s, ok := st.sessions[id]
	if !ok {
		return timerNotFound(id)
	}
	if !s.Paused() {
		return &model.ConflictError{Reason: fmt.Sprintf("timer for ticket %d is not paused", id)}
	}
	s.StartedAt = st.now()
	s.PausedAt = time.Time{}
	return nil
}

// Active returns all sessions sorted by ticket id.
func (st *Store) Active() []*Session {
	out := make([]*Session, 0, len(st.sessions))
	for _, s := range st.sessions {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TicketID < out[j].TicketID })
	return out
}

func (st *Store) Get(id int64) (*Session, bool) {
	s, ok := st.sessions[id]
	return s, ok
}

func (st *Store) Len() int { return len(st.sessions) }

// Now exposes the store's clock so callers render elapsed time consistently.
func (st *Store) Now() time.Time { return st.now() }

func (st *Store) onlyActive() (int64, error) {
	switch len(st.sessions) {
	case 0:
		return 0, &model.NoActiveSessionError{}
	case 1:
		for id := range st.sessions {
			return id, nil
		}
	}
	ids := make([]int64, 0, len(st.sessions))
	for id := range st.sessions {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return 0, &model.AmbiguousTargetError{Candidates: ids}
}

func timerNotFound(id int64) error {
	return &model.NotFoundError{Entity: "timer", Key: fmt.Sprintf("%d", id)}
}
