package scheduling

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MeetingLedger is the authoritative index of meetings used for conflict
// detection and lifecycle transitions. Create runs the availability check,
// the conflict checks for both parties and the insert under one lock, so two
// concurrent requests with overlapping intervals cannot both succeed.
type MeetingLedger struct {
	mu       sync.Mutex
	meetings map[uuid.UUID]*Meeting
	now      func() time.Time
}

func NewMeetingLedger() *MeetingLedger {
	return &MeetingLedger{
		meetings: make(map[uuid.UUID]*Meeting),
		now:      time.Now,
	}
}

func (l *MeetingLedger) HasConflict(ref ProfileRef, iv TimeInterval) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.hasConflict(ref, iv)
}

func (l *MeetingLedger) hasConflict(ref ProfileRef, iv TimeInterval) bool {
	for _, m := range l.meetings {
		if !m.State.Active() {
			continue
		}
		if m.HasParticipant(ref) && m.Interval.Overlaps(iv) {
			return true
		}
	}
	return false
}

// Create validates the request against the counterpart's availability and
// both parties' existing meetings, then records a new meeting in state
// requested. The returned value is a copy; callers cannot mutate the ledger
// entry through it.
func (l *MeetingLedger) Create(req MeetingRequest, counterpart *AvailabilitySet) (Meeting, error) {
	if !req.Interval.Valid() {
		return Meeting{}, ErrInvalidInterval
	}
	if req.Requester.ID == req.Counterpart.ID {
		return Meeting{}, ErrSelfMeeting
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if counterpart == nil || !counterpart.IsAvailable(req.Interval) {
		return Meeting{}, ErrNotAvailable
	}
	if l.hasConflict(req.Requester, req.Interval) || l.hasConflict(req.Counterpart, req.Interval) {
		return Meeting{}, ErrOverlapConflict
	}

	now := l.now()
	m := &Meeting{
		ID:           uuid.New(),
		Participants: []ProfileRef{req.Requester, req.Counterpart},
		Interval:     req.Interval,
		Subject:      req.Subject,
		Location:     req.Location,
		State:        StateRequested,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	l.meetings[m.ID] = m
	return *m, nil
}

// Transition applies a lifecycle action. Legal transitions:
// requested->confirmed, requested->cancelled, confirmed->cancelled and
// confirmed->completed (the latter only after the meeting has ended).
func (l *MeetingLedger) Transition(id uuid.UUID, action TransitionAction) (Meeting, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	m, ok := l.meetings[id]
	if !ok {
		return Meeting{}, ErrNotFound
	}
	next, err := l.nextState(m, action)
	if err != nil {
		return Meeting{}, err
	}
	m.State = next
	m.UpdatedAt = l.now()
	return *m, nil
}

func (l *MeetingLedger) nextState(m *Meeting, action TransitionAction) (MeetingState, error) {
	switch {
	case m.State == StateRequested && action == ActionConfirm:
		return StateConfirmed, nil
	case m.State == StateRequested && action == ActionCancel:
		return StateCancelled, nil
	case m.State == StateConfirmed && action == ActionCancel:
		return StateCancelled, nil
	case m.State == StateConfirmed && action == ActionComplete:
		if l.now().Before(m.Interval.End) {
			return "", ErrIllegalTransition
		}
		return StateCompleted, nil
	}
	return "", ErrIllegalTransition
}

func (l *MeetingLedger) Get(id uuid.UUID) (Meeting, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.meetings[id]
	if !ok {
		return Meeting{}, ErrNotFound
	}
	return *m, nil
}

// ListForParticipant returns the meetings the ref appears in, ordered by
// start time ascending.
func (l *MeetingLedger) ListForParticipant(ref ProfileRef) []Meeting {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := []Meeting{}
	for _, m := range l.meetings {
		if m.HasParticipant(ref) {
			out = append(out, *m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Interval.Start.Before(out[j].Interval.Start)
	})
	return out
}

// Restore loads a previously persisted meeting, used when rebuilding the
// ledger from the database at startup.
func (l *MeetingLedger) Restore(m Meeting) {
	l.mu.Lock()
	defer l.mu.Unlock()
	cp := m
	l.meetings[m.ID] = &cp
}

// remove undoes a create whose durable write failed.
func (l *MeetingLedger) remove(id uuid.UUID) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.meetings, id)
}

// setState undoes a transition whose durable write failed.
func (l *MeetingLedger) setState(id uuid.UUID, state MeetingState) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if m, ok := l.meetings[id]; ok {
		m.State = state
	}
}
