package scheduling

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleStudent Role = "student"
	RoleTeacher Role = "teacher"
)

// ProfileRef identifies one role of one user. A user holding both a student
// and a teacher profile schedules under two independent refs; their windows
// and meetings are never merged across roles.
type ProfileRef struct {
	ID   uuid.UUID `json:"id"`
	Role Role      `json:"role"`
}

type MeetingState string

const (
	StateRequested MeetingState = "requested"
	StateConfirmed MeetingState = "confirmed"
	StateCancelled MeetingState = "cancelled"
	StateCompleted MeetingState = "completed"
)

// Active states take part in conflict checks.
func (s MeetingState) Active() bool {
	return s == StateRequested || s == StateConfirmed
}

func (s MeetingState) Terminal() bool {
	return s == StateCancelled || s == StateCompleted
}

type TransitionAction string

const (
	ActionConfirm  TransitionAction = "confirm"
	ActionCancel   TransitionAction = "cancel"
	ActionComplete TransitionAction = "complete"
)

// MeetingRequest is the transient input to the scheduling service. It either
// becomes a Meeting or is discarded; it is never persisted on its own.
type MeetingRequest struct {
	Requester   ProfileRef
	Counterpart ProfileRef
	Interval    TimeInterval
	Subject     string
	Location    string
}

type Meeting struct {
	ID           uuid.UUID    `json:"id"`
	Participants []ProfileRef `json:"participants"`
	Interval     TimeInterval `json:"interval"`
	Subject      string       `json:"subject"`
	Location     string       `json:"location"`
	State        MeetingState `json:"state"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

func (m Meeting) HasParticipant(ref ProfileRef) bool {
	for _, p := range m.Participants {
		if p == ref {
			return true
		}
	}
	return false
}

// HasUser reports whether the user appears in the meeting under any role.
func (m Meeting) HasUser(userID uuid.UUID) bool {
	for _, p := range m.Participants {
		if p.ID == userID {
			return true
		}
	}
	return false
}
