package scheduling

import (
	"context"
	"errors"
	"sort"

	"github.com/google/uuid"
)

// AvailabilityProvider supplies a profile's advertised windows. It returns
// ErrNotFound when the profile does not exist.
type AvailabilityProvider interface {
	GetAvailability(ctx context.Context, ref ProfileRef) (*AvailabilitySet, error)
}

// MeetingGateway is the durable store behind the ledger. Writes must be
// idempotent per meeting ID so transient failures can be retried safely.
type MeetingGateway interface {
	SaveMeeting(ctx context.Context, m Meeting) error
	UpdateMeeting(ctx context.Context, m Meeting) error
}

// Service orchestrates the ledger and its collaborators. The ledger entry is
// rolled back when the durable write fails, so a failed request leaves no
// trace.
type Service struct {
	ledger   *MeetingLedger
	profiles AvailabilityProvider
	gateway  MeetingGateway
}

func NewService(ledger *MeetingLedger, profiles AvailabilityProvider, gateway MeetingGateway) *Service {
	return &Service{ledger: ledger, profiles: profiles, gateway: gateway}
}

func (s *Service) RequestMeeting(ctx context.Context, req MeetingRequest) (Meeting, error) {
	if !req.Interval.Valid() {
		return Meeting{}, ErrInvalidInterval
	}
	if req.Requester.ID == req.Counterpart.ID {
		return Meeting{}, ErrSelfMeeting
	}

	availability, err := s.profiles.GetAvailability(ctx, req.Counterpart)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Meeting{}, ErrNotFound
		}
		return Meeting{}, ErrStoreUnavailable
	}

	m, err := s.ledger.Create(req, availability)
	if err != nil {
		return Meeting{}, err
	}
	if err := s.gateway.SaveMeeting(ctx, m); err != nil {
		s.ledger.remove(m.ID)
		return Meeting{}, ErrStoreUnavailable
	}
	return m, nil
}

func (s *Service) Transition(ctx context.Context, id uuid.UUID, action TransitionAction) (Meeting, error) {
	prev, err := s.ledger.Get(id)
	if err != nil {
		return Meeting{}, err
	}
	m, err := s.ledger.Transition(id, action)
	if err != nil {
		return Meeting{}, err
	}
	if err := s.gateway.UpdateMeeting(ctx, m); err != nil {
		s.ledger.setState(id, prev.State)
		return Meeting{}, ErrStoreUnavailable
	}
	return m, nil
}

func (s *Service) Get(id uuid.UUID) (Meeting, error) {
	return s.ledger.Get(id)
}

func (s *Service) HasConflict(ref ProfileRef, iv TimeInterval) bool {
	return s.ledger.HasConflict(ref, iv)
}

func (s *Service) ListForParticipant(ref ProfileRef) []Meeting {
	return s.ledger.ListForParticipant(ref)
}

// ListForUser merges the user's student-side and teacher-side meetings,
// ordered by start time ascending.
func (s *Service) ListForUser(userID uuid.UUID) []Meeting {
	out := s.ledger.ListForParticipant(ProfileRef{ID: userID, Role: RoleStudent})
	out = append(out, s.ledger.ListForParticipant(ProfileRef{ID: userID, Role: RoleTeacher})...)
	sort.Slice(out, func(i, j int) bool {
		return out[i].Interval.Start.Before(out[j].Interval.Start)
	})
	return out
}
