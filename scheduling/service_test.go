package scheduling

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
)

type fakeProvider struct {
	sets map[ProfileRef]*AvailabilitySet
	err  error
}

func (p *fakeProvider) GetAvailability(_ context.Context, ref ProfileRef) (*AvailabilitySet, error) {
	if p.err != nil {
		return nil, p.err
	}
	set, ok := p.sets[ref]
	if !ok {
		return nil, ErrNotFound
	}
	return set, nil
}

type fakeGateway struct {
	mu      sync.Mutex
	saved   map[uuid.UUID]Meeting
	failOne bool
}

func (g *fakeGateway) SaveMeeting(_ context.Context, m Meeting) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failOne {
		g.failOne = false
		return errors.New("connection reset")
	}
	if g.saved == nil {
		g.saved = make(map[uuid.UUID]Meeting)
	}
	g.saved[m.ID] = m
	return nil
}

func (g *fakeGateway) UpdateMeeting(_ context.Context, m Meeting) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.failOne {
		g.failOne = false
		return errors.New("connection reset")
	}
	g.saved[m.ID] = m
	return nil
}

func newTestService(t *testing.T, teacher ProfileRef) (*Service, *fakeGateway) {
	t.Helper()
	provider := &fakeProvider{sets: map[ProfileRef]*AvailabilitySet{teacher: fullDay(t)}}
	gateway := &fakeGateway{}
	return NewService(NewMeetingLedger(), provider, gateway), gateway
}

func TestServiceRequestMeeting(t *testing.T) {
	student, teacher := testRefs()
	svc, gateway := newTestService(t, teacher)

	m, err := svc.RequestMeeting(context.Background(), testRequest(t, student, teacher, 60, 120))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if m.State != StateRequested {
		t.Fatalf("expected requested, got %s", m.State)
	}
	if _, ok := gateway.saved[m.ID]; !ok {
		t.Fatal("meeting not written to the gateway")
	}
}

func TestServiceRequestMeetingRejections(t *testing.T) {
	student, teacher := testRefs()
	svc, _ := newTestService(t, teacher)

	self := testRequest(t, student, ProfileRef{ID: student.ID, Role: RoleTeacher}, 60, 120)
	if _, err := svc.RequestMeeting(context.Background(), self); !errors.Is(err, ErrSelfMeeting) {
		t.Fatalf("expected ErrSelfMeeting, got %v", err)
	}

	unknown := testRequest(t, student, ProfileRef{ID: uuid.New(), Role: RoleTeacher}, 60, 120)
	if _, err := svc.RequestMeeting(context.Background(), unknown); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	bad := testRequest(t, student, teacher, 60, 120)
	bad.Interval = TimeInterval{Start: bad.Interval.End, End: bad.Interval.Start}
	if _, err := svc.RequestMeeting(context.Background(), bad); !errors.Is(err, ErrInvalidInterval) {
		t.Fatalf("expected ErrInvalidInterval, got %v", err)
	}
}

func TestServiceProviderFailureIsStoreUnavailable(t *testing.T) {
	student, teacher := testRefs()
	provider := &fakeProvider{err: errors.New("dial tcp: timeout")}
	svc := NewService(NewMeetingLedger(), provider, &fakeGateway{})

	if _, err := svc.RequestMeeting(context.Background(), testRequest(t, student, teacher, 60, 120)); !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
}

func TestServiceGatewayFailureLeavesNoTrace(t *testing.T) {
	student, teacher := testRefs()
	svc, gateway := newTestService(t, teacher)
	gateway.failOne = true

	req := testRequest(t, student, teacher, 60, 120)
	if _, err := svc.RequestMeeting(context.Background(), req); !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
	if svc.HasConflict(teacher, req.Interval) {
		t.Fatal("failed request must leave no ledger entry")
	}

	// the retry with the same interval succeeds
	if _, err := svc.RequestMeeting(context.Background(), req); err != nil {
		t.Fatalf("retry: %v", err)
	}
}

func TestServiceTransitionRollsBackOnGatewayFailure(t *testing.T) {
	student, teacher := testRefs()
	svc, gateway := newTestService(t, teacher)

	m, err := svc.RequestMeeting(context.Background(), testRequest(t, student, teacher, 60, 120))
	if err != nil {
		t.Fatalf("request: %v", err)
	}

	gateway.failOne = true
	if _, err := svc.Transition(context.Background(), m.ID, ActionConfirm); !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
	got, err := svc.Get(m.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.State != StateRequested {
		t.Fatalf("expected rollback to requested, got %s", got.State)
	}

	if _, err := svc.Transition(context.Background(), m.ID, ActionConfirm); err != nil {
		t.Fatalf("retry confirm: %v", err)
	}
}

func TestConcurrentOverlappingRequestsExactlyOneWins(t *testing.T) {
	teacher := ProfileRef{ID: uuid.New(), Role: RoleTeacher}

	// [09:00,10:00) and [09:30,10:30)
	reqs := []MeetingRequest{
		testRequest(t, ProfileRef{ID: uuid.New(), Role: RoleStudent}, teacher, 9*60, 10*60),
		testRequest(t, ProfileRef{ID: uuid.New(), Role: RoleStudent}, teacher, 9*60+30, 10*60+30),
	}

	for round := 0; round < 50; round++ {
		svc, _ := newTestService(t, teacher)

		var wg sync.WaitGroup
		errs := make([]error, len(reqs))
		for i, req := range reqs {
			wg.Add(1)
			go func(i int, req MeetingRequest) {
				defer wg.Done()
				_, errs[i] = svc.RequestMeeting(context.Background(), req)
			}(i, req)
		}
		wg.Wait()

		var wins, conflicts int
		for _, err := range errs {
			switch {
			case err == nil:
				wins++
			case errors.Is(err, ErrOverlapConflict):
				conflicts++
			default:
				t.Fatalf("unexpected error: %v", err)
			}
		}
		if wins != 1 || conflicts != 1 {
			t.Fatalf("round %d: wins=%d conflicts=%d, want exactly one of each", round, wins, conflicts)
		}
	}
}

func TestListForUserMergesRoles(t *testing.T) {
	student, teacher := testRefs()
	provider := &fakeProvider{sets: map[ProfileRef]*AvailabilitySet{
		teacher: fullDay(t),
		{ID: student.ID, Role: RoleTeacher}: fullDay(t),
	}}
	svc := NewService(NewMeetingLedger(), provider, &fakeGateway{})

	// the user meets a teacher as a student...
	if _, err := svc.RequestMeeting(context.Background(), testRequest(t, student, teacher, 120, 180)); err != nil {
		t.Fatalf("student-side request: %v", err)
	}
	// ...and tutors somebody else as a teacher
	other := ProfileRef{ID: uuid.New(), Role: RoleStudent}
	asTeacher := ProfileRef{ID: student.ID, Role: RoleTeacher}
	if _, err := svc.RequestMeeting(context.Background(), MeetingRequest{
		Requester:   other,
		Counterpart: asTeacher,
		Interval:    iv(t, 0, 60),
		Subject:     "Physics",
		Location:    "Online",
	}); err != nil {
		t.Fatalf("teacher-side request: %v", err)
	}

	meetings := svc.ListForUser(student.ID)
	if len(meetings) != 2 {
		t.Fatalf("expected 2 meetings, got %d", len(meetings))
	}
	if !meetings[0].Interval.Start.Before(meetings[1].Interval.Start) {
		t.Fatal("merged listing must be ordered by start time")
	}
}
