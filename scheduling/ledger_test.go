package scheduling

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func testRefs() (ProfileRef, ProfileRef) {
	student := ProfileRef{ID: uuid.New(), Role: RoleStudent}
	teacher := ProfileRef{ID: uuid.New(), Role: RoleTeacher}
	return student, teacher
}

func testRequest(t *testing.T, student, teacher ProfileRef, startMin, endMin int) MeetingRequest {
	t.Helper()
	return MeetingRequest{
		Requester:   student,
		Counterpart: teacher,
		Interval:    iv(t, startMin, endMin),
		Subject:     "Algebra",
		Location:    "Library",
	}
}

func fullDay(t *testing.T) *AvailabilitySet {
	t.Helper()
	set, _ := NewAvailabilitySet(iv(t, 0, 24*60))
	return set
}

func TestLedgerCreate(t *testing.T) {
	ledger := NewMeetingLedger()
	student, teacher := testRefs()

	m, err := ledger.Create(testRequest(t, student, teacher, 60, 120), fullDay(t))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if m.State != StateRequested {
		t.Fatalf("expected requested, got %s", m.State)
	}
	if len(m.Participants) != 2 {
		t.Fatalf("expected 2 participants, got %d", len(m.Participants))
	}

	// a newly created meeting immediately blocks further overlaps
	if !ledger.HasConflict(student, iv(t, 90, 150)) {
		t.Fatal("requester conflict expected after create")
	}
	if !ledger.HasConflict(teacher, iv(t, 90, 150)) {
		t.Fatal("counterpart conflict expected after create")
	}
}

func TestLedgerCreateValidation(t *testing.T) {
	ledger := NewMeetingLedger()
	student, teacher := testRefs()

	req := testRequest(t, student, teacher, 60, 120)
	req.Interval = TimeInterval{Start: base.Add(2 * time.Hour), End: base.Add(time.Hour)}
	if _, err := ledger.Create(req, fullDay(t)); err != ErrInvalidInterval {
		t.Fatalf("expected ErrInvalidInterval, got %v", err)
	}

	self := testRequest(t, student, ProfileRef{ID: student.ID, Role: RoleTeacher}, 60, 120)
	if _, err := ledger.Create(self, fullDay(t)); err != ErrSelfMeeting {
		t.Fatalf("expected ErrSelfMeeting, got %v", err)
	}

	narrow, _ := NewAvailabilitySet(iv(t, 0, 90))
	if _, err := ledger.Create(testRequest(t, student, teacher, 60, 120), narrow); err != ErrNotAvailable {
		t.Fatalf("partial overlap: expected ErrNotAvailable, got %v", err)
	}
}

func TestLedgerCreateRejectsOverlapForEitherParty(t *testing.T) {
	ledger := NewMeetingLedger()
	student, teacher := testRefs()

	if _, err := ledger.Create(testRequest(t, student, teacher, 60, 120), fullDay(t)); err != nil {
		t.Fatalf("first create: %v", err)
	}

	// same teacher, different student
	other := ProfileRef{ID: uuid.New(), Role: RoleStudent}
	if _, err := ledger.Create(testRequest(t, other, teacher, 90, 150), fullDay(t)); err != ErrOverlapConflict {
		t.Fatalf("teacher side: expected ErrOverlapConflict, got %v", err)
	}

	// same student, different teacher
	otherTeacher := ProfileRef{ID: uuid.New(), Role: RoleTeacher}
	if _, err := ledger.Create(testRequest(t, student, otherTeacher, 90, 150), fullDay(t)); err != ErrOverlapConflict {
		t.Fatalf("student side: expected ErrOverlapConflict, got %v", err)
	}

	// back-to-back is fine
	if _, err := ledger.Create(testRequest(t, student, otherTeacher, 120, 180), fullDay(t)); err != nil {
		t.Fatalf("adjacent meeting: %v", err)
	}
}

func TestLedgerRolesConflictIndependently(t *testing.T) {
	ledger := NewMeetingLedger()
	student, teacher := testRefs()

	if _, err := ledger.Create(testRequest(t, student, teacher, 60, 120), fullDay(t)); err != nil {
		t.Fatalf("create: %v", err)
	}

	// the same user id under the other role is a different participant
	asTeacher := ProfileRef{ID: student.ID, Role: RoleTeacher}
	if ledger.HasConflict(asTeacher, iv(t, 60, 120)) {
		t.Fatal("teacher-side ref of the same user must not inherit student-side conflicts")
	}
}

func TestLedgerCancelledMeetingsDoNotConflict(t *testing.T) {
	ledger := NewMeetingLedger()
	student, teacher := testRefs()

	m, err := ledger.Create(testRequest(t, student, teacher, 60, 120), fullDay(t))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := ledger.Transition(m.ID, ActionCancel); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	if ledger.HasConflict(teacher, iv(t, 60, 120)) {
		t.Fatal("cancelled meeting must not conflict")
	}
	if _, err := ledger.Create(testRequest(t, student, teacher, 60, 120), fullDay(t)); err != nil {
		t.Fatalf("re-book after cancel: %v", err)
	}
}

func TestLedgerTransitions(t *testing.T) {
	student, teacher := testRefs()

	newMeeting := func(t *testing.T, ledger *MeetingLedger) Meeting {
		t.Helper()
		m, err := ledger.Create(testRequest(t, student, teacher, 60, 120), fullDay(t))
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		return m
	}

	t.Run("requested to confirmed to completed", func(t *testing.T) {
		ledger := NewMeetingLedger()
		m := newMeeting(t, ledger)
		if _, err := ledger.Transition(m.ID, ActionConfirm); err != nil {
			t.Fatalf("confirm: %v", err)
		}
		ledger.now = func() time.Time { return base.Add(3 * time.Hour) }
		done, err := ledger.Transition(m.ID, ActionComplete)
		if err != nil {
			t.Fatalf("complete: %v", err)
		}
		if done.State != StateCompleted {
			t.Fatalf("expected completed, got %s", done.State)
		}
	})

	t.Run("complete before end fails", func(t *testing.T) {
		ledger := NewMeetingLedger()
		m := newMeeting(t, ledger)
		if _, err := ledger.Transition(m.ID, ActionConfirm); err != nil {
			t.Fatalf("confirm: %v", err)
		}
		ledger.now = func() time.Time { return base.Add(90 * time.Minute) }
		if _, err := ledger.Transition(m.ID, ActionComplete); err != ErrIllegalTransition {
			t.Fatalf("expected ErrIllegalTransition, got %v", err)
		}
	})

	t.Run("complete a requested meeting fails", func(t *testing.T) {
		ledger := NewMeetingLedger()
		m := newMeeting(t, ledger)
		ledger.now = func() time.Time { return base.Add(3 * time.Hour) }
		if _, err := ledger.Transition(m.ID, ActionComplete); err != ErrIllegalTransition {
			t.Fatalf("expected ErrIllegalTransition, got %v", err)
		}
	})

	t.Run("terminal states are frozen", func(t *testing.T) {
		ledger := NewMeetingLedger()
		m := newMeeting(t, ledger)
		if _, err := ledger.Transition(m.ID, ActionCancel); err != nil {
			t.Fatalf("cancel: %v", err)
		}
		for _, action := range []TransitionAction{ActionConfirm, ActionCancel, ActionComplete} {
			if _, err := ledger.Transition(m.ID, action); err != ErrIllegalTransition {
				t.Fatalf("%s on cancelled: expected ErrIllegalTransition, got %v", action, err)
			}
		}
	})

	t.Run("unknown meeting", func(t *testing.T) {
		ledger := NewMeetingLedger()
		if _, err := ledger.Transition(uuid.New(), ActionConfirm); err != ErrNotFound {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestListForParticipant(t *testing.T) {
	ledger := NewMeetingLedger()
	student, teacher := testRefs()

	for _, span := range [][2]int{{240, 300}, {60, 120}, {120, 180}} {
		if _, err := ledger.Create(testRequest(t, student, teacher, span[0], span[1]), fullDay(t)); err != nil {
			t.Fatalf("create [%d,%d): %v", span[0], span[1], err)
		}
	}

	first := ledger.ListForParticipant(teacher)
	if len(first) != 3 {
		t.Fatalf("expected 3 meetings, got %d", len(first))
	}
	for i := 1; i < len(first); i++ {
		if first[i].Interval.Start.Before(first[i-1].Interval.Start) {
			t.Fatalf("meetings out of order at %d", i)
		}
	}

	second := ledger.ListForParticipant(teacher)
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Fatal("repeated listing must yield identical order")
		}
	}

	if got := ledger.ListForParticipant(ProfileRef{ID: uuid.New(), Role: RoleStudent}); len(got) != 0 {
		t.Fatalf("expected no meetings for stranger, got %d", len(got))
	}
}
