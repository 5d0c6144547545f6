package queue

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/adarshprakasan/Hospiq/internal/domain/directory"
	"github.com/adarshprakasan/Hospiq/internal/domain/roster"
)

// -- Mocks --

type mockTokenRepo struct {
	tokens map[uuid.UUID]*Token
	order  []uuid.UUID
}

func newMockTokenRepo() *mockTokenRepo {
	return &mockTokenRepo{tokens: make(map[uuid.UUID]*Token)}
}

func (m *mockTokenRepo) Create(_ context.Context, t *Token) error {
	t.ID = uuid.New()
	t.CreatedAt = time.Now()
	t.UpdatedAt = time.Now()
	m.tokens[t.ID] = t
	m.order = append(m.order, t.ID)
	return nil
}

func (m *mockTokenRepo) GetByID(_ context.Context, id uuid.UUID) (*Token, error) {
	t, ok := m.tokens[id]
	if !ok {
		return nil, fmt.Errorf("not found")
	}
	return t, nil
}

func (m *mockTokenRepo) Update(_ context.Context, t *Token) error {
	if _, ok := m.tokens[t.ID]; !ok {
		return fmt.Errorf("not found")
	}
	m.tokens[t.ID] = t
	return nil
}

func (m *mockTokenRepo) ListByDoctorAndDate(_ context.Context, doctorID uuid.UUID, date string) ([]*Token, error) {
	var result []*Token
	for _, id := range m.order {
		t := m.tokens[id]
		if t.DoctorID == doctorID && t.Date == date {
			result = append(result, t)
		}
	}
	return result, nil
}

func (m *mockTokenRepo) ListByHospitalAndDate(_ context.Context, hospitalID uuid.UUID, date string) ([]*Token, error) {
	var result []*Token
	for _, id := range m.order {
		t := m.tokens[id]
		if t.HospitalID == hospitalID && t.Date == date {
			result = append(result, t)
		}
	}
	return result, nil
}

func (m *mockTokenRepo) ListByPatient(_ context.Context, patientID uuid.UUID, limit, offset int) ([]*Token, int, error) {
	var result []*Token
	for i := len(m.order) - 1; i >= 0; i-- {
		t := m.tokens[m.order[i]]
		if t.PatientID != nil && *t.PatientID == patientID {
			result = append(result, t)
		}
	}
	return result, len(result), nil
}

type mockCounterRepo struct {
	counts map[string]int
}

func newMockCounterRepo() *mockCounterRepo {
	return &mockCounterRepo{counts: make(map[string]int)}
}

func (m *mockCounterRepo) NextNumber(_ context.Context, doctorID uuid.UUID, date string) (int, error) {
	key := doctorID.String() + "|" + date
	m.counts[key]++
	return m.counts[key], nil
}

type mockDirectory struct {
	doctors map[uuid.UUID]*directory.Doctor
}

func newMockDirectory() *mockDirectory {
	return &mockDirectory{doctors: make(map[uuid.UUID]*directory.Doctor)}
}

func (m *mockDirectory) GetDoctor(_ context.Context, id uuid.UUID) (*directory.Doctor, error) {
	d, ok := m.doctors[id]
	if !ok {
		return nil, directory.ErrDoctorNotFound
	}
	return d, nil
}

func (m *mockDirectory) GetDoctorByUserID(_ context.Context, userID uuid.UUID) (*directory.Doctor, error) {
	for _, d := range m.doctors {
		if d.UserID != nil && *d.UserID == userID {
			return d, nil
		}
	}
	return nil, directory.ErrDoctorNotFound
}

func (m *mockDirectory) add() *directory.Doctor {
	d := &directory.Doctor{ID: uuid.New(), Name: "Dr. Rao", HospitalID: uuid.New(), Available: true}
	m.doctors[d.ID] = d
	return d
}

type mockScheduleSource struct {
	weeks map[uuid.UUID]*roster.WeeklySchedule
}

func newMockScheduleSource() *mockScheduleSource {
	return &mockScheduleSource{weeks: make(map[uuid.UUID]*roster.WeeklySchedule)}
}

func (m *mockScheduleSource) GetWeekly(_ context.Context, doctorID uuid.UUID) (*roster.WeeklySchedule, error) {
	w, ok := m.weeks[doctorID]
	if !ok {
		return nil, roster.ErrScheduleNotSet
	}
	return w, nil
}

func (m *mockScheduleSource) set(doctorID uuid.UUID, days []roster.DaySchedule) {
	m.weeks[doctorID] = &roster.WeeklySchedule{DoctorID: doctorID, Days: days}
}

func workingWeek() []roster.DaySchedule {
	return []roster.DaySchedule{
		{Day: "Sunday", IsAvailable: false},
		{Day: "Monday", StartTime: "09:00", EndTime: "13:00", IsAvailable: true},
		{Day: "Tuesday", StartTime: "09:00", EndTime: "17:00", IsAvailable: true},
		{Day: "Wednesday", StartTime: "09:00", EndTime: "17:00", IsAvailable: true},
		{Day: "Thursday", StartTime: "09:00", EndTime: "17:00", IsAvailable: true},
		{Day: "Friday", StartTime: "09:00", EndTime: "17:00", IsAvailable: true},
		{Day: "Saturday", IsAvailable: false},
	}
}

// mondayAt returns a Monday at the given wall clock time in UTC.
func mondayAt(hour, minute int) time.Time {
	return time.Date(2024, 6, 3, hour, minute, 0, 0, time.UTC)
}

type fixture struct {
	svc     *Service
	tokens  *mockTokenRepo
	dir     *mockDirectory
	weeks   *mockScheduleSource
	counter *mockCounterRepo
}

func newFixture(now time.Time) *fixture {
	f := &fixture{
		tokens:  newMockTokenRepo(),
		dir:     newMockDirectory(),
		weeks:   newMockScheduleSource(),
		counter: newMockCounterRepo(),
	}
	f.svc = NewService(f.tokens, f.counter, f.dir, f.weeks, time.UTC)
	f.svc.now = func() time.Time { return now }
	return f
}

// -- Booking --

func TestBook(t *testing.T) {
	f := newFixture(mondayAt(10, 0))
	doc := f.dir.add()
	f.weeks.set(doc.ID, workingWeek())
	patient := uuid.New()

	tok, err := f.svc.Book(context.Background(), patient, doc.ID, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tok.TokenNumber != 1 {
		t.Errorf("token number = %d, want 1", tok.TokenNumber)
	}
	if tok.Status != StatusPending {
		t.Errorf("status = %q, want pending", tok.Status)
	}
	if tok.Date != "2024-06-03" {
		t.Errorf("date = %q, want 2024-06-03", tok.Date)
	}
	if tok.PatientID == nil || *tok.PatientID != patient {
		t.Error("patient id not recorded")
	}
	if tok.HospitalID != doc.HospitalID {
		t.Error("hospital not taken from doctor")
	}
}

func TestBook_UnknownDoctor(t *testing.T) {
	f := newFixture(mondayAt(10, 0))
	_, err := f.svc.Book(context.Background(), uuid.New(), uuid.New(), nil)
	if !errors.Is(err, directory.ErrDoctorNotFound) {
		t.Fatalf("expected ErrDoctorNotFound, got %v", err)
	}
}

func TestBook_ScheduleNotSet(t *testing.T) {
	f := newFixture(mondayAt(10, 0))
	doc := f.dir.add()

	_, err := f.svc.Book(context.Background(), uuid.New(), doc.ID, nil)
	if !errors.Is(err, roster.ErrScheduleNotSet) {
		t.Fatalf("expected ErrScheduleNotSet, got %v", err)
	}
	if len(f.tokens.tokens) != 0 {
		t.Error("no token should be created")
	}
}

func TestBook_DayOff(t *testing.T) {
	// Sunday is marked unavailable in the week.
	f := newFixture(time.Date(2024, 6, 2, 10, 0, 0, 0, time.UTC))
	doc := f.dir.add()
	f.weeks.set(doc.ID, workingWeek())

	_, err := f.svc.Book(context.Background(), uuid.New(), doc.ID, nil)
	if !errors.Is(err, ErrDoctorUnavailableToday) {
		t.Fatalf("expected ErrDoctorUnavailableToday, got %v", err)
	}
}

func TestBook_WindowBounds(t *testing.T) {
	// Monday window is 09:00-13:00 inclusive.
	cases := []struct {
		name   string
		hour   int
		minute int
		ok     bool
	}{
		{"one minute early", 8, 59, false},
		{"opening minute", 9, 0, true},
		{"mid morning", 10, 30, true},
		{"closing minute", 13, 0, true},
		{"one minute late", 13, 1, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(mondayAt(tc.hour, tc.minute))
			doc := f.dir.add()
			f.weeks.set(doc.ID, workingWeek())

			_, err := f.svc.Book(context.Background(), uuid.New(), doc.ID, nil)
			if tc.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tc.ok && !errors.Is(err, ErrOutsideWorkingHours) {
				t.Fatalf("expected ErrOutsideWorkingHours, got %v", err)
			}
		})
	}
}

func TestBook_SequentialNumbers(t *testing.T) {
	f := newFixture(mondayAt(10, 0))
	doc := f.dir.add()
	f.weeks.set(doc.ID, workingWeek())
	ctx := context.Background()

	for want := 1; want <= 3; want++ {
		tok, err := f.svc.Book(ctx, uuid.New(), doc.ID, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if tok.TokenNumber != want {
			t.Errorf("token number = %d, want %d", tok.TokenNumber, want)
		}
	}
}

func TestBook_NumbersSharedWithOffline(t *testing.T) {
	f := newFixture(mondayAt(10, 0))
	doc := f.dir.add()
	f.weeks.set(doc.ID, workingWeek())
	ctx := context.Background()

	first, err := f.svc.Book(ctx, uuid.New(), doc.ID, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := f.svc.BookOffline(ctx, doc.ID, uuid.Nil, "Walk In", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if first.TokenNumber != 1 || second.TokenNumber != 2 {
		t.Errorf("numbers = %d, %d; want 1, 2", first.TokenNumber, second.TokenNumber)
	}
}

// -- Offline booking --

func TestBookOffline_SkipsValidator(t *testing.T) {
	// Sunday, doctor off: an online booking would be rejected.
	f := newFixture(time.Date(2024, 6, 2, 10, 0, 0, 0, time.UTC))
	doc := f.dir.add()
	f.weeks.set(doc.ID, workingWeek())

	tok, err := f.svc.BookOffline(context.Background(), doc.ID, uuid.Nil, "Walk In", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !tok.IsOffline {
		t.Error("expected offline token")
	}
	if tok.PatientID != nil {
		t.Error("offline token must not carry a patient id")
	}
	if tok.TokenNumber != 1 {
		t.Errorf("token number = %d, want 1", tok.TokenNumber)
	}
}

func TestBookOffline_RequiresName(t *testing.T) {
	f := newFixture(mondayAt(10, 0))
	doc := f.dir.add()

	if _, err := f.svc.BookOffline(context.Background(), doc.ID, uuid.Nil, "", nil); err == nil {
		t.Fatal("expected error for missing name")
	}
}

func TestBookOffline_UnknownDoctor(t *testing.T) {
	f := newFixture(mondayAt(10, 0))
	_, err := f.svc.BookOffline(context.Background(), uuid.New(), uuid.Nil, "Walk In", nil)
	if !errors.Is(err, directory.ErrDoctorNotFound) {
		t.Fatalf("expected ErrDoctorNotFound, got %v", err)
	}
}

// -- Lifecycle --

func bookOne(t *testing.T, f *fixture, patient uuid.UUID) *Token {
	t.Helper()
	doc := f.dir.add()
	f.weeks.set(doc.ID, workingWeek())
	tok, err := f.svc.Book(context.Background(), patient, doc.ID, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return tok
}

func TestUpdateStatus(t *testing.T) {
	f := newFixture(mondayAt(10, 0))
	tok := bookOne(t, f, uuid.New())

	updated, err := f.svc.UpdateStatus(context.Background(), tok.ID, StatusCalled)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Status != StatusCalled {
		t.Errorf("status = %q, want called", updated.Status)
	}
}

func TestUpdateStatus_InvalidLeavesTokenUntouched(t *testing.T) {
	f := newFixture(mondayAt(10, 0))
	tok := bookOne(t, f, uuid.New())

	_, err := f.svc.UpdateStatus(context.Background(), tok.ID, "consulting")
	if !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("expected ErrInvalidStatus, got %v", err)
	}
	if f.tokens.tokens[tok.ID].Status != StatusPending {
		t.Error("token mutated on invalid status")
	}
}

func TestUpdateStatus_NotFound(t *testing.T) {
	f := newFixture(mondayAt(10, 0))
	_, err := f.svc.UpdateStatus(context.Background(), uuid.New(), StatusCalled)
	if !errors.Is(err, ErrTokenNotFound) {
		t.Fatalf("expected ErrTokenNotFound, got %v", err)
	}
}

func TestComplete(t *testing.T) {
	f := newFixture(mondayAt(10, 0))
	tok := bookOne(t, f, uuid.New())

	updated, err := f.svc.Complete(context.Background(), tok.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.Status != StatusCompleted {
		t.Errorf("status = %q, want completed", updated.Status)
	}
}

func TestCancel(t *testing.T) {
	f := newFixture(mondayAt(10, 0))
	patient := uuid.New()
	tok := bookOne(t, f, patient)

	cancelled, err := f.svc.Cancel(context.Background(), tok.ID, patient)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cancelled.Status != StatusCancelled {
		t.Errorf("status = %q, want cancelled", cancelled.Status)
	}
	// Row survives cancellation.
	if _, ok := f.tokens.tokens[tok.ID]; !ok {
		t.Error("cancelled token was deleted")
	}
}

func TestCancel_WrongPatient(t *testing.T) {
	f := newFixture(mondayAt(10, 0))
	tok := bookOne(t, f, uuid.New())

	_, err := f.svc.Cancel(context.Background(), tok.ID, uuid.New())
	if !errors.Is(err, ErrNotTokenOwner) {
		t.Fatalf("expected ErrNotTokenOwner, got %v", err)
	}
	if f.tokens.tokens[tok.ID].Status != StatusPending {
		t.Error("token mutated on forbidden cancel")
	}
}

func TestCancel_AlreadyFinished(t *testing.T) {
	f := newFixture(mondayAt(10, 0))
	patient := uuid.New()
	ctx := context.Background()

	for _, terminal := range []string{StatusCompleted, StatusCancelled} {
		tok := bookOne(t, f, patient)
		if _, err := f.svc.UpdateStatus(ctx, tok.ID, terminal); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := f.svc.Cancel(ctx, tok.ID, patient); !errors.Is(err, ErrTokenFinished) {
			t.Fatalf("expected ErrTokenFinished after %s, got %v", terminal, err)
		}
	}
}

// -- Listings --

func TestListForDoctorUser(t *testing.T) {
	f := newFixture(mondayAt(10, 0))
	doc := f.dir.add()
	userID := uuid.New()
	doc.UserID = &userID
	f.weeks.set(doc.ID, workingWeek())
	ctx := context.Background()

	if _, err := f.svc.Book(ctx, uuid.New(), doc.ID, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.svc.Book(ctx, uuid.New(), doc.ID, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	items, err := f.svc.ListForDoctorUser(ctx, userID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 tokens, got %d", len(items))
	}
	if items[0].TokenNumber != 1 || items[1].TokenNumber != 2 {
		t.Error("tokens not in queue order")
	}
}

func TestListForHospital(t *testing.T) {
	f := newFixture(mondayAt(10, 0))
	ctx := context.Background()

	docA := f.dir.add()
	docB := f.dir.add()
	f.weeks.set(docA.ID, workingWeek())
	f.weeks.set(docB.ID, workingWeek())

	if _, err := f.svc.Book(ctx, uuid.New(), docA.ID, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := f.svc.Book(ctx, uuid.New(), docB.ID, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	items, err := f.svc.ListForHospital(ctx, docA.HospitalID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 token for docA's hospital, got %d", len(items))
	}
}

func TestListForPatient(t *testing.T) {
	f := newFixture(mondayAt(10, 0))
	patient := uuid.New()
	ctx := context.Background()

	first := bookOne(t, f, patient)
	second := bookOne(t, f, patient)
	bookOne(t, f, uuid.New())

	items, total, err := f.svc.ListForPatient(ctx, patient, 20, 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 2 || len(items) != 2 {
		t.Fatalf("expected 2 tokens, got %d", len(items))
	}
	// Newest first.
	if items[0].ID != second.ID || items[1].ID != first.ID {
		t.Error("tokens not newest first")
	}
}
