package booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/slotwise/scheduling-api/internal/domain/scheduling"
	"github.com/slotwise/scheduling-api/internal/httperr"
	"github.com/slotwise/scheduling-api/internal/models"
	"github.com/slotwise/scheduling-api/internal/notification"
)

// captureSender records delivered notifications instead of sending them.
type captureSender struct {
	mu     sync.Mutex
	events []notification.Event
}

func (s *captureSender) Send(_ context.Context, ev notification.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
	return nil
}

func (s *captureSender) all() []notification.Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]notification.Event, len(s.events))
	copy(out, s.events)
	return out
}

type fixture struct {
	repo   *fakeRepo
	notify *notification.Dispatcher
	sender *captureSender

	host *models.User
	et   *models.EventType

	// midnight UTC, one week out, so notice and lookahead stay out of the way
	day time.Time

	// drain drains the dispatcher so sent events can be asserted; safe to
	// call more than once.
	drain func()
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	repo := newFakeRepo()

	host := &models.User{ID: 1, Name: "Dana Host", Email: "dana@example.com", Slug: "dana", Timezone: "UTC"}
	repo.hosts[host.ID] = host

	rules := make([]models.AvailabilityRule, 0, 7)
	for dow := 0; dow < 7; dow++ {
		d := dow
		rules = append(rules, models.AvailabilityRule{
			RuleType:    domain.RuleTypeWeekly,
			DayOfWeek:   &d,
			StartTime:   "09:00",
			EndTime:     "17:00",
			IsAvailable: true,
		})
	}
	repo.schedules[1] = &models.AvailabilitySchedule{
		ID:        1,
		UserID:    host.ID,
		Name:      "Working hours",
		Timezone:  "UTC",
		IsDefault: true,
		Rules:     rules,
	}

	et := &models.EventType{
		ID:            1,
		UserID:        host.ID,
		Title:         "Intro call",
		Slug:          "intro-call",
		DurationMin:   30,
		MaxFutureDays: 60,
		Active:        true,
	}
	repo.eventTypes[et.ID] = et

	sender := &captureSender{}
	notify := notification.NewDispatcher(sender, 16, time.Second, zerolog.Nop())

	var once sync.Once
	drain := func() { once.Do(notify.Close) }
	t.Cleanup(drain)

	now := time.Now().UTC().AddDate(0, 0, 7)
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	return &fixture{repo: repo, notify: notify, sender: sender, host: host, et: et, day: day, drain: drain}
}

func (f *fixture) input(start time.Time) CreateBookingInput {
	return CreateBookingInput{
		EventTypeID:  f.et.ID,
		InviteeName:  "Alex Invitee",
		InviteeEmail: "alex@example.com",
		Start:        start,
		End:          start.Add(30 * time.Minute),
	}
}

func TestCreateBooking_AutoConfirmed(t *testing.T) {
	f := newFixture(t)
	uc := NewCreateBooking(f.repo, f.notify)

	start := f.day.Add(10 * time.Hour)
	b, err := uc.Execute(context.Background(), f.input(start))
	require.NoError(t, err)

	assert.Equal(t, string(domain.StatusConfirmed), b.Status)
	assert.Len(t, b.UID, 32)
	assert.Equal(t, start, b.StartTime)
	assert.Equal(t, start.Add(30*time.Minute), b.EndTime)
	assert.Equal(t, f.host.ID, b.HostID)
	assert.Equal(t, "UTC", b.InviteeTimezone)
	assert.Equal(t, "Intro call", b.EventType.Title)

	// Both parties are recorded as attendees.
	require.Len(t, f.repo.attendees[b.ID], 2)
	assert.Equal(t, "host", f.repo.attendees[b.ID][0].Role)
	assert.Equal(t, "invitee", f.repo.attendees[b.ID][1].Role)

	f.drain()
	events := f.sender.all()
	require.Len(t, events, 1)
	assert.Equal(t, notification.TypeBookingConfirmation, events[0].Type)
	assert.Equal(t, "alex@example.com", events[0].Recipient)
	assert.NotEmpty(t, events[0].DispatchID)
}

func TestCreateBooking_PendingWhenConfirmationRequired(t *testing.T) {
	f := newFixture(t)
	f.et.RequiresConfirmation = true
	uc := NewCreateBooking(f.repo, f.notify)

	b, err := uc.Execute(context.Background(), f.input(f.day.Add(10*time.Hour)))
	require.NoError(t, err)
	assert.Equal(t, string(domain.StatusPending), b.Status)
}

func TestCreateBooking_RejectsTakenSlot(t *testing.T) {
	f := newFixture(t)
	uc := NewCreateBooking(f.repo, f.notify)

	start := f.day.Add(10 * time.Hour)
	_, err := uc.Execute(context.Background(), f.input(start))
	require.NoError(t, err)

	_, err = uc.Execute(context.Background(), f.input(start))
	assert.True(t, httperr.IsBusiness(err, httperr.CodeSlotConflict), "got %v", err)

	// A pending booking holds the slot just like a confirmed one.
	f.et.RequiresConfirmation = true
	_, err = uc.Execute(context.Background(), f.input(start))
	assert.True(t, httperr.IsBusiness(err, httperr.CodeSlotConflict), "got %v", err)
}

func TestCreateBooking_RejectsUnofferedSlot(t *testing.T) {
	f := newFixture(t)
	uc := NewCreateBooking(f.repo, f.notify)

	// 08:00 is before the working hours open.
	_, err := uc.Execute(context.Background(), f.input(f.day.Add(8*time.Hour)))
	assert.True(t, httperr.IsBusiness(err, httperr.CodeSlotConflict), "got %v", err)

	// 10:10 is inside working hours but off the slot grid.
	_, err = uc.Execute(context.Background(), f.input(f.day.Add(10*time.Hour+10*time.Minute)))
	assert.True(t, httperr.IsBusiness(err, httperr.CodeSlotConflict), "got %v", err)
}

func TestCreateBooking_Validation(t *testing.T) {
	f := newFixture(t)
	uc := NewCreateBooking(f.repo, f.notify)
	start := f.day.Add(10 * time.Hour)

	in := f.input(start)
	in.End = start.Add(45 * time.Minute)
	_, err := uc.Execute(context.Background(), in)
	assert.True(t, httperr.IsBusiness(err, "invalid_duration"), "got %v", err)

	in = f.input(start)
	in.InviteeEmail = ""
	_, err = uc.Execute(context.Background(), in)
	assert.True(t, httperr.IsBusiness(err, "invalid_invitee"), "got %v", err)

	in = f.input(start)
	in.InviteeTimezone = "Mars/Olympus"
	_, err = uc.Execute(context.Background(), in)
	assert.True(t, httperr.IsBusiness(err, "invalid_timezone"), "got %v", err)

	in = f.input(start)
	in.EventTypeID = 99
	_, err = uc.Execute(context.Background(), in)
	assert.True(t, httperr.IsBusiness(err, httperr.CodeEventNotFound), "got %v", err)

	f.et.Active = false
	_, err = uc.Execute(context.Background(), f.input(start))
	assert.True(t, httperr.IsBusiness(err, httperr.CodeEventNotFound), "got %v", err)
}

func TestCreateBooking_BuffersSpaceBookings(t *testing.T) {
	f := newFixture(t)
	f.et.BufferAfterMin = 15
	uc := NewCreateBooking(f.repo, f.notify)

	start := f.day.Add(10 * time.Hour)
	_, err := uc.Execute(context.Background(), f.input(start))
	require.NoError(t, err)

	// 10:30 sits inside the first booking's trailing buffer.
	_, err = uc.Execute(context.Background(), f.input(start.Add(30*time.Minute)))
	assert.True(t, httperr.IsBusiness(err, httperr.CodeSlotConflict), "got %v", err)

	// 11:00 clears it.
	_, err = uc.Execute(context.Background(), f.input(start.Add(time.Hour)))
	require.NoError(t, err)
}

func TestCreateBooking_ConcurrentSameSlot(t *testing.T) {
	f := newFixture(t)
	uc := NewCreateBooking(f.repo, f.notify)
	start := f.day.Add(10 * time.Hour)

	const racers = 8
	errs := make(chan error, racers)

	var wg sync.WaitGroup
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.Execute(context.Background(), f.input(start))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var won, lost int
	for err := range errs {
		switch {
		case err == nil:
			won++
		case httperr.IsBusiness(err, httperr.CodeSlotConflict):
			lost++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, won, "exactly one racer may take the slot")
	assert.Equal(t, racers-1, lost)
}

// Two racing creates whose raw intervals are disjoint but whose buffered
// intervals collide must not both land: the conflict check compares the
// stored buffered bounds, not the raw ones.
func TestCreateBooking_ConcurrentBufferedOverlap(t *testing.T) {
	f := newFixture(t)
	f.et.BufferAfterMin = 15
	uc := NewCreateBooking(f.repo, f.notify)

	// Raw intervals 10:00-10:30 and 10:30-11:00; buffered they become
	// [10:00, 10:45) and [10:30, 11:15).
	starts := []time.Time{
		f.day.Add(10 * time.Hour),
		f.day.Add(10*time.Hour + 30*time.Minute),
	}

	errs := make(chan error, len(starts))
	var wg sync.WaitGroup
	for _, start := range starts {
		wg.Add(1)
		go func(start time.Time) {
			defer wg.Done()
			_, err := uc.Execute(context.Background(), f.input(start))
			errs <- err
		}(start)
	}
	wg.Wait()
	close(errs)

	var won, lost int
	for err := range errs {
		switch {
		case err == nil:
			won++
		case httperr.IsBusiness(err, httperr.CodeSlotConflict):
			lost++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, won, "buffered intervals overlap, only one may commit")
	assert.Equal(t, 1, lost)
}
