package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mesaYaBooking/internal/booking"
	"mesaYaBooking/internal/model"
	"mesaYaBooking/internal/repository"
	"mesaYaBooking/internal/utils"
)

// memStore is an in-memory ReservationStore with the same atomicity
// semantics as the SQL repository: Insert and AssignTable re-check overlap
// under the store lock, UpdateStatus is a compare-and-set.
type memStore struct {
	mu     sync.Mutex
	nextID uint64
	items  map[uint64]*model.Reservation

	// busyInserts makes the next n Insert calls fail with ErrTxBusy to
	// exercise the retry policy.
	busyInserts int
}

func newMemStore() *memStore {
	return &memStore{items: make(map[uint64]*model.Reservation)}
}

func sameDay(a, b time.Time) bool {
	return a.Format("2006-01-02") == b.Format("2006-01-02")
}

func (s *memStore) overlapLocked(tableID uint64, date time.Time, want booking.Interval, excludeID uint64) bool {
	for _, r := range s.items {
		if r.ID == excludeID || r.TableID == nil || *r.TableID != tableID {
			continue
		}
		if !r.Status.IsActive() || !sameDay(r.ReservationDate, date) {
			continue
		}
		if booking.Overlaps(want, booking.Interval{Start: r.StartTime, End: r.EndTime}) {
			return true
		}
	}
	return false
}

func (s *memStore) ListActiveByTableAndDate(_ context.Context, tableID uint64, date time.Time) ([]model.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Reservation
	for _, r := range s.items {
		if r.TableID != nil && *r.TableID == tableID && r.Status.IsActive() && sameDay(r.ReservationDate, date) {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (s *memStore) CountActiveByUser(_ context.Context, userID, restaurantID uint64) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, r := range s.items {
		if r.UserID != nil && *r.UserID == userID && r.RestaurantID == restaurantID && r.Status.IsActive() {
			n++
		}
	}
	return n, nil
}

func (s *memStore) Insert(_ context.Context, res *model.Reservation) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busyInserts > 0 {
		s.busyInserts--
		return repository.ErrTxBusy
	}
	if res.TableID != nil {
		want := booking.Interval{Start: res.StartTime, End: res.EndTime}
		if s.overlapLocked(*res.TableID, res.ReservationDate, want, 0) {
			return booking.ErrTableConflict
		}
	}
	s.nextID++
	res.ID = s.nextID
	res.CreatedAt = time.Now()
	res.UpdatedAt = res.CreatedAt
	stored := *res
	s.items[res.ID] = &stored
	return nil
}

func (s *memStore) AssignTable(_ context.Context, reservationID, tableID uint64) (*model.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.items[reservationID]
	if !ok {
		return nil, ErrNotFound
	}
	if !r.Status.IsActive() {
		return nil, booking.ErrIllegalTransition
	}
	want := booking.Interval{Start: r.StartTime, End: r.EndTime}
	if s.overlapLocked(tableID, r.ReservationDate, want, r.ID) {
		return nil, booking.ErrTableConflict
	}
	r.TableID = &tableID
	out := *r
	return &out, nil
}

func (s *memStore) GetByID(_ context.Context, id uint64) (*model.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.items[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *r
	return &out, nil
}

func (s *memStore) UpdateStatus(_ context.Context, id uint64, from, to model.ReservationStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.items[id]
	if !ok || r.Status != from {
		return repository.ErrStaleStatus
	}
	r.Status = to
	return nil
}

func (s *memStore) ListByUser(_ context.Context, userID uint64) ([]model.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Reservation
	for _, r := range s.items {
		if r.UserID != nil && *r.UserID == userID {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (s *memStore) ListByRestaurantAndDate(_ context.Context, restaurantID uint64, date time.Time) ([]model.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Reservation
	for _, r := range s.items {
		if r.RestaurantID == restaurantID && sameDay(r.ReservationDate, date) {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (s *memStore) ListElapsedConfirmed(_ context.Context, now time.Time) ([]model.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []model.Reservation
	for _, r := range s.items {
		if r.Status == model.StatusConfirmed && !r.EndTime.At(r.ReservationDate).After(now) {
			out = append(out, *r)
		}
	}
	return out, nil
}

type memPolicies struct{ policies map[uint64]*model.PolicyConfig }

func (s *memPolicies) GetByRestaurant(_ context.Context, restaurantID uint64) (*model.PolicyConfig, error) {
	p, ok := s.policies[restaurantID]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

type memTables struct{ tables map[uint64]*model.Table }

func (s *memTables) GetByID(_ context.Context, id uint64) (*model.Table, error) {
	t, ok := s.tables[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (s *memTables) ListByRestaurant(_ context.Context, restaurantID uint64) ([]model.Table, error) {
	var out []model.Table
	for _, t := range s.tables {
		if t.RestaurantID == restaurantID {
			out = append(out, *t)
		}
	}
	return out, nil
}

type memRestaurants struct{ restaurants map[uint64]*model.Restaurant }

func (s *memRestaurants) GetByID(_ context.Context, id uint64) (*model.Restaurant, error) {
	r, ok := s.restaurants[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *r
	return &cp, nil
}

// recordingNotifier collects the status events the service emits.
type recordingNotifier struct {
	mu     sync.Mutex
	events [][2]model.ReservationStatus
}

func (n *recordingNotifier) NotifyStatusChanged(_ context.Context, _ *model.Reservation, oldStatus, newStatus model.ReservationStatus) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, [2]model.ReservationStatus{oldStatus, newStatus})
	return nil
}

func (n *recordingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.events)
}

type fixedClock struct{ now time.Time }

func (c fixedClock) Now() time.Time { return c.now }

const (
	testRestaurantID = uint64(1)
	testTableID      = uint64(7)
	ownerID          = uint64(100)
	customerID       = uint64(42)
)

var (
	testDate = time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)
	testNow  = time.Date(2026, 9, 11, 18, 0, 0, 0, time.UTC)
	owner    = Actor{UserID: ownerID, Role: RoleOwner}
	customer = Actor{UserID: customerID, Role: RoleCustomer}
)

func tod(h, m int) model.TimeOfDay { return model.TimeOfDay(h*60 + m) }

type fixture struct {
	svc      *ReservationService
	store    *memStore
	policies *memPolicies
	notifier *recordingNotifier
}

func newFixture() *fixture {
	store := newMemStore()
	policies := &memPolicies{policies: map[uint64]*model.PolicyConfig{
		testRestaurantID: {
			RestaurantID:             testRestaurantID,
			MinReservationDuration:   30 * time.Minute,
			MaxReservationDuration:   3 * time.Hour,
			MinAdvanceBookingTime:    time.Hour,
			MaxAdvanceBookingTime:    30 * 24 * time.Hour,
			MinGuestsPerReservation:  1,
			MaxGuestsPerReservation:  8,
			ReservationsPerUserLimit: 2,
		},
	}}
	tables := &memTables{tables: map[uint64]*model.Table{
		testTableID: {ID: testTableID, RestaurantID: testRestaurantID, Name: "T7", Capacity: 6, IsActive: true},
		8:           {ID: 8, RestaurantID: testRestaurantID, Name: "T8", Capacity: 2, IsActive: true},
	}}
	restaurants := &memRestaurants{restaurants: map[uint64]*model.Restaurant{
		testRestaurantID: {
			ID: testRestaurantID, OwnerID: ownerID, Name: "MesaYa Test",
			OpensAt: tod(10, 0), ClosesAt: tod(22, 0), IsActive: true,
		},
	}}
	notifier := &recordingNotifier{}
	svc := NewReservationService(store, policies, tables, restaurants, notifier, fixedClock{testNow})
	return &fixture{svc: svc, store: store, policies: policies, notifier: notifier}
}

func userInput(start, end model.TimeOfDay) CreateReservationInput {
	tableID := testTableID
	userID := customerID
	return CreateReservationInput{
		RestaurantID: testRestaurantID,
		TableID:      &tableID,
		UserID:       &userID,
		Date:         testDate,
		Start:        start,
		End:          end,
		Guests:       4,
	}
}

func guestInput(start, end model.TimeOfDay) CreateReservationInput {
	in := userInput(start, end)
	in.UserID = nil
	name := "Ada Vega"
	phone := "+34 600 000 001"
	in.CustomerName = &name
	in.CustomerPhone = &phone
	return in
}

func TestCreateReservationAccount(t *testing.T) {
	f := newFixture()

	res, token, err := f.svc.CreateReservation(context.Background(), userInput(tod(18, 0), tod(20, 0)))
	require.NoError(t, err)
	require.NotNil(t, res)

	assert.Equal(t, model.StatusConfirmed, res.Status, "no-confirmation policy admits straight to CONFIRMED")
	assert.False(t, res.NeedsConfirmation)
	assert.Empty(t, token, "account bookings get no manage token")
	assert.Nil(t, res.ManageTokenHash)
	assert.NotZero(t, res.ID)
	assert.Equal(t, 1, f.notifier.count())
}

func TestCreateReservationGuest(t *testing.T) {
	f := newFixture()

	res, token, err := f.svc.CreateReservation(context.Background(), guestInput(tod(18, 0), tod(20, 0)))
	require.NoError(t, err)
	require.NotEmpty(t, token, "guest bookings receive a one-time manage token")
	require.NotNil(t, res.ManageTokenHash)
	assert.Equal(t, utils.HashManageToken(token), *res.ManageTokenHash, "only the hash is stored")
	assert.Nil(t, res.UserID)
}

func TestCreateReservationPendingWhenPolicyRequiresConfirmation(t *testing.T) {
	f := newFixture()
	f.policies.policies[testRestaurantID].ReservationsNeedConfirmation = true

	res, _, err := f.svc.CreateReservation(context.Background(), userInput(tod(18, 0), tod(20, 0)))
	require.NoError(t, err)
	assert.Equal(t, model.StatusPending, res.Status)
	assert.True(t, res.NeedsConfirmation, "confirmation requirement is frozen on the reservation")
}

func TestCreateReservationIdentityRequired(t *testing.T) {
	f := newFixture()

	// Neither identity path.
	in := userInput(tod(18, 0), tod(20, 0))
	in.UserID = nil
	_, _, err := f.svc.CreateReservation(context.Background(), in)
	assert.ErrorIs(t, err, ErrCustomerIdentity)

	// Both identity paths at once.
	both := guestInput(tod(18, 0), tod(20, 0))
	uid := customerID
	both.UserID = &uid
	_, _, err = f.svc.CreateReservation(context.Background(), both)
	assert.ErrorIs(t, err, ErrCustomerIdentity)

	// Guest name without any contact channel is incomplete.
	name := "Ada Vega"
	in.CustomerName = &name
	_, _, err = f.svc.CreateReservation(context.Background(), in)
	assert.ErrorIs(t, err, ErrCustomerIdentity)
}

func TestCreateReservationConflict(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, _, err := f.svc.CreateReservation(ctx, userInput(tod(18, 30), tod(19, 30)))
	require.NoError(t, err)

	_, _, err = f.svc.CreateReservation(ctx, guestInput(tod(19, 0), tod(20, 0)))
	assert.ErrorIs(t, err, booking.ErrTableConflict)
	assert.Len(t, f.store.items, 1, "rejected request must leave no record")
	assert.Equal(t, 1, f.notifier.count(), "rejected request must emit no event")
}

func TestCreateReservationBackToBack(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, _, err := f.svc.CreateReservation(ctx, userInput(tod(18, 0), tod(20, 0)))
	require.NoError(t, err)

	// Ends exactly when the first starts, and starts exactly when it ends.
	_, _, err = f.svc.CreateReservation(ctx, guestInput(tod(16, 0), tod(18, 0)))
	assert.NoError(t, err)
	_, _, err = f.svc.CreateReservation(ctx, guestInput(tod(20, 0), tod(21, 0)))
	assert.NoError(t, err)
}

func TestCreateReservationCancelledSlotReusable(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	res, _, err := f.svc.CreateReservation(ctx, userInput(tod(18, 0), tod(20, 0)))
	require.NoError(t, err)
	_, err = f.svc.Cancel(ctx, res.ID, customer)
	require.NoError(t, err)

	_, _, err = f.svc.CreateReservation(ctx, guestInput(tod(18, 0), tod(20, 0)))
	assert.NoError(t, err, "terminal reservations do not block the slot")
}

func TestCreateReservationPolicyRejections(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	in := userInput(tod(18, 0), tod(20, 0))
	in.Guests = 9
	_, _, err := f.svc.CreateReservation(ctx, in)
	assert.ErrorIs(t, err, booking.ErrGuestCountOutOfPolicy)

	in = userInput(tod(18, 0), tod(18, 15))
	_, _, err = f.svc.CreateReservation(ctx, in)
	assert.ErrorIs(t, err, booking.ErrDurationOutOfPolicy)

	assert.Empty(t, f.store.items, "rejected requests must leave no partial state")
	assert.Zero(t, f.notifier.count())
}

func TestCreateReservationTableCapacity(t *testing.T) {
	f := newFixture()

	in := userInput(tod(18, 0), tod(20, 0))
	small := uint64(8) // capacity 2
	in.TableID = &small
	_, _, err := f.svc.CreateReservation(context.Background(), in)
	assert.ErrorIs(t, err, ErrTableCapacityExceeded)

	// A party that breaks the policy guest bound as well reports the policy
	// bound, not the table it happened to pick.
	in.Guests = 9
	_, _, err = f.svc.CreateReservation(context.Background(), in)
	assert.ErrorIs(t, err, booking.ErrGuestCountOutOfPolicy)

	// Within policy but over the target table's capacity.
	in = userInput(tod(18, 0), tod(20, 0))
	in.Guests = 7 // policy allows up to 8, table 7 seats 6
	_, _, err = f.svc.CreateReservation(context.Background(), in)
	assert.ErrorIs(t, err, ErrTableCapacityExceeded)
}

func TestCreateReservationUserLimit(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, _, err := f.svc.CreateReservation(ctx, userInput(tod(12, 0), tod(13, 0)))
	require.NoError(t, err)
	_, _, err = f.svc.CreateReservation(ctx, userInput(tod(14, 0), tod(15, 0)))
	require.NoError(t, err)

	_, _, err = f.svc.CreateReservation(ctx, userInput(tod(16, 0), tod(17, 0)))
	assert.ErrorIs(t, err, booking.ErrUserLimitExceeded)

	// Cancelling frees a slot in the allowance.
	_, err = f.svc.Cancel(ctx, 1, customer)
	require.NoError(t, err)
	_, _, err = f.svc.CreateReservation(ctx, userInput(tod(16, 0), tod(17, 0)))
	assert.NoError(t, err)
}

func TestCreateReservationRetriesBusyTx(t *testing.T) {
	f := newFixture()
	f.store.busyInserts = 1

	_, _, err := f.svc.CreateReservation(context.Background(), userInput(tod(18, 0), tod(20, 0)))
	assert.NoError(t, err, "one transient abort is retried")

	f.store.busyInserts = 2
	_, _, err = f.svc.CreateReservation(context.Background(), guestInput(tod(12, 0), tod(13, 0)))
	assert.ErrorIs(t, err, booking.ErrTableConflict, "a second abort surfaces as a conflict")
}

func TestCreateReservationConcurrentSingleWinner(t *testing.T) {
	f := newFixture()
	const racers = 8

	var wg sync.WaitGroup
	errs := make([]error, racers)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, _, errs[i] = f.svc.CreateReservation(context.Background(), guestInput(tod(18, 0), tod(20, 0)))
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
		} else {
			assert.ErrorIs(t, err, booking.ErrTableConflict)
		}
	}
	assert.Equal(t, 1, wins, "exactly one racer may hold the slot")
	assert.Len(t, f.store.items, 1)
}

func TestUpdateStatusLifecycle(t *testing.T) {
	f := newFixture()
	f.policies.policies[testRestaurantID].ReservationsNeedConfirmation = true
	ctx := context.Background()

	res, _, err := f.svc.CreateReservation(ctx, userInput(tod(18, 0), tod(20, 0)))
	require.NoError(t, err)
	require.Equal(t, model.StatusPending, res.Status)

	// PENDING cannot complete or no-show.
	_, err = f.svc.UpdateStatus(ctx, res.ID, model.StatusCompleted, owner)
	assert.ErrorIs(t, err, booking.ErrIllegalTransition)
	_, err = f.svc.UpdateStatus(ctx, res.ID, model.StatusNoShow, owner)
	assert.ErrorIs(t, err, booking.ErrIllegalTransition)

	confirmed, err := f.svc.UpdateStatus(ctx, res.ID, model.StatusConfirmed, owner)
	require.NoError(t, err)
	assert.Equal(t, model.StatusConfirmed, confirmed.Status)

	done, err := f.svc.UpdateStatus(ctx, res.ID, model.StatusCompleted, owner)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, done.Status)

	// Terminal states accept nothing, and the failed attempt changes nothing.
	_, err = f.svc.UpdateStatus(ctx, res.ID, model.StatusCancelled, owner)
	assert.ErrorIs(t, err, booking.ErrIllegalTransition)
	got, err := f.store.GetByID(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, got.Status)
}

func TestUpdateStatusAuthorization(t *testing.T) {
	f := newFixture()
	f.policies.policies[testRestaurantID].ReservationsNeedConfirmation = true
	ctx := context.Background()

	res, _, err := f.svc.CreateReservation(ctx, userInput(tod(18, 0), tod(20, 0)))
	require.NoError(t, err)

	// Customers may not confirm, not even their own booking.
	_, err = f.svc.UpdateStatus(ctx, res.ID, model.StatusConfirmed, customer)
	assert.ErrorIs(t, err, ErrForbidden)

	// A different customer may not cancel someone else's booking.
	_, err = f.svc.Cancel(ctx, res.ID, Actor{UserID: 999, Role: RoleCustomer})
	assert.ErrorIs(t, err, ErrForbidden)

	// The booking customer may cancel their own.
	cancelled, err := f.svc.Cancel(ctx, res.ID, customer)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, cancelled.Status)
}

func TestCancelByToken(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	res, token, err := f.svc.CreateReservation(ctx, guestInput(tod(18, 0), tod(20, 0)))
	require.NoError(t, err)

	_, err = f.svc.CancelByToken(ctx, res.ID, "not-the-token")
	assert.ErrorIs(t, err, ErrForbidden)

	cancelled, err := f.svc.CancelByToken(ctx, res.ID, token)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, cancelled.Status)

	// Replaying the token hits the terminal state.
	_, err = f.svc.CancelByToken(ctx, res.ID, token)
	assert.ErrorIs(t, err, booking.ErrIllegalTransition)
}

func TestAssignTable(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	// A waitlist booking and a competing confirmed one on the target table.
	waitlist := guestInput(tod(18, 0), tod(20, 0))
	waitlist.TableID = nil
	res, _, err := f.svc.CreateReservation(ctx, waitlist)
	require.NoError(t, err)
	require.Nil(t, res.TableID)

	_, _, err = f.svc.CreateReservation(ctx, userInput(tod(19, 0), tod(21, 0)))
	require.NoError(t, err)

	_, err = f.svc.AssignTable(ctx, res.ID, testTableID, customer)
	assert.ErrorIs(t, err, ErrForbidden, "assignment is staff-only")

	_, err = f.svc.AssignTable(ctx, res.ID, testTableID, owner)
	assert.ErrorIs(t, err, booking.ErrTableConflict)

	_, err = f.svc.AssignTable(ctx, res.ID, 8, owner)
	assert.ErrorIs(t, err, ErrTableCapacityExceeded, "party of 4 on a 2-top")

	// Free the target table, then assignment succeeds.
	_, err = f.svc.Cancel(ctx, 2, customer)
	require.NoError(t, err)
	assigned, err := f.svc.AssignTable(ctx, res.ID, testTableID, owner)
	require.NoError(t, err)
	require.NotNil(t, assigned.TableID)
	assert.Equal(t, testTableID, *assigned.TableID)
}

func TestCheckAvailability(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	ok, reason, err := f.svc.CheckAvailability(ctx, testRestaurantID, testTableID, testDate, tod(18, 0), tod(20, 0), 0)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, reason)

	_, _, err = f.svc.CreateReservation(ctx, userInput(tod(18, 0), tod(20, 0)))
	require.NoError(t, err)

	ok, reason, err = f.svc.CheckAvailability(ctx, testRestaurantID, testTableID, testDate, tod(19, 0), tod(21, 0), 2)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.ErrorIs(t, reason, booking.ErrTableConflict)

	// The adjacent slot stays available.
	ok, _, err = f.svc.CheckAvailability(ctx, testRestaurantID, testTableID, testDate, tod(20, 0), tod(21, 0), 2)
	require.NoError(t, err)
	assert.True(t, ok)

	// Policy guest bound outranks table capacity as the reported reason.
	ok, reason, err = f.svc.CheckAvailability(ctx, testRestaurantID, testTableID, testDate, tod(12, 0), tod(13, 0), 9)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.ErrorIs(t, reason, booking.ErrGuestCountOutOfPolicy)

	ok, reason, err = f.svc.CheckAvailability(ctx, testRestaurantID, testTableID, testDate, tod(12, 0), tod(13, 0), 7)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.ErrorIs(t, reason, ErrTableCapacityExceeded)
}

func TestGetAvailabilityMap(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, _, err := f.svc.CreateReservation(ctx, userInput(tod(18, 0), tod(20, 0)))
	require.NoError(t, err)

	day, err := f.svc.GetAvailabilityMap(ctx, testRestaurantID, testTableID, testDate)
	require.NoError(t, err)
	assert.False(t, day.Closed)
	require.Len(t, day.Segments, 3)
	assert.True(t, day.Segments[0].Free)
	assert.False(t, day.Segments[1].Free)
	assert.Equal(t, tod(18, 0), day.Segments[1].Start)
	assert.Equal(t, tod(20, 0), day.Segments[1].End)
	assert.True(t, day.Segments[2].Free)

	// The map spans exactly the operating window.
	assert.Equal(t, tod(10, 0), day.Segments[0].Start)
	assert.Equal(t, tod(22, 0), day.Segments[2].End)
}

func TestSweepElapsed(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	res, _, err := f.svc.CreateReservation(ctx, userInput(tod(18, 0), tod(20, 0)))
	require.NoError(t, err)

	// Before the window ends nothing is swept.
	n, err := f.svc.SweepElapsed(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)

	// Advance past the end of the window.
	f.svc.clock = fixedClock{time.Date(2026, 9, 12, 20, 30, 0, 0, time.UTC)}
	n, err = f.svc.SweepElapsed(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := f.store.GetByID(ctx, res.ID)
	require.NoError(t, err)
	assert.Equal(t, model.StatusCompleted, got.Status)

	// Idempotent: a second run finds nothing confirmed.
	n, err = f.svc.SweepElapsed(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestDaySheet(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, _, err := f.svc.CreateReservation(ctx, userInput(tod(12, 0), tod(13, 0)))
	require.NoError(t, err)
	res, _, err := f.svc.CreateReservation(ctx, guestInput(tod(18, 0), tod(20, 0)))
	require.NoError(t, err)
	_, err = f.svc.Cancel(ctx, res.ID, owner)
	require.NoError(t, err)

	_, err = f.svc.DaySheet(ctx, testRestaurantID, testDate, customer)
	assert.ErrorIs(t, err, ErrForbidden)

	items, err := f.svc.DaySheet(ctx, testRestaurantID, testDate, owner)
	require.NoError(t, err)
	assert.Len(t, items, 2, "the day sheet includes cancelled rows")
}

func TestListTables(t *testing.T) {
	f := newFixture()

	items, err := f.svc.ListTables(context.Background(), testRestaurantID)
	require.NoError(t, err)
	assert.Len(t, items, 2)

	_, err = f.svc.ListTables(context.Background(), 99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInactiveRestaurantAndTable(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	in := userInput(tod(18, 0), tod(20, 0))
	in.RestaurantID = 99
	_, _, err := f.svc.CreateReservation(ctx, in)
	assert.ErrorIs(t, err, ErrNotFound)

	unknown := uint64(99)
	in = userInput(tod(18, 0), tod(20, 0))
	in.TableID = &unknown
	_, _, err = f.svc.CreateReservation(ctx, in)
	assert.ErrorIs(t, err, ErrNotFound)
}
