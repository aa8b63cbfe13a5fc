package service

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"time"

	"mesaYaBooking/internal/booking"
	"mesaYaBooking/internal/model"
	"mesaYaBooking/internal/repository"
	"mesaYaBooking/internal/utils"
)

// Service-level sentinel errors.  Validator reasons come from the booking
// package; these cover orchestration concerns.
var (
	// ErrNotFound is returned when an id does not resolve to a row.
	ErrNotFound = errors.New("not found")
	// ErrForbidden is returned when the actor may not act on the resource.
	ErrForbidden = errors.New("forbidden")
	// ErrCustomerIdentity rejects requests that carry neither a user nor
	// complete guest contact details, or both at once.
	ErrCustomerIdentity = errors.New("exactly one of user or guest contact must be provided")
	// ErrTableCapacityExceeded rejects parties larger than the table seats.
	ErrTableCapacityExceeded = errors.New("party exceeds table capacity")
)

// Actor roles, matching the role claim issued by the platform auth service.
const (
	RoleOwner    = "OWNER"
	RoleCustomer = "CUSTOMER"
)

// Actor identifies who is performing a mutating operation.
type Actor struct {
	UserID uint64
	Role   string
}

// ReservationStore is the persistence contract for reservations.  Insert
// and AssignTable must be atomic with respect to other writers on the same
// table and date: they re-check overlap inside the same transaction or lock
// scope as the write (see repository.ReservationRepo).
type ReservationStore interface {
	ListActiveByTableAndDate(ctx context.Context, tableID uint64, date time.Time) ([]model.Reservation, error)
	CountActiveByUser(ctx context.Context, userID, restaurantID uint64) (int, error)
	Insert(ctx context.Context, res *model.Reservation) error
	AssignTable(ctx context.Context, reservationID, tableID uint64) (*model.Reservation, error)
	GetByID(ctx context.Context, id uint64) (*model.Reservation, error)
	UpdateStatus(ctx context.Context, id uint64, from, to model.ReservationStatus) error
	ListByUser(ctx context.Context, userID uint64) ([]model.Reservation, error)
	ListByRestaurantAndDate(ctx context.Context, restaurantID uint64, date time.Time) ([]model.Reservation, error)
	ListElapsedConfirmed(ctx context.Context, now time.Time) ([]model.Reservation, error)
}

// PolicyStore supplies per-restaurant booking policies.
type PolicyStore interface {
	GetByRestaurant(ctx context.Context, restaurantID uint64) (*model.PolicyConfig, error)
}

// TableStore supplies table lookups.
type TableStore interface {
	GetByID(ctx context.Context, id uint64) (*model.Table, error)
	ListByRestaurant(ctx context.Context, restaurantID uint64) ([]model.Table, error)
}

// RestaurantStore supplies restaurant lookups.
type RestaurantStore interface {
	GetByID(ctx context.Context, id uint64) (*model.Restaurant, error)
}

// ReservationService orchestrates the booking pipeline: load policy and
// state, run the pure validator, persist through the atomic store contract,
// drive the status lifecycle and emit events.  All mutations of
// reservation records in the platform go through this service so the
// atomicity rule is never bypassed.
type ReservationService struct {
	reservations ReservationStore
	policies     PolicyStore
	tables       TableStore
	restaurants  RestaurantStore
	notifier     Notifier
	clock        booking.Clock
}

// NewReservationService wires the orchestrator.  notifier may be nil to
// disable event publication; a nil clock defaults to the system clock.
func NewReservationService(reservations ReservationStore, policies PolicyStore, tables TableStore, restaurants RestaurantStore, notifier Notifier, clock booking.Clock) *ReservationService {
	if reservations == nil || policies == nil || tables == nil || restaurants == nil {
		panic("nil store passed to NewReservationService")
	}
	if clock == nil {
		clock = booking.SystemClock{}
	}
	return &ReservationService{
		reservations: reservations,
		policies:     policies,
		tables:       tables,
		restaurants:  restaurants,
		notifier:     notifier,
		clock:        clock,
	}
}

// CreateReservationInput carries a booking request.  TableID nil means a
// waitlist-style booking that staff assign to a table later.  Exactly one
// identity path must be populated: UserID, or CustomerName plus at least
// one of CustomerEmail/CustomerPhone.
type CreateReservationInput struct {
	RestaurantID  uint64
	TableID       *uint64
	UserID        *uint64
	CustomerName  *string
	CustomerEmail *string
	CustomerPhone *string
	Date          time.Time
	Start         model.TimeOfDay
	End           model.TimeOfDay
	Guests        int
	Notes         *string
}

// hasGuestContact reports whether the guest identity path is complete.
func (in CreateReservationInput) hasGuestContact() bool {
	if in.CustomerName == nil || *in.CustomerName == "" {
		return false
	}
	hasEmail := in.CustomerEmail != nil && *in.CustomerEmail != ""
	hasPhone := in.CustomerPhone != nil && *in.CustomerPhone != ""
	return hasEmail || hasPhone
}

// CreateReservation admits, persists and announces a new reservation.  The
// returned string is the raw manage token for guest bookings (empty for
// account bookings); it is shown to the guest exactly once.
//
// Validation fully precedes persistence, so a rejected request leaves no
// partial state.  The store's Insert re-checks overlap inside its own
// transaction; if that transaction is aborted by a concurrent writer the
// insert is retried once, and a second abort is reported as a table
// conflict, which for the caller means the same thing: pick another slot.
func (s *ReservationService) CreateReservation(ctx context.Context, in CreateReservationInput) (*model.Reservation, string, error) {
	restaurant, err := s.restaurants.GetByID(ctx, in.RestaurantID)
	if err != nil {
		return nil, "", mapNoRows(err)
	}
	if !restaurant.IsActive {
		return nil, "", ErrNotFound
	}

	hasUser := in.UserID != nil
	if hasUser == in.hasGuestContact() {
		return nil, "", ErrCustomerIdentity
	}

	var table *model.Table
	if in.TableID != nil {
		table, err = s.tables.GetByID(ctx, *in.TableID)
		if err != nil {
			return nil, "", mapNoRows(err)
		}
		if table.RestaurantID != in.RestaurantID || !table.IsActive {
			return nil, "", ErrNotFound
		}
	}

	policy, err := s.policies.GetByRestaurant(ctx, in.RestaurantID)
	if err != nil {
		return nil, "", mapNoRows(err)
	}

	var existing []booking.Interval
	if in.TableID != nil {
		existing, err = s.activeIntervals(ctx, *in.TableID, in.Date)
		if err != nil {
			return nil, "", err
		}
	}

	activeCount := 0
	if in.UserID != nil {
		activeCount, err = s.reservations.CountActiveByUser(ctx, *in.UserID, in.RestaurantID)
		if err != nil {
			return nil, "", err
		}
	}

	req := booking.Request{
		Date:    in.Date,
		Start:   in.Start,
		End:     in.End,
		Guests:  in.Guests,
		TableID: in.TableID,
		UserID:  in.UserID,
	}
	if err := booking.Validate(req, *policy, existing, activeCount, s.clock.Now()); err != nil {
		return nil, "", err
	}
	// Capacity comes after the policy pipeline: a party that violates the
	// policy guest bound reports that bound, not the table it picked.
	if table != nil && in.Guests > table.Capacity {
		return nil, "", ErrTableCapacityExceeded
	}

	res := &model.Reservation{
		RestaurantID:      in.RestaurantID,
		TableID:           in.TableID,
		UserID:            in.UserID,
		CustomerName:      in.CustomerName,
		CustomerEmail:     in.CustomerEmail,
		CustomerPhone:     in.CustomerPhone,
		ReservationDate:   in.Date,
		StartTime:         in.Start,
		EndTime:           in.End,
		NumberOfGuests:    in.Guests,
		Status:            booking.InitialStatus(policy.ReservationsNeedConfirmation),
		NeedsConfirmation: policy.ReservationsNeedConfirmation,
		Notes:             in.Notes,
	}

	manageToken := ""
	if in.UserID == nil {
		manageToken = utils.NewManageToken()
		hash := utils.HashManageToken(manageToken)
		res.ManageTokenHash = &hash
	}

	if err := s.insertWithRetry(ctx, res); err != nil {
		return nil, "", err
	}

	s.notify(ctx, res, "", res.Status)
	return res, manageToken, nil
}

// insertWithRetry applies the transient-abort policy from the concurrency
// contract: one automatic retry, then report the outcome as a conflict.
func (s *ReservationService) insertWithRetry(ctx context.Context, res *model.Reservation) error {
	err := s.reservations.Insert(ctx, res)
	if errors.Is(err, repository.ErrTxBusy) {
		err = s.reservations.Insert(ctx, res)
		if errors.Is(err, repository.ErrTxBusy) {
			return booking.ErrTableConflict
		}
	}
	return err
}

// CheckAvailability runs the admission pipeline for a hypothetical request
// without persisting anything.  It is advisory: a favourable answer can be
// stale by commit time, which is why CreateReservation re-checks inside its
// transaction.  guests zero defaults to the policy minimum so pure slot
// probes need not pick a party size.  The first return value reports
// availability; the second carries the rejection reason when unavailable.
func (s *ReservationService) CheckAvailability(ctx context.Context, restaurantID, tableID uint64, date time.Time, start, end model.TimeOfDay, guests int) (bool, error, error) {
	table, err := s.tables.GetByID(ctx, tableID)
	if err != nil {
		return false, nil, mapNoRows(err)
	}
	if table.RestaurantID != restaurantID || !table.IsActive {
		return false, nil, ErrNotFound
	}
	policy, err := s.policies.GetByRestaurant(ctx, restaurantID)
	if err != nil {
		return false, nil, mapNoRows(err)
	}
	if guests == 0 {
		guests = policy.MinGuestsPerReservation
	}
	existing, err := s.activeIntervals(ctx, tableID, date)
	if err != nil {
		return false, nil, err
	}
	req := booking.Request{
		Date:    date,
		Start:   start,
		End:     end,
		Guests:  guests,
		TableID: &tableID,
	}
	if reason := booking.Validate(req, *policy, existing, 0, s.clock.Now()); reason != nil {
		return false, reason, nil
	}
	if guests > table.Capacity {
		return false, ErrTableCapacityExceeded, nil
	}
	return true, nil, nil
}

// DayAvailability is the availability map for one table on one date.
type DayAvailability struct {
	TableID  uint64                      `json:"table_id"`
	Date     string                      `json:"date"`
	Closed   bool                        `json:"closed"`
	Open     model.TimeOfDay             `json:"open,omitempty"`
	Close    model.TimeOfDay             `json:"close,omitempty"`
	Segments []model.AvailabilitySegment `json:"segments"`
}

// GetAvailabilityMap projects the table's day into ordered free/occupied
// segments over the restaurant's operating window.  Read-only; a consistent
// snapshot read is sufficient, no locks are taken.
func (s *ReservationService) GetAvailabilityMap(ctx context.Context, restaurantID, tableID uint64, date time.Time) (*DayAvailability, error) {
	restaurant, err := s.restaurants.GetByID(ctx, restaurantID)
	if err != nil {
		return nil, mapNoRows(err)
	}
	table, err := s.tables.GetByID(ctx, tableID)
	if err != nil {
		return nil, mapNoRows(err)
	}
	if table.RestaurantID != restaurantID {
		return nil, ErrNotFound
	}

	out := &DayAvailability{
		TableID: tableID,
		Date:    date.Format("2006-01-02"),
	}
	window := booking.Window{Open: restaurant.OpensAt, Close: restaurant.ClosesAt}
	if window.Closed() || !restaurant.IsActive {
		out.Closed = true
		out.Segments = []model.AvailabilitySegment{}
		return out, nil
	}
	occupied, err := s.activeIntervals(ctx, tableID, date)
	if err != nil {
		return nil, err
	}
	out.Open = window.Open
	out.Close = window.Close
	out.Segments = booking.BuildDayMap(window, occupied)
	return out, nil
}

// UpdateStatus drives a lifecycle transition on behalf of an actor.
// Owners may apply any legal transition on reservations in their
// restaurant; customers may only cancel their own.  The store applies the
// change with a compare-and-set, so losing a transition race reports the
// same illegal-transition error a stale request would get.  The notifier is
// informed after the change commits.
func (s *ReservationService) UpdateStatus(ctx context.Context, reservationID uint64, to model.ReservationStatus, actor Actor) (*model.Reservation, error) {
	res, err := s.reservations.GetByID(ctx, reservationID)
	if err != nil {
		return nil, mapNoRows(err)
	}
	if err := s.authorizeStatusChange(ctx, res, to, actor); err != nil {
		return nil, err
	}
	return s.applyTransition(ctx, res, to)
}

// Cancel is a convenience wrapper over UpdateStatus to CANCELLED.
func (s *ReservationService) Cancel(ctx context.Context, reservationID uint64, actor Actor) (*model.Reservation, error) {
	return s.UpdateStatus(ctx, reservationID, model.StatusCancelled, actor)
}

// CancelByToken cancels a guest reservation authorized by its manage token.
func (s *ReservationService) CancelByToken(ctx context.Context, reservationID uint64, rawToken string) (*model.Reservation, error) {
	res, err := s.reservations.GetByID(ctx, reservationID)
	if err != nil {
		return nil, mapNoRows(err)
	}
	if res.ManageTokenHash == nil || rawToken == "" ||
		utils.HashManageToken(rawToken) != *res.ManageTokenHash {
		return nil, ErrForbidden
	}
	return s.applyTransition(ctx, res, model.StatusCancelled)
}

// AssignTable binds a waitlist reservation to a table.  Owner-only.  The
// store re-checks overlap under locks; transient aborts get one retry and
// then surface as a table conflict, mirroring CreateReservation.
func (s *ReservationService) AssignTable(ctx context.Context, reservationID, tableID uint64, actor Actor) (*model.Reservation, error) {
	res, err := s.reservations.GetByID(ctx, reservationID)
	if err != nil {
		return nil, mapNoRows(err)
	}
	if err := s.requireOwner(ctx, res.RestaurantID, actor); err != nil {
		return nil, err
	}
	table, err := s.tables.GetByID(ctx, tableID)
	if err != nil {
		return nil, mapNoRows(err)
	}
	if table.RestaurantID != res.RestaurantID || !table.IsActive {
		return nil, ErrNotFound
	}
	if res.NumberOfGuests > table.Capacity {
		return nil, ErrTableCapacityExceeded
	}

	updated, err := s.reservations.AssignTable(ctx, reservationID, tableID)
	if errors.Is(err, repository.ErrTxBusy) {
		updated, err = s.reservations.AssignTable(ctx, reservationID, tableID)
		if errors.Is(err, repository.ErrTxBusy) {
			return nil, booking.ErrTableConflict
		}
	}
	if err != nil {
		return nil, mapNoRows(err)
	}
	return updated, nil
}

// ListTables returns the restaurant's tables so clients can pick one to
// probe for availability.
func (s *ReservationService) ListTables(ctx context.Context, restaurantID uint64) ([]model.Table, error) {
	restaurant, err := s.restaurants.GetByID(ctx, restaurantID)
	if err != nil {
		return nil, mapNoRows(err)
	}
	if !restaurant.IsActive {
		return nil, ErrNotFound
	}
	return s.tables.ListByRestaurant(ctx, restaurantID)
}

// ListForUser returns the customer's own reservations, newest first.
func (s *ReservationService) ListForUser(ctx context.Context, actor Actor) ([]model.Reservation, error) {
	return s.reservations.ListByUser(ctx, actor.UserID)
}

// DaySheet returns every reservation of the restaurant for one date.
// Owner-only.
func (s *ReservationService) DaySheet(ctx context.Context, restaurantID uint64, date time.Time, actor Actor) ([]model.Reservation, error) {
	if err := s.requireOwner(ctx, restaurantID, actor); err != nil {
		return nil, err
	}
	return s.reservations.ListByRestaurantAndDate(ctx, restaurantID, date)
}

// SweepElapsed moves CONFIRMED reservations whose window has passed to
// COMPLETED and returns how many it completed.  NO_SHOW stays a staff
// judgement and is never applied automatically.  The sweep is idempotent
// and safe to run concurrently with bookings: the compare-and-set skips any
// reservation another actor already moved.
func (s *ReservationService) SweepElapsed(ctx context.Context) (int, error) {
	elapsed, err := s.reservations.ListElapsedConfirmed(ctx, s.clock.Now())
	if err != nil {
		return 0, err
	}
	done := 0
	for i := range elapsed {
		res := &elapsed[i]
		err := s.reservations.UpdateStatus(ctx, res.ID, model.StatusConfirmed, model.StatusCompleted)
		if errors.Is(err, repository.ErrStaleStatus) {
			continue // someone else moved it first
		}
		if err != nil {
			return done, err
		}
		old := res.Status
		res.Status = model.StatusCompleted
		s.notify(ctx, res, old, res.Status)
		done++
	}
	return done, nil
}

// applyTransition validates the lifecycle edge, applies it with a CAS and
// notifies.  A lost CAS race reports ErrIllegalTransition, the same outcome
// a stale client request gets.
func (s *ReservationService) applyTransition(ctx context.Context, res *model.Reservation, to model.ReservationStatus) (*model.Reservation, error) {
	if !booking.CanTransition(res.Status, to) {
		return nil, booking.ErrIllegalTransition
	}
	err := s.reservations.UpdateStatus(ctx, res.ID, res.Status, to)
	if errors.Is(err, repository.ErrStaleStatus) {
		return nil, booking.ErrIllegalTransition
	}
	if err != nil {
		return nil, err
	}
	old := res.Status
	res.Status = to
	s.notify(ctx, res, old, to)
	return res, nil
}

// authorizeStatusChange enforces who may apply which transition.
func (s *ReservationService) authorizeStatusChange(ctx context.Context, res *model.Reservation, to model.ReservationStatus, actor Actor) error {
	if to == model.StatusCancelled {
		if res.UserID != nil && *res.UserID == actor.UserID {
			return nil // customers cancel their own bookings
		}
	}
	return s.requireOwner(ctx, res.RestaurantID, actor)
}

// requireOwner checks that the actor owns the restaurant.
func (s *ReservationService) requireOwner(ctx context.Context, restaurantID uint64, actor Actor) error {
	if actor.Role != RoleOwner {
		return ErrForbidden
	}
	restaurant, err := s.restaurants.GetByID(ctx, restaurantID)
	if err != nil {
		return mapNoRows(err)
	}
	if restaurant.OwnerID != actor.UserID {
		return ErrForbidden
	}
	return nil
}

// activeIntervals loads the table's non-terminal reservations for the date
// as intervals for the validator and the availability map.
func (s *ReservationService) activeIntervals(ctx context.Context, tableID uint64, date time.Time) ([]booking.Interval, error) {
	existing, err := s.reservations.ListActiveByTableAndDate(ctx, tableID, date)
	if err != nil {
		return nil, err
	}
	out := make([]booking.Interval, 0, len(existing))
	for _, r := range existing {
		out = append(out, booking.Interval{Start: r.StartTime, End: r.EndTime})
	}
	return out, nil
}

// notify informs the notifier and logs failures; a failed delivery never
// affects the committed change.
func (s *ReservationService) notify(ctx context.Context, res *model.Reservation, oldStatus, newStatus model.ReservationStatus) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.NotifyStatusChanged(ctx, res, oldStatus, newStatus); err != nil {
		log.Printf("notifier: status change event for reservation %d dropped: %v", res.ID, err)
	}
}

// mapNoRows converts the driver's missing-row sentinel into the service's.
func mapNoRows(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
