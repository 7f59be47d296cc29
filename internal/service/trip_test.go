package service_test

import (
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FemiElu/movaa-park-api/internal/domain"
	"github.com/FemiElu/movaa-park-api/internal/service"
	"github.com/FemiElu/movaa-park-api/internal/store"
)

// ---- Create ----------------------------------------------------------------

func TestTripService_Create_single(t *testing.T) {
	e := newEngine()

	trips, err := e.trips.Create(ctx, validCreateInput(), "admin@jibowu")

	require.NoError(t, err)
	require.Len(t, trips, 1)
	trip := trips[0]
	assert.Equal(t, domain.DateOnly(epoch), trip.Date)
	assert.Zero(t, trip.ConfirmedBookingsCount)
	assert.Equal(t, domain.PayoutNotScheduled, trip.PayoutStatus)
	assert.Nil(t, trip.SeriesID)
}

func TestTripService_Create_seatCeiling(t *testing.T) {
	e := newEngine()
	in := validCreateInput()
	in.SeatCount = domain.MaxSeatCount + 1

	_, err := e.trips.Create(ctx, in, "admin@jibowu")

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestTripService_Create_recurringNeedsPattern(t *testing.T) {
	e := newEngine()
	in := validCreateInput()
	in.Recurring = true

	_, err := e.trips.Create(ctx, in, "admin@jibowu")

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestTripService_Create_recurringSeriesSharesID(t *testing.T) {
	e := newEngine()
	in := validCreateInput()
	in.Recurring = true
	end := epoch.AddDate(0, 0, 6)
	in.Pattern = &domain.RecurrencePattern{
		Type:       domain.RecurrenceDaily,
		EndDate:    &end,
		Exceptions: []time.Time{epoch.AddDate(0, 0, 2)},
	}

	trips, err := e.trips.Create(ctx, in, "admin@jibowu")

	require.NoError(t, err)
	// Seven days minus one exception.
	require.Len(t, trips, 6)
	seriesID := trips[0].SeriesID
	require.NotNil(t, seriesID)
	for _, trip := range trips {
		require.NotNil(t, trip.SeriesID)
		assert.Equal(t, *seriesID, *trip.SeriesID)
	}
}

func TestTripService_Create_invalidDepartureTime(t *testing.T) {
	e := newEngine()
	in := validCreateInput()
	in.DepartureTime = "7am"

	_, err := e.trips.Create(ctx, in, "admin@jibowu")

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestTripService_Create_recordsAudit(t *testing.T) {
	e := newEngine()

	trips, err := e.trips.Create(ctx, validCreateInput(), "admin@jibowu")
	require.NoError(t, err)

	entries, err := e.audit.List(ctx, store.AuditFilter{EntityType: "trip", EntityID: trips[0].ID.String()})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "trip.created", entries[0].Action)
	assert.Equal(t, "admin@jibowu", entries[0].Actor)
}

// ---- Update ----------------------------------------------------------------

func TestTripService_Update_priceBeforeBookingsSucceeds(t *testing.T) {
	e := newEngine()
	trips, err := e.trips.Create(ctx, validCreateInput(), "admin@jibowu")
	require.NoError(t, err)

	updated, err := e.trips.Update(ctx, trips[0].ID, service.TripUpdate{Price: int64Ptr(18_000_00)}, service.ScopeOccurrence, "admin@jibowu")

	require.NoError(t, err)
	assert.EqualValues(t, 18_000_00, updated[0].Price)
}

func TestTripService_Update_priceImmutableWithBookings(t *testing.T) {
	e := newEngine()
	trips, err := e.trips.Create(ctx, validCreateInput(), "admin@jibowu")
	require.NoError(t, err)
	_, err = e.booking.Reserve(ctx, trips[0].ID, validReserve(), "admin@jibowu")
	require.NoError(t, err)

	_, err = e.trips.Update(ctx, trips[0].ID, service.TripUpdate{Price: int64Ptr(18_000_00)}, service.ScopeOccurrence, "admin@jibowu")

	assert.ErrorIs(t, err, domain.ErrImmutableField)
}

func TestTripService_Update_seatShrinkBelowBookedRejected(t *testing.T) {
	e := newEngine()
	in := validCreateInput()
	in.SeatCount = 3
	trips, err := e.trips.Create(ctx, in, "admin@jibowu")
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err = e.booking.Reserve(ctx, trips[0].ID, validReserve(), "admin@jibowu")
		require.NoError(t, err)
	}

	_, err = e.trips.Update(ctx, trips[0].ID, service.TripUpdate{SeatCount: intPtr(1)}, service.ScopeOccurrence, "admin@jibowu")
	assert.ErrorIs(t, err, domain.ErrCapacity)

	// Shrinking to exactly the booked count is allowed.
	updated, err := e.trips.Update(ctx, trips[0].ID, service.TripUpdate{SeatCount: intPtr(2)}, service.ScopeOccurrence, "admin@jibowu")
	require.NoError(t, err)
	assert.Equal(t, 2, updated[0].SeatCount)
}

func TestTripService_Update_scopeFutureStopsAtEarlierDates(t *testing.T) {
	e := newEngine()
	in := validCreateInput()
	in.Recurring = true
	end := epoch.AddDate(0, 0, 4)
	in.Pattern = &domain.RecurrencePattern{Type: domain.RecurrenceDaily, EndDate: &end}
	trips, err := e.trips.Create(ctx, in, "admin@jibowu")
	require.NoError(t, err)
	require.Len(t, trips, 5)

	// Update from the middle occurrence onward.
	_, err = e.trips.Update(ctx, trips[2].ID, service.TripUpdate{DepartureTime: strPtr("09:00")}, service.ScopeFuture, "admin@jibowu")
	require.NoError(t, err)

	series, err := e.trips.List(ctx, "", nil)
	require.NoError(t, err)
	for i, trip := range series {
		if i < 2 {
			assert.Equal(t, "07:30", trip.DepartureTime, "occurrence %d is in the past of the anchor", i)
		} else {
			assert.Equal(t, "09:00", trip.DepartureTime, "occurrence %d is the anchor or later", i)
		}
	}
}

func TestTripService_Update_scopeSeriesTouchesAll(t *testing.T) {
	e := newEngine()
	in := validCreateInput()
	in.Recurring = true
	end := epoch.AddDate(0, 0, 2)
	in.Pattern = &domain.RecurrencePattern{Type: domain.RecurrenceDaily, EndDate: &end}
	trips, err := e.trips.Create(ctx, in, "admin@jibowu")
	require.NoError(t, err)

	updated, err := e.trips.Update(ctx, trips[2].ID, service.TripUpdate{MaxParcels: intPtr(3)}, service.ScopeSeries, "admin@jibowu")

	require.NoError(t, err)
	require.Len(t, updated, 3)
	for _, trip := range updated {
		assert.Equal(t, 3, trip.MaxParcels)
	}
}

func TestTripService_Update_seriesRejectionIsAtomic(t *testing.T) {
	e := newEngine()
	in := validCreateInput()
	in.Recurring = true
	end := epoch.AddDate(0, 0, 1)
	in.Pattern = &domain.RecurrencePattern{Type: domain.RecurrenceDaily, EndDate: &end}
	trips, err := e.trips.Create(ctx, in, "admin@jibowu")
	require.NoError(t, err)
	require.Len(t, trips, 2)

	// Book a seat on the second occurrence only: a series-wide price
	// change must then fail for both occurrences.
	_, err = e.booking.Reserve(ctx, trips[1].ID, validReserve(), "admin@jibowu")
	require.NoError(t, err)

	_, err = e.trips.Update(ctx, trips[0].ID, service.TripUpdate{Price: int64Ptr(20_000_00)}, service.ScopeSeries, "admin@jibowu")
	require.ErrorIs(t, err, domain.ErrImmutableField)

	unchanged, err := e.trips.Get(ctx, trips[0].ID)
	require.NoError(t, err)
	assert.EqualValues(t, 15_000_00, unchanged.Price)
}

func TestTripService_Update_missingTrip(t *testing.T) {
	e := newEngine()

	_, err := e.trips.Update(ctx, uuid.New(), service.TripUpdate{}, service.ScopeOccurrence, "admin@jibowu")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ---- Publish ---------------------------------------------------------------

func TestTripService_Publish_draftOnly(t *testing.T) {
	e := newEngine()
	in := validCreateInput()
	in.Status = domain.TripStatusDraft
	trips, err := e.trips.Create(ctx, in, "admin@jibowu")
	require.NoError(t, err)

	published, err := e.trips.Publish(ctx, trips[0].ID, "admin@jibowu")
	require.NoError(t, err)
	assert.Equal(t, domain.TripStatusPublished, published.Status)

	_, err = e.trips.Publish(ctx, trips[0].ID, "admin@jibowu")
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

// ---- AssignDriver ----------------------------------------------------------

func TestTripService_AssignDriver_conflictSameDate(t *testing.T) {
	e := newEngine()
	tripA, err := e.trips.Create(ctx, validCreateInput(), "admin@jibowu")
	require.NoError(t, err)
	tripB, err := e.trips.Create(ctx, validCreateInput(), "admin@jibowu")
	require.NoError(t, err)

	_, err = e.trips.AssignDriver(ctx, tripA[0].ID, "driver-7", "+2348020000001", "admin@jibowu")
	require.NoError(t, err)

	_, err = e.trips.AssignDriver(ctx, tripB[0].ID, "driver-7", "+2348020000001", "admin@jibowu")
	require.ErrorIs(t, err, domain.ErrDriverConflict)

	var conflict domain.DriverConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, tripA[0].ID, conflict.ConflictingTripID)

	// The rejected trip must be untouched.
	got, err := e.trips.Get(ctx, tripB[0].ID)
	require.NoError(t, err)
	assert.Empty(t, got.DriverID)
}

func TestTripService_AssignDriver_differentDateSucceeds(t *testing.T) {
	e := newEngine()
	tripA, err := e.trips.Create(ctx, validCreateInput(), "admin@jibowu")
	require.NoError(t, err)

	inC := validCreateInput()
	inC.Date = epoch.AddDate(0, 0, 1)
	tripC, err := e.trips.Create(ctx, inC, "admin@jibowu")
	require.NoError(t, err)

	_, err = e.trips.AssignDriver(ctx, tripA[0].ID, "driver-7", "", "admin@jibowu")
	require.NoError(t, err)

	got, err := e.trips.AssignDriver(ctx, tripC[0].ID, "driver-7", "", "admin@jibowu")
	require.NoError(t, err)
	assert.Equal(t, "driver-7", got.DriverID)
}

func TestTripService_AssignDriver_draftTripsDoNotConflict(t *testing.T) {
	e := newEngine()
	inDraft := validCreateInput()
	inDraft.Status = domain.TripStatusDraft
	draft, err := e.trips.Create(ctx, inDraft, "admin@jibowu")
	require.NoError(t, err)
	_, err = e.trips.AssignDriver(ctx, draft[0].ID, "driver-7", "", "admin@jibowu")
	require.NoError(t, err)

	published, err := e.trips.Create(ctx, validCreateInput(), "admin@jibowu")
	require.NoError(t, err)

	// The other trip is a draft, so the same driver is acceptable.
	_, err = e.trips.AssignDriver(ctx, published[0].ID, "driver-7", "", "admin@jibowu")
	assert.NoError(t, err)
}

// TestTripService_AssignDriver_concurrentSameDate races one assignment
// per trip for the same driver and date. The conflict scan and the
// driver write share one store critical section, so exactly one
// assignment may win regardless of interleaving.
func TestTripService_AssignDriver_concurrentSameDate(t *testing.T) {
	e := newEngine()

	const n = 8
	tripIDs := make([]uuid.UUID, n)
	for i := range tripIDs {
		trips, err := e.trips.Create(ctx, validCreateInput(), "admin@jibowu")
		require.NoError(t, err)
		tripIDs[i] = trips[0].ID
	}

	errs := make([]error, n)
	var wg sync.WaitGroup
	for i, tripID := range tripIDs {
		i, tripID := i, tripID
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, errs[i] = e.trips.AssignDriver(ctx, tripID, "driver-7", "", "admin@jibowu")
		}()
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
			continue
		}
		require.ErrorIs(t, err, domain.ErrDriverConflict)
	}
	assert.Equal(t, 1, wins, "exactly one assignment may succeed")

	assigned, err := e.trips.List(ctx, "", nil)
	require.NoError(t, err)
	count := 0
	for _, trip := range assigned {
		if trip.DriverID == "driver-7" {
			count++
		}
	}
	assert.Equal(t, 1, count, "the driver must end up on exactly one trip")
}

// ---- queries ---------------------------------------------------------------

func TestTripService_List_filters(t *testing.T) {
	e := newEngine()
	_, err := e.trips.Create(ctx, validCreateInput(), "admin@jibowu")
	require.NoError(t, err)

	other := validCreateInput()
	other.ParkID = "ojota-park"
	other.Date = epoch.AddDate(0, 0, 1)
	_, err = e.trips.Create(ctx, other, "admin@jibowu")
	require.NoError(t, err)

	all, err := e.trips.List(ctx, "", nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	jibowu, err := e.trips.List(ctx, "jibowu-park", nil)
	require.NoError(t, err)
	require.Len(t, jibowu, 1)

	none, err := e.trips.List(ctx, "jibowu-park", datePtr(epoch.AddDate(0, 0, 1)))
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestTripService_PreviewDates_excludesStart(t *testing.T) {
	e := newEngine()
	end := epoch.AddDate(0, 0, 3)

	dates, err := e.trips.PreviewDates(epoch, domain.RecurrencePattern{Type: domain.RecurrenceDaily, EndDate: &end})

	require.NoError(t, err)
	require.Len(t, dates, 3)
	assert.Equal(t, domain.DateOnly(epoch.AddDate(0, 0, 1)), dates[0])
}
