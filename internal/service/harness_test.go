package service_test

import (
	"context"
	"time"

	"github.com/FemiElu/movaa-park-api/internal/clock"
	"github.com/FemiElu/movaa-park-api/internal/domain"
	"github.com/FemiElu/movaa-park-api/internal/service"
	"github.com/FemiElu/movaa-park-api/internal/store"
)

// The services run against the real in-memory store in these tests: the
// store is the production implementation, so there is nothing to fake
// except time.

var ctx = context.Background()

// epoch is a fixed Monday so weekday-sensitive expectations stay readable.
var epoch = time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)

type engine struct {
	mem     *store.Memory
	clk     *clock.FakeClock
	trips   *service.TripService
	booking *service.BookingService
	finance *service.FinanceService
	audit   *service.AuditService
}

func newEngine() *engine {
	mem := store.NewMemory()
	clk := clock.Fake(epoch)
	return &engine{
		mem:     mem,
		clk:     clk,
		trips:   service.NewTripService(mem.Trips(), mem.Audit(), clk, 0),
		booking: service.NewBookingService(mem.Trips(), mem.Bookings(), mem.Audit(), clk, 0),
		finance: service.NewFinanceService(mem.Trips(), mem.Bookings(), mem.Parcels(), mem.Adjustments(), mem.Audit(), clk),
		audit:   service.NewAuditService(mem.Audit()),
	}
}

func validCreateInput() service.CreateTripInput {
	return service.CreateTripInput{
		ParkID:        "jibowu-park",
		RouteID:       "lagos-abuja",
		Date:          epoch,
		DepartureTime: "07:30",
		SeatCount:     14,
		MaxParcels:    10,
		Price:         15_000_00,
		Status:        domain.TripStatusPublished,
	}
}

func validReserve() service.ReserveInput {
	return service.ReserveInput{
		Passenger:  domain.Contact{Name: "Amina Yusuf", Phone: "+2348030000001", Address: "12 Ring Road, Ibadan"},
		NextOfKin:  domain.Contact{Name: "Bola Yusuf", Phone: "+2348030000002"},
		AmountPaid: 15_000_00,
	}
}

func datePtr(t time.Time) *time.Time { return &t }
func intPtr(v int) *int              { return &v }
func int64Ptr(v int64) *int64        { return &v }
func strPtr(v string) *string        { return &v }
