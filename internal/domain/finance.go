package domain

import "math"

// Revenue split percentages. Passenger fares favor the driver 80/20;
// parcel fees are shared evenly.
const (
	passengerDriverShare = 0.80
	parcelDriverShare    = 0.50
)

// FinanceSummary is the on-demand read model for a trip's revenue split.
// It is never persisted; compute it fresh from the trip's bookings,
// parcels, and adjustments. All amounts are kobo.
//
// DriverTotal + ParkTotal always equals PassengerRevenue + ParcelRevenue:
// each percentage share is rounded half-up and its counterpart takes the
// remainder, and adjustments move money between the two sides without
// creating or destroying any.
type FinanceSummary struct {
	PassengerRevenue int64 `json:"passenger_revenue"`
	ParcelRevenue    int64 `json:"parcel_revenue"`
	AdjustmentTotal  int64 `json:"adjustment_total"`

	DriverPassengerShare int64 `json:"driver_passenger_share"`
	ParkPassengerShare   int64 `json:"park_passenger_share"`
	DriverParcelShare    int64 `json:"driver_parcel_share"`
	ParkParcelShare      int64 `json:"park_parcel_share"`

	DriverTotal int64 `json:"driver_total"`
	ParkTotal   int64 `json:"park_total"`
}

// ComputeFinance derives the revenue split for one trip.
//
// Passenger revenue sums AmountPaid over confirmed bookings. Parcel
// revenue sums fees over parcels that are assigned, in transit, or
// delivered. The signed adjustment total is added to the driver side and
// subtracted from the park side.
func ComputeFinance(bookings []Booking, parcels []Parcel, adjustments []Adjustment) FinanceSummary {
	var s FinanceSummary

	for _, b := range bookings {
		if b.Status == BookingConfirmed {
			s.PassengerRevenue += b.AmountPaid
		}
	}
	for _, p := range parcels {
		if p.Status.Revenue() {
			s.ParcelRevenue += p.Fee
		}
	}
	for _, a := range adjustments {
		s.AdjustmentTotal += a.Amount
	}

	s.DriverPassengerShare = share(s.PassengerRevenue, passengerDriverShare)
	s.ParkPassengerShare = s.PassengerRevenue - s.DriverPassengerShare
	s.DriverParcelShare = share(s.ParcelRevenue, parcelDriverShare)
	s.ParkParcelShare = s.ParcelRevenue - s.DriverParcelShare

	s.DriverTotal = s.DriverPassengerShare + s.DriverParcelShare + s.AdjustmentTotal
	s.ParkTotal = s.ParkPassengerShare + s.ParkParcelShare - s.AdjustmentTotal

	return s
}

// share returns pct of total in kobo, rounded half away from zero.
// The caller assigns the remainder to the counterpart so the two shares
// always sum to total.
func share(total int64, pct float64) int64 {
	return int64(math.Round(float64(total) * pct))
}
