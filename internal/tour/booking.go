package tour

import (
	"fmt"
	"time"
)

// DefaultGuidePrice is charged per person when a program has no price set.
const DefaultGuidePrice = 50000

// ReservationLayout is the wire format of reservation start and end times.
// Times carry no zone; the backend reads them as local time.
const ReservationLayout = "2006-01-02T15:04:05"

// Guided sessions run 10:00 to 13:00 on the booked date.
const (
	sessionStartHour = 10
	sessionEndHour   = 13
)

// Booking is the headcount and date picked before checkout. People is the
// counter on screen; Applied is the value last confirmed with Apply and is
// what the quote charges for.
type Booking struct {
	Date    time.Time
	People  int
	Applied int
}

// NewBooking starts a booking for one person on date.
func NewBooking(date time.Time) Booking {
	y, m, d := date.Date()
	return Booking{Date: time.Date(y, m, d, 0, 0, 0, 0, date.Location()), People: 1}
}

// AddPeople moves the headcount counter by delta, never below one.
func (b *Booking) AddPeople(delta int) {
	b.People = max(b.People+delta, 1)
}

// Apply confirms the counter as the booked headcount.
func (b *Booking) Apply() {
	b.Applied = b.People
}

// ShiftDate moves the booked date by days.
func (b *Booking) ShiftDate(days int) {
	b.Date = b.Date.AddDate(0, 0, days)
}

// Headcount is the confirmed headcount, one until Apply is called.
func (b Booking) Headcount() int {
	if b.Applied < 1 {
		return 1
	}
	return b.Applied
}

// Quote is the price summary sent along with a reservation.
type Quote struct {
	TourID    int64  `json:"tourProgramId"`
	Title     string `json:"title"`
	UnitPrice int    `json:"guidePrice"`
	People    int    `json:"numOfPeople"`
	Total     int    `json:"totalPrice"`
	Start     string `json:"guideStartDate"`
	End       string `json:"guideEndDate"`
}

// TotalLabel renders the total, e.g. "60,000원".
func (q Quote) TotalLabel() string {
	return printer.Sprintf("%d원", q.Total)
}

// BookingTotal is guidePrice times people. A non-positive price falls back
// to DefaultGuidePrice and fewer than one person counts as one.
func BookingTotal(guidePrice, people int) int {
	if guidePrice <= 0 {
		guidePrice = DefaultGuidePrice
	}
	return guidePrice * max(people, 1)
}

// Quote prices the booking for program p.
func (b Booking) Quote(p Program) Quote {
	unit := p.GuidePrice
	if unit <= 0 {
		unit = DefaultGuidePrice
	}
	y, m, d := b.Date.Date()
	loc := b.Date.Location()
	return Quote{
		TourID:    p.ID,
		Title:     p.Title,
		UnitPrice: unit,
		People:    b.Headcount(),
		Total:     BookingTotal(unit, b.Headcount()),
		Start:     time.Date(y, m, d, sessionStartHour, 0, 0, 0, loc).Format(ReservationLayout),
		End:       time.Date(y, m, d, sessionEndHour, 0, 0, 0, loc).Format(ReservationLayout),
	}
}

// DateLabel renders the booked date, e.g. "2025년 5월 1일".
func (b Booking) DateLabel() string {
	y, m, d := b.Date.Date()
	return fmt.Sprintf("%d년 %d월 %d일", y, int(m), d)
}
