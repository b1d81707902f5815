package tour

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestBookingTotal(t *testing.T) {
	tests := []struct {
		price, people, want int
	}{
		{30000, 2, 60000},
		{30000, 0, 30000},
		{0, 3, 150000},
		{-1, 1, 50000},
	}
	for _, tt := range tests {
		if got := BookingTotal(tt.price, tt.people); got != tt.want {
			t.Errorf("BookingTotal(%d, %d) = %d, want %d", tt.price, tt.people, got, tt.want)
		}
	}
}

func TestBookingHeadcountNeedsApply(t *testing.T) {
	b := NewBooking(time.Date(2025, 5, 1, 18, 30, 0, 0, time.UTC))
	b.AddPeople(2)
	if b.People != 3 || b.Headcount() != 1 {
		t.Fatalf("before apply: people %d headcount %d", b.People, b.Headcount())
	}
	b.Apply()
	if b.Headcount() != 3 {
		t.Errorf("headcount = %d, want 3", b.Headcount())
	}

	b.AddPeople(-10)
	if b.People != 1 {
		t.Errorf("counter = %d, want floor of 1", b.People)
	}
	if b.Headcount() != 3 {
		t.Errorf("counter change without apply moved headcount to %d", b.Headcount())
	}
}

func TestBookingQuote(t *testing.T) {
	p := sampleProgram(t)
	b := NewBooking(time.Date(2025, 4, 30, 9, 0, 0, 0, time.UTC))
	b.ShiftDate(1)
	b.AddPeople(1)
	b.Apply()

	want := Quote{
		TourID:    1,
		Title:     "예시 투어 프로그램",
		UnitPrice: 30000,
		People:    2,
		Total:     60000,
		Start:     "2025-05-01T10:00:00",
		End:       "2025-05-01T13:00:00",
	}
	got := b.Quote(p)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("quote mismatch (-want +got):\n%s", diff)
	}
	if got.TotalLabel() != "60,000원" {
		t.Errorf("TotalLabel = %q", got.TotalLabel())
	}
	if b.DateLabel() != "2025년 5월 1일" {
		t.Errorf("DateLabel = %q", b.DateLabel())
	}
}

func TestBookingQuoteDefaultPrice(t *testing.T) {
	q := NewBooking(time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)).Quote(Program{ID: 9})
	if q.UnitPrice != DefaultGuidePrice || q.Total != DefaultGuidePrice || q.People != 1 {
		t.Errorf("quote = %+v", q)
	}
}
