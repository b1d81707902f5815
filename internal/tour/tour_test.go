package tour

import (
	"context"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/abelbrown/tourfeed/internal/pager"
	"github.com/abelbrown/tourfeed/internal/remote"
	"github.com/google/go-cmp/cmp"
)

func sampleProgram(t *testing.T) Program {
	t.Helper()
	p, err := DefaultFixture().Get(context.Background(), 1)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	return p
}

func TestDefaultFixture(t *testing.T) {
	p := sampleProgram(t)
	if p.Title != "예시 투어 프로그램" || p.Region != "서울" {
		t.Errorf("unexpected program: %+v", p)
	}
	if p.Host.Name != "홍길동" || p.GuidePrice != 30000 {
		t.Errorf("unexpected host/price: %+v %d", p.Host, p.GuidePrice)
	}
	if len(p.Schedules) != 3 {
		t.Fatalf("expected 3 stops, got %d", len(p.Schedules))
	}
	if p.Schedules[2].PlaceName != "북촌한옥마을" {
		t.Errorf("third stop = %q", p.Schedules[2].PlaceName)
	}

	_, err := DefaultFixture().Get(context.Background(), 99)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestTotalDistance(t *testing.T) {
	p := sampleProgram(t)
	km := TotalDistanceKm(p.Schedules)
	if km < 1.7 || km > 1.9 {
		t.Errorf("TotalDistanceKm = %f, want about 1.8", km)
	}
	if got := FormatDistance(km); got != "1.8" {
		t.Errorf("FormatDistance = %q, want 1.8", got)
	}

	if TotalDistanceKm(nil) != 0 || TotalDistanceKm(p.Schedules[:1]) != 0 {
		t.Error("fewer than two stops should be zero distance")
	}
}

func TestHaversineQuarterMeridian(t *testing.T) {
	d := haversine(Schedule{Lat: 0, Lon: 0}, Schedule{Lat: 90, Lon: 0})
	want := math.Pi / 2 * earthRadius
	if math.Abs(d-want) > 1e-6 {
		t.Errorf("haversine = %f, want %f", d, want)
	}
}

func TestGroupByDay(t *testing.T) {
	stops := []Schedule{
		{Day: 2, PlaceName: "a"},
		{Day: 1, PlaceName: "b"},
		{Day: 2, PlaceName: "c"},
	}
	groups := GroupByDay(stops)
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if groups[0].Label != "Day 2" || groups[1].Label != "Day 1" {
		t.Errorf("labels = %q, %q", groups[0].Label, groups[1].Label)
	}
	if len(groups[0].Stops) != 2 || groups[0].Stops[1].PlaceName != "c" {
		t.Errorf("Day 2 stops = %+v", groups[0].Stops)
	}
	if diff := cmp.Diff([]int{2, 1}, Days(stops)); diff != "" {
		t.Errorf("Days mismatch (-want +got):\n%s", diff)
	}
}

func TestScheduleAccessorsWithPager(t *testing.T) {
	p := sampleProgram(t)
	pg := pager.New(p.Schedules, ScheduleAccessors, pager.DefaultConfig())
	pg.SelectFilter(pager.Only("Day 1"))

	visible := pg.Visible()
	if len(visible) != 2 {
		t.Fatalf("expected 2 day-1 stops, got %d", len(visible))
	}
	if ScheduleAccessors.Metric(visible[0], MetricTravelTime) != 30 {
		t.Errorf("travel time = %d, want 30", ScheduleAccessors.Metric(visible[0], MetricTravelTime))
	}
	if ScheduleAccessors.Metric(visible[0], pager.MetricLikes) != 0 {
		t.Error("unknown metric should be 0")
	}
}

func TestToggleWishlist(t *testing.T) {
	liked, count := ToggleWishlist(false, 10)
	if !liked || count != 11 {
		t.Errorf("like: got %v %d", liked, count)
	}
	liked, count = ToggleWishlist(liked, count)
	if liked || count != 10 {
		t.Errorf("unlike: got %v %d", liked, count)
	}
	if _, count := ToggleWishlist(true, 0); count != 0 {
		t.Errorf("count should not go negative, got %d", count)
	}
	if got := WishlistLabel(true, 11); got != "💖 찜함 11" {
		t.Errorf("WishlistLabel = %q", got)
	}
}

func TestRefundTable(t *testing.T) {
	rules := RefundTable()
	if len(rules) != 11 {
		t.Fatalf("expected 11 rows, got %d", len(rules))
	}
	if rules[0] != (RefundRule{DaysBefore: 10, Percent: 100}) {
		t.Errorf("first row = %+v", rules[0])
	}
	if rules[10] != (RefundRule{DaysBefore: 0, Percent: 0}) {
		t.Errorf("last row = %+v", rules[10])
	}
	if rules[10].Label() != "당일" || rules[3].Label() != "7일" {
		t.Errorf("labels = %q, %q", rules[10].Label(), rules[3].Label())
	}
	for _, r := range rules {
		if RefundPercent(r.DaysBefore) != r.Percent {
			t.Errorf("RefundPercent(%d) = %d, want %d", r.DaysBefore, RefundPercent(r.DaysBefore), r.Percent)
		}
	}
	if RefundPercent(30) != 100 || RefundPercent(-2) != 0 {
		t.Error("out-of-table days should clamp")
	}
}

func TestFormatPrice(t *testing.T) {
	got := FormatPrice(30000)
	if !strings.Contains(got, "30,000") || !strings.HasPrefix(got, "₩") {
		t.Errorf("FormatPrice = %q", got)
	}
}

func TestRemoteSource(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/tour-program/7" {
			w.Write([]byte(`{"id":7,"title":"부산 야경","schedules":[{"day":1,"lat":35.1,"lon":129.0,"placeName":"광안대교"}],"user":{"id":3,"name":"김가이드"}}`))
			return
		}
		http.NotFound(w, r)
	}))
	defer server.Close()

	src := NewRemoteSource(remote.New(remote.Options{BaseURL: server.URL}), "")
	p, err := src.Get(context.Background(), 7)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if p.Title != "부산 야경" || p.Host.Name != "김가이드" || len(p.Schedules) != 1 {
		t.Errorf("unexpected program: %+v", p)
	}

	if _, err := src.Get(context.Background(), 8); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
