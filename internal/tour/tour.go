// Package tour models guided tour programs: the day-by-day schedule, route
// distance, wishlist state and the cancellation refund table.
package tour

import (
	"fmt"
	"math"
	"strconv"

	"github.com/abelbrown/tourfeed/internal/pager"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Program is one tour offered by a host.
type Program struct {
	ID            int64      `json:"id" yaml:"id"`
	Title         string     `json:"title" yaml:"title"`
	Region        string     `json:"region" yaml:"region"`
	ThumbnailURL  string     `json:"thumbnailUrl" yaml:"thumbnailUrl"`
	ReviewCount   int        `json:"reviewCount" yaml:"reviewCount"`
	WishlistCount int        `json:"wishlistCount" yaml:"wishlistCount"`
	Hashtags      []string   `json:"hashtags" yaml:"hashtags"`
	Schedules     []Schedule `json:"schedules" yaml:"schedules"`
	Host          Host       `json:"user" yaml:"user"`
	Description   string     `json:"description" yaml:"description"`
	GuidePrice    int        `json:"guidePrice" yaml:"guidePrice"`
}

// Host is the guide running a program.
type Host struct {
	ID   int64  `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
}

// Schedule is one stop. TravelTime is in minutes.
type Schedule struct {
	Day              int     `json:"day" yaml:"day"`
	Lat              float64 `json:"lat" yaml:"lat"`
	Lon              float64 `json:"lon" yaml:"lon"`
	PlaceName        string  `json:"placeName" yaml:"placeName"`
	PlaceDescription string  `json:"placeDescription" yaml:"placeDescription"`
	TravelTime       int     `json:"travelTime" yaml:"travelTime"`
}

// MetricTravelTime is the ranking metric name for Schedule.TravelTime.
const MetricTravelTime = "travelTime"

// DayLabel is the grouping key for a schedule day.
func DayLabel(day int) string {
	return "Day " + strconv.Itoa(day)
}

// ScheduleAccessors reads Schedules for the pager, grouping by day.
var ScheduleAccessors = pager.Accessors[Schedule]{
	GroupKey: func(s Schedule) string { return DayLabel(s.Day) },
	Metric: func(s Schedule, name string) int {
		if name == MetricTravelTime {
			return s.TravelTime
		}
		return 0
	},
}

// earthRadius matches the mean equatorial radius used by the mobile app.
const earthRadius = 6378137.0

// haversine returns the great-circle distance in meters.
func haversine(a, b Schedule) float64 {
	lat1 := a.Lat * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	dLat := lat2 - lat1
	dLon := (b.Lon - a.Lon) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadius * math.Asin(math.Sqrt(h))
}

// TotalDistanceKm sums the distance between consecutive stops.
func TotalDistanceKm(schedules []Schedule) float64 {
	var meters float64
	for i := 1; i < len(schedules); i++ {
		meters += haversine(schedules[i-1], schedules[i])
	}
	return meters / 1000
}

// FormatDistance renders km with one decimal.
func FormatDistance(km float64) string {
	return strconv.FormatFloat(km, 'f', 1, 64)
}

// DayGroup is the stops of one day.
type DayGroup struct {
	Day   int        `json:"day"`
	Label string     `json:"label"`
	Stops []Schedule `json:"stops"`
}

// GroupByDay groups stops by day in first-seen order, keeping stop order
// within each day.
func GroupByDay(schedules []Schedule) []DayGroup {
	var groups []DayGroup
	index := make(map[int]int)
	for _, s := range schedules {
		i, ok := index[s.Day]
		if !ok {
			i = len(groups)
			index[s.Day] = i
			groups = append(groups, DayGroup{Day: s.Day, Label: DayLabel(s.Day)})
		}
		groups[i].Stops = append(groups[i].Stops, s)
	}
	return groups
}

// Days returns the distinct days in first-seen order.
func Days(schedules []Schedule) []int {
	groups := GroupByDay(schedules)
	days := make([]int, len(groups))
	for i, g := range groups {
		days[i] = g.Day
	}
	return days
}

// ToggleWishlist flips the liked flag and adjusts the count.
func ToggleWishlist(liked bool, count int) (bool, int) {
	if liked {
		return false, max(count-1, 0)
	}
	return true, count + 1
}

// RefundRule is the refund percentage for a cancellation DaysBefore days
// ahead of the tour.
type RefundRule struct {
	DaysBefore int `json:"days_before"`
	Percent    int `json:"percent"`
}

// Label renders the day column: "당일" for the tour day itself.
func (r RefundRule) Label() string {
	if r.DaysBefore == 0 {
		return "당일"
	}
	return fmt.Sprintf("%d일", r.DaysBefore)
}

// RefundTable returns the rules from 10 days before (100%) down to the
// tour day (0%).
func RefundTable() []RefundRule {
	rules := make([]RefundRule, 11)
	for i := range rules {
		d := 10 - i
		rules[i] = RefundRule{DaysBefore: d, Percent: d * 10}
	}
	return rules
}

// RefundPercent returns the refund for a cancellation daysBefore ahead.
// Anything further out than the table is a full refund.
func RefundPercent(daysBefore int) int {
	switch {
	case daysBefore <= 0:
		return 0
	case daysBefore >= 10:
		return 100
	default:
		return daysBefore * 10
	}
}

var printer = message.NewPrinter(language.Korean)

// FormatPrice renders a per-person guide price, e.g. "₩30,000 /인".
func FormatPrice(won int) string {
	return printer.Sprintf("₩%d /인", won)
}

// WishlistLabel renders the wishlist button.
func WishlistLabel(liked bool, count int) string {
	if liked {
		return fmt.Sprintf("💖 찜함 %d", count)
	}
	return fmt.Sprintf("🤍 찜 %d", count)
}
