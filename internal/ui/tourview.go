package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/abelbrown/tourfeed/internal/pager"
	"github.com/abelbrown/tourfeed/internal/tour"
)

// scheduleRows is the height of the schedule window on the tour screen.
const scheduleRows = 6

// tourScreen shows one tour program with its day-filtered schedule.
type tourScreen struct {
	program  tour.Program
	loaded   bool
	liked    bool
	wishlist int
	pager    pager.Pager[tour.Schedule]
	days     []int
	day      int // 0 shows every day, otherwise days[day-1]
	list     listView
	booking  tour.Booking
}

func newTourScreen(cfg pager.Config) tourScreen {
	return tourScreen{
		pager:   pager.New[tour.Schedule](nil, tour.ScheduleAccessors, cfg),
		booking: tour.NewBooking(time.Now()),
	}
}

func (t *tourScreen) setProgram(p tour.Program) {
	t.program = p
	t.loaded = true
	t.liked = false
	t.wishlist = p.WishlistCount
	t.days = tour.Days(p.Schedules)
	t.day = 0
	t.pager.SetItems(p.Schedules)
	t.pager.SelectFilter(pager.NoFilter)
	t.list.top()
	t.booking = tour.NewBooking(t.booking.Date)
}

func (t *tourScreen) toggleWishlist() {
	if !t.loaded {
		return
	}
	t.liked, t.wishlist = tour.ToggleWishlist(t.liked, t.wishlist)
}

// cycleDay steps the day filter: all days, Day 1, Day 2, ..., all days.
func (t *tourScreen) cycleDay() {
	if len(t.days) == 0 {
		return
	}
	t.day = (t.day + 1) % (len(t.days) + 1)
	if t.day == 0 {
		t.pager.SelectFilter(pager.NoFilter)
	} else {
		t.pager.SelectFilter(pager.Only(tour.DayLabel(t.days[t.day-1])))
	}
	t.list.top()
}

func (t *tourScreen) dayLabel() string {
	if t.day == 0 {
		return "전체"
	}
	return tour.DayLabel(t.days[t.day-1])
}

func (t *tourScreen) view(width int) string {
	if !t.loaded {
		return HelpStyle.Render("투어 정보를 불러오는 중…")
	}
	p := t.program

	var lines []string
	lines = append(lines,
		SectionTitle.Render(p.Title),
		MetaItem.Render(fmt.Sprintf(" 📍 %s   💬 리뷰 %d   %s", p.Region, p.ReviewCount, tour.WishlistLabel(t.liked, t.wishlist))),
	)

	tags := make([]string, 0, len(p.Hashtags))
	for _, h := range p.Hashtags {
		tags = append(tags, Hashtag.Render("#"+h))
	}
	lines = append(lines, " "+strings.Join(tags, ""), "")

	lines = append(lines, SectionTitle.Render("🗓️ 일정")+MetaItem.Render("("+t.dayLabel()+")"))
	lines = append(lines, t.scheduleLines(width)...)

	lines = append(lines,
		"",
		MetaItem.Render(" 총 거리: "+tour.FormatDistance(tour.TotalDistanceKm(p.Schedules))+"km"),
		SectionTitle.Render("🧑‍💼 호스트 정보"),
		NormalItem.Render("호스트: "+p.Host.Name),
		SectionTitle.Render("📖 투어 설명"),
		NormalItem.Render(p.Description),
		"",
	)
	lines = append(lines, t.bookingLines()...)
	lines = append(lines,
		"",
		SectionTitle.Render("환불제도"),
		MetaItem.Render(" 예약취소시 환불의 비용은 다음과 같습니다"),
	)
	lines = append(lines, refundLines()...)
	lines = append(lines, "", PriceStyle.Render(tour.FormatPrice(p.GuidePrice)))

	return strings.Join(lines, "\n")
}

func (t *tourScreen) bookingLines() []string {
	q := t.booking.Quote(t.program)
	return []string{
		SectionTitle.Render("💳 예약"),
		NormalItem.Render("날짜: " + t.booking.DateLabel()),
		NormalItem.Render(fmt.Sprintf("인원: %d   총 인원: %d명", t.booking.People, q.People)),
		PriceStyle.Render("총 금액: " + q.TotalLabel()),
	}
}

// scheduleLines renders the visible stops, with a day header before the
// first stop of each day in the window.
func (t *tourScreen) scheduleLines(width int) []string {
	visible := t.pager.Visible()
	if len(visible) == 0 {
		return []string{HelpStyle.Render("일정이 없습니다.")}
	}

	var lines []string
	end := min(t.list.offset+scheduleRows, len(visible))
	lastDay := -1
	for i := t.list.offset; i < end; i++ {
		s := visible[i]
		if s.Day != lastDay {
			lines = append(lines, DayHeader.Render(tour.DayLabel(s.Day)))
			lastDay = s.Day
		}
		text := truncateWidth(fmt.Sprintf("⏱ %s (%d분) - %s", s.PlaceName, s.TravelTime, s.PlaceDescription), max(width-4, 10))
		style := NormalItem
		if i == t.list.cursor {
			style = SelectedItem
		}
		lines = append(lines, style.Render(text))
	}
	return lines
}

func refundLines() []string {
	lines := []string{MetaItem.Render(fmt.Sprintf(" %-6s %s", "일차", "환불률"))}
	for _, r := range tour.RefundTable() {
		lines = append(lines, NormalItem.Render(fmt.Sprintf("%-6s %d%%", r.Label(), r.Percent)))
	}
	return lines
}
