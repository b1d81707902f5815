package ui

import (
	"fmt"
	"strings"

	"github.com/abelbrown/tourfeed/internal/feed"
	"github.com/abelbrown/tourfeed/internal/pager"
	"github.com/abelbrown/tourfeed/internal/question"
	"github.com/abelbrown/tourfeed/internal/trait"
	"github.com/charmbracelet/lipgloss"
)

const placeholderProfile = "클릭하여 성향 선택"

// feedScreen is the trait feed: profile dropdown, recommended regions and
// the paged post list.
type feedScreen struct {
	pager          pager.Pager[feed.Record]
	profiles       []trait.Profile
	selected       int // index into profiles, -1 when none
	dropdown       bool
	dropdownCursor int
	list           listView
}

func newFeedScreen(cfg pager.Config) feedScreen {
	return feedScreen{
		pager:    pager.New[feed.Record](nil, feed.RecordAccessors, cfg),
		selected: -1,
	}
}

func (f *feedScreen) profile() (trait.Profile, bool) {
	if f.selected < 0 || f.selected >= len(f.profiles) {
		return trait.Profile{}, false
	}
	return f.profiles[f.selected], true
}

// visible is empty until a profile is chosen.
func (f *feedScreen) visible() []feed.Record {
	if _, ok := f.profile(); !ok {
		return nil
	}
	return f.pager.Visible()
}

// setProfiles replaces the list, keeping the selection when its type is
// still offered.
func (f *feedScreen) setProfiles(profiles []trait.Profile) {
	current, had := f.profile()
	f.profiles = profiles
	f.selected = -1
	if had {
		for i, p := range profiles {
			if p.MBTI == current.MBTI {
				f.selected = i
				break
			}
		}
	}
	f.dropdownCursor = min(f.dropdownCursor, max(len(profiles)-1, 0))
}

func (f *feedScreen) openDropdown() {
	f.dropdown = true
	f.dropdownCursor = max(f.selected, 0)
}

func (f *feedScreen) moveDropdown(delta int) {
	if len(f.profiles) == 0 {
		return
	}
	f.dropdownCursor = min(max(f.dropdownCursor+delta, 0), len(f.profiles)-1)
}

// selectProfile closes the dropdown, clears the region filter and resets
// the page cursor.
func (f *feedScreen) selectProfile(i int) {
	if i < 0 || i >= len(f.profiles) {
		return
	}
	f.selected = i
	f.dropdown = false
	f.pager.SelectFilter(pager.NoFilter)
	f.list.top()
}

// adoptResult selects the profile matching a questionnaire result, adding
// one built from the result when the list does not offer its type. It
// returns false when there is nothing to show for the result.
func (f *feedScreen) adoptResult(r question.Result) bool {
	for i, p := range f.profiles {
		if p.MBTI == r.MBTI {
			f.selectProfile(i)
			return true
		}
	}
	if r.MBTI == "" || len(r.RecommendedRegions) == 0 {
		return false
	}
	f.profiles = append(f.profiles, trait.Profile{
		MBTI:               r.MBTI,
		Tags:               r.Tags,
		RecommendedRegions: r.RecommendedRegions,
	})
	f.selectProfile(len(f.profiles) - 1)
	return true
}

func (f *feedScreen) selectRegion(i int) bool {
	p, ok := f.profile()
	if !ok {
		return false
	}
	filter, ok := p.RegionFilter(i)
	if !ok {
		return false
	}
	f.pager.SelectFilter(filter)
	f.list.top()
	return true
}

func (f *feedScreen) clearRegion() {
	if _, ok := f.profile(); !ok {
		return
	}
	f.pager.SelectFilter(pager.NoFilter)
	f.list.top()
}

func (f *feedScreen) cycleSort(viewport int) {
	f.pager.SelectSort(f.pager.State().Sort.Next())
	f.list.clamp(len(f.visible()), viewport)
}

// header renders everything above the post list.
func (f *feedScreen) header(width int) string {
	var lines []string

	label := placeholderProfile
	if p, ok := f.profile(); ok {
		label = p.MBTI
	}
	lines = append(lines, DropdownButton.Render(label+" ▾"))

	if f.dropdown {
		if len(f.profiles) == 0 {
			lines = append(lines, DropdownItem.Render("(성향 없음)"))
		}
		for i, p := range f.profiles {
			style := DropdownItem
			prefix := "  "
			if i == f.dropdownCursor {
				style = DropdownCursor
				prefix = "▸ "
			}
			lines = append(lines, style.Render(prefix+p.MBTI))
		}
	}

	p, ok := f.profile()
	if !ok {
		return strings.Join(lines, "\n")
	}

	lines = append(lines, "", SectionTitle.Render("해시태그"))
	tags := make([]string, 0, len(p.Tags))
	for _, t := range p.Tags {
		tags = append(tags, Hashtag.Render(t))
	}
	lines = append(lines, lipgloss.NewStyle().Width(width).Padding(0, 1).Render(lipgloss.JoinHorizontal(lipgloss.Top, tags...)))

	state := f.pager.State()
	lines = append(lines, SectionTitle.Render("추천 지역"))
	chips := make([]string, 0, len(p.RecommendedRegions))
	for i, r := range p.RecommendedRegions {
		style := RegionChip
		if state.Filter.Active && state.Filter.Key == r {
			style = RegionChipSelected
		}
		chips = append(chips, style.Render(fmt.Sprintf("%d %s", i+1, r)))
	}
	lines = append(lines, " "+lipgloss.JoinHorizontal(lipgloss.Top, chips...))

	lines = append(lines, SectionTitle.Render("게시글")+MetaItem.Render("정렬: "+state.Sort.Label()))
	if state.Filter.Active {
		lines = append(lines, MetaItem.Render(" 📍 선택된 지역: "+state.Filter.Key))
	}
	return strings.Join(lines, "\n")
}

// body renders the visible window of the post list.
func (f *feedScreen) body(width, viewport int) string {
	if _, ok := f.profile(); !ok {
		return HelpStyle.Render("성향을 선택하면 추천 지역 게시글이 표시됩니다. (m)")
	}
	visible := f.visible()
	if len(visible) == 0 {
		return HelpStyle.Render("게시글이 없습니다.")
	}

	var b strings.Builder
	end := min(f.list.offset+viewport, len(visible))
	for i := f.list.offset; i < end; i++ {
		b.WriteString(renderPostLine(visible[i], i == f.list.cursor, width))
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func renderPostLine(r feed.Record, selected bool, width int) string {
	meta := fmt.Sprintf("❤️ %d 💬 %d", r.Likes(), r.Comments())
	metaWidth := lipgloss.Width(meta)

	title := truncateWidth(r.Title(), max(width-metaWidth-5, 10))
	style := NormalItem
	if selected {
		style = SelectedItem
	}
	return style.Render(title) + " " + MetaItem.Render(meta)
}
