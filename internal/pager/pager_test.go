package pager

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

type post struct {
	Title    string
	Region   string
	Likes    int
	Comments int
}

var postAccessors = Accessors[post]{
	GroupKey: func(p post) string { return p.Region },
	Metric: func(p post, name string) int {
		switch name {
		case MetricLikes:
			return p.Likes
		case MetricComments:
			return p.Comments
		}
		return 0
	},
}

// samplePosts mirrors the regional post list: 16 posts, 4 per region,
// interleaved 강릉, 부산, 전주, 제주.
func samplePosts() []post {
	return []post{
		{"강릉 바다 옆 한옥카페 추천", "강릉", 87, 12},
		{"부산 광안리 일몰 명소 3곳!", "부산", 102, 25},
		{"전주 한옥마을 전통 체험 후기", "전주", 56, 8},
		{"제주도 숨은 협재 해변 뷰 맛집", "제주", 93, 16},
		{"강릉 당일치기 코스 총정리", "강릉", 70, 10},
		{"부산 감천문화마을 사진 포인트", "부산", 110, 31},
		{"전주에서 전통 찻집 데이트 해봤어요", "전주", 43, 6},
		{"제주 동백꽃 필 무렵, 인생샷 스팟", "제주", 85, 19},
		{"강릉 맛집 지도 공유합니다!", "강릉", 65, 11},
		{"부산 해운대 새로 생긴 루프탑 카페", "부산", 95, 22},
		{"전주 한지공예 클래스 후기", "전주", 52, 7},
		{"제주 푸른밤 캠핑장 리얼 후기", "제주", 74, 14},
		{"강릉 오죽헌 근처 산책로 코스", "강릉", 58, 9},
		{"부산 송도 해상 케이블카 후기", "부산", 90, 20},
		{"전주 청년몰에서 먹방 투어", "전주", 61, 12},
		{"제주 아침미소목장 가족 체험", "제주", 80, 13},
	}
}

func likesOf(posts []post) []int {
	out := make([]int, len(posts))
	for i, p := range posts {
		out[i] = p.Likes
	}
	return out
}

func TestApplyFilter(t *testing.T) {
	items := samplePosts()

	t.Run("no filter returns input", func(t *testing.T) {
		got := ApplyFilter(items, NoFilter, postAccessors)
		if diff := cmp.Diff(items, got); diff != "" {
			t.Errorf("ApplyFilter mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("keeps matching items in order", func(t *testing.T) {
		got := ApplyFilter(items, Only("부산"), postAccessors)
		if len(got) != 4 {
			t.Fatalf("expected 4 items, got %d", len(got))
		}
		for _, p := range got {
			if p.Region != "부산" {
				t.Errorf("unexpected region %q", p.Region)
			}
		}
		want := []int{102, 110, 95, 90}
		if diff := cmp.Diff(want, likesOf(got)); diff != "" {
			t.Errorf("order changed (-want +got):\n%s", diff)
		}
	})

	t.Run("no match is empty, not nil", func(t *testing.T) {
		got := ApplyFilter(items, Only("서울"), postAccessors)
		if got == nil || len(got) != 0 {
			t.Errorf("expected empty slice, got %v", got)
		}
	})

	t.Run("does not touch input", func(t *testing.T) {
		before := samplePosts()
		_ = ApplyFilter(items, Only("전주"), postAccessors)
		if diff := cmp.Diff(before, items); diff != "" {
			t.Errorf("input mutated (-want +got):\n%s", diff)
		}
	})
}

func TestApplySort(t *testing.T) {
	t.Run("recency keeps order", func(t *testing.T) {
		items := samplePosts()
		got := ApplySort(items, SortRecency, postAccessors)
		if diff := cmp.Diff(items, got); diff != "" {
			t.Errorf("recency reordered (-want +got):\n%s", diff)
		}
	})

	t.Run("popularity descending", func(t *testing.T) {
		items := ApplyFilter(samplePosts(), Only("부산"), postAccessors)
		got := ApplySort(items, SortPopularity, postAccessors)
		want := []int{110, 102, 95, 90}
		if diff := cmp.Diff(want, likesOf(got)); diff != "" {
			t.Errorf("popularity order (-want +got):\n%s", diff)
		}
	})

	t.Run("comment count descending", func(t *testing.T) {
		got := ApplySort(samplePosts(), SortCommentCount, postAccessors)
		for i := 1; i < len(got); i++ {
			if got[i-1].Comments < got[i].Comments {
				t.Fatalf("not non-increasing at %d: %d < %d", i, got[i-1].Comments, got[i].Comments)
			}
		}
	})

	t.Run("ties keep input order", func(t *testing.T) {
		items := []post{
			{Title: "a", Likes: 5},
			{Title: "b", Likes: 9},
			{Title: "c", Likes: 5},
			{Title: "d", Likes: 9},
			{Title: "e", Likes: 5},
		}
		got := ApplySort(items, SortPopularity, postAccessors)
		var titles []string
		for _, p := range got {
			titles = append(titles, p.Title)
		}
		if diff := cmp.Diff([]string{"b", "d", "a", "c", "e"}, titles); diff != "" {
			t.Errorf("stability broken (-want +got):\n%s", diff)
		}
	})

	t.Run("equal comment counts keep input order", func(t *testing.T) {
		// Two posts with 12 comments: 강릉 (index 0) before 전주 (index 14).
		got := ApplySort(samplePosts(), SortCommentCount, postAccessors)
		first, second := -1, -1
		for i, p := range got {
			switch p.Title {
			case "강릉 바다 옆 한옥카페 추천":
				first = i
			case "전주 청년몰에서 먹방 투어":
				second = i
			}
		}
		if first < 0 || second < 0 || first > second {
			t.Errorf("tie order broken: %d, %d", first, second)
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		for _, key := range SortKeys {
			once := ApplySort(samplePosts(), key, postAccessors)
			twice := ApplySort(once, key, postAccessors)
			if diff := cmp.Diff(once, twice); diff != "" {
				t.Errorf("%s not idempotent (-once +twice):\n%s", key, diff)
			}
		}
	})

	t.Run("does not mutate input", func(t *testing.T) {
		items := samplePosts()
		_ = ApplySort(items, SortPopularity, postAccessors)
		if diff := cmp.Diff(samplePosts(), items); diff != "" {
			t.Errorf("input mutated (-want +got):\n%s", diff)
		}
	})

	t.Run("nil input", func(t *testing.T) {
		got := ApplySort[post](nil, SortPopularity, postAccessors)
		if got == nil || len(got) != 0 {
			t.Errorf("expected empty slice, got %v", got)
		}
	})
}

func TestVisibleSlice(t *testing.T) {
	items := samplePosts()
	tests := []struct {
		cursor int
		want   int
	}{
		{-3, 0},
		{0, 0},
		{1, 1},
		{7, 7},
		{16, 16},
		{21, 16},
	}
	for _, tt := range tests {
		got := VisibleSlice(items, tt.cursor)
		if len(got) != tt.want {
			t.Errorf("VisibleSlice(cursor=%d) len = %d, want %d", tt.cursor, len(got), tt.want)
		}
	}

	got := VisibleSlice(items, 7)
	if diff := cmp.Diff(items[:7], got); diff != "" {
		t.Errorf("first 7 mismatch (-want +got):\n%s", diff)
	}
}

func TestVisibleSliceIsNotAliasedForAppend(t *testing.T) {
	items := samplePosts()
	got := VisibleSlice(items, 3)
	_ = append(got, post{Title: "extra"})
	if items[3].Title == "extra" {
		t.Error("append to visible slice overwrote source")
	}
}

func TestShouldLoadMore(t *testing.T) {
	tests := []struct {
		name      string
		remaining int
		viewport  int
		want      bool
	}{
		{"far from end", 10, 10, false},
		{"exactly half", 5, 10, false},
		{"under half", 4, 10, true},
		{"at end", 0, 10, true},
		{"no viewport, rows left", 3, 0, false},
		{"no viewport, at end", 0, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShouldLoadMore(tt.remaining, tt.viewport, 0.5); got != tt.want {
				t.Errorf("ShouldLoadMore(%d, %d) = %v, want %v", tt.remaining, tt.viewport, got, tt.want)
			}
		})
	}
}

func TestPagerDefaults(t *testing.T) {
	p := New(samplePosts(), postAccessors, Config{})
	st := p.State()
	if st.Cursor != 7 {
		t.Errorf("initial cursor = %d, want 7", st.Cursor)
	}
	if st.Sort != SortRecency || st.Filter.Active || st.Loading {
		t.Errorf("unexpected initial state %+v", st)
	}
	if p.Config().LoadDelay.Milliseconds() != 500 {
		t.Errorf("load delay = %v, want 500ms", p.Config().LoadDelay)
	}

	custom := New(samplePosts(), postAccessors, Config{LoadDelay: 20 * time.Millisecond})
	if got := custom.Config().LoadDelay; got != 20*time.Millisecond {
		t.Errorf("explicit load delay = %v, want 20ms", got)
	}
}

func TestPagerScenarioRecencyFirstPage(t *testing.T) {
	items := samplePosts()
	p := New(items, postAccessors, DefaultConfig())

	got := p.Visible()
	if diff := cmp.Diff(items[:7], got); diff != "" {
		t.Errorf("first page mismatch (-want +got):\n%s", diff)
	}
}

func TestPagerScenarioBusanPopularity(t *testing.T) {
	p := New(samplePosts(), postAccessors, DefaultConfig())
	p.SelectFilter(Only("부산"))
	p.SelectSort(SortPopularity)

	got := p.Visible()
	if diff := cmp.Diff([]int{110, 102, 95, 90}, likesOf(got)); diff != "" {
		t.Errorf("busan popularity (-want +got):\n%s", diff)
	}
	if p.HasMore() {
		t.Error("cursor 7 exceeds 4 matches; HasMore should be false")
	}
}

func TestPagerRequestMore(t *testing.T) {
	p := New(samplePosts(), postAccessors, DefaultConfig())

	ticket, ok := p.RequestMore()
	if !ok {
		t.Fatal("RequestMore should start a load")
	}
	if !p.State().Loading {
		t.Fatal("loading should be true while in flight")
	}
	if p.State().Cursor != 7 {
		t.Errorf("cursor moved before completion: %d", p.State().Cursor)
	}

	if !p.CompleteLoad(ticket) {
		t.Fatal("CompleteLoad rejected a current ticket")
	}
	st := p.State()
	if st.Cursor != 14 || st.Loading {
		t.Errorf("after load: %+v, want cursor 14 and not loading", st)
	}
}

func TestPagerRequestMoreCoalesces(t *testing.T) {
	p := New(samplePosts(), postAccessors, DefaultConfig())
	t1, _ := p.RequestMore()
	p.CompleteLoad(t1) // cursor 14

	first, ok := p.RequestMore()
	if !ok {
		t.Fatal("first request should start")
	}
	before := p.State()
	if _, ok := p.RequestMore(); ok {
		t.Fatal("second request while loading should be a no-op")
	}
	if after := p.State(); after != before {
		t.Errorf("no-op changed state: %+v -> %+v", before, after)
	}

	p.CompleteLoad(first)
	st := p.State()
	if st.Cursor != 21 {
		t.Errorf("cursor = %d, want 21", st.Cursor)
	}
	if n := len(p.Visible()); n != 16 {
		t.Errorf("visible = %d, want 16", n)
	}
}

func TestPagerCompleteLoadOnce(t *testing.T) {
	p := New(samplePosts(), postAccessors, DefaultConfig())
	tk, _ := p.RequestMore()

	if !p.CompleteLoad(tk) {
		t.Fatal("first delivery should apply")
	}
	if p.CompleteLoad(tk) {
		t.Error("second delivery of the same ticket should be ignored")
	}
	if got := p.State().Cursor; got != 14 {
		t.Errorf("cursor = %d, want 14", got)
	}
}

func TestPagerCompleteLoadWithoutRequest(t *testing.T) {
	p := New(samplePosts(), postAccessors, DefaultConfig())
	if p.CompleteLoad(Ticket{}) {
		t.Error("nothing in flight; CompleteLoad should be a no-op")
	}
	if got := p.State().Cursor; got != 7 {
		t.Errorf("cursor = %d, want 7", got)
	}
}

func TestPagerRequestMoreAtEnd(t *testing.T) {
	p := New(samplePosts()[:5], postAccessors, DefaultConfig())
	before := p.State()
	if _, ok := p.RequestMore(); ok {
		t.Fatal("cursor beyond length should make RequestMore a no-op")
	}
	if after := p.State(); after != before {
		t.Errorf("state changed: %+v -> %+v", before, after)
	}
}

func TestPagerSelectFilterResetsCursor(t *testing.T) {
	p := New(samplePosts(), postAccessors, DefaultConfig())
	for i := 0; i < 2; i++ {
		tk, _ := p.RequestMore()
		p.CompleteLoad(tk)
	}
	if p.State().Cursor != 21 {
		t.Fatalf("setup: cursor = %d", p.State().Cursor)
	}

	p.SelectFilter(Only("제주"))
	if p.State().Cursor != 7 {
		t.Errorf("cursor = %d after filter change, want 7", p.State().Cursor)
	}
	p.SelectFilter(NoFilter)
	if p.State().Cursor != 7 {
		t.Errorf("cursor = %d after clearing filter, want 7", p.State().Cursor)
	}
}

func TestPagerSelectSortKeepsCursor(t *testing.T) {
	p := New(samplePosts(), postAccessors, DefaultConfig())
	tk, _ := p.RequestMore()
	p.CompleteLoad(tk)
	p.SelectSort(SortCommentCount)
	if p.State().Cursor != 14 {
		t.Errorf("cursor = %d after sort change, want 14", p.State().Cursor)
	}
}

func TestPagerPendingLoadSurvivesFilterReset(t *testing.T) {
	p := New(samplePosts(), postAccessors, DefaultConfig())
	tk, _ := p.RequestMore()

	p.SelectFilter(Only("강릉"))
	if !p.State().Loading {
		t.Error("filter change should not clear an in-flight load")
	}

	if !p.CompleteLoad(tk) {
		t.Fatal("pending load should still apply")
	}
	if got := p.State().Cursor; got != 14 {
		t.Errorf("cursor = %d, want 14 (reset 7 + increment 7)", got)
	}
}

func TestPagerCancelPendingOnReset(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CancelPendingOnReset = true
	p := New(samplePosts(), postAccessors, cfg)

	stale, _ := p.RequestMore()
	p.SelectFilter(Only("강릉"))
	if p.State().Loading {
		t.Error("reset should clear loading when cancellation is on")
	}
	if p.CompleteLoad(stale) {
		t.Error("stale ticket should be ignored")
	}
	if got := p.State().Cursor; got != 7 {
		t.Errorf("cursor = %d, want 7", got)
	}

	// 강릉 has only 4 posts, so nothing more to load.
	if _, ok := p.RequestMore(); ok {
		t.Error("no more items for 강릉")
	}
}

func TestPagerSetItemsKeepsState(t *testing.T) {
	p := New(samplePosts()[:3], postAccessors, DefaultConfig())
	p.SelectSort(SortPopularity)
	p.SetItems(samplePosts())
	if p.State().Sort != SortPopularity {
		t.Error("SetItems reset sort")
	}
	if len(p.Visible()) != 7 {
		t.Errorf("visible = %d, want 7", len(p.Visible()))
	}
}

func TestParseSortKey(t *testing.T) {
	tests := []struct {
		in   string
		want SortKey
		err  bool
	}{
		{"", SortRecency, false},
		{"recency", SortRecency, false},
		{"인기순", SortPopularity, false},
		{"commentCount", SortCommentCount, false},
		{"댓글순", SortCommentCount, false},
		{"likes", "", true},
	}
	for _, tt := range tests {
		got, err := ParseSortKey(tt.in)
		if (err != nil) != tt.err {
			t.Errorf("ParseSortKey(%q) err = %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseSortKey(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSortKeyNext(t *testing.T) {
	k := SortRecency
	var seen []SortKey
	for i := 0; i < 4; i++ {
		seen = append(seen, k)
		k = k.Next()
	}
	want := []SortKey{SortRecency, SortPopularity, SortCommentCount, SortRecency}
	if diff := cmp.Diff(want, seen); diff != "" {
		t.Errorf("cycle mismatch (-want +got):\n%s", diff)
	}
}
