package ui

import (
	"fmt"
	"strings"

	"github.com/abelbrown/tourfeed/internal/question"
)

// questionScreen runs the personality questionnaire and shows its result.
type questionScreen struct {
	flow       question.Flow
	loaded     bool
	loading    bool
	submitting bool
	cursor     int
	result     question.Result
	hasResult  bool
	adopted    bool // result was applied to the feed
}

func (q *questionScreen) setQuestions(qs []question.Question) {
	*q = questionScreen{flow: question.NewFlow(qs), loaded: true}
}

func (q *questionScreen) move(delta int) {
	cur, ok := q.flow.Current()
	if !ok {
		return
	}
	q.cursor = min(max(q.cursor+delta, 0), len(cur.Options)-1)
}

// choose answers option i. It returns true when that was the last question.
func (q *questionScreen) choose(i int) bool {
	if q.submitting || q.hasResult {
		return false
	}
	done, err := q.flow.Choose(i)
	if err != nil {
		return false
	}
	if done {
		q.submitting = true
		return true
	}
	q.cursor = q.selectedIndex()
	return false
}

func (q *questionScreen) previous() {
	if q.submitting || q.hasResult {
		return
	}
	if q.flow.Previous() {
		q.cursor = q.selectedIndex()
	}
}

// selectedIndex is the option index of the recorded answer, or 0.
func (q *questionScreen) selectedIndex() int {
	cur, ok := q.flow.Current()
	if !ok {
		return 0
	}
	sel := q.flow.Selected()
	for i, o := range cur.Options {
		if o == sel {
			return i
		}
	}
	return 0
}

func (q *questionScreen) setResult(r question.Result, adopted bool) {
	q.submitting = false
	q.result = r
	q.hasResult = true
	q.adopted = adopted
}

func (q *questionScreen) view(width int, spin string) string {
	switch {
	case !q.loaded:
		return LoadingStyle.Render(spin + " 질문을 불러오는 중…")
	case q.submitting:
		return LoadingStyle.Render(spin + " 분석 중…")
	case q.hasResult:
		return q.resultView()
	}

	cur, ok := q.flow.Current()
	if !ok {
		return HelpStyle.Render("질문이 없습니다.")
	}

	lines := []string{
		SectionTitle.Render("✈️ 여행 성향 질문"),
		MetaItem.Render(" " + q.flow.Progress()),
		"",
		NormalItem.Render(truncateWidth(cur.Question, max(width-4, 10))),
		"",
	}
	selected := q.flow.Selected()
	for i, o := range cur.Options {
		mark := "  "
		if o == selected {
			mark = "✓ "
		}
		text := truncateWidth(fmt.Sprintf("%s%d. %s", mark, i+1, o), max(width-4, 10))
		style := NormalItem
		if i == q.cursor {
			style = SelectedItem
		}
		lines = append(lines, style.Render(text))
	}
	if q.flow.Index() > 0 {
		lines = append(lines, "", HelpStyle.Render("b: 이전 질문"))
	}
	return strings.Join(lines, "\n")
}

func (q *questionScreen) resultView() string {
	r := q.result
	lines := []string{SectionTitle.Render("추천 결과: " + r.MBTI)}
	if r.Description != "" {
		lines = append(lines, NormalItem.Render(r.Description))
	}
	if len(r.Tags) > 0 {
		tags := make([]string, 0, len(r.Tags))
		for _, t := range r.Tags {
			tags = append(tags, Hashtag.Render(t))
		}
		lines = append(lines, " "+strings.Join(tags, ""))
	}
	if len(r.RecommendedRegions) > 0 {
		chips := make([]string, 0, len(r.RecommendedRegions))
		for _, region := range r.RecommendedRegions {
			chips = append(chips, RegionChip.Render(region))
		}
		lines = append(lines, MetaItem.Render(" 추천 지역"), " "+strings.Join(chips, " "))
	}
	lines = append(lines, "")
	if q.adopted {
		lines = append(lines, HelpStyle.Render("enter: 피드에서 보기 · r: 다시 하기"))
	} else {
		lines = append(lines, HelpStyle.Render("이 성향의 추천 피드가 없습니다 · r: 다시 하기"))
	}
	return strings.Join(lines, "\n")
}
