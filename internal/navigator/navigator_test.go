package navigator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rusenback/cwtail/internal/clierr"
	"github.com/rusenback/cwtail/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLister struct {
	groups     []model.LogGroup
	streams    map[string][]model.LogStream
	groupErr   error
	groupCalls int
}

func (f *fakeLister) ListLogGroups(ctx context.Context) ([]model.LogGroup, error) {
	f.groupCalls++
	if f.groupErr != nil {
		return nil, f.groupErr
	}
	return f.groups, nil
}

func (f *fakeLister) ListLogStreams(ctx context.Context, group string) ([]model.LogStream, error) {
	return f.streams[group], nil
}

type menu struct {
	title   string
	options []string
}

// scriptedPrompter answers menus from a list of labels and records what it
// was shown.
type scriptedPrompter struct {
	answers []string
	shown   []menu
}

func (p *scriptedPrompter) Select(ctx context.Context, title string, options []string) (int, error) {
	p.shown = append(p.shown, menu{title: title, options: append([]string(nil), options...)})
	if len(p.answers) == 0 {
		return 0, errors.New("no scripted answer")
	}
	answer := p.answers[0]
	p.answers = p.answers[1:]
	for i, o := range options {
		if o == answer || len(o) > len(answer) && o[:len(answer)] == answer {
			return i, nil
		}
	}
	return 0, errors.New("scripted answer " + answer + " not offered")
}

type passthrough struct{}

func (passthrough) Do(ctx context.Context, op func(ctx context.Context) error) error {
	return op(ctx)
}

var now = time.Date(2026, 10, 19, 15, 0, 0, 0, time.UTC)

func newNavigator(lister *fakeLister, prompt *scriptedPrompter, namespace string) *Navigator {
	return New(lister, prompt, passthrough{}, Options{Namespace: namespace, Now: func() time.Time { return now }}, nil)
}

func groups(names ...string) []model.LogGroup {
	out := make([]model.LogGroup, len(names))
	for i, n := range names {
		out[i] = model.LogGroup{Name: n, CreationTime: now.AddDate(0, 0, -i)}
	}
	return out
}

func TestNextSegments(t *testing.T) {
	gs := groups("/a/b/c", "/a/b/d", "/a/e", "/z/q")
	assert.Equal(t, []string{"b/", "e"}, NextSegments(gs, Root("a")))
	assert.Equal(t, []string{"c", "d"}, NextSegments(gs, Root("a")+"b/"))
	assert.Equal(t, []string{"a/", "z/"}, NextSegments(gs, Root("")))
	assert.Empty(t, NextSegments(gs, Root("missing")))
}

func TestParentPrefix(t *testing.T) {
	assert.Equal(t, "lambda/", ParentPrefix("/aws/lambda/fn", "aws"))
	assert.Equal(t, "", ParentPrefix("/aws/app", "aws"))
	assert.Equal(t, "a/b/", ParentPrefix("/aws/a/b/c", "aws"))
}

func TestSplitPrefix(t *testing.T) {
	assert.Nil(t, splitPrefix(""))
	assert.Equal(t, []string{"lambda/"}, splitPrefix("lambda/"))
	assert.Equal(t, []string{"a/", "b/"}, splitPrefix("a/b"))
}

func TestFilterByDate(t *testing.T) {
	sameDayLastYear := model.LogGroup{Name: "/a/last-year", CreationTime: time.Date(2025, 10, 19, 12, 0, 0, 0, time.UTC)}
	sameDayLastMonth := model.LogGroup{Name: "/a/last-month", CreationTime: time.Date(2026, 9, 19, 12, 0, 0, 0, time.UTC)}
	today := model.LogGroup{Name: "/a/today", CreationTime: time.Date(2026, 10, 19, 0, 1, 0, 0, time.UTC)}
	janThisYear := model.LogGroup{Name: "/a/january", CreationTime: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	all := []model.LogGroup{sameDayLastYear, sameDayLastMonth, today, janThisYear}

	tests := []struct {
		r    DateRange
		want []model.LogGroup
	}{
		{RangeAll, all},
		{RangeYear, []model.LogGroup{sameDayLastMonth, today, janThisYear}},
		{RangeMonth, []model.LogGroup{today}},
		{RangeToday, []model.LogGroup{today}},
	}

	for _, tt := range tests {
		t.Run(tt.r.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, FilterByDate(all, tt.r, now))
		})
	}
}

func TestSelectGroupEmptyNamespace(t *testing.T) {
	prompt := &scriptedPrompter{}
	nav := newNavigator(&fakeLister{}, prompt, "aws")

	_, err := nav.SelectGroup(context.Background(), "")
	require.Error(t, err)
	assert.True(t, clierr.IsNotFound(err))
	assert.Empty(t, prompt.shown, "no menu may be shown for an empty listing")
}

func TestSelectGroupNoMatchingPrefix(t *testing.T) {
	prompt := &scriptedPrompter{}
	nav := newNavigator(&fakeLister{groups: groups("/other/x")}, prompt, "aws")

	_, err := nav.SelectGroup(context.Background(), "")
	assert.True(t, clierr.IsNotFound(err))
	assert.Empty(t, prompt.shown)
}

func TestSelectGroupDescendsToLeaf(t *testing.T) {
	lister := &fakeLister{groups: groups("/a/b/c", "/a/b/d", "/a/e")}
	prompt := &scriptedPrompter{answers: []string{"b/", "d"}}
	nav := newNavigator(lister, prompt, "a")

	group, err := nav.SelectGroup(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "/a/b/d", group)

	require.Len(t, prompt.shown, 2)
	assert.Equal(t, []string{"b/", "e", BackOption}, prompt.shown[0].options)
	assert.Equal(t, []string{"c", "d", DateFilterOption, BackOption}, prompt.shown[1].options)
	assert.Equal(t, 2, lister.groupCalls, "each level refetches")
}

func TestSelectGroupBack(t *testing.T) {
	lister := &fakeLister{groups: groups("/a/b/c", "/a/b/d", "/a/e")}
	prompt := &scriptedPrompter{answers: []string{"b/", BackOption, BackOption, "e"}}
	nav := newNavigator(lister, prompt, "a")

	group, err := nav.SelectGroup(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "/a/e", group)
	require.Len(t, prompt.shown, 4)
	assert.Equal(t, prompt.shown[0].options, prompt.shown[2].options)
	assert.Equal(t, prompt.shown[0].options, prompt.shown[3].options, "back at the root stays at the root")
}

func TestSelectGroupStartsAtPrefix(t *testing.T) {
	lister := &fakeLister{groups: groups("/aws/lambda/x", "/aws/lambda/y", "/aws/rds/z")}
	prompt := &scriptedPrompter{answers: []string{"y"}}
	nav := newNavigator(lister, prompt, "aws")

	group, err := nav.SelectGroup(context.Background(), "lambda/")
	require.NoError(t, err)
	assert.Equal(t, "/aws/lambda/y", group)
	assert.Equal(t, "Log groups in /aws/lambda/", prompt.shown[0].title)
}

func TestSelectGroupSingleLeafGoesToDateFilter(t *testing.T) {
	lister := &fakeLister{groups: groups("/aws/only")}
	prompt := &scriptedPrompter{answers: []string{"All", "/aws/only"}}
	nav := newNavigator(lister, prompt, "aws")

	group, err := nav.SelectGroup(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "/aws/only", group)
	assert.Equal(t, []string{"All", "This year", "This month", "Today"}, prompt.shown[0].options)
}

func TestSelectGroupDateFilter(t *testing.T) {
	lister := &fakeLister{groups: []model.LogGroup{
		{Name: "/aws/old", CreationTime: now.AddDate(-2, 0, 0)},
		{Name: "/aws/today", CreationTime: now.Add(-time.Hour)},
		{Name: "/aws/month", CreationTime: time.Date(2026, 10, 2, 0, 0, 0, 0, time.UTC)},
	}}
	prompt := &scriptedPrompter{answers: []string{DateFilterOption, "This month", "/aws/month"}}
	nav := newNavigator(lister, prompt, "aws")

	group, err := nav.SelectGroup(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "/aws/month", group)

	require.Len(t, prompt.shown, 3)
	flat := prompt.shown[2].options
	require.Len(t, flat, 2)
	assert.Contains(t, flat[0], "/aws/today", "newest first")
	assert.Contains(t, flat[1], "/aws/month")
}

func TestSelectGroupDateFilterEmptyReprompts(t *testing.T) {
	lister := &fakeLister{groups: []model.LogGroup{
		{Name: "/aws/a", CreationTime: now.AddDate(-1, 0, 0)},
		{Name: "/aws/b", CreationTime: now.AddDate(-1, -1, 0)},
	}}
	prompt := &scriptedPrompter{answers: []string{DateFilterOption, "Today", "All", "/aws/b"}}
	nav := newNavigator(lister, prompt, "aws")

	group, err := nav.SelectGroup(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, "/aws/b", group)
	require.Len(t, prompt.shown, 4)
	assert.Contains(t, prompt.shown[2].title, "No log groups created today")
}

func TestSelectGroupListErrorKeepsKind(t *testing.T) {
	lister := &fakeLister{groupErr: clierr.ExpiredToken("ListLogGroups", errors.New("expired"))}
	nav := newNavigator(lister, &scriptedPrompter{}, "aws")

	_, err := nav.SelectGroup(context.Background(), "")
	assert.True(t, clierr.IsExpiredToken(err))
}

func TestSelectGroupPromptError(t *testing.T) {
	abort := errors.New("aborted")
	lister := &fakeLister{groups: groups("/aws/a", "/aws/b")}
	nav := New(lister, abortingPrompter{abort}, passthrough{}, Options{Namespace: "aws"}, nil)

	_, err := nav.SelectGroup(context.Background(), "")
	assert.ErrorIs(t, err, abort)
}

type abortingPrompter struct{ err error }

func (p abortingPrompter) Select(context.Context, string, []string) (int, error) { return 0, p.err }

func TestSelectStreamSortedNewestFirst(t *testing.T) {
	lister := &fakeLister{streams: map[string][]model.LogStream{
		"/aws/app": {
			{Name: "empty"},
			{Name: "old", LastEventTime: now.Add(-2 * time.Hour)},
			{Name: "new", LastEventTime: now.Add(-time.Minute)},
		},
	}}
	prompt := &scriptedPrompter{answers: []string{"new"}}
	nav := newNavigator(lister, prompt, "aws")

	group, stream, err := nav.SelectStream(context.Background(), "/aws/app")
	require.NoError(t, err)
	assert.Equal(t, "/aws/app", group)
	assert.Equal(t, "new", stream)

	options := prompt.shown[0].options
	require.Len(t, options, 4)
	assert.Equal(t, "new  (last event 1 minute ago)", options[0])
	assert.Contains(t, options[1], "old")
	assert.Equal(t, "empty  (no events)", options[2])
	assert.Equal(t, BackOption, options[3])
}

func TestSelectStreamEmpty(t *testing.T) {
	prompt := &scriptedPrompter{}
	nav := newNavigator(&fakeLister{}, prompt, "aws")

	_, _, err := nav.SelectStream(context.Background(), "/aws/app")
	assert.True(t, clierr.IsNotFound(err))
	assert.Empty(t, prompt.shown)
}

func TestSelectStreamBackReturnsToParentLevel(t *testing.T) {
	lister := &fakeLister{
		groups: groups("/aws/lambda/fn1", "/aws/lambda/fn2"),
		streams: map[string][]model.LogStream{
			"/aws/lambda/fn1": {{Name: "s1", LastEventTime: now}},
			"/aws/lambda/fn2": {{Name: "s2", LastEventTime: now}},
		},
	}
	prompt := &scriptedPrompter{answers: []string{BackOption, "fn2", "s2"}}
	nav := newNavigator(lister, prompt, "aws")

	group, stream, err := nav.SelectStream(context.Background(), "/aws/lambda/fn1")
	require.NoError(t, err)
	assert.Equal(t, "/aws/lambda/fn2", group)
	assert.Equal(t, "s2", stream)
	assert.Equal(t, "Log groups in /aws/lambda/", prompt.shown[1].title)
}
