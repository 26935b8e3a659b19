package navigator

import (
	"sort"
	"strings"
	"time"

	"github.com/rusenback/cwtail/internal/model"
)

// Root returns the path every group under namespace starts with.
func Root(namespace string) string {
	namespace = strings.Trim(namespace, "/")
	if namespace == "" {
		return "/"
	}
	return "/" + namespace + "/"
}

// Matching keeps the groups whose name starts with base.
func Matching(groups []model.LogGroup, base string) []model.LogGroup {
	var out []model.LogGroup
	for _, g := range groups {
		if strings.HasPrefix(g.Name, base) && len(g.Name) > len(base) {
			out = append(out, g)
		}
	}
	return out
}

// NextSegments returns the distinct next path segments below base, sorted.
// A segment ending in "/" is a sub-level; anything else is a leaf.
func NextSegments(groups []model.LogGroup, base string) []string {
	seen := make(map[string]bool)
	var segments []string
	for _, g := range Matching(groups, base) {
		rest := g.Name[len(base):]
		if i := strings.Index(rest, "/"); i >= 0 {
			rest = rest[:i+1]
		}
		if !seen[rest] {
			seen[rest] = true
			segments = append(segments, rest)
		}
	}
	sort.Strings(segments)
	return segments
}

// IsSubLevel reports whether a segment leads to another menu level.
func IsSubLevel(segment string) bool {
	return strings.HasSuffix(segment, "/")
}

// ParentPrefix returns the prefix, relative to the namespace root, of the
// level that contains groupPath.
func ParentPrefix(groupPath, namespace string) string {
	rel := strings.TrimPrefix(groupPath, Root(namespace))
	if i := strings.LastIndex(rel, "/"); i >= 0 {
		return rel[:i+1]
	}
	return ""
}

// DateRange selects groups by creation time.
type DateRange int

const (
	RangeAll DateRange = iota
	RangeYear
	RangeMonth
	RangeToday
)

// DateRanges lists the ranges in menu order.
var DateRanges = []DateRange{RangeAll, RangeYear, RangeMonth, RangeToday}

func (r DateRange) String() string {
	switch r {
	case RangeAll:
		return "All"
	case RangeYear:
		return "This year"
	case RangeMonth:
		return "This month"
	case RangeToday:
		return "Today"
	default:
		return "unknown"
	}
}

// FilterByDate keeps groups created within r, compared in now's location
// on calendar fields.
func FilterByDate(groups []model.LogGroup, r DateRange, now time.Time) []model.LogGroup {
	if r == RangeAll {
		return groups
	}

	ny, nm, nd := now.Date()
	var out []model.LogGroup
	for _, g := range groups {
		y, m, d := g.CreationTime.In(now.Location()).Date()
		var keep bool
		switch r {
		case RangeYear:
			keep = y == ny
		case RangeMonth:
			keep = y == ny && m == nm
		case RangeToday:
			keep = y == ny && m == nm && d == nd
		}
		if keep {
			out = append(out, g)
		}
	}
	return out
}

// SortByCreation sorts groups newest first.
func SortByCreation(groups []model.LogGroup) {
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].CreationTime.After(groups[j].CreationTime)
	})
}

// SortStreams sorts streams by last event, newest first. Streams without
// events go last.
func SortStreams(streams []model.LogStream) {
	sort.SliceStable(streams, func(i, j int) bool {
		a, b := streams[i], streams[j]
		if a.HasEvents() != b.HasEvents() {
			return a.HasEvents()
		}
		return a.LastEventTime.After(b.LastEventTime)
	})
}
