// Package navigator walks the log group namespace one menu level at a time
// and picks the log stream to tail.
package navigator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rusenback/cwtail/internal/clierr"
	"github.com/rusenback/cwtail/internal/model"
	"go.uber.org/zap"
)

const (
	BackOption       = "← Back"
	DateFilterOption = "Filter by creation date…"
)

// Lister is the part of the CloudWatch client the navigator needs.
type Lister interface {
	ListLogGroups(ctx context.Context) ([]model.LogGroup, error)
	ListLogStreams(ctx context.Context, group string) ([]model.LogStream, error)
}

// Prompter shows a menu and returns the index of the chosen option.
type Prompter interface {
	Select(ctx context.Context, title string, options []string) (int, error)
}

// Retrier runs an operation, refreshing credentials when they expire.
type Retrier interface {
	Do(ctx context.Context, op func(ctx context.Context) error) error
}

type Options struct {
	// Namespace is the top-level segment, "aws" for /aws/...
	Namespace string
	Now       func() time.Time
}

type Navigator struct {
	lister Lister
	prompt Prompter
	retry  Retrier
	opts   Options
	logger *zap.Logger
}

func New(lister Lister, prompt Prompter, retry Retrier, opts Options, logger *zap.Logger) *Navigator {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Navigator{lister: lister, prompt: prompt, retry: retry, opts: opts, logger: logger}
}

// SelectGroup presents the namespace level below prefix and lets the
// operator descend, go back or pick a group. prefix is relative to the
// namespace root, e.g. "lambda/". The full group name is returned.
func (n *Navigator) SelectGroup(ctx context.Context, prefix string) (string, error) {
	root := Root(n.opts.Namespace)
	path := splitPrefix(prefix)

	for {
		groups, err := n.listGroups(ctx)
		if err != nil {
			return "", err
		}
		if len(groups) == 0 {
			return "", clierr.NotFound("no log groups found in this region")
		}

		base := root + strings.Join(path, "")
		matches := Matching(groups, base)
		segments := NextSegments(groups, base)
		n.logger.Debug("namespace level",
			zap.String("base", base), zap.Int("groups", len(groups)), zap.Strings("segments", segments))
		if len(segments) == 0 {
			return "", clierr.NotFound("no log groups under %s", base)
		}

		if len(segments) == 1 && !IsSubLevel(segments[0]) {
			return n.pickByDate(ctx, matches)
		}

		options := append([]string{}, segments...)
		if allLeaves(segments) {
			options = append(options, DateFilterOption)
		}
		options = append(options, BackOption)

		choice, err := n.choose(ctx, "Log groups in "+base, options)
		if err != nil {
			return "", err
		}
		switch selected := options[choice]; {
		case selected == BackOption:
			if len(path) > 0 {
				path = path[:len(path)-1]
			}
		case selected == DateFilterOption:
			return n.pickByDate(ctx, matches)
		case IsSubLevel(selected):
			path = append(path, selected)
		default:
			return base + selected, nil
		}
	}
}

// pickByDate filters groups by a creation date range and shows them as a
// flat list, newest first.
func (n *Navigator) pickByDate(ctx context.Context, groups []model.LogGroup) (string, error) {
	ranges := make([]string, len(DateRanges))
	for i, r := range DateRanges {
		ranges[i] = r.String()
	}

	title := "Filter log groups by creation date"
	for {
		choice, err := n.choose(ctx, title, ranges)
		if err != nil {
			return "", err
		}
		r := DateRanges[choice]

		filtered := append([]model.LogGroup(nil), FilterByDate(groups, r, n.opts.Now())...)
		if len(filtered) == 0 {
			title = fmt.Sprintf("No log groups created %s, pick another range", strings.ToLower(r.String()))
			continue
		}
		SortByCreation(filtered)

		labels := make([]string, len(filtered))
		for i, g := range filtered {
			labels[i] = fmt.Sprintf("%s  (created %s)", g.Name, g.CreationTime.Format("2006-01-02"))
		}
		choice, err = n.choose(ctx, "Select a log group", labels)
		if err != nil {
			return "", err
		}
		return filtered[choice].Name, nil
	}
}

// SelectStream lists the streams of group, most recent first. Choosing
// "Back" returns to the namespace level above group and restarts stream
// selection for the group picked there, so the returned group may differ
// from the one passed in.
func (n *Navigator) SelectStream(ctx context.Context, group string) (string, string, error) {
	for {
		streams, err := n.listStreams(ctx, group)
		if err != nil {
			return "", "", err
		}
		if len(streams) == 0 {
			return "", "", clierr.NotFound("no log streams in %s", group)
		}
		SortStreams(streams)

		now := n.opts.Now()
		options := make([]string, 0, len(streams)+1)
		for _, s := range streams {
			options = append(options, streamLabel(s, now))
		}
		options = append(options, BackOption)

		choice, err := n.choose(ctx, "Log streams in "+group, options)
		if err != nil {
			return "", "", err
		}
		if choice == len(streams) {
			group, err = n.SelectGroup(ctx, ParentPrefix(group, n.opts.Namespace))
			if err != nil {
				return "", "", err
			}
			continue
		}
		return group, streams[choice].Name, nil
	}
}

func (n *Navigator) listGroups(ctx context.Context) ([]model.LogGroup, error) {
	var groups []model.LogGroup
	err := n.retry.Do(ctx, func(ctx context.Context) error {
		var err error
		groups, err = n.lister.ListLogGroups(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("select log group: %w", err)
	}
	return groups, nil
}

func (n *Navigator) listStreams(ctx context.Context, group string) ([]model.LogStream, error) {
	var streams []model.LogStream
	err := n.retry.Do(ctx, func(ctx context.Context) error {
		var err error
		streams, err = n.lister.ListLogStreams(ctx, group)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("select log stream: %w", err)
	}
	return streams, nil
}

func (n *Navigator) choose(ctx context.Context, title string, options []string) (int, error) {
	choice, err := n.prompt.Select(ctx, title, options)
	if err != nil {
		return 0, err
	}
	if choice < 0 || choice >= len(options) {
		return 0, fmt.Errorf("menu returned option %d of %d", choice, len(options))
	}
	return choice, nil
}

func streamLabel(s model.LogStream, now time.Time) string {
	if !s.HasEvents() {
		return s.Name + "  (no events)"
	}
	return fmt.Sprintf("%s  (last event %s)", s.Name, humanize.RelTime(s.LastEventTime, now, "ago", "from now"))
}

func allLeaves(segments []string) bool {
	for _, s := range segments {
		if IsSubLevel(s) {
			return false
		}
	}
	return true
}

// splitPrefix turns "a/b/" into ["a/", "b/"].
func splitPrefix(prefix string) []string {
	var path []string
	for prefix != "" {
		i := strings.Index(prefix, "/")
		if i < 0 {
			path = append(path, prefix+"/")
			break
		}
		if i > 0 {
			path = append(path, prefix[:i+1])
		}
		prefix = prefix[i+1:]
	}
	return path
}
