package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"codemate/internal/domain/model"
	"codemate/internal/domain/ports"
)

// ContestFilter narrows the aggregated contest list. Zero values match everything.
type ContestFilter struct {
	Platforms []model.Platform
	Query     string
}

func (f ContestFilter) match(c model.Contest) bool {
	if len(f.Platforms) > 0 {
		found := false
		for _, p := range f.Platforms {
			if p == c.Platform {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	q := strings.TrimSpace(f.Query)
	return q == "" || strings.Contains(strings.ToLower(c.Name), strings.ToLower(q))
}

// ContestAggregator merges upcoming contests from several platforms and keeps
// the merged snapshot for a configurable time.
type ContestAggregator struct {
	providers []ports.ContestProvider
	logger    ports.Logger
	ttl       time.Duration
	now       func() time.Time

	mu        sync.Mutex
	snapshot  []model.Contest
	fetchedAt time.Time
}

// NewContestAggregator constructs a ContestAggregator.
func NewContestAggregator(logger ports.Logger, ttl time.Duration, providers ...ports.ContestProvider) *ContestAggregator {
	return &ContestAggregator{
		providers: providers,
		logger:    logger,
		ttl:       ttl,
		now:       time.Now,
	}
}

// Refresh queries every provider in turn. Providers that fail are logged and
// skipped; an error is returned only when all of them fail.
func (a *ContestAggregator) Refresh(ctx context.Context) error {
	var (
		merged []model.Contest
		errs   []error
	)

	for _, p := range a.providers {
		contests, err := p.UpcomingContests(ctx)
		if err != nil {
			a.logger.Error(ctx, "failed to fetch contests", "platform", p.Platform(), "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", p.Platform(), err))
			continue
		}
		merged = append(merged, contests...)
	}

	if len(a.providers) > 0 && len(errs) == len(a.providers) {
		return fmt.Errorf("refresh contests: %w", errors.Join(errs...))
	}

	sort.SliceStable(merged, func(i, j int) bool {
		return merged[i].StartTime.Before(merged[j].StartTime)
	})

	a.mu.Lock()
	a.snapshot = merged
	a.fetchedAt = a.now()
	a.mu.Unlock()

	a.logger.Info(ctx, "contest snapshot refreshed", "count", len(merged), "failed_providers", len(errs))
	return nil
}

// Upcoming returns contests that have not started yet, sorted by start time.
// A stale snapshot is refreshed first; if that fails the stale data is served.
func (a *ContestAggregator) Upcoming(ctx context.Context, filter ContestFilter) ([]model.Contest, error) {
	a.mu.Lock()
	stale := a.fetchedAt.IsZero() || a.now().Sub(a.fetchedAt) >= a.ttl
	a.mu.Unlock()

	if stale {
		if err := a.Refresh(ctx); err != nil {
			a.mu.Lock()
			empty := a.fetchedAt.IsZero()
			a.mu.Unlock()
			if empty {
				return nil, err
			}
			a.logger.Warn(ctx, "serving stale contest snapshot", "error", err)
		}
	}

	a.mu.Lock()
	snapshot := a.snapshot
	a.mu.Unlock()

	now := a.now()
	out := make([]model.Contest, 0, len(snapshot))
	for _, c := range snapshot {
		if !c.StartTime.After(now) || !filter.match(c) {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

// Within returns upcoming contests starting before now+window.
func (a *ContestAggregator) Within(ctx context.Context, window time.Duration) ([]model.Contest, error) {
	all, err := a.Upcoming(ctx, ContestFilter{})
	if err != nil {
		return nil, err
	}
	limit := a.now().Add(window)
	out := make([]model.Contest, 0, len(all))
	for _, c := range all {
		if c.StartTime.Before(limit) {
			out = append(out, c)
		}
	}
	return out, nil
}
