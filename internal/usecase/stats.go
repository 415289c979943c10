package usecase

import (
	"context"
	"fmt"
	"strings"

	"codemate/internal/domain/model"
	"codemate/internal/domain/ports"
)

// StatsService routes user statistics lookups to the matching platform.
type StatsService struct {
	providers map[model.Platform]ports.StatsProvider
	logger    ports.Logger
}

// NewStatsService constructs a StatsService for Codeforces and LeetCode.
func NewStatsService(codeforces, leetcode ports.StatsProvider, logger ports.Logger) *StatsService {
	return &StatsService{
		providers: map[model.Platform]ports.StatsProvider{
			model.PlatformCodeforces: codeforces,
			model.PlatformLeetCode:   leetcode,
		},
		logger: logger,
	}
}

// UserStats fetches stats for user on platform.
func (s *StatsService) UserStats(ctx context.Context, platform model.Platform, user string) (*model.UserStats, error) {
	provider, ok := s.providers[platform]
	if !ok || provider == nil {
		return nil, fmt.Errorf("no stats provider for platform %q", platform)
	}
	user = strings.TrimSpace(user)
	if user == "" {
		return nil, fmt.Errorf("empty user name")
	}

	stats, err := provider.UserStats(ctx, user)
	if err != nil {
		s.logger.Error(ctx, "failed to fetch user stats", "platform", platform, "user", user, "error", err)
		return nil, fmt.Errorf("fetch %s stats for %s: %w", platform, user, err)
	}
	return stats, nil
}
