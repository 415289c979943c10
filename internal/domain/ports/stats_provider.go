package ports

import (
	"context"

	"codemate/internal/domain/model"
)

// StatsProvider computes solved-problem statistics for a user.
type StatsProvider interface {
	UserStats(ctx context.Context, user string) (*model.UserStats, error)
}
