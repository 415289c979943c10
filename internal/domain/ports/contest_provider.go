package ports

import (
	"context"

	"codemate/internal/domain/model"
)

// ContestProvider lists upcoming contests from a single platform.
type ContestProvider interface {
	Platform() model.Platform
	UpcomingContests(ctx context.Context) ([]model.Contest, error)
}
