package ports

import (
	"context"

	"codemate/internal/domain/model"
)

// CodeRunner executes code snippets on a remote judge.
type CodeRunner interface {
	Run(ctx context.Context, req model.RunRequest) (*model.RunResult, error)
	Health(ctx context.Context) (int, error)
}
