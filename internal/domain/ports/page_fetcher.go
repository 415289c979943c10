package ports

import (
	"context"

	"codemate/internal/domain/model"
)

// PageFetcher retrieves the HTML of a problem page using one strategy
// (plain HTTP, a headless browser, ...).
type PageFetcher interface {
	Name() string
	Fetch(ctx context.Context, ref model.ProblemRef) (*model.Page, error)
}
