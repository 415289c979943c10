package usecase

import (
	"context"
	"fmt"
	"time"

	"codemate/internal/domain/model"
	"codemate/internal/domain/ports"
)

// ExtractFunc turns a fetched page into a statement.
type ExtractFunc func(page *model.Page, ref model.ProblemRef) (*model.ProblemStatement, error)

// FetcherChains lists, per fetch mode, the fetchers to try in order.
type FetcherChains map[model.FetchMode][]ports.PageFetcher

// StatementService serves problem statements from the cache or by scraping.
type StatementService struct {
	chains  FetcherChains
	extract ExtractFunc
	cache   ports.StatementCache
	logger  ports.Logger
	now     func() time.Time
}

// NewStatementService constructs a StatementService.
func NewStatementService(chains FetcherChains, extract ExtractFunc, cache ports.StatementCache, logger ports.Logger) *StatementService {
	return &StatementService{
		chains:  chains,
		extract: extract,
		cache:   cache,
		logger:  logger,
		now:     time.Now,
	}
}

// Get returns the statement for ref. A fresh cache entry is returned as is;
// otherwise the chain for mode runs to completion even if ctx is cancelled,
// and a successful result is cached.
func (s *StatementService) Get(ctx context.Context, ref model.ProblemRef, mode model.FetchMode) (*model.ProblemStatement, error) {
	key := ref.CacheKey()
	if entry, ok := s.cache.Get(key); ok {
		s.logger.Info(ctx, "statement cache hit", "key", key)
		return &entry.Payload, nil
	}

	chain := s.chains[mode]
	if len(chain) == 0 {
		return nil, fmt.Errorf("no fetchers configured for mode %q", mode)
	}

	start := time.Now()
	statement, err := s.scrape(context.WithoutCancel(ctx), ref, chain)
	if err != nil {
		s.logger.Error(ctx, "statement scrape failed", "key", key, "mode", mode, "error", err)
		return nil, err
	}

	entry := model.CacheEntry{Key: key, FetchedAt: s.now(), Payload: *statement}
	if err := s.cache.Put(entry); err != nil {
		s.logger.Warn(ctx, "failed to cache statement", "key", key, "error", err)
	}

	s.logger.Info(ctx, "statement scraped", "key", key, "mode", mode, "duration", time.Since(start))
	return statement, nil
}

func (s *StatementService) scrape(ctx context.Context, ref model.ProblemRef, chain []ports.PageFetcher) (*model.ProblemStatement, error) {
	var lastErr error
	for _, f := range chain {
		page, err := f.Fetch(ctx, ref)
		if err != nil {
			lastErr = err
			s.logger.Warn(ctx, "fetcher failed", "fetcher", f.Name(), "error", err)
			continue
		}

		statement, err := s.extract(page, ref)
		if err != nil {
			lastErr = err
			s.logger.Warn(ctx, "extraction failed", "fetcher", f.Name(), "url", page.URL, "error", err)
			continue
		}
		return statement, nil
	}
	return nil, lastErr
}
