//go:build wireinject

package di

import (
	"github.com/google/wire"

	"codemate/internal/adapter/logging"
	"codemate/internal/app"
	"codemate/internal/config"
	"codemate/internal/domain/ports"
	"codemate/internal/usecase"
)

var loggerSet = wire.NewSet(
	provideSlogLogger,
	logging.New,
	wire.Bind(new(ports.Logger), new(*logging.SLogger)),
)

var statementSet = wire.NewSet(
	provideFetcherChains,
	provideExtract,
	usecase.NewStatementService,
)

// InitializeApp wires the application components together.
func InitializeApp(cfg *config.Config) (*app.App, error) {
	wire.Build(
		loggerSet,
		statementSet,
		provideCache,
		provideCodeforcesAPI,
		provideLeetCode,
		provideCodeChef,
		provideJudge0,
		provideStatsService,
		provideContestAggregator,
		provideDigest,
		provideServer,
		provideHandler,
		provideAppOptions,
		app.New,
	)
	return nil, nil
}

// InitializeStatementService wires a statement service over an already open cache.
func InitializeStatementService(cfg *config.Config, cache ports.StatementCache) *usecase.StatementService {
	wire.Build(loggerSet, statementSet)
	return nil
}

// InitializeCache opens the configured statement cache backend.
func InitializeCache(cfg *config.Config) (ports.StatementCache, error) {
	wire.Build(provideCache)
	return nil, nil
}
