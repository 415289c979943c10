package ports

import (
	"context"
	"encoding/json"

	"codemate/internal/domain/model"
)

// ProblemProvider defines access to the LeetCode daily challenge.
type ProblemProvider interface {
	GetDailyChallenge(ctx context.Context) (*model.Problem, error)
}

// GraphQLGateway forwards raw GraphQL queries to an upstream endpoint.
type GraphQLGateway interface {
	Query(ctx context.Context, query string, variables json.RawMessage) (json.RawMessage, error)
}
