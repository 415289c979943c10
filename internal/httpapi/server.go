package httpapi

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"codemate/internal/domain/model"
	"codemate/internal/domain/ports"
	"codemate/internal/usecase"
)

// StatementGetter resolves problem statements.
type StatementGetter interface {
	Get(ctx context.Context, ref model.ProblemRef, mode model.FetchMode) (*model.ProblemStatement, error)
}

// StatsGetter resolves per-platform user statistics.
type StatsGetter interface {
	UserStats(ctx context.Context, platform model.Platform, user string) (*model.UserStats, error)
}

// ContestLister lists aggregated upcoming contests.
type ContestLister interface {
	Upcoming(ctx context.Context, filter usecase.ContestFilter) ([]model.Contest, error)
}

// RawContestSource returns an upstream contest listing untouched.
type RawContestSource interface {
	Raw(ctx context.Context) (json.RawMessage, error)
}

// Deps groups the collaborators served over HTTP.
type Deps struct {
	Statements  StatementGetter
	Stats       StatsGetter
	Contests    ContestLister
	Runner      ports.CodeRunner
	LeetCode    ports.GraphQLGateway
	CodeChef    RawContestSource
	Logger      ports.Logger
	CORSOrigins []string
}

// Server exposes the CodeMate REST API.
type Server struct {
	statements StatementGetter
	stats      StatsGetter
	contests   ContestLister
	runner     ports.CodeRunner
	leetcode   ports.GraphQLGateway
	codechef   RawContestSource
	logger     ports.Logger
	origins    []string
}

// NewServer constructs a Server.
func NewServer(deps Deps) *Server {
	return &Server{
		statements: deps.Statements,
		stats:      deps.Stats,
		contests:   deps.Contests,
		runner:     deps.Runner,
		leetcode:   deps.LeetCode,
		codechef:   deps.CodeChef,
		logger:     deps.Logger,
		origins:    deps.CORSOrigins,
	}
}

// Handler returns the routed API wrapped in middleware.
func (s *Server) Handler() http.Handler {
	return s.addMiddleware(s.setupRoutes())
}

func (s *Server) setupRoutes() *mux.Router {
	router := mux.NewRouter()
	api := router.PathPrefix("/api").Subrouter()

	// Problem statements
	api.HandleFunc("/cf/ping", s.ping).Methods(http.MethodGet)
	api.HandleFunc("/cf2/ping", s.ping).Methods(http.MethodGet)
	api.HandleFunc("/cf/problem/{contestId}/{index}", s.problem(model.FetchDirect)).Methods(http.MethodGet)
	api.HandleFunc("/cf2/problem/{contestId}/{index}", s.problem(model.FetchBrowser)).Methods(http.MethodGet)

	// Code execution
	api.HandleFunc("/judge/run", s.judgeRun).Methods(http.MethodPost)
	api.HandleFunc("/judge/health", s.judgeHealth).Methods(http.MethodGet)

	// Contests
	api.HandleFunc("/codechef", s.codechefContests).Methods(http.MethodGet)
	api.HandleFunc("/contests/upcoming", s.upcomingContests).Methods(http.MethodGet)

	// LeetCode and stats
	api.HandleFunc("/leetcode", s.leetcodeProxy).Methods(http.MethodPost)
	api.HandleFunc("/leetcode/problems", s.leetcodeProxy).Methods(http.MethodPost)
	api.HandleFunc("/stats/codeforces/{handle}", s.userStats(model.PlatformCodeforces, "Failed to fetch Codeforces stats")).Methods(http.MethodGet)
	api.HandleFunc("/stats/leetcode/{username}", s.userStats(model.PlatformLeetCode, "Failed to fetch LeetCode stats")).Methods(http.MethodGet)

	return router
}

func (s *Server) addMiddleware(router http.Handler) http.Handler {
	h := corsMiddleware(s.origins, router)
	h = recoverMiddleware(s.logger, h)
	h = loggingMiddleware(s.logger, h)
	return requestIDMiddleware(h)
}

func (s *Server) ping(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeRawJSON(w http.ResponseWriter, status int, data []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// detailValue keeps JSON upstream bodies structured in error responses.
func detailValue(body string) any {
	if body != "" && json.Valid([]byte(body)) {
		return json.RawMessage(body)
	}
	return body
}
