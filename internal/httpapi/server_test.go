package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codemate/internal/adapter/cache"
	"codemate/internal/adapter/codeforces"
	"codemate/internal/adapter/logging"
	"codemate/internal/domain/model"
	"codemate/internal/domain/ports"
	"codemate/internal/usecase"
)

func newStatementServer(t *testing.T, upstream http.HandlerFunc) (http.Handler, *int32) {
	t.Helper()
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		upstream(w, r)
	}))
	t.Cleanup(srv.Close)

	logger := logging.New(nil)
	fetcher := codeforces.NewHTTPFetcher([]string{srv.URL}, 5*time.Second, logger)
	svc := usecase.NewStatementService(
		usecase.FetcherChains{model.FetchDirect: {fetcher}, model.FetchBrowser: {fetcher}},
		codeforces.Extract,
		cache.NewMemory(10*time.Minute, time.Now),
		logger,
	)
	s := NewServer(Deps{Statements: svc, Logger: logger})
	return s.Handler(), &hits
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestPing(t *testing.T) {
	h := NewServer(Deps{Logger: logging.New(nil)}).Handler()
	for _, path := range []string{"/api/cf/ping", "/api/cf2/ping"} {
		w := get(t, h, path)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"ok":true}`, w.Body.String())
	}
}

func TestProblemAllMirrorsUnavailable(t *testing.T) {
	h, hits := newStatementServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	w := get(t, h, "/api/cf/problem/1/A")
	require.Equal(t, http.StatusBadGateway, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Failed to load Codeforces problem page (last status 503)", body["error"])
	assert.True(t, strings.HasSuffix(body["url"], "/problemset/problem/1/A?locale=en"))
	assert.Equal(t, int32(2), atomic.LoadInt32(hits))
}

func TestProblemServedFromCacheIsByteIdentical(t *testing.T) {
	fixture, err := os.ReadFile("../adapter/codeforces/testdata/problem.html")
	require.NoError(t, err)

	h, hits := newStatementServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(fixture)
	})

	first := get(t, h, "/api/cf/problem/1/A")
	require.Equal(t, http.StatusOK, first.Code)
	second := get(t, h, "/api/cf2/problem/1/A")
	require.Equal(t, http.StatusOK, second.Code)

	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Equal(t, int32(1), atomic.LoadInt32(hits))

	var st model.ProblemStatement
	require.NoError(t, json.Unmarshal(first.Body.Bytes(), &st))
	assert.Equal(t, "1", st.ContestID)
	assert.Equal(t, "A", st.Index)
	assert.Equal(t, "Theatre Square", st.Title)
	assert.NotEmpty(t, st.Samples)
	assert.NotContains(t, st.StatementHTML, "<script")
}

func TestProblemWithoutStatement(t *testing.T) {
	h, _ := newStatementServer(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html><body><div id=\"pageContent\">Nothing here</div></body></html>"))
	})

	w := get(t, h, "/api/cf/problem/1/A")
	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Contains(t, body["error"], "no problem statement found")
	assert.True(t, strings.HasSuffix(body["url"], "/problemset/problem/1/A"))
}

type failingStatements struct{ err error }

func (f failingStatements) Get(ctx context.Context, ref model.ProblemRef, mode model.FetchMode) (*model.ProblemStatement, error) {
	return nil, f.err
}

func TestProblemGenericFailure(t *testing.T) {
	h := NewServer(Deps{Statements: failingStatements{errors.New("launch chrome: exec: not found")}, Logger: logging.New(nil)}).Handler()

	w := get(t, h, "/api/cf2/problem/1/A")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Failed to fetch CF problem."}`, w.Body.String())
}

func TestProblemExhaustedWithoutStatus(t *testing.T) {
	h := NewServer(Deps{
		Statements: failingStatements{&model.ExhaustedError{Source: "browser", FirstURL: "https://codeforces.com/problemset/problem/1/A?locale=en"}},
		Logger:     logging.New(nil),
	}).Handler()

	w := get(t, h, "/api/cf2/problem/1/A")
	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.JSONEq(t, `{"error":"Failed to load Codeforces problem page (last status n/a)","url":"https://codeforces.com/problemset/problem/1/A?locale=en"}`, w.Body.String())
}

var _ ports.CodeRunner = (*stubRunner)(nil)
