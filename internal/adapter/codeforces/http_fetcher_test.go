package codeforces

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codemate/internal/adapter/logging"
	"codemate/internal/domain/model"
)

type recordingServer struct {
	mu    sync.Mutex
	paths []string
}

func (r *recordingServer) record(req *http.Request) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paths = append(r.paths, req.URL.RequestURI())
}

func TestHTTPFetcherAllMirrorsUnavailable(t *testing.T) {
	rec := &recordingServer{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.record(r)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	f := NewHTTPFetcher([]string{srv.URL, srv.URL}, 5*time.Second, logging.New(nil))
	_, err := f.Fetch(context.Background(), model.ProblemRef{ContestID: "1", Index: "A"})

	var ex *model.ExhaustedError
	require.True(t, errors.As(err, &ex))
	assert.Equal(t, http.StatusServiceUnavailable, ex.LastStatus)
	assert.Equal(t, 4, ex.Attempts)
	assert.Equal(t, "http", ex.Source)
	assert.Contains(t, ex.Error(), "last status 503")
	assert.Len(t, rec.paths, 4)
}

func TestHTTPFetcherSkipsChallengePages(t *testing.T) {
	rec := &recordingServer{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.record(r)
		assert.Equal(t, UserAgent, r.Header.Get("User-Agent"))
		assert.Equal(t, "en", r.URL.Query().Get("locale"))
		if r.URL.Path == "/problemset/problem/1/A" {
			_, _ = w.Write([]byte("<html><title>Just a moment...</title></html>"))
			return
		}
		_, _ = w.Write([]byte(`<div class="problem-statement"><div class="title">A. Ok</div></div>`))
	}))
	defer srv.Close()

	f := NewHTTPFetcher([]string{srv.URL}, 5*time.Second, logging.New(nil))
	page, err := f.Fetch(context.Background(), model.ProblemRef{ContestID: "1", Index: "A"})
	require.NoError(t, err)

	assert.Equal(t, srv.URL+"/contest/1/problem/A", page.URL)
	assert.Equal(t, srv.URL, page.Origin)
	assert.Equal(t, "http", page.Fetcher)
	assert.Contains(t, page.HTML, "problem-statement")
	assert.Equal(t, []string{
		"/problemset/problem/1/A?locale=en",
		"/contest/1/problem/A?locale=en",
	}, rec.paths)
}

func TestHTTPFetcherStopsAtFirstSuccess(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = w.Write([]byte(`<div class="problem-statement"></div>`))
	}))
	defer srv.Close()

	f := NewHTTPFetcher([]string{srv.URL, srv.URL}, 5*time.Second, logging.New(nil))
	_, err := f.Fetch(context.Background(), model.ProblemRef{ContestID: "5", Index: "E"})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestHTTPFetcherTransportErrors(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	f := NewHTTPFetcher([]string{url}, time.Second, logging.New(nil))
	_, err := f.Fetch(context.Background(), model.ProblemRef{ContestID: "1", Index: "A"})

	var ex *model.ExhaustedError
	require.True(t, errors.As(err, &ex))
	assert.Zero(t, ex.LastStatus)
	assert.Contains(t, ex.Error(), "last status n/a")
}
