package codeforces

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codemate/internal/adapter/logging"
	"codemate/internal/domain/model"
)

func newTestAPIClient(t *testing.T, handler http.HandlerFunc) *APIClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewAPIClient(5*time.Second, 0, logging.New(nil))
	c.baseURL = srv.URL
	return c
}

func TestUserStatsCountsUniqueAccepted(t *testing.T) {
	c := newTestAPIClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/user.status":
			assert.Equal(t, "tourist", r.URL.Query().Get("handle"))
			_, _ = w.Write([]byte(`{"status":"OK","result":[
				{"verdict":"OK","problem":{"contestId":1,"index":"A","tags":["math"]}},
				{"verdict":"OK","problem":{"contestId":1,"index":"A","tags":["math"]}},
				{"verdict":"WRONG_ANSWER","problem":{"contestId":2,"index":"B","tags":["dp"]}},
				{"verdict":"OK","problem":{"contestId":3,"index":"C","tags":["math","greedy"]}}
			]}`))
		case "/user.info":
			_, _ = w.Write([]byte(`{"status":"OK","result":[{"handle":"tourist","rating":3800}]}`))
		default:
			http.NotFound(w, r)
		}
	})

	stats, err := c.UserStats(context.Background(), "tourist")
	require.NoError(t, err)

	assert.Equal(t, 2, stats.TotalSolved)
	assert.Equal(t, map[string]int{"math": 2, "greedy": 1}, stats.Tags)
	require.NotNil(t, stats.Rating)
	assert.Equal(t, 3800, *stats.Rating)
}

func TestUserStatsUnratedUser(t *testing.T) {
	c := newTestAPIClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/user.info" {
			_, _ = w.Write([]byte(`{"status":"OK","result":[{"handle":"newbie"}]}`))
			return
		}
		_, _ = w.Write([]byte(`{"status":"OK","result":[]}`))
	})

	stats, err := c.UserStats(context.Background(), "newbie")
	require.NoError(t, err)
	assert.Zero(t, stats.TotalSolved)
	assert.Equal(t, 0, *stats.Rating)
}

func TestUserStatsUpstreamFailure(t *testing.T) {
	c := newTestAPIClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"status":"FAILED","comment":"handle: User with handle nobody not found"}`))
	})

	_, err := c.UserStats(context.Background(), "nobody")
	require.Error(t, err)

	var upstream *model.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, http.StatusBadRequest, upstream.StatusCode)
	assert.Contains(t, upstream.Body, "not found")
}

func TestUpcomingContestsKeepsBeforePhase(t *testing.T) {
	c := newTestAPIClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status":"OK","result":[
			{"id":2000,"name":"Codeforces Round 1","phase":"BEFORE","startTimeSeconds":1900000000,"durationSeconds":7200},
			{"id":1999,"name":"Old Round","phase":"FINISHED","startTimeSeconds":1600000000,"durationSeconds":7200},
			{"id":1998,"name":"Unscheduled","phase":"BEFORE"}
		]}`))
	})

	contests, err := c.UpcomingContests(context.Background())
	require.NoError(t, err)
	require.Len(t, contests, 1)

	assert.Equal(t, "cf-2000", contests[0].ID)
	assert.Equal(t, model.PlatformCodeforces, contests[0].Platform)
	assert.Equal(t, "https://codeforces.com/contest/2000", contests[0].URL)
	assert.Equal(t, int64(1900000000), contests[0].StartTime.Unix())
	assert.Equal(t, 2*time.Hour, contests[0].Duration)
}
