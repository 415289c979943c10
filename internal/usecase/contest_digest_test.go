package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codemate/internal/adapter/logging"
	"codemate/internal/domain/model"
)

type stubUpcoming struct {
	contests []model.Contest
	err      error
	window   time.Duration
}

func (s *stubUpcoming) Within(ctx context.Context, window time.Duration) ([]model.Contest, error) {
	s.window = window
	return s.contests, s.err
}

type stubProblems struct {
	problem *model.Problem
	err     error
}

func (s *stubProblems) GetDailyChallenge(ctx context.Context) (*model.Problem, error) {
	return s.problem, s.err
}

type recordingNotifier struct {
	sent []model.Notification
	err  error
}

func (n *recordingNotifier) Send(ctx context.Context, notification model.Notification) error {
	n.sent = append(n.sent, notification)
	return n.err
}

func TestContestDigestSendsContestsAndDaily(t *testing.T) {
	start := time.Date(2024, 6, 1, 14, 35, 0, 0, time.UTC)
	upcoming := &stubUpcoming{contests: []model.Contest{
		{Platform: model.PlatformCodeforces, Name: "Codeforces Round 950", StartTime: start, Duration: 2 * time.Hour, URL: "https://codeforces.com/contest/1980"},
	}}
	problems := &stubProblems{problem: &model.Problem{Title: "Two Sum", Link: "https://leetcode.com/problems/two-sum/", Difficulty: "Easy"}}
	notifier := &recordingNotifier{}

	d := NewContestDigest(upcoming, problems, notifier, logging.New(nil), 48*time.Hour)
	require.NoError(t, d.Run(context.Background()))

	assert.Equal(t, 48*time.Hour, upcoming.window)
	require.Len(t, notifier.sent, 1)
	n := notifier.sent[0]
	assert.Equal(t, "Upcoming Contests", n.Title)
	assert.Contains(t, n.Description, "1 contest(s) starting in the next 48h")
	require.Len(t, n.Fields, 2)
	assert.Equal(t, "[Codeforces] Codeforces Round 950", n.Fields[0].Name)
	assert.Contains(t, n.Fields[0].Value, "<t:1717252500:F>")
	assert.Contains(t, n.Fields[0].Value, "**Duration:** 2h")
	assert.Equal(t, "LeetCode Daily Challenge", n.Fields[1].Name)
	assert.Contains(t, n.Fields[1].Value, "[Two Sum](https://leetcode.com/problems/two-sum/)")
}

func TestContestDigestSurvivesDailyFailure(t *testing.T) {
	notifier := &recordingNotifier{}
	d := NewContestDigest(&stubUpcoming{}, &stubProblems{err: errors.New("blocked")}, notifier, logging.New(nil), 24*time.Hour)

	require.NoError(t, d.Run(context.Background()))
	require.Len(t, notifier.sent, 1)
	assert.Empty(t, notifier.sent[0].Fields)
	assert.True(t, strings.HasPrefix(notifier.sent[0].Description, "No contests in the next 24h"))
}

func TestContestDigestPropagatesErrors(t *testing.T) {
	boom := errors.New("boom")

	d := NewContestDigest(&stubUpcoming{err: boom}, nil, &recordingNotifier{}, logging.New(nil), time.Hour)
	assert.ErrorIs(t, d.Run(context.Background()), boom)

	d = NewContestDigest(&stubUpcoming{}, nil, &recordingNotifier{err: boom}, logging.New(nil), time.Hour)
	assert.ErrorIs(t, d.Run(context.Background()), boom)
}

func TestContestDigestCapsFields(t *testing.T) {
	contests := make([]model.Contest, 12)
	for i := range contests {
		contests[i] = model.Contest{Platform: model.PlatformCodeChef, Name: "Starters", StartTime: time.Unix(int64(i), 0)}
	}
	notifier := &recordingNotifier{}
	d := NewContestDigest(&stubUpcoming{contests: contests}, nil, notifier, logging.New(nil), 48*time.Hour)

	require.NoError(t, d.Run(context.Background()))
	assert.Len(t, notifier.sent[0].Fields, maxDigestContests)
	assert.Contains(t, notifier.sent[0].Description, "2 more not shown")
}

func TestSummarizeText(t *testing.T) {
	assert.Equal(t, "a b c", summarizeText("a\n b\t c", 10))
	assert.Equal(t, "hello...", summarizeText("hello world", 8))
	assert.Empty(t, summarizeText("   ", 10))
}
