package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"codemate/internal/domain/model"
	"codemate/internal/domain/ports"
)

const maxDigestContests = 10

// UpcomingSource lists contests starting within a window.
type UpcomingSource interface {
	Within(ctx context.Context, window time.Duration) ([]model.Contest, error)
}

// ContestDigest posts upcoming contests and the LeetCode daily challenge to a notifier.
type ContestDigest struct {
	contests UpcomingSource
	problems ports.ProblemProvider
	notifier ports.Notifier
	logger   ports.Logger
	window   time.Duration
}

// NewContestDigest constructs a ContestDigest use case.
func NewContestDigest(
	contests UpcomingSource,
	problems ports.ProblemProvider,
	notifier ports.Notifier,
	logger ports.Logger,
	window time.Duration,
) *ContestDigest {
	return &ContestDigest{
		contests: contests,
		problems: problems,
		notifier: notifier,
		logger:   logger,
		window:   window,
	}
}

// Run executes the digest workflow.
func (d *ContestDigest) Run(ctx context.Context) error {
	start := time.Now()
	d.logger.Info(ctx, "starting contest digest")

	contests, err := d.contests.Within(ctx, d.window)
	if err != nil {
		d.logger.Error(ctx, "failed to fetch upcoming contests", "error", err)
		return err
	}

	daily := d.fetchDaily(ctx)

	notification := d.buildNotification(contests, daily)
	if err := d.notifier.Send(ctx, notification); err != nil {
		d.logger.Error(ctx, "failed to send notification", "error", err)
		return err
	}

	d.logger.Info(ctx, "contest digest completed", "contests", len(contests), "duration", time.Since(start))
	return nil
}

func (d *ContestDigest) fetchDaily(ctx context.Context) *model.Problem {
	if d.problems == nil {
		return nil
	}
	daily, err := d.problems.GetDailyChallenge(ctx)
	if err != nil {
		d.logger.Error(ctx, "failed to fetch daily challenge", "error", err)
		return nil
	}
	return daily
}

func (d *ContestDigest) buildNotification(contests []model.Contest, daily *model.Problem) model.Notification {
	var fields []model.NotificationField

	shown := contests
	if len(shown) > maxDigestContests {
		shown = shown[:maxDigestContests]
	}
	for _, c := range shown {
		fields = append(fields, model.NotificationField{
			Name:   fmt.Sprintf("[%s] %s", platformLabel(c.Platform), c.Name),
			Value:  formatContest(c),
			Inline: false,
		})
	}

	if daily != nil {
		fields = append(fields, model.NotificationField{
			Name:   "LeetCode Daily Challenge",
			Value:  formatProblemDetail(daily),
			Inline: false,
		})
	}

	description := fmt.Sprintf("%d contest(s) starting in the next %s.", len(contests), formatWindow(d.window))
	if len(contests) == 0 {
		description = fmt.Sprintf("No contests in the next %s. Time to practice!", formatWindow(d.window))
	}
	if hidden := len(contests) - len(shown); hidden > 0 {
		description += fmt.Sprintf(" %d more not shown.", hidden)
	}

	return model.Notification{
		Title:       "Upcoming Contests",
		Description: description,
		Fields:      fields,
	}
}

func platformLabel(p model.Platform) string {
	switch p {
	case model.PlatformCodeforces:
		return "Codeforces"
	case model.PlatformCodeChef:
		return "CodeChef"
	case model.PlatformLeetCode:
		return "LeetCode"
	default:
		return string(p)
	}
}

func formatContest(c model.Contest) string {
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("**Starts:** <t:%d:F> (<t:%d:R>)\n", c.StartTime.Unix(), c.StartTime.Unix()))
	if c.Duration > 0 {
		builder.WriteString(fmt.Sprintf("**Duration:** %s\n", formatWindow(c.Duration)))
	}
	if c.URL != "" {
		builder.WriteString(fmt.Sprintf("[Open contest](%s)", c.URL))
	}
	return builder.String()
}

func formatWindow(d time.Duration) string {
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	switch {
	case h > 0 && m > 0:
		return fmt.Sprintf("%dh%dm", h, m)
	case h > 0:
		return fmt.Sprintf("%dh", h)
	default:
		return fmt.Sprintf("%dm", m)
	}
}

func formatProblemDetail(p *model.Problem) string {
	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("**Link:** [%s](%s)\n", p.Title, p.Link))
	builder.WriteString(fmt.Sprintf("**Difficulty:** %s\n", p.Difficulty))
	if len(p.Topics) > 0 {
		builder.WriteString(fmt.Sprintf("**Topics:** %s\n", strings.Join(p.Topics, ", ")))
	}
	if p.Content != "" {
		summary := summarizeText(p.Content, 420)
		if summary != "" {
			builder.WriteString("\n> _")
			builder.WriteString(summary)
			builder.WriteString("_")
		}
	}
	return builder.String()
}

func summarizeText(content string, limit int) string {
	clean := strings.Join(strings.Fields(content), " ")
	if clean == "" {
		return ""
	}

	if len(clean) <= limit {
		return clean
	}

	trimmed := clean[:limit]
	lastSpace := strings.LastIndex(trimmed, " ")
	if lastSpace > 0 {
		trimmed = trimmed[:lastSpace]
	}

	return trimmed + "..."
}
