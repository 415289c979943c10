package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"codemate/internal/domain/model"
	"codemate/internal/domain/ports"
)

const embedColor = 0x1F8ACB

// Webhook is a Discord webhook notifier.
type Webhook struct {
	webhookURL string
	httpClient *http.Client
	logger     ports.Logger
}

var _ ports.Notifier = (*Webhook)(nil)

// NewWebhook creates a new Discord webhook notifier.
func NewWebhook(webhookURL string, timeout time.Duration, logger ports.Logger) *Webhook {
	return &Webhook{
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Send posts the notification to Discord.
func (w *Webhook) Send(ctx context.Context, notification model.Notification) error {
	if w.webhookURL == "" {
		return fmt.Errorf("webhook URL is empty")
	}

	payload := map[string]any{
		"content": "",
		"embeds": []map[string]any{
			{
				"title":       truncate(notification.Title, 256),
				"description": truncate(notification.Description, 4096),
				"fields":      convertFields(notification.Fields),
				"timestamp":   time.Now().UTC().Format(time.RFC3339),
				"color":       embedColor,
				"footer": map[string]string{
					"text": "CodeMate contest digest",
				},
			},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("perform request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return &model.UpstreamError{Service: "discord webhook", StatusCode: resp.StatusCode, Body: string(data)}
	}

	w.logger.Info(ctx, "notification sent to discord")
	return nil
}

func convertFields(fields []model.NotificationField) []map[string]any {
	if len(fields) == 0 {
		return nil
	}

	result := make([]map[string]any, 0, len(fields))
	for _, field := range fields {
		result = append(result, map[string]any{
			"name":   truncate(field.Name, 256),
			"value":  truncate(field.Value, 1024),
			"inline": field.Inline,
		})
	}

	return result
}

func truncate(value string, limit int) string {
	runes := []rune(value)
	if len(runes) <= limit {
		return value
	}
	return strings.TrimSpace(string(runes[:limit-3])) + "..."
}
