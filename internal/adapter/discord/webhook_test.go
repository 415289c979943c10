package discord

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"codemate/internal/adapter/logging"
	"codemate/internal/domain/model"
)

func TestSendPostsEmbed(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	hook := NewWebhook(srv.URL, time.Second, logging.New(nil))
	err := hook.Send(context.Background(), model.Notification{
		Title:       "Upcoming contests",
		Description: "2 contests in the next 48h",
		Fields: []model.NotificationField{
			{Name: "Codeforces Round 1", Value: "starts soon"},
		},
	})
	require.NoError(t, err)

	embeds := got["embeds"].([]any)
	require.Len(t, embeds, 1)
	embed := embeds[0].(map[string]any)
	assert.Equal(t, "Upcoming contests", embed["title"])
	fields := embed["fields"].([]any)
	assert.Equal(t, "Codeforces Round 1", fields[0].(map[string]any)["name"])
}

func TestSendRejectsEmptyURL(t *testing.T) {
	hook := NewWebhook("", time.Second, logging.New(nil))
	assert.Error(t, hook.Send(context.Background(), model.Notification{Title: "x"}))
}

func TestSendReportsStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"Invalid Form Body"}`))
	}))
	defer srv.Close()

	hook := NewWebhook(srv.URL, time.Second, logging.New(nil))
	err := hook.Send(context.Background(), model.Notification{Title: "x"})

	var upstream *model.UpstreamError
	require.ErrorAs(t, err, &upstream)
	assert.Equal(t, http.StatusBadRequest, upstream.StatusCode)
}

func TestTruncateKeepsRunes(t *testing.T) {
	long := strings.Repeat("é", 300)
	out := truncate(long, 256)
	assert.Len(t, []rune(out), 256)
	assert.True(t, strings.HasSuffix(out, "..."))
	assert.Equal(t, "short", truncate("short", 256))
}
