package telegram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/Arabx-yung/trade-bot/internal/errors"
)

func newTestClient(handler http.HandlerFunc) (*Client, *httptest.Server) {
	srv := httptest.NewServer(handler)
	c := NewClient("test-token", 1)
	c.baseURL = srv.URL
	return c, srv
}

func TestSendMessage(t *testing.T) {
	var gotPath string
	var gotPayload map[string]interface{}
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
		w.Write([]byte(`{"ok":true,"result":{"message_id":99,"chat":{"id":100}}}`))
	})
	defer srv.Close()

	msg, err := c.SendMessage(context.Background(), 100, "hello", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(99), msg.MessageID)
	assert.Equal(t, "/bottest-token/sendMessage", gotPath)
	assert.Equal(t, "hello", gotPayload["text"])
	assert.NotContains(t, gotPayload, "reply_markup")
}

func TestAPIErrorBecomesTransportError(t *testing.T) {
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok":false,"error_code":403,"description":"Forbidden: bot was blocked"}`))
	})
	defer srv.Close()

	_, err := c.SendMessage(context.Background(), 100, "hello", nil)
	require.Error(t, err)

	var te *errs.TransportError
	require.True(t, errs.As(err, &te))
	assert.Equal(t, 403, te.StatusCode)
	assert.Equal(t, "sendMessage", te.Method)
}

func TestGetUpdates(t *testing.T) {
	var gotPayload map[string]interface{}
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
		w.Write([]byte(`{"ok":true,"result":[{"update_id":5,"message":{"message_id":1,"from":{"id":42},"chat":{"id":100},"text":"/pending"}}]}`))
	})
	defer srv.Close()

	updates, err := c.GetUpdates(context.Background(), 4, 30)
	require.NoError(t, err)
	require.Len(t, updates, 1)
	assert.Equal(t, int64(5), updates[0].UpdateID)
	assert.Equal(t, "/pending", updates[0].Message.Text)
	assert.Equal(t, float64(4), gotPayload["offset"])
}

func TestSendMediaGroupPayload(t *testing.T) {
	var gotPayload struct {
		ChatID int64             `json:"chat_id"`
		Media  []InputMediaPhoto `json:"media"`
	}
	c, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))
		w.Write([]byte(`{"ok":true,"result":[]}`))
	})
	defer srv.Close()

	media := []InputMediaPhoto{
		NewMediaPhoto("f1", "caption"),
		NewMediaPhoto("f2", ""),
	}
	require.NoError(t, c.SendMediaGroup(context.Background(), -100, media))
	assert.Equal(t, int64(-100), gotPayload.ChatID)
	require.Len(t, gotPayload.Media, 2)
	assert.Equal(t, "photo", gotPayload.Media[0].Type)
	assert.Equal(t, "caption", gotPayload.Media[0].Caption)
	assert.Empty(t, gotPayload.Media[1].Caption)
}
