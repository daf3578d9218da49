package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	errs "github.com/Arabx-yung/trade-bot/internal/errors"
)

const defaultBaseURL = "https://api.telegram.org"

// Client talks to the Telegram Bot API over HTTP.
type Client struct {
	token   string
	baseURL string
	client  *http.Client
}

// NewClient creates a Bot API client. pollTimeout bounds the long-poll
// window; the HTTP timeout is set slightly above it.
func NewClient(token string, pollTimeout int) *Client {
	return &Client{
		token:   token,
		baseURL: defaultBaseURL,
		client: &http.Client{
			Timeout: time.Duration(pollTimeout+10) * time.Second,
		},
	}
}

// apiResponse is the Bot API envelope.
type apiResponse struct {
	OK          bool            `json:"ok"`
	Result      json.RawMessage `json:"result,omitempty"`
	Description string          `json:"description,omitempty"`
	ErrorCode   int             `json:"error_code,omitempty"`
}

func (c *Client) call(ctx context.Context, method string, payload interface{}, result interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return errs.Wrapf(err, "marshaling %s payload", method)
	}

	url := fmt.Sprintf("%s/bot%s/%s", c.baseURL, c.token, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return errs.Wrapf(err, "creating %s request", method)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return errs.Wrapf(err, "sending %s", method)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return errs.Wrapf(err, "reading %s response", method)
	}

	var api apiResponse
	if err := json.Unmarshal(raw, &api); err != nil {
		return errs.Wrapf(err, "decoding %s response", method)
	}
	if !api.OK {
		return errs.NewTransportError(method, api.ErrorCode, api.Description)
	}
	if result != nil && len(api.Result) > 0 {
		if err := json.Unmarshal(api.Result, result); err != nil {
			return errs.Wrapf(err, "decoding %s result", method)
		}
	}
	return nil
}

// GetUpdates long-polls for inbound updates after the given offset.
func (c *Client) GetUpdates(ctx context.Context, offset int64, timeoutSec int) ([]Update, error) {
	payload := map[string]interface{}{
		"offset":          offset,
		"timeout":         timeoutSec,
		"allowed_updates": []string{"message", "callback_query"},
	}
	var updates []Update
	if err := c.call(ctx, "getUpdates", payload, &updates); err != nil {
		return nil, err
	}
	return updates, nil
}

// SendMessage sends a text message, optionally with an inline keyboard.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string, kb *InlineKeyboardMarkup) (*Message, error) {
	payload := map[string]interface{}{
		"chat_id": chatID,
		"text":    text,
	}
	if kb != nil {
		payload["reply_markup"] = kb
	}
	var msg Message
	if err := c.call(ctx, "sendMessage", payload, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}

// EditMessageText replaces the text (and keyboard) of a sent message.
func (c *Client) EditMessageText(ctx context.Context, chatID, messageID int64, text string, kb *InlineKeyboardMarkup) error {
	payload := map[string]interface{}{
		"chat_id":    chatID,
		"message_id": messageID,
		"text":       text,
	}
	if kb != nil {
		payload["reply_markup"] = kb
	}
	return c.call(ctx, "editMessageText", payload, nil)
}

// EditMessageReplyMarkup replaces only the keyboard of a sent message.
func (c *Client) EditMessageReplyMarkup(ctx context.Context, chatID, messageID int64, kb *InlineKeyboardMarkup) error {
	payload := map[string]interface{}{
		"chat_id":      chatID,
		"message_id":   messageID,
		"reply_markup": kb,
	}
	return c.call(ctx, "editMessageReplyMarkup", payload, nil)
}

// AnswerCallback acknowledges a button press so the client stops its
// spinner.
func (c *Client) AnswerCallback(ctx context.Context, callbackID string) error {
	return c.call(ctx, "answerCallbackQuery", map[string]interface{}{
		"callback_query_id": callbackID,
	}, nil)
}

// SendPhoto sends a single stored photo with a caption.
func (c *Client) SendPhoto(ctx context.Context, chatID int64, fileID, caption string) error {
	payload := map[string]interface{}{
		"chat_id": chatID,
		"photo":   fileID,
	}
	if caption != "" {
		payload["caption"] = caption
	}
	return c.call(ctx, "sendPhoto", payload, nil)
}

// SendMediaGroup sends an album; the first item's caption is displayed
// for the group.
func (c *Client) SendMediaGroup(ctx context.Context, chatID int64, media []InputMediaPhoto) error {
	return c.call(ctx, "sendMediaGroup", map[string]interface{}{
		"chat_id": chatID,
		"media":   media,
	}, nil)
}
