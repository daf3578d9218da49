// Package calendar fetches upcoming economic events from an external
// feed. The feed is optional; without a credential the bot answers
// with a static pointer instead of an error.
package calendar

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	errs "github.com/Arabx-yung/trade-bot/internal/errors"
)

const defaultBaseURL = "https://api.tradingeconomics.com"

// StaticMessage is returned when no feed credential is configured.
const StaticMessage = "📅 No calendar feed configured.\n" +
	"Check Forex Factory or Trading Economics for today's releases."

// Event is one scheduled economic release. Date stays a string: the
// feed emits timestamps without a zone designator.
type Event struct {
	Date     string `json:"Date"`
	Country  string `json:"Country"`
	Title    string `json:"Event"`
	Forecast string `json:"Forecast"`
	Previous string `json:"Previous"`
}

// eventTime extracts the HH:MM portion of the feed timestamp, falling
// back to the raw value.
func (e Event) eventTime() string {
	if t, err := time.Parse("2006-01-02T15:04:05", e.Date); err == nil {
		return t.Format("15:04")
	}
	return e.Date
}

// Client pulls calendar events over HTTP.
type Client struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

// NewClient creates a calendar client. An empty apiKey yields a
// disabled client; Enabled reports which.
func NewClient(apiKey, baseURL string) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// Enabled reports whether a feed credential is configured.
func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

// Today fetches the events scheduled for the current day.
func (c *Client) Today(ctx context.Context) ([]Event, error) {
	if !c.Enabled() {
		return nil, errs.ErrNotConfigured
	}

	url := fmt.Sprintf("%s/calendar?c=%s&f=json", c.baseURL, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating calendar request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching calendar: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errs.NewTransportError("calendar", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading calendar response: %w", err)
	}

	var events []Event
	if err := json.Unmarshal(body, &events); err != nil {
		return nil, fmt.Errorf("decoding calendar response: %w", err)
	}
	return events, nil
}

// Render formats events for chat, capped at ten lines.
func Render(events []Event) string {
	if len(events) == 0 {
		return "📅 No releases scheduled today."
	}
	var b strings.Builder
	b.WriteString("📅 Today's releases:\n")
	for i, ev := range events {
		if i == 10 {
			fmt.Fprintf(&b, "… and %d more", len(events)-i)
			break
		}
		fmt.Fprintf(&b, "%s %s | %s", ev.eventTime(), ev.Country, ev.Title)
		if ev.Forecast != "" {
			fmt.Fprintf(&b, " (f: %s)", ev.Forecast)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
