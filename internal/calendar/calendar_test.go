package calendar

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "github.com/Arabx-yung/trade-bot/internal/errors"
)

func TestDisabledWithoutCredential(t *testing.T) {
	c := NewClient("", "")
	assert.False(t, c.Enabled())

	_, err := c.Today(context.Background())
	assert.ErrorIs(t, err, errs.ErrNotConfigured)
}

func TestTodayFetchesAndDecodes(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/calendar", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("c"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"Date":"2025-03-10T13:30:00","Country":"United States","Event":"CPI YoY","Forecast":"2.9%"},
			{"Date":"2025-03-10T15:00:00","Country":"United States","Event":"Fed Speech"}
		]`))
	}))
	defer srv.Close()

	c := NewClient("test-key", srv.URL)
	events, err := c.Today(context.Background())
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "CPI YoY", events[0].Title)

	out := Render(events)
	assert.Contains(t, out, "13:30 United States | CPI YoY (f: 2.9%)")
	assert.Contains(t, out, "15:00 United States | Fed Speech")
}

func TestTodayMapsHTTPFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	c := NewClient("bad-key", srv.URL)
	_, err := c.Today(context.Background())
	require.Error(t, err)

	var te *errs.TransportError
	require.True(t, errs.As(err, &te))
	assert.Equal(t, http.StatusForbidden, te.StatusCode)
}

func TestRenderEmpty(t *testing.T) {
	assert.Contains(t, Render(nil), "No releases scheduled")
}
