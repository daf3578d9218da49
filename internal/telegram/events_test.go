package telegram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func msgUpdate(text string) Update {
	return Update{
		UpdateID: 1,
		Message: &Message{
			MessageID: 10,
			From:      &User{ID: 42, Username: "trader"},
			Chat:      Chat{ID: 100},
			Text:      text,
		},
	}
}

func TestDecodeCommand(t *testing.T) {
	ev, ok := DecodeUpdate(msgUpdate("/open EURUSD"))
	require.True(t, ok)

	cmd, ok := ev.(Command)
	require.True(t, ok)
	assert.Equal(t, "open", cmd.Name)
	assert.Equal(t, []string{"EURUSD"}, cmd.Args)
	assert.Equal(t, int64(42), cmd.UserID)
	assert.Equal(t, int64(100), cmd.ChatID)
}

func TestDecodeCommandWithBotSuffix(t *testing.T) {
	ev, ok := DecodeUpdate(msgUpdate("/summary@journal_bot week"))
	require.True(t, ok)

	cmd := ev.(Command)
	assert.Equal(t, "summary", cmd.Name)
	assert.Equal(t, []string{"week"}, cmd.Args)
}

func TestDecodeFreeText(t *testing.T) {
	ev, ok := DecodeUpdate(msgUpdate("  1.1050 "))
	require.True(t, ok)

	txt := ev.(Text)
	assert.Equal(t, "1.1050", txt.Text)
}

func TestDecodePhotoPicksLargest(t *testing.T) {
	u := Update{
		Message: &Message{
			From:    &User{ID: 42},
			Chat:    Chat{ID: 100},
			Caption: "DONE",
			Photo: []PhotoSize{
				{FileID: "small", Width: 90},
				{FileID: "large", Width: 800},
			},
		},
	}
	ev, ok := DecodeUpdate(u)
	require.True(t, ok)

	ph := ev.(Photo)
	assert.Equal(t, "large", ph.FileID)
	assert.Equal(t, "DONE", ph.Caption)
}

func TestCallbackRoundTrip(t *testing.T) {
	cases := []struct {
		action CallbackAction
		arg    string
	}{
		{ActionMenuCheck, ""},
		{ActionMenuClose, ""},
		{ActionDirection, "BUY"},
		{ActionToggle, "trend_week"},
		{ActionResetChecklist, ""},
		{ActionChecklistDone, ""},
		{ActionTakeTrade, ""},
		{ActionSkipTrade, ""},
		{ActionSelectClose, "TRD-EURUSD-20250101090000"},
		{ActionDeletePending, "TRD-EURUSD-20250101090000"},
		{ActionDeleteClosed, "TRD-EURUSD-20250101090000"},
		{ActionSummaryPeriod, "week"},
		{ActionStatPeriod, "month"},
	}
	for _, c := range cases {
		data := EncodeCallback(c.action, c.arg)
		require.NotEmpty(t, data, "action %d", c.action)

		action, arg := decodeCallbackData(data)
		assert.Equal(t, c.action, action)
		assert.Equal(t, c.arg, arg)
	}
}

func TestDecodeCallbackUpdate(t *testing.T) {
	u := Update{
		CallbackQuery: &CallbackQuery{
			ID:   "cb-1",
			From: User{ID: 42, Username: "trader"},
			Message: &Message{
				MessageID: 55,
				Chat:      Chat{ID: 100},
			},
			Data: "toggle:aoi_plus",
		},
	}
	ev, ok := DecodeUpdate(u)
	require.True(t, ok)

	cb := ev.(Callback)
	assert.Equal(t, ActionToggle, cb.Action)
	assert.Equal(t, "aoi_plus", cb.Arg)
	assert.Equal(t, int64(55), cb.MessageID)
	assert.Equal(t, "cb-1", cb.ID)
}

func TestDecodeIgnoresUnknown(t *testing.T) {
	_, ok := DecodeUpdate(Update{})
	assert.False(t, ok)

	_, ok = DecodeUpdate(Update{CallbackQuery: &CallbackQuery{Data: "bogus|thing"}})
	assert.False(t, ok)

	_, ok = DecodeUpdate(msgUpdate(""))
	assert.False(t, ok)
}
