package telegram

import "strings"

// Event is one decoded inbound event. The concrete types form a closed
// set: Command, Text, Photo and Callback.
type Event interface {
	EventMeta() Meta
}

// Meta carries the identity shared by every event.
type Meta struct {
	UserID   int64
	ChatID   int64
	Username string
}

// EventMeta implements Event.
func (m Meta) EventMeta() Meta { return m }

// Command is a slash command with its arguments.
type Command struct {
	Meta
	Name string
	Args []string
}

// Text is a free-text reply.
type Text struct {
	Meta
	Text string
}

// Photo is an uploaded image (largest resolution) with its caption.
type Photo struct {
	Meta
	FileID  string
	Caption string
}

// Callback is a decoded button press.
type Callback struct {
	Meta
	ID        string
	MessageID int64
	Action    CallbackAction
	Arg       string
}

// CallbackAction enumerates every button the bot ever renders. Decoding
// happens once, here; downstream code switches exhaustively on the
// action instead of matching string prefixes.
type CallbackAction int

const (
	ActionUnknown CallbackAction = iota
	ActionMenuCheck
	ActionMenuClose
	ActionDirection     // Arg: BUY or SELL
	ActionToggle        // Arg: checklist key
	ActionResetChecklist
	ActionChecklistDone
	ActionTakeTrade
	ActionSkipTrade
	ActionSelectClose   // Arg: trade id
	ActionDeletePending // Arg: trade id
	ActionDeleteClosed  // Arg: trade id
	ActionSummaryPeriod // Arg: week, month or all
	ActionStatPeriod    // Arg: week, month or all, condensed rendering
)

// callback wire tokens
const (
	cbMenuCheck = "menu:check"
	cbMenuClose = "menu:close"
	cbDirection = "dir"
	cbToggle    = "toggle"
	cbReset     = "reset"
	cbDone      = "done"
	cbTake      = "take"
	cbSkip      = "skip"
	cbClose     = "close"
	cbDelPend   = "delp"
	cbDelClosed = "delc"
	cbPeriod    = "period"
	cbStat      = "stat"
)

// EncodeCallback renders the wire token for an action.
func EncodeCallback(action CallbackAction, arg string) string {
	switch action {
	case ActionMenuCheck:
		return cbMenuCheck
	case ActionMenuClose:
		return cbMenuClose
	case ActionDirection:
		return cbDirection + ":" + arg
	case ActionToggle:
		return cbToggle + ":" + arg
	case ActionResetChecklist:
		return cbReset
	case ActionChecklistDone:
		return cbDone
	case ActionTakeTrade:
		return cbTake
	case ActionSkipTrade:
		return cbSkip
	case ActionSelectClose:
		return cbClose + ":" + arg
	case ActionDeletePending:
		return cbDelPend + ":" + arg
	case ActionDeleteClosed:
		return cbDelClosed + ":" + arg
	case ActionSummaryPeriod:
		return cbPeriod + ":" + arg
	case ActionStatPeriod:
		return cbStat + ":" + arg
	}
	return ""
}

// decodeCallbackData parses a wire token back into an action.
func decodeCallbackData(data string) (CallbackAction, string) {
	switch data {
	case cbMenuCheck:
		return ActionMenuCheck, ""
	case cbMenuClose:
		return ActionMenuClose, ""
	case cbReset:
		return ActionResetChecklist, ""
	case cbDone:
		return ActionChecklistDone, ""
	case cbTake:
		return ActionTakeTrade, ""
	case cbSkip:
		return ActionSkipTrade, ""
	}

	prefix, arg, ok := strings.Cut(data, ":")
	if !ok {
		return ActionUnknown, ""
	}
	switch prefix {
	case cbDirection:
		return ActionDirection, arg
	case cbToggle:
		return ActionToggle, arg
	case cbClose:
		return ActionSelectClose, arg
	case cbDelPend:
		return ActionDeletePending, arg
	case cbDelClosed:
		return ActionDeleteClosed, arg
	case cbPeriod:
		return ActionSummaryPeriod, arg
	case cbStat:
		return ActionStatPeriod, arg
	}
	return ActionUnknown, ""
}

// DecodeUpdate maps an Update to an Event. The bool is false when the
// update carries nothing this bot handles.
func DecodeUpdate(u Update) (Event, bool) {
	if cq := u.CallbackQuery; cq != nil {
		action, arg := decodeCallbackData(cq.Data)
		if action == ActionUnknown {
			return nil, false
		}
		meta := Meta{UserID: cq.From.ID, Username: cq.From.Username}
		var messageID int64
		if cq.Message != nil {
			meta.ChatID = cq.Message.Chat.ID
			messageID = cq.Message.MessageID
		}
		return Callback{Meta: meta, ID: cq.ID, MessageID: messageID, Action: action, Arg: arg}, true
	}

	msg := u.Message
	if msg == nil || msg.From == nil {
		return nil, false
	}
	meta := Meta{UserID: msg.From.ID, ChatID: msg.Chat.ID, Username: msg.From.Username}

	if len(msg.Photo) > 0 {
		// Largest resolution is last.
		return Photo{Meta: meta, FileID: msg.Photo[len(msg.Photo)-1].FileID, Caption: msg.Caption}, true
	}

	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return nil, false
	}

	if strings.HasPrefix(text, "/") {
		fields := strings.Fields(text)
		name := strings.TrimPrefix(fields[0], "/")
		// Strip the @botname suffix used in group chats.
		if at := strings.Index(name, "@"); at >= 0 {
			name = name[:at]
		}
		return Command{Meta: meta, Name: strings.ToLower(name), Args: fields[1:]}, true
	}

	return Text{Meta: meta, Text: text}, true
}
