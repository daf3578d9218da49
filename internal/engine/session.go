// Package engine holds the per-user conversation state machine. Each
// user has at most one session; the state names which reply the bot is
// waiting for, and the draft accumulates answers until the flow ends.
package engine

import (
	"sync"
	"time"

	"github.com/Arabx-yung/trade-bot/internal/checklist"
	"github.com/Arabx-yung/trade-bot/internal/models"
)

// State is the conversation position for one user.
type State int

const (
	StateIdle State = iota

	// open flow
	StateAwaitSymbol
	StateAwaitDirection
	StateChecklist
	StateScoreShown
	StateAwaitEntry
	StateAwaitLot
	StateAwaitStop
	StateAwaitTarget

	// close flow
	StateAwaitCloseSymbol
	StateAwaitExit
	StateAwaitCloseLot
	StateAwaitOpenTime
	StateAwaitCloseTime
	StateAwaitReason
	StateAwaitResult
	StateAwaitPnL
	StateCollectPhotos

	// risk calculator
	StateAwaitRiskBalance
	StateAwaitRiskPercent
	StateAwaitRiskStop
)

var stateNames = map[State]string{
	StateIdle:             "idle",
	StateAwaitSymbol:      "await_symbol",
	StateAwaitDirection:   "await_direction",
	StateChecklist:        "checklist",
	StateScoreShown:       "score_shown",
	StateAwaitEntry:       "await_entry",
	StateAwaitLot:         "await_lot",
	StateAwaitStop:        "await_stop",
	StateAwaitTarget:      "await_target",
	StateAwaitCloseSymbol: "await_close_symbol",
	StateAwaitExit:        "await_exit",
	StateAwaitCloseLot:    "await_close_lot",
	StateAwaitOpenTime:    "await_open_time",
	StateAwaitCloseTime:   "await_close_time",
	StateAwaitReason:      "await_reason",
	StateAwaitResult:      "await_result",
	StateAwaitPnL:         "await_pnl",
	StateCollectPhotos:    "collect_photos",
	StateAwaitRiskBalance: "await_risk_balance",
	StateAwaitRiskPercent: "await_risk_percent",
	StateAwaitRiskStop:    "await_risk_stop",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

// OpenDraft accumulates the answers of an open-trade flow.
type OpenDraft struct {
	Symbol     string
	Side       models.Side
	Selection  checklist.Selection
	Score      int
	Breakdown  []models.ScoreAward
	Entry      float64
	Lot        float64
	StopLoss   *float64
	TakeProfit *float64
	// MessageID is the checklist message being edited in place.
	MessageID int64
}

// CloseDraft accumulates the answers of a close-trade flow. Pending is
// a snapshot of the trade being closed, taken when the user picks it.
type CloseDraft struct {
	Pending  *models.PendingTrade
	Exit     float64
	Lot      float64
	OpenedAt *time.Time
	ClosedAt *time.Time
	Reason   string
	Result   models.Result
	PnL      models.PnL
	Photos   []string
}

// RiskDraft accumulates the risk calculator inputs.
type RiskDraft struct {
	Balance     float64
	RiskPercent float64
}

// Session is the conversation state for one user.
type Session struct {
	State State
	Open  *OpenDraft
	Close *CloseDraft
	Risk  *RiskDraft
}

// InFlight reports whether the session is mid-flow.
func (s *Session) InFlight() bool {
	return s != nil && s.State != StateIdle
}

// FlowName names the active flow for user-facing messages.
func (s *Session) FlowName() string {
	if s == nil {
		return ""
	}
	switch {
	case s.Open != nil:
		return "trade check"
	case s.Close != nil:
		return "trade close"
	case s.Risk != nil:
		return "risk calculation"
	}
	return ""
}

// Manager owns all sessions, keyed by user id.
type Manager struct {
	mu       sync.Mutex
	sessions map[int64]*Session
}

// NewManager creates an empty session manager.
func NewManager() *Manager {
	return &Manager{sessions: make(map[int64]*Session)}
}

// Get returns the user's session, creating an idle one if absent.
func (m *Manager) Get(userID int64) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[userID]
	if !ok {
		s = &Session{State: StateIdle}
		m.sessions[userID] = s
	}
	return s
}

// Begin replaces the user's session with a fresh one in the given state
// and returns the previous session so callers can report a discarded
// flow.
func (m *Manager) Begin(userID int64, state State) (*Session, *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	prev := m.sessions[userID]
	s := &Session{State: state}
	m.sessions[userID] = s
	return s, prev
}

// Reset puts the user back to idle and returns the session that was
// discarded, if any flow was active.
func (m *Manager) Reset(userID int64) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	prev := m.sessions[userID]
	m.sessions[userID] = &Session{State: StateIdle}
	if prev != nil && prev.State != StateIdle {
		return prev
	}
	return nil
}
