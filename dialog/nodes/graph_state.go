// Package dialognode contains the turn pipeline nodes wired together by the
// orchestrator graph: validate request -> load state -> load catalog ->
// dispatch turn -> persist state -> finalize reply. The dispatch node holds
// the state-machine branch logic.
package dialognode

import (
	"time"

	catalogx "github.com/studio-nexa/tsm-orchestrator/dialog/catalog"
	contractx "github.com/studio-nexa/tsm-orchestrator/dialog/contract"
	statex "github.com/studio-nexa/tsm-orchestrator/dialog/state"
)

type GraphInput = contractx.TurnInput

type GraphOutput = contractx.TurnOutput

// PersistOp is the single store mutation the turn ends with.
type PersistOp int

const (
	PersistNone PersistOp = iota
	PersistSave
	PersistDelete
)

// GraphState is the mutable state threaded through the turn pipeline.
type GraphState struct {
	In  GraphInput
	Now time.Time

	// Session is the state loaded for this user, nil when none existed.
	Session *statex.SessionState
	Catalog catalogx.Snapshot

	// Scenario is the active scenario label: the loaded session's when a
	// flow is in progress, otherwise the caller-supplied one.
	Scenario    string
	StateBefore statex.State

	// Turn outcome, filled by the dispatch node.
	Reply      string
	Intent     string
	RuleUsed   string
	StateAfter statex.State
	Data       statex.SlotData
	Persist    PersistOp

	// NextSession is the state to write when Persist == PersistSave.
	NextSession *statex.SessionState
}

// resolve records a terminal-or-not outcome for the turn. Handlers that
// advance or start a flow call advance instead.
func (gs *GraphState) resolve(reply, intent, rule string, after statex.State, persist PersistOp) {
	gs.Reply = reply
	gs.Intent = intent
	gs.RuleUsed = rule
	gs.StateAfter = after
	gs.Persist = persist
}

// advance moves the flow to the next state and schedules a save.
func (gs *GraphState) advance(reply, intent, rule, scenario string, next statex.State) {
	gs.resolve(reply, intent, rule, next, PersistSave)
	gs.NextSession = &statex.SessionState{
		TenantID: gs.In.TenantID,
		Channel:  gs.In.Channel,
		UserID:   gs.In.UserID,
		Scenario: scenario,
		State:    next,
		Data:     gs.Data,
	}
}
