package dialognode

import (
	"fmt"

	contractx "github.com/studio-nexa/tsm-orchestrator/dialog/contract"
	statex "github.com/studio-nexa/tsm-orchestrator/dialog/state"
)

// DispatchTurn runs the dialogue state machine for one turn. Dispatch order,
// first match wins:
//
//  1. named button triggers (always restart or resolve their flow)
//  2. free-text continuation of the state loaded for this user
//  3. idle restart branched on the caller-supplied scenario
//  4. defensive fallback for unknown states: clear and apologize
//
// The node is pure: all I/O happened in the load nodes, the persist node
// applies gs.Persist afterwards.
func DispatchTurn(gs *GraphState) (*GraphState, error) {
	if gs == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	if gs.In.ActionType == contractx.ActionButton {
		if dispatchButton(gs) {
			return gs, nil
		}
		// unknown button names fall through to the idle-restart branch
	}

	if gs.In.ActionType == contractx.ActionText {
		dropForeignVariants(gs)
		switch gs.StateBefore {
		case statex.StateKidsNeedAge:
			handleKidsAge(gs)
			return gs, nil
		case statex.StateRentNeedTime:
			handleRentTime(gs)
			return gs, nil
		case statex.StateRentNeedPeople:
			handleRentPeople(gs)
			return gs, nil
		case statex.StateRentNeedFormat:
			handleRentFormat(gs)
			return gs, nil
		case statex.StateBookingNeedDirection:
			handleBookingDirection(gs)
			return gs, nil
		}
	}

	if gs.StateBefore == statex.StateIdle || gs.Session == nil {
		dispatchIdleRestart(gs)
		return gs, nil
	}

	// Unknown or corrupt state: the catch-all safety net. Clear the session
	// so the user can start over.
	gs.Data = statex.SlotData{}
	gs.resolve(replyUnknownState, contractx.IntentError,
		"error: неизвестное состояние", statex.StateIdle, PersistDelete)
	return gs, nil
}

// dropForeignVariants keeps only the slot variant belonging to the active
// flow. A stored session whose data does not match its state would otherwise
// end up with two variants populated and fail validation at the persist step.
func dropForeignVariants(gs *GraphState) {
	switch gs.StateBefore {
	case statex.StateKidsNeedAge:
		gs.Data.Rent, gs.Data.Booking = nil, nil
	case statex.StateRentNeedTime, statex.StateRentNeedPeople, statex.StateRentNeedFormat:
		gs.Data.Kids, gs.Data.Booking = nil, nil
	case statex.StateBookingNeedDirection:
		gs.Data.Kids, gs.Data.Rent = nil, nil
	}
}
