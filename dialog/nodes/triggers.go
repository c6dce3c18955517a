package dialognode

import (
	contractx "github.com/studio-nexa/tsm-orchestrator/dialog/contract"
	statex "github.com/studio-nexa/tsm-orchestrator/dialog/state"
)

// dispatchButton handles the fixed set of named UI buttons. Returns false
// for unknown names so they fall through to the idle-restart branch.
func dispatchButton(gs *GraphState) bool {
	switch gs.In.ActionName {
	case contractx.ButtonKidsAge:
		startKids(gs, "kids: начать с возраста")
	case contractx.ButtonRentPrice:
		startRent(gs, "rent: начать с времени")
	case contractx.ButtonBookTrial:
		startBooking(gs, "booking: начать с направления")
	case contractx.ButtonEscalate:
		gs.Data = statex.SlotData{}
		gs.resolve(replyEscalation, contractx.IntentEscalation,
			"escalation", statex.StateIdle, PersistDelete)
	case contractx.ButtonViewSchedule:
		// Read-only: an in-progress flow stays resumable.
		gs.resolve(replyScheduleOverview(gs.Catalog, 6), contractx.IntentViewSchedule,
			"schedule: показ расписания", gs.StateBefore, PersistNone)
	default:
		return false
	}
	return true
}

// dispatchIdleRestart starts a flow from the caller-supplied scenario label
// when no flow is in progress.
func dispatchIdleRestart(gs *GraphState) {
	switch gs.In.Scenario {
	case contractx.ScenarioKids:
		startKids(gs, "kids: начало диалога")
	case contractx.ScenarioRent:
		startRent(gs, "rent: начало диалога")
	case contractx.ScenarioBooking:
		startBooking(gs, "booking: начало диалога")
	default:
		gs.resolve(replyGeneral, contractx.IntentGeneralInquiry,
			"general", statex.StateIdle, PersistNone)
	}
}

// Flow starts always reset collected data: restarting the same scenario
// twice begins at its first state with empty slots.

func startKids(gs *GraphState, rule string) {
	gs.Scenario = contractx.ScenarioKids
	gs.Data = statex.SlotData{}
	gs.advance(replyAskAge, contractx.IntentAskAge, rule,
		contractx.ScenarioKids, statex.StateKidsNeedAge)
}

func startRent(gs *GraphState, rule string) {
	gs.Scenario = contractx.ScenarioRent
	gs.Data = statex.SlotData{}
	gs.advance(replyAskRentTime, contractx.IntentCalculateRent, rule,
		contractx.ScenarioRent, statex.StateRentNeedTime)
}

func startBooking(gs *GraphState, rule string) {
	gs.Scenario = contractx.ScenarioBooking
	gs.Data = statex.SlotData{}
	gs.advance(replyBookingIntro(gs.Catalog.Directions), contractx.IntentBookTrial, rule,
		contractx.ScenarioBooking, statex.StateBookingNeedDirection)
}
