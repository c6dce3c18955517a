package dialognode

import (
	contractx "github.com/studio-nexa/tsm-orchestrator/dialog/contract"
	extractx "github.com/studio-nexa/tsm-orchestrator/dialog/extract"
	statex "github.com/studio-nexa/tsm-orchestrator/dialog/state"
)

const maxBookingSlots = 3

// handleBookingDirection matches the utterance against the catalog and, on a
// hit, shows up to three schedule slots plus the trial price. Terminal on any
// catalog resolution; only an extraction miss re-asks.
func handleBookingDirection(gs *GraphState) {
	directionID, ok := extractx.Direction(gs.In.Text, gs.Catalog.Directions)
	if !ok {
		gs.resolve(replyDirectionRetry, contractx.IntentBookTrial,
			"booking: неверный формат", gs.StateBefore, PersistNone)
		return
	}

	gs.Data = statex.SlotData{Booking: &statex.BookingSlots{DirectionID: directionID}}

	direction, found := gs.Catalog.DirectionByID(directionID)
	if !found {
		gs.resolve(replyDirectionMiss, contractx.IntentBookTrial,
			"booking: неверное направление", gs.StateBefore, PersistNone)
		return
	}

	slots := gs.Catalog.ScheduleFor(directionID, maxBookingSlots)
	if len(slots) == 0 {
		gs.resolve(replyBookingNoSlots(direction), contractx.IntentBookTrial,
			"booking: нет слотов", statex.StateIdle, PersistDelete)
		return
	}

	gs.resolve(replyBookingSlots(direction, slots), contractx.IntentBookTrial,
		"booking: направление -> слоты", statex.StateIdle, PersistDelete)
}
