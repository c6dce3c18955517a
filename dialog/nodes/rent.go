package dialognode

import (
	contractx "github.com/studio-nexa/tsm-orchestrator/dialog/contract"
	extractx "github.com/studio-nexa/tsm-orchestrator/dialog/extract"
	rulesx "github.com/studio-nexa/tsm-orchestrator/dialog/rules"
	statex "github.com/studio-nexa/tsm-orchestrator/dialog/state"
)

// Rent flow: time bucket -> people count -> format -> quote. Each collected
// slot only advances the state, never reverts.

func handleRentTime(gs *GraphState) {
	bucket, ok := extractx.RentTimeBucket(gs.In.Text)
	if !ok {
		gs.resolve(replyRentTimeRetry, contractx.IntentCalculateRent,
			"rent: неверный формат времени", gs.StateBefore, PersistNone)
		return
	}

	rent := gs.ensureRent()
	rent.TimeBucket = bucket
	if hours, ok := extractx.RentHours(gs.In.Text); ok {
		rent.Hours = hours
	}

	gs.advance(replyAskPeople, contractx.IntentCalculateRent,
		"rent: время -> количество людей", contractx.ScenarioRent, statex.StateRentNeedPeople)
}

func handleRentPeople(gs *GraphState) {
	count, ok := extractx.PeopleCount(gs.In.Text)
	if !ok {
		gs.resolve(replyPeopleRetry, contractx.IntentCalculateRent,
			"rent: неверный формат количества", gs.StateBefore, PersistNone)
		return
	}

	gs.ensureRent().People = count

	gs.advance(replyAskFormat, contractx.IntentCalculateRent,
		"rent: количество -> формат", contractx.ScenarioRent, statex.StateRentNeedFormat)
}

func handleRentFormat(gs *GraphState) {
	format, ok := extractx.RentFormat(gs.In.Text)
	if !ok {
		gs.resolve(replyFormatRetry, contractx.IntentCalculateRent,
			"rent: неверный формат", gs.StateBefore, PersistNone)
		return
	}

	rent := gs.ensureRent()
	rent.Format = format

	if ok, violation := rulesx.CheckLimits(format, rent.People); !ok {
		gs.resolve(replyLimitViolation(violation), contractx.IntentCalculateRent,
			"rent: превышение лимита", statex.StateIdle, PersistDelete)
		return
	}

	bucket := rent.TimeBucket
	if bucket == "" {
		bucket = extractx.BucketEvening
	}
	quote := rulesx.RentalPrice(bucket, rent.People, gs.Catalog.Rental, rent.Hours)

	gs.resolve(quote.Message, contractx.IntentCalculateRent,
		quote.Rule, statex.StateIdle, PersistDelete)
}

func (gs *GraphState) ensureRent() *statex.RentSlots {
	if gs.Data.Rent == nil {
		gs.Data.Rent = &statex.RentSlots{}
	}
	return gs.Data.Rent
}
