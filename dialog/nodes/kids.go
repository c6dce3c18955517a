package dialognode

import (
	catalogx "github.com/studio-nexa/tsm-orchestrator/dialog/catalog"
	contractx "github.com/studio-nexa/tsm-orchestrator/dialog/contract"
	extractx "github.com/studio-nexa/tsm-orchestrator/dialog/extract"
	statex "github.com/studio-nexa/tsm-orchestrator/dialog/state"
)

// fallbackKidsGroups covers the standard age bands when the catalog carries
// no matching direction. Checked in order.
var fallbackKidsGroups = []catalogx.Direction{
	{
		ID:            "dance_mix_7_11",
		Name:          "Dance Mix 7-11",
		AgeMin:        intPtr(7),
		AgeMax:        intPtr(11),
		PricePerMonth: 2800,
		TrialPrice:    350,
		GroupLimit:    12,
	},
	{
		ID:            "azbuka_3_5",
		Name:          "Азбука танца 3-5",
		AgeMin:        intPtr(3),
		AgeMax:        intPtr(5),
		PricePerMonth: 2500,
		TrialPrice:    300,
		GroupLimit:    10,
	},
	{
		ID:            "choreo_12_17",
		Name:          "Choreo 12-17",
		AgeMin:        intPtr(12),
		AgeMax:        intPtr(17),
		PricePerMonth: 3000,
		TrialPrice:    400,
		GroupLimit:    14,
	},
}

// handleKidsAge resolves the child's age to a group. The flow is terminal on
// resolution either way; only an extraction miss re-asks.
func handleKidsAge(gs *GraphState) {
	age, ok := extractx.Age(gs.In.Text)
	if !ok {
		gs.resolve(replyAskAgeRetry, contractx.IntentAskAge,
			"kids: неверный формат возраста", gs.StateBefore, PersistNone)
		return
	}

	gs.Data = statex.SlotData{Kids: &statex.KidsSlots{Age: age}}

	group, found := resolveKidsGroup(age, gs.Catalog.Directions)
	if !found {
		gs.resolve(replyKidsNoGroup(age), contractx.IntentChildrenGroups,
			"kids: нет подходящей группы", statex.StateIdle, PersistDelete)
		return
	}

	gs.resolve(replyKidsGroup(age, group), contractx.IntentChildrenGroups,
		"kids: возраст -> группа", statex.StateIdle, PersistDelete)
}

// resolveKidsGroup prefers a catalog direction whose age range covers the
// age, then the built-in fallback table.
func resolveKidsGroup(age int, directions []catalogx.Direction) (catalogx.Direction, bool) {
	for _, d := range directions {
		if d.MatchesAge(age) {
			return d, true
		}
	}
	for _, d := range fallbackKidsGroups {
		if d.MatchesAge(age) {
			return d, true
		}
	}
	return catalogx.Direction{}, false
}

func intPtr(v int) *int { return &v }
