// Package rules holds the business-rule evaluators: hall-rental pricing
// tiers and per-format capacity ceilings. Both are pure and total over their
// input domain.
package rules

import (
	"fmt"

	extractx "github.com/studio-nexa/tsm-orchestrator/dialog/extract"
)

// Per-format capacity ceilings. Formats outside the table fall back to
// DefaultLimit.
var formatLimits = map[string]int{
	extractx.FormatTraining:     15,
	extractx.FormatRehearsal:    30,
	extractx.FormatPhotoSession: 10,
	extractx.FormatParty:        45,
}

const DefaultLimit = 30

// LimitFor returns the capacity ceiling for a format.
func LimitFor(format string) int {
	if limit, ok := formatLimits[format]; ok {
		return limit
	}
	return DefaultLimit
}

// CheckLimits validates the headcount against the format's ceiling. On
// violation it returns false and a message naming the limit and the count.
func CheckLimits(format string, peopleCount int) (bool, string) {
	limit := LimitFor(format)
	if peopleCount > limit {
		return false, fmt.Sprintf(
			"Для формата '%s' максимальное количество участников: %d. У вас указано %d.",
			format, limit, peopleCount,
		)
	}
	return true, ""
}
