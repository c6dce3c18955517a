// Package extract holds the pure slot extractors: raw utterance text in,
// typed slot value or "not found" out. They are literal ordered rule tables,
// not classifiers; behavior must stay exactly reproducible turn-for-turn for
// the same input and catalog.
package extract

import (
	"regexp"
	"strconv"
	"strings"

	catalogx "github.com/studio-nexa/tsm-orchestrator/dialog/catalog"
)

// Rent time buckets.
const (
	BucketDaytime = "daytime"
	BucketEvening = "evening"
)

// Canonical rent formats.
const (
	FormatTraining     = "training"
	FormatRehearsal    = "rehearsal"
	FormatPhotoSession = "photo_session"
	FormatParty        = "party"
)

var (
	smallIntPattern = regexp.MustCompile(`\b([1-9]|[1-9][0-9]|100)\b`)
	timePattern     = regexp.MustCompile(`(\d{1,2}):?(\d{2})?`)
	hoursPattern    = regexp.MustCompile(`на\s+(\d{1,2})\s*час`)
)

// Age returns the first integer in 1..100 found in the text.
func Age(text string) (int, bool) {
	return firstSmallInt(text)
}

// PeopleCount shares the age pattern but fills a different slot.
func PeopleCount(text string) (int, bool) {
	return firstSmallInt(text)
}

func firstSmallInt(text string) (int, bool) {
	m := smallIntPattern.FindString(text)
	if m == "" {
		return 0, false
	}
	n, err := strconv.Atoi(m)
	if err != nil || n < 1 || n > 100 {
		return 0, false
	}
	return n, true
}

// directionKeywords maps direction ids to their trigger words. Checked in
// catalog iteration order; the first hit wins.
var directionKeywords = map[string][]string{
	"latina_solo_18": {"латин", "solo"},
	"high_heels_18":  {"хай хилс", "high heels", "каблуки", "хилс"},
	"choreo_12_17":   {"choreo", "хорео", "хореография"},
	"dance_mix_7_11": {"dance mix", "микс", "танцы"},
	"azbuka_3_5":     {"азбука", "малыши", "детки"},
	"hatha_yoga":     {"йога", "yoga", "хатха"},
}

// Direction resolves an utterance to a direction id: keyword sets first,
// then the display name as a substring. No scoring, catalog order decides
// ties.
func Direction(text string, directions []catalogx.Direction) (string, bool) {
	lower := strings.ToLower(text)

	for _, d := range directions {
		for _, kw := range directionKeywords[d.ID] {
			if strings.Contains(lower, kw) {
				return d.ID, true
			}
		}
	}

	for _, d := range directions {
		if d.Name != "" && strings.Contains(lower, strings.ToLower(d.Name)) {
			return d.ID, true
		}
	}

	return "", false
}

// RentTimeBucket classifies the rental time: literal "до"/"после" cues
// first, then the first H[:MM] token with hour < 16 meaning daytime.
func RentTimeBucket(text string) (string, bool) {
	lower := strings.ToLower(text)

	if strings.Contains(lower, "до 16") || strings.Contains(lower, "до 16:00") || strings.Contains(lower, "до") {
		return BucketDaytime, true
	}
	if strings.Contains(lower, "после 16") || strings.Contains(lower, "после 16:00") || strings.Contains(lower, "после") {
		return BucketEvening, true
	}

	m := timePattern.FindStringSubmatch(text)
	if m != nil {
		hour, err := strconv.Atoi(m[1])
		if err == nil {
			if hour < 16 {
				return BucketDaytime, true
			}
			return BucketEvening, true
		}
	}

	return "", false
}

// RentHours picks an explicit booking duration ("на 10 часов") out of the
// time answer. Durations of 8 hours and more unlock the bulk pricing tier.
// The «на» anchor is required: clock-time phrasing like «после 17 часов»
// names an hour of day, not a duration.
func RentHours(text string) (int, bool) {
	m := hoursPattern.FindStringSubmatch(strings.ToLower(text))
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil || n < 1 || n > 24 {
		return 0, false
	}
	return n, true
}

// formatRules is the ordered keyword table for rent formats. "party" is a
// first-class format so the 45-person ceiling in the limits table is
// reachable from dialogue.
var formatRules = []struct {
	id       string
	keywords []string
}{
	{FormatTraining, []string{"тренировка", "занятие", "training", "урок"}},
	{FormatRehearsal, []string{"репетиция", "rehearsal", "репет"}},
	{FormatPhotoSession, []string{"фотосессия", "фото", "photo", "съемка"}},
	{FormatParty, []string{"вечеринка", "праздник", "party", "корпоратив"}},
}

// RentFormat resolves the event format; the first matching keyword set wins.
func RentFormat(text string) (string, bool) {
	lower := strings.ToLower(text)
	for _, rule := range formatRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.id, true
			}
		}
	}
	return "", false
}
