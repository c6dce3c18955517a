package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	catalogx "github.com/studio-nexa/tsm-orchestrator/dialog/catalog"
	contractx "github.com/studio-nexa/tsm-orchestrator/dialog/contract"
	statex "github.com/studio-nexa/tsm-orchestrator/dialog/state"
)

type fakeStore struct {
	items   map[string]*statex.SessionState
	saves   int
	deletes int
}

func newFakeStore() *fakeStore {
	return &fakeStore{items: map[string]*statex.SessionState{}}
}

func storeKey(tenantID, channel, userID string) string {
	return fmt.Sprintf("%s:%s:%s", tenantID, channel, userID)
}

func (f *fakeStore) Load(ctx context.Context, tenantID, channel, userID string) (*statex.SessionState, error) {
	st, ok := f.items[storeKey(tenantID, channel, userID)]
	if !ok {
		return nil, statex.ErrStateNotFound
	}
	return cloneSessionState(st), nil
}

func (f *fakeStore) Save(ctx context.Context, st *statex.SessionState) error {
	f.saves++
	f.items[storeKey(st.TenantID, st.Channel, st.UserID)] = cloneSessionState(st)
	return nil
}

func (f *fakeStore) Delete(ctx context.Context, tenantID, channel, userID string) error {
	f.deletes++
	delete(f.items, storeKey(tenantID, channel, userID))
	return nil
}

func cloneSessionState(st *statex.SessionState) *statex.SessionState {
	raw, err := json.Marshal(st)
	if err != nil {
		panic(err)
	}
	var out statex.SessionState
	if err := json.Unmarshal(raw, &out); err != nil {
		panic(err)
	}
	return &out
}

type staticCatalog struct {
	snapshot catalogx.Snapshot
}

func (s staticCatalog) Directions(context.Context) ([]catalogx.Direction, error) {
	return s.snapshot.Directions, nil
}

func (s staticCatalog) Schedule(context.Context) ([]catalogx.ScheduleEntry, error) {
	return s.snapshot.Schedule, nil
}

func (s staticCatalog) Rental(context.Context) (catalogx.RentalRules, error) {
	return s.snapshot.Rental, nil
}

func intPtr(v int) *int { return &v }

func testSnapshot() catalogx.Snapshot {
	return catalogx.Snapshot{
		Directions: []catalogx.Direction{
			{ID: "latina_solo_18", Name: "Latina Solo 18+", TrialPrice: 450, GroupLimit: 16},
			{ID: "dance_mix_7_11", Name: "Dance Mix 7-11", AgeMin: intPtr(7), AgeMax: intPtr(11), TrialPrice: 350, GroupLimit: 12},
			{ID: "hatha_yoga", Name: "Хатха-йога", TrialPrice: 400},
		},
		Schedule: []catalogx.ScheduleEntry{
			{DirectionID: "latina_solo_18", Day: "Понедельник", Time: "19:00"},
			{DirectionID: "latina_solo_18", Day: "Среда", Time: "19:00"},
			{DirectionID: "dance_mix_7_11", Day: "Вторник", Time: "16:00"},
		},
		Rental: catalogx.RentalRules{PrepaymentPercent: 50, MinBookingHours: 12},
	}
}

func newTestEngine(t *testing.T, snapshot catalogx.Snapshot) (*Engine, *fakeStore) {
	t.Helper()

	store := newFakeStore()
	engine, err := New(store, staticCatalog{snapshot: snapshot}, Config{Version: "test"})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	engine.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	return engine, store
}

func buttonTurn(t *testing.T, e *Engine, userID, name string) contractx.TurnOutput {
	t.Helper()
	return turn(t, e, contractx.TurnInput{
		TenantID:   "studio_nexa",
		Channel:    "simulator",
		UserID:     userID,
		ActionType: contractx.ActionButton,
		ActionName: name,
	})
}

func textTurn(t *testing.T, e *Engine, userID, text, scenario string) contractx.TurnOutput {
	t.Helper()
	return turn(t, e, contractx.TurnInput{
		TenantID:   "studio_nexa",
		Channel:    "simulator",
		UserID:     userID,
		Text:       text,
		Scenario:   scenario,
		ActionType: contractx.ActionText,
	})
}

func turn(t *testing.T, e *Engine, in contractx.TurnInput) contractx.TurnOutput {
	t.Helper()
	out, err := e.HandleTurn(context.Background(), in)
	if err != nil {
		t.Fatalf("HandleTurn() error = %v", err)
	}
	return out
}

func TestKidsFlowE2E(t *testing.T) {
	t.Parallel()

	engine, store := newTestEngine(t, testSnapshot())

	out := buttonTurn(t, engine, "kid-user", contractx.ButtonKidsAge)
	if out.Intent != contractx.IntentAskAge {
		t.Fatalf("intent = %q, want %q", out.Intent, contractx.IntentAskAge)
	}
	if out.Debug.StateBefore != "idle" || out.Debug.StateAfter != "kids_need_age" {
		t.Fatalf("states = %q -> %q", out.Debug.StateBefore, out.Debug.StateAfter)
	}

	out = textTurn(t, engine, "kid-user", "8", "")
	if out.Intent != contractx.IntentChildrenGroups {
		t.Fatalf("intent = %q, want %q", out.Intent, contractx.IntentChildrenGroups)
	}
	if !strings.Contains(out.Reply, "Dance Mix 7-11") {
		t.Fatalf("reply must name the 7-11 group: %q", out.Reply)
	}
	if !strings.Contains(out.Reply, "Лимит: 12 человек") {
		t.Fatalf("reply must name the group limit: %q", out.Reply)
	}
	if out.Debug.StateAfter != "idle" {
		t.Fatalf("state_after = %q, want idle", out.Debug.StateAfter)
	}
	if age, ok := out.Debug.DataCollected["age"]; !ok || age != 8 {
		t.Fatalf("data_collected.age = %v", out.Debug.DataCollected)
	}
	if len(store.items) != 0 {
		t.Fatal("session must be cleared after the terminal branch")
	}
}

func TestKidsFlowFallbackGroup(t *testing.T) {
	t.Parallel()

	// No age-ranged directions in the catalog: the built-in fallback table
	// must resolve the group.
	engine, _ := newTestEngine(t, catalogx.Snapshot{})

	buttonTurn(t, engine, "kid-user", contractx.ButtonKidsAge)
	out := textTurn(t, engine, "kid-user", "4", "")
	if !strings.Contains(out.Reply, "Азбука танца 3-5") {
		t.Fatalf("reply must name the fallback group: %q", out.Reply)
	}
	if out.Debug.StateAfter != "idle" {
		t.Fatalf("state_after = %q, want idle", out.Debug.StateAfter)
	}
}

func TestKidsFlowNoSuitableGroup(t *testing.T) {
	t.Parallel()

	engine, store := newTestEngine(t, testSnapshot())

	buttonTurn(t, engine, "kid-user", contractx.ButtonKidsAge)
	out := textTurn(t, engine, "kid-user", "49", "")
	if out.Intent != contractx.IntentChildrenGroups {
		t.Fatalf("intent = %q", out.Intent)
	}
	if !strings.Contains(out.Reply, "нет подходящей группы") {
		t.Fatalf("reply = %q", out.Reply)
	}
	if out.Debug.StateAfter != "idle" || len(store.items) != 0 {
		t.Fatal("flow must terminate and clear state")
	}
}

func TestKidsFlowRetryKeepsStateWithoutWrite(t *testing.T) {
	t.Parallel()

	engine, store := newTestEngine(t, testSnapshot())

	buttonTurn(t, engine, "kid-user", contractx.ButtonKidsAge)
	savesAfterStart := store.saves

	out := textTurn(t, engine, "kid-user", "не скажу", "")
	if out.Intent != contractx.IntentAskAge {
		t.Fatalf("intent = %q, want re-ask", out.Intent)
	}
	if out.Debug.StateAfter != "kids_need_age" {
		t.Fatalf("state_after = %q, want kids_need_age", out.Debug.StateAfter)
	}
	if store.saves != savesAfterStart {
		t.Fatal("a re-prompt must not write the store")
	}
}

func TestRentFlowE2E(t *testing.T) {
	t.Parallel()

	engine, store := newTestEngine(t, testSnapshot())

	out := buttonTurn(t, engine, "rent-user", contractx.ButtonRentPrice)
	if out.Debug.StateAfter != "rent_need_time" {
		t.Fatalf("state_after = %q, want rent_need_time", out.Debug.StateAfter)
	}

	out = textTurn(t, engine, "rent-user", "после 16", "")
	if out.Debug.StateAfter != "rent_need_people" {
		t.Fatalf("state_after = %q, want rent_need_people", out.Debug.StateAfter)
	}
	if out.Debug.DataCollected["rent_time_bucket"] != "evening" {
		t.Fatalf("data_collected = %v", out.Debug.DataCollected)
	}

	out = textTurn(t, engine, "rent-user", "12", "")
	if out.Debug.StateAfter != "rent_need_format" {
		t.Fatalf("state_after = %q, want rent_need_format", out.Debug.StateAfter)
	}
	if out.Debug.DataCollected["people_count"] != 12 {
		t.Fatalf("data_collected = %v", out.Debug.DataCollected)
	}

	out = textTurn(t, engine, "rent-user", "занятие", "")
	if !strings.Contains(out.Reply, "1500") {
		t.Fatalf("reply must carry the evening >10 price: %q", out.Reply)
	}
	if !strings.Contains(out.Reply, "50%") || !strings.Contains(out.Reply, "12 часов") {
		t.Fatalf("reply must carry booking terms: %q", out.Reply)
	}
	if out.Debug.DataCollected["format"] != "training" {
		t.Fatalf("data_collected = %v", out.Debug.DataCollected)
	}
	if out.Debug.RuleUsed != "evening_more_than_10" {
		t.Fatalf("rule_used = %q", out.Debug.RuleUsed)
	}
	if out.Debug.StateAfter != "idle" || len(store.items) != 0 {
		t.Fatal("flow must terminate and clear state")
	}
}

func TestRentFlowBulkTier(t *testing.T) {
	t.Parallel()

	engine, _ := newTestEngine(t, testSnapshot())

	buttonTurn(t, engine, "rent-user", contractx.ButtonRentPrice)
	out := textTurn(t, engine, "rent-user", "до 16, на 10 часов", "")
	if out.Debug.DataCollected["hours"] != 10 {
		t.Fatalf("data_collected = %v", out.Debug.DataCollected)
	}

	textTurn(t, engine, "rent-user", "5", "")
	out = textTurn(t, engine, "rent-user", "репетиция", "")
	if !strings.Contains(out.Reply, "700") {
		t.Fatalf("reply must carry the bulk price: %q", out.Reply)
	}
	if out.Debug.RuleUsed != "bulk_up_to_10" {
		t.Fatalf("rule_used = %q", out.Debug.RuleUsed)
	}
}

func TestRentFlowClockTimeIsNotDuration(t *testing.T) {
	t.Parallel()

	engine, _ := newTestEngine(t, testSnapshot())

	buttonTurn(t, engine, "rent-user", contractx.ButtonRentPrice)

	// «после 17 часов» names an hour of day; it must set the evening bucket
	// without capturing 17 as a booking duration.
	out := textTurn(t, engine, "rent-user", "после 17 часов", "")
	if out.Debug.DataCollected["rent_time_bucket"] != "evening" {
		t.Fatalf("data_collected = %v", out.Debug.DataCollected)
	}
	if _, ok := out.Debug.DataCollected["hours"]; ok {
		t.Fatalf("clock time captured as duration: %v", out.Debug.DataCollected)
	}

	textTurn(t, engine, "rent-user", "5", "")
	out = textTurn(t, engine, "rent-user", "занятие", "")
	if !strings.Contains(out.Reply, "1300") {
		t.Fatalf("reply must carry the evening price, not the bulk tier: %q", out.Reply)
	}
	if out.Debug.RuleUsed != "evening_up_to_10" {
		t.Fatalf("rule_used = %q", out.Debug.RuleUsed)
	}
}

func TestRentFlowCapacityViolation(t *testing.T) {
	t.Parallel()

	engine, store := newTestEngine(t, testSnapshot())

	buttonTurn(t, engine, "rent-user", contractx.ButtonRentPrice)
	textTurn(t, engine, "rent-user", "после 16", "")
	textTurn(t, engine, "rent-user", "16", "")
	out := textTurn(t, engine, "rent-user", "занятие", "")

	if !strings.Contains(out.Reply, "15") || !strings.Contains(out.Reply, "16") {
		t.Fatalf("violation must name limit and count: %q", out.Reply)
	}
	if out.Debug.RuleUsed != "rent: превышение лимита" {
		t.Fatalf("rule_used = %q", out.Debug.RuleUsed)
	}
	if out.Debug.StateAfter != "idle" || len(store.items) != 0 {
		t.Fatal("violation must terminate the flow")
	}
}

func TestRentFlowForwardOnlyProgression(t *testing.T) {
	t.Parallel()

	engine, _ := newTestEngine(t, testSnapshot())

	buttonTurn(t, engine, "rent-user", contractx.ButtonRentPrice)
	want := []struct {
		text  string
		after string
	}{
		{"после 16", "rent_need_people"},
		{"10", "rent_need_format"},
		{"фото", "idle"},
	}
	for _, step := range want {
		out := textTurn(t, engine, "rent-user", step.text, "")
		if out.Debug.StateAfter != step.after {
			t.Fatalf("after %q state = %q, want %q", step.text, out.Debug.StateAfter, step.after)
		}
	}
}

func TestNoLoopBackAfterCompletion(t *testing.T) {
	t.Parallel()

	engine, _ := newTestEngine(t, testSnapshot())

	buttonTurn(t, engine, "rent-user", contractx.ButtonRentPrice)
	textTurn(t, engine, "rent-user", "после 16", "")
	textTurn(t, engine, "rent-user", "10", "")
	textTurn(t, engine, "rent-user", "тренировка", "")

	// Unrelated text right after completion must not re-enter the flow.
	out := textTurn(t, engine, "rent-user", "12", "")
	if out.Intent != contractx.IntentGeneralInquiry {
		t.Fatalf("intent = %q, want %q", out.Intent, contractx.IntentGeneralInquiry)
	}
	if out.Debug.StateAfter != "idle" {
		t.Fatalf("state_after = %q, want idle", out.Debug.StateAfter)
	}
}

func TestIdempotentRestart(t *testing.T) {
	t.Parallel()

	engine, _ := newTestEngine(t, testSnapshot())

	buttonTurn(t, engine, "rent-user", contractx.ButtonRentPrice)
	textTurn(t, engine, "rent-user", "после 16", "")

	// Restarting the scenario drops collected slots and begins at the
	// first state again.
	out := buttonTurn(t, engine, "rent-user", contractx.ButtonRentPrice)
	if out.Debug.StateAfter != "rent_need_time" {
		t.Fatalf("state_after = %q, want rent_need_time", out.Debug.StateAfter)
	}
	if len(out.Debug.DataCollected) != 0 {
		t.Fatalf("data_collected = %v, want empty", out.Debug.DataCollected)
	}
}

func TestScheduleButtonKeepsFlowResumable(t *testing.T) {
	t.Parallel()

	engine, _ := newTestEngine(t, testSnapshot())

	buttonTurn(t, engine, "rent-user", contractx.ButtonRentPrice)

	out := buttonTurn(t, engine, "rent-user", contractx.ButtonViewSchedule)
	if out.Intent != contractx.IntentViewSchedule {
		t.Fatalf("intent = %q", out.Intent)
	}
	if !strings.Contains(out.Reply, "Понедельник, 19:00 — Latina Solo 18+") {
		t.Fatalf("reply = %q", out.Reply)
	}
	if out.Debug.StateAfter != "rent_need_time" {
		t.Fatalf("state_after = %q, schedule view must not mutate the flow", out.Debug.StateAfter)
	}

	out = textTurn(t, engine, "rent-user", "после 16", "")
	if out.Debug.StateAfter != "rent_need_people" {
		t.Fatalf("state_after = %q, the flow must resume", out.Debug.StateAfter)
	}
}

func TestScheduleButtonEmptyCatalog(t *testing.T) {
	t.Parallel()

	engine, _ := newTestEngine(t, catalogx.Snapshot{})

	out := buttonTurn(t, engine, "any-user", contractx.ButtonViewSchedule)
	if !strings.Contains(out.Reply, "Расписание временно недоступно") {
		t.Fatalf("reply = %q", out.Reply)
	}
}

func TestEscalationClearsState(t *testing.T) {
	t.Parallel()

	engine, store := newTestEngine(t, testSnapshot())

	buttonTurn(t, engine, "rent-user", contractx.ButtonRentPrice)
	out := buttonTurn(t, engine, "rent-user", contractx.ButtonEscalate)
	if out.Intent != contractx.IntentEscalation {
		t.Fatalf("intent = %q", out.Intent)
	}
	if out.Debug.StateAfter != "idle" || len(store.items) != 0 {
		t.Fatal("escalation must clear the session")
	}
}

func TestUnknownStateFallback(t *testing.T) {
	t.Parallel()

	engine, store := newTestEngine(t, testSnapshot())
	store.items[storeKey("studio_nexa", "simulator", "corrupt-user")] = &statex.SessionState{
		TenantID: "studio_nexa",
		Channel:  "simulator",
		UserID:   "corrupt-user",
		Scenario: "Аренда зала",
		State:    statex.State("rent_need_moon_phase"),
	}

	out := textTurn(t, engine, "corrupt-user", "что?", "")
	if out.Intent != contractx.IntentError {
		t.Fatalf("intent = %q, want %q", out.Intent, contractx.IntentError)
	}
	if out.Debug.StateAfter != "idle" || len(store.items) != 0 {
		t.Fatal("fallback must clear the corrupt session")
	}
}

func TestMismatchedSlotVariantIsDropped(t *testing.T) {
	t.Parallel()

	engine, store := newTestEngine(t, testSnapshot())
	store.items[storeKey("studio_nexa", "simulator", "corrupt-user")] = &statex.SessionState{
		TenantID: "studio_nexa",
		Channel:  "simulator",
		UserID:   "corrupt-user",
		Scenario: contractx.ScenarioRent,
		State:    statex.StateRentNeedTime,
		Data:     statex.SlotData{Kids: &statex.KidsSlots{Age: 8}},
	}

	// The stale kids variant must not survive into the rent flow's save.
	out := textTurn(t, engine, "corrupt-user", "после 16", "")
	if out.Debug.StateAfter != "rent_need_people" {
		t.Fatalf("state_after = %q, want rent_need_people", out.Debug.StateAfter)
	}
	if _, ok := out.Debug.DataCollected["age"]; ok {
		t.Fatalf("foreign slot variant kept: %v", out.Debug.DataCollected)
	}

	saved := store.items[storeKey("studio_nexa", "simulator", "corrupt-user")]
	if saved == nil || saved.Data.Kids != nil || saved.Data.Rent == nil {
		t.Fatalf("saved session = %+v", saved)
	}
}

func TestIdleRestartByScenario(t *testing.T) {
	t.Parallel()

	engine, _ := newTestEngine(t, testSnapshot())

	out := textTurn(t, engine, "new-user", "здравствуйте", contractx.ScenarioKids)
	if out.Intent != contractx.IntentAskAge {
		t.Fatalf("intent = %q, want %q", out.Intent, contractx.IntentAskAge)
	}
	if out.Debug.StateAfter != "kids_need_age" {
		t.Fatalf("state_after = %q", out.Debug.StateAfter)
	}
}

func TestUnknownScenarioAcknowledges(t *testing.T) {
	t.Parallel()

	engine, store := newTestEngine(t, testSnapshot())

	out := textTurn(t, engine, "new-user", "а парковка есть?", "FAQ")
	if out.Intent != contractx.IntentGeneralInquiry {
		t.Fatalf("intent = %q", out.Intent)
	}
	if out.Debug.StateAfter != "idle" || store.saves != 0 {
		t.Fatal("a generic acknowledgement must not create state")
	}
}

func TestUnknownButtonFallsThroughToScenario(t *testing.T) {
	t.Parallel()

	engine, _ := newTestEngine(t, testSnapshot())

	out := turn(t, engine, contractx.TurnInput{
		TenantID:   "studio_nexa",
		Channel:    "simulator",
		UserID:     "new-user",
		Scenario:   contractx.ScenarioRent,
		ActionType: contractx.ActionButton,
		ActionName: "Неизвестная кнопка",
	})
	if out.Debug.StateAfter != "rent_need_time" {
		t.Fatalf("state_after = %q, want rent_need_time", out.Debug.StateAfter)
	}
}

func TestBookingFlowE2E(t *testing.T) {
	t.Parallel()

	engine, store := newTestEngine(t, testSnapshot())

	out := buttonTurn(t, engine, "book-user", contractx.ButtonBookTrial)
	if out.Intent != contractx.IntentBookTrial {
		t.Fatalf("intent = %q", out.Intent)
	}
	if !strings.Contains(out.Reply, "• Latina Solo 18+") {
		t.Fatalf("intro must list directions: %q", out.Reply)
	}

	out = textTurn(t, engine, "book-user", "латина соло", "")
	if !strings.Contains(out.Reply, "Latina Solo 18+") {
		t.Fatalf("reply = %q", out.Reply)
	}
	if !strings.Contains(out.Reply, "450 руб") {
		t.Fatalf("reply must carry the trial price: %q", out.Reply)
	}
	if out.Debug.DataCollected["direction"] != "latina_solo_18" {
		t.Fatalf("data_collected = %v", out.Debug.DataCollected)
	}
	if out.Debug.StateAfter != "idle" || len(store.items) != 0 {
		t.Fatal("booking must terminate and clear state")
	}
}

func TestBookingFlowNoSlots(t *testing.T) {
	t.Parallel()

	engine, _ := newTestEngine(t, testSnapshot())

	buttonTurn(t, engine, "book-user", contractx.ButtonBookTrial)
	out := textTurn(t, engine, "book-user", "йога", "")
	if !strings.Contains(out.Reply, "слоты временно недоступны") {
		t.Fatalf("reply = %q", out.Reply)
	}
	if out.Debug.StateAfter != "idle" {
		t.Fatalf("state_after = %q, want idle", out.Debug.StateAfter)
	}
}

func TestBookingFlowRetryOnUnknownDirection(t *testing.T) {
	t.Parallel()

	engine, _ := newTestEngine(t, testSnapshot())

	buttonTurn(t, engine, "book-user", contractx.ButtonBookTrial)
	out := textTurn(t, engine, "book-user", "балет", "")
	if out.Debug.StateAfter != "booking_need_direction" {
		t.Fatalf("state_after = %q, want booking_need_direction", out.Debug.StateAfter)
	}
	if !strings.Contains(out.Reply, "выберите направление") {
		t.Fatalf("reply = %q", out.Reply)
	}
}

func TestHandleTurnValidation(t *testing.T) {
	t.Parallel()

	engine, _ := newTestEngine(t, testSnapshot())

	_, err := engine.HandleTurn(context.Background(), contractx.TurnInput{
		TenantID:   "studio_nexa",
		Channel:    "simulator",
		UserID:     "u1",
		ActionType: "gesture",
	})
	if !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("error = %v, want ErrValidation", err)
	}

	_, err = engine.HandleTurn(context.Background(), contractx.TurnInput{
		TenantID:   "studio_nexa",
		Channel:    "simulator",
		UserID:     "u1",
		ActionType: contractx.ActionButton,
	})
	if !errors.Is(err, contractx.ErrValidation) {
		t.Fatalf("error = %v, want ErrValidation", err)
	}
}

func TestEngineRequiresDependencies(t *testing.T) {
	t.Parallel()

	if _, err := New(nil, staticCatalog{}, Config{}); err == nil {
		t.Fatal("nil store must be rejected")
	}
	if _, err := New(newFakeStore(), nil, Config{}); err == nil {
		t.Fatal("nil catalog must be rejected")
	}
}

func TestVersionEchoedInOutput(t *testing.T) {
	t.Parallel()

	engine, _ := newTestEngine(t, testSnapshot())
	out := buttonTurn(t, engine, "any-user", contractx.ButtonViewSchedule)
	if out.Version != "test" {
		t.Fatalf("version = %q, want test", out.Version)
	}
}
