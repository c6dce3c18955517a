package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

const stubJSON = `{
  "directions": [
    {"id": "latina_solo_18", "name": "Latina Solo 18+", "trial_price": 450},
    {"id": "dance_mix_7_11", "name": "Dance Mix 7-11", "age_min": 7, "age_max": 11, "trial_price": 350, "group_limit": 12}
  ],
  "schedule": [
    {"direction_id": "latina_solo_18", "day": "Понедельник", "time": "19:00"},
    {"direction_id": "latina_solo_18", "day": "Среда", "time": "19:00"},
    {"direction_id": "dance_mix_7_11", "day": "Вторник", "time": "16:00"}
  ],
  "rental": {"rules": {"prepayment_percent": 50, "min_booking_hours": 12}}
}`

func writeStub(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "catalog.json")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	return path
}

func TestFileProviderReadsStub(t *testing.T) {
	t.Parallel()

	provider := NewFileProvider(writeStub(t, stubJSON))
	snapshot, err := Load(context.Background(), provider)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if len(snapshot.Directions) != 2 {
		t.Fatalf("directions = %d, want 2", len(snapshot.Directions))
	}
	if len(snapshot.Schedule) != 3 {
		t.Fatalf("schedule = %d, want 3", len(snapshot.Schedule))
	}
	if snapshot.Rental.PrepaymentPercent != 50 || snapshot.Rental.MinBookingHours != 12 {
		t.Fatalf("rental = %+v", snapshot.Rental)
	}
}

func TestFileProviderMissingFileYieldsEmptyCatalog(t *testing.T) {
	t.Parallel()

	provider := NewFileProvider(filepath.Join(t.TempDir(), "missing.json"))
	snapshot, err := Load(context.Background(), provider)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(snapshot.Directions) != 0 || len(snapshot.Schedule) != 0 {
		t.Fatalf("expected empty catalog, got %+v", snapshot)
	}
}

func TestFileProviderRejectsMalformedJSON(t *testing.T) {
	t.Parallel()

	provider := NewFileProvider(writeStub(t, "{not json"))
	if _, err := Load(context.Background(), provider); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestSnapshotDirectionByID(t *testing.T) {
	t.Parallel()

	snapshot := Snapshot{Directions: []Direction{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}}}
	d, ok := snapshot.DirectionByID("b")
	if !ok || d.Name != "B" {
		t.Fatalf("DirectionByID(b) = (%+v, %v)", d, ok)
	}
	if _, ok := snapshot.DirectionByID("c"); ok {
		t.Fatal("DirectionByID(c) must miss")
	}
}

func TestSnapshotScheduleForLimits(t *testing.T) {
	t.Parallel()

	snapshot := Snapshot{Schedule: []ScheduleEntry{
		{DirectionID: "a", Day: "Пн"},
		{DirectionID: "b", Day: "Вт"},
		{DirectionID: "a", Day: "Ср"},
		{DirectionID: "a", Day: "Чт"},
		{DirectionID: "a", Day: "Пт"},
	}}

	got := snapshot.ScheduleFor("a", 3)
	if len(got) != 3 {
		t.Fatalf("ScheduleFor(a, 3) = %d entries, want 3", len(got))
	}
	if got[0].Day != "Пн" || got[2].Day != "Чт" {
		t.Fatalf("unexpected order: %+v", got)
	}
}

func TestDirectionMatchesAge(t *testing.T) {
	t.Parallel()

	min, max := 7, 11
	d := Direction{AgeMin: &min, AgeMax: &max}
	if !d.MatchesAge(7) || !d.MatchesAge(11) {
		t.Fatal("boundary ages must match")
	}
	if d.MatchesAge(6) || d.MatchesAge(12) {
		t.Fatal("out-of-range ages must not match")
	}
	if (Direction{}).MatchesAge(8) {
		t.Fatal("directions without a range must not match")
	}
}
