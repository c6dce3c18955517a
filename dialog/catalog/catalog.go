// Package catalog models the studio's service offering: dance directions,
// the weekly schedule and hall-rental rules. The data source is external and
// read-only; the engine queries it once per turn.
package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// Direction is one dance program. AgeMin/AgeMax are nil for adult programs
// without a fixed age range.
type Direction struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	AgeMin        *int   `json:"age_min,omitempty"`
	AgeMax        *int   `json:"age_max,omitempty"`
	PricePerMonth int    `json:"price_per_month,omitempty"`
	TrialPrice    int    `json:"trial_price,omitempty"`
	GroupLimit    int    `json:"group_limit,omitempty"`
}

// MatchesAge reports whether the direction has an age range covering age.
func (d Direction) MatchesAge(age int) bool {
	return d.AgeMin != nil && d.AgeMax != nil && *d.AgeMin <= age && age <= *d.AgeMax
}

type ScheduleEntry struct {
	DirectionID     string `json:"direction_id"`
	Day             string `json:"day"`
	Time            string `json:"time"`
	DurationMinutes int    `json:"duration_minutes,omitempty"`
	Instructor      string `json:"instructor,omitempty"`
}

// RentalRules holds booking terms. Zero values mean "not configured"; the
// pricing evaluator falls back to its defaults then.
type RentalRules struct {
	PrepaymentPercent int `json:"prepayment_percent,omitempty"`
	MinBookingHours   int `json:"min_booking_hours,omitempty"`
}

// Snapshot is one consistent read of the whole catalog, taken per turn.
type Snapshot struct {
	Directions []Direction     `json:"directions"`
	Schedule   []ScheduleEntry `json:"schedule"`
	Rental     RentalRules     `json:"rental"`
}

// DirectionByID returns the direction with the given id, if present.
func (s Snapshot) DirectionByID(id string) (Direction, bool) {
	for _, d := range s.Directions {
		if d.ID == id {
			return d, true
		}
	}
	return Direction{}, false
}

// ScheduleFor returns schedule entries for one direction, at most limit.
func (s Snapshot) ScheduleFor(directionID string, limit int) []ScheduleEntry {
	var out []ScheduleEntry
	for _, e := range s.Schedule {
		if e.DirectionID != directionID {
			continue
		}
		out = append(out, e)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// Provider is the read-only catalog contract. Implementations must return
// empty collections, not errors, when no data exists.
type Provider interface {
	Directions(ctx context.Context) ([]Direction, error)
	Schedule(ctx context.Context) ([]ScheduleEntry, error)
	Rental(ctx context.Context) (RentalRules, error)
}

// Load reads a full Snapshot from a provider.
func Load(ctx context.Context, p Provider) (Snapshot, error) {
	directions, err := p.Directions(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("load directions: %w", err)
	}
	schedule, err := p.Schedule(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("load schedule: %w", err)
	}
	rental, err := p.Rental(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("load rental rules: %w", err)
	}
	return Snapshot{Directions: directions, Schedule: schedule, Rental: rental}, nil
}

// FileProvider reads the catalog from a JSON stub file on every call, so
// edits to the stub take effect without a restart. A missing file yields an
// empty catalog.
type FileProvider struct {
	path string
}

type fileDocument struct {
	Directions []Direction     `json:"directions"`
	Schedule   []ScheduleEntry `json:"schedule"`
	Rental     struct {
		Rules RentalRules `json:"rules"`
	} `json:"rental"`
}

func NewFileProvider(path string) *FileProvider {
	return &FileProvider{path: path}
}

func (p *FileProvider) read() (fileDocument, error) {
	var doc fileDocument
	raw, err := os.ReadFile(p.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return doc, nil
		}
		return doc, fmt.Errorf("read catalog file: %w", err)
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return doc, fmt.Errorf("parse catalog file: %w", err)
	}
	return doc, nil
}

func (p *FileProvider) Directions(ctx context.Context) ([]Direction, error) {
	doc, err := p.read()
	if err != nil {
		return nil, err
	}
	return doc.Directions, nil
}

func (p *FileProvider) Schedule(ctx context.Context) ([]ScheduleEntry, error) {
	doc, err := p.read()
	if err != nil {
		return nil, err
	}
	return doc.Schedule, nil
}

func (p *FileProvider) Rental(ctx context.Context) (RentalRules, error) {
	doc, err := p.read()
	if err != nil {
		return RentalRules{}, err
	}
	return doc.Rental.Rules, nil
}
