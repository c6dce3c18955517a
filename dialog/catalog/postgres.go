package catalog

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

// PostgresProvider serves the catalog from Postgres for deployments where
// the offering is managed in the booking database instead of the JSON stub.
type PostgresProvider struct {
	db *bun.DB
}

type PostgresConfig struct {
	DSN string `envconfig:"DSN" split_words:"true" required:"true"`
}

type directionRow struct {
	bun.BaseModel `bun:"table:directions"`

	ID            string `bun:"id,pk"`
	Name          string `bun:"name"`
	AgeMin        *int   `bun:"age_min"`
	AgeMax        *int   `bun:"age_max"`
	PricePerMonth int    `bun:"price_per_month"`
	TrialPrice    int    `bun:"trial_price"`
	GroupLimit    int    `bun:"group_limit"`
}

type scheduleRow struct {
	bun.BaseModel `bun:"table:schedule_entries"`

	DirectionID     string `bun:"direction_id"`
	Day             string `bun:"day"`
	Time            string `bun:"time"`
	DurationMinutes int    `bun:"duration_minutes"`
	Instructor      string `bun:"instructor"`
}

type rentalRulesRow struct {
	bun.BaseModel `bun:"table:rental_rules"`

	PrepaymentPercent int `bun:"prepayment_percent"`
	MinBookingHours   int `bun:"min_booking_hours"`
}

func NewPostgresProvider(cfg PostgresConfig) (*PostgresProvider, error) {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(cfg.DSN)))
	db := bun.NewDB(sqldb, pgdialect.New())
	return &PostgresProvider{db: db}, nil
}

func NewPostgresProviderFromDB(db *bun.DB) *PostgresProvider {
	return &PostgresProvider{db: db}
}

func (p *PostgresProvider) Directions(ctx context.Context) ([]Direction, error) {
	var rows []directionRow
	if err := p.db.NewSelect().Model(&rows).Order("id").Scan(ctx); err != nil {
		return nil, fmt.Errorf("select directions: %w", err)
	}
	out := make([]Direction, 0, len(rows))
	for _, r := range rows {
		out = append(out, Direction{
			ID:            r.ID,
			Name:          r.Name,
			AgeMin:        r.AgeMin,
			AgeMax:        r.AgeMax,
			PricePerMonth: r.PricePerMonth,
			TrialPrice:    r.TrialPrice,
			GroupLimit:    r.GroupLimit,
		})
	}
	return out, nil
}

func (p *PostgresProvider) Schedule(ctx context.Context) ([]ScheduleEntry, error) {
	var rows []scheduleRow
	if err := p.db.NewSelect().Model(&rows).Order("day", "time").Scan(ctx); err != nil {
		return nil, fmt.Errorf("select schedule: %w", err)
	}
	out := make([]ScheduleEntry, 0, len(rows))
	for _, r := range rows {
		out = append(out, ScheduleEntry{
			DirectionID:     r.DirectionID,
			Day:             r.Day,
			Time:            r.Time,
			DurationMinutes: r.DurationMinutes,
			Instructor:      r.Instructor,
		})
	}
	return out, nil
}

func (p *PostgresProvider) Rental(ctx context.Context) (RentalRules, error) {
	var row rentalRulesRow
	err := p.db.NewSelect().Model(&row).Limit(1).Scan(ctx)
	if err != nil {
		if err == sql.ErrNoRows {
			return RentalRules{}, nil
		}
		return RentalRules{}, fmt.Errorf("select rental rules: %w", err)
	}
	return RentalRules{
		PrepaymentPercent: row.PrepaymentPercent,
		MinBookingHours:   row.MinBookingHours,
	}, nil
}

func (p *PostgresProvider) Close() error {
	return p.db.Close()
}
