// Package plantstore persists plants and their readings. Plants are
// upserted by their unique name; readings are append-only history.
package plantstore

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "embed"

	_ "github.com/tursodatabase/libsql-client-go/libsql"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var Schema string

type Plant struct {
	ID               int64
	Name             string
	Brand            string
	Status           string
	CapacityKwp      *float64
	PowerKw          float64
	DailyYieldKwh    float64
	LastSeenOnlineAt *time.Time
}

type Reading struct {
	PlantID       int64
	ObservedAt    time.Time
	PowerKw       float64
	DailyYieldKwh float64
}

// Client is the storage surface the gateway commits through. Store
// implements it on sqlite/libsql, PostgrestClient on the hosted
// PostgREST api.
type Client interface {
	UpsertPlants(ctx context.Context, plants []Plant) error
	PlantIDsByName(ctx context.Context, names []string) (map[string]int64, error)
	InsertReadings(ctx context.Context, readings []Reading) error
}

type Store struct {
	db *sql.DB
}

func NewStore(database *sql.DB) Store {
	return Store{db: database}
}

// UpsertPlants inserts or refreshes plants keyed by name. A null
// last_seen_online_at on the incoming row preserves the stored value,
// so an offline observation never erases when the plant last worked.
func (s Store) UpsertPlants(ctx context.Context, plants []Plant) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO plants (name, brand, status, capacity_kwp, power_kw, daily_yield_kwh, last_seen_online_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (name) DO UPDATE SET
			brand = excluded.brand,
			status = excluded.status,
			capacity_kwp = excluded.capacity_kwp,
			power_kw = excluded.power_kw,
			daily_yield_kwh = excluded.daily_yield_kwh,
			last_seen_online_at = COALESCE(excluded.last_seen_online_at, plants.last_seen_online_at)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, p := range plants {
		var capacity sql.NullFloat64
		if p.CapacityKwp != nil {
			capacity = sql.NullFloat64{Float64: *p.CapacityKwp, Valid: true}
		}
		var lastSeen sql.NullInt64
		if p.LastSeenOnlineAt != nil {
			lastSeen = sql.NullInt64{Int64: p.LastSeenOnlineAt.Unix(), Valid: true}
		}
		_, err = stmt.ExecContext(ctx,
			p.Name, p.Brand, p.Status, capacity,
			p.PowerKw, p.DailyYieldKwh, lastSeen,
		)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s Store) PlantIDsByName(ctx context.Context, names []string) (map[string]int64, error) {
	if len(names) == 0 {
		return map[string]int64{}, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(names)), ",")
	args := make([]any, len(names))
	for i, n := range names {
		args[i] = n
	}

	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(
		`SELECT id, name FROM plants WHERE name IN (%s)`, placeholders,
	), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]int64, len(names))
	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		out[name] = id
	}
	return out, rows.Err()
}

func (s Store) InsertReadings(ctx context.Context, readings []Reading) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO readings (plant_id, observed_at, power_kw, daily_yield_kwh)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, r := range readings {
		_, err = stmt.ExecContext(ctx,
			r.PlantID, r.ObservedAt.Unix(), r.PowerKw, r.DailyYieldKwh,
		)
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ListPlants returns the current state of every plant, for the CLI.
func (s Store) ListPlants(ctx context.Context) ([]Plant, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, brand, status, capacity_kwp, power_kw, daily_yield_kwh, last_seen_online_at
		FROM plants ORDER BY brand, name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Plant
	for rows.Next() {
		var p Plant
		var capacity sql.NullFloat64
		var lastSeen sql.NullInt64
		err := rows.Scan(
			&p.ID, &p.Name, &p.Brand, &p.Status,
			&capacity, &p.PowerKw, &p.DailyYieldKwh, &lastSeen,
		)
		if err != nil {
			return nil, err
		}
		if capacity.Valid {
			p.CapacityKwp = &capacity.Float64
		}
		if lastSeen.Valid {
			t := time.Unix(lastSeen.Int64, 0)
			p.LastSeenOnlineAt = &t
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// CountReadings is the number of readings stored for a plant.
func (s Store) CountReadings(ctx context.Context, plantID int64) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM readings WHERE plant_id = ?`, plantID,
	).Scan(&count)
	return count, err
}
