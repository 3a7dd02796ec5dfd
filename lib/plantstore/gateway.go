package plantstore

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("solarsync.lib.plantstore")

// CommitRow is one deduplicated plant observation.
type CommitRow struct {
	Name          string
	Status        string
	CapacityKwp   *float64
	PowerKw       float64
	DailyYieldKwh float64
}

// CommitRequest is one page worth of observations for one vendor.
type CommitRequest struct {
	Brand      string
	ObservedAt time.Time
	Rows       []CommitRow
}

// Gateway turns a batch of observations into the two storage writes:
// a plant upsert keyed by name and an append of one reading per
// resolved plant.
type Gateway struct {
	client Client
}

func NewGateway(client Client) Gateway {
	return Gateway{client: client}
}

// Commit persists one batch. Rows whose plant id cannot be resolved
// after the upsert are skipped and logged, never fatal to the batch.
func (g Gateway) Commit(ctx context.Context, req CommitRequest) error {
	ctx, span := tracer.Start(ctx, "gateway:Commit")
	defer span.End()
	span.SetAttributes(
		attribute.String("brand", req.Brand),
		attribute.Int("rows", len(req.Rows)),
	)

	if len(req.Rows) == 0 {
		return nil
	}

	plants := make([]Plant, len(req.Rows))
	names := make([]string, len(req.Rows))
	for i, row := range req.Rows {
		names[i] = row.Name
		plants[i] = Plant{
			Name:          row.Name,
			Brand:         req.Brand,
			Status:        row.Status,
			CapacityKwp:   row.CapacityKwp,
			PowerKw:       row.PowerKw,
			DailyYieldKwh: row.DailyYieldKwh,
		}
		// an offline observation must not erase when the plant was
		// last seen working
		if row.Status != "offline" {
			t := req.ObservedAt
			plants[i].LastSeenOnlineAt = &t
		}
	}

	err := g.client.UpsertPlants(ctx, plants)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to upsert plants")
		return fmt.Errorf("failed to upsert plants: %w", err)
	}

	ids, err := g.client.PlantIDsByName(ctx, names)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to resolve plant ids")
		return fmt.Errorf("failed to resolve plant ids: %w", err)
	}

	readings := make([]Reading, 0, len(req.Rows))
	for _, row := range req.Rows {
		id, ok := ids[row.Name]
		if !ok {
			slog.WarnContext(ctx, "skipping reading for unresolved plant",
				"brand", req.Brand, "plant", row.Name)
			continue
		}
		readings = append(readings, Reading{
			PlantID:       id,
			ObservedAt:    req.ObservedAt,
			PowerKw:       row.PowerKw,
			DailyYieldKwh: row.DailyYieldKwh,
		})
	}

	err = g.client.InsertReadings(ctx, readings)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to insert readings")
		return fmt.Errorf("failed to insert readings: %w", err)
	}

	span.SetStatus(codes.Ok, "")
	return nil
}
