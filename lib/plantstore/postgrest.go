package plantstore

import (
	"context"
	"fmt"
	"solarsync-backend/lib/telemetry"
	"solarsync-backend/lib/timezone"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// PostgrestClient implements Client against a hosted PostgREST api
// (supabase), using the original portuguese table and column names so
// the existing dashboards keep working.
type PostgrestClient struct {
	http *resty.Client
}

type PostgrestConfig struct {
	Url    string `json:"url"`
	ApiKey string `json:"api_key"`
}

func NewPostgrestClient(config PostgrestConfig) *PostgrestClient {
	client := resty.New().
		SetBaseURL(strings.TrimSuffix(config.Url, "/")).
		SetHeader("apikey", config.ApiKey).
		SetHeader("Authorization", fmt.Sprintf("Bearer %s", config.ApiKey)).
		SetHeader("Content-Type", "application/json")
	telemetry.InstrumentResty(client, "solarsync.lib.plantstore.postgrest")
	return &PostgrestClient{http: client}
}

type postgrestPlant struct {
	Name          string   `json:"nome_cliente"`
	Brand         string   `json:"marca"`
	Status        string   `json:"status"`
	CapacityKwp   *float64 `json:"potencia_kwp"`
	PowerKw       float64  `json:"potencia_atual_kw"`
	DailyYieldKwh float64  `json:"geracao_dia_kwh"`
	LastSeenAt    string   `json:"ultima_atualizacao,omitempty"`
}

type postgrestReading struct {
	PlantID       int64   `json:"usina_id"`
	ObservedAt    string  `json:"data_hora"`
	PowerKw       float64 `json:"potencia_atual_kw"`
	DailyYieldKwh float64 `json:"geracao_dia_kwh"`
}

func formatTime(t time.Time) string {
	return t.In(timezone.Location).Format(time.RFC3339)
}

// UpsertPlants posts with resolution=merge-duplicates keyed on the
// unique nome_cliente. Rows with and without a last-seen timestamp go
// in separate requests: postgrest requires uniform keys per payload,
// and omitting the column is what preserves the stored value.
func (c *PostgrestClient) UpsertPlants(ctx context.Context, plants []Plant) error {
	var withSeen, withoutSeen []postgrestPlant
	for _, p := range plants {
		row := postgrestPlant{
			Name:          p.Name,
			Brand:         p.Brand,
			Status:        p.Status,
			CapacityKwp:   p.CapacityKwp,
			PowerKw:       p.PowerKw,
			DailyYieldKwh: p.DailyYieldKwh,
		}
		if p.LastSeenOnlineAt != nil {
			row.LastSeenAt = formatTime(*p.LastSeenOnlineAt)
			withSeen = append(withSeen, row)
		} else {
			withoutSeen = append(withoutSeen, row)
		}
	}

	for _, batch := range [][]postgrestPlant{withSeen, withoutSeen} {
		if len(batch) == 0 {
			continue
		}
		res, err := c.http.R().
			SetContext(ctx).
			SetQueryParam("on_conflict", "nome_cliente").
			SetHeader("Prefer", "resolution=merge-duplicates").
			SetBody(batch).
			Post("/rest/v1/usinas")
		if err != nil {
			return err
		}
		if res.IsError() {
			return fmt.Errorf("upsert failed: %s: %s", res.Status(), res.String())
		}
	}
	return nil
}

func (c *PostgrestClient) PlantIDsByName(ctx context.Context, names []string) (map[string]int64, error) {
	if len(names) == 0 {
		return map[string]int64{}, nil
	}

	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = fmt.Sprintf("%q", strings.ReplaceAll(n, `"`, ``))
	}

	var rows []struct {
		ID   int64  `json:"id"`
		Name string `json:"nome_cliente"`
	}
	res, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("select", "id,nome_cliente").
		SetQueryParam("nome_cliente", fmt.Sprintf("in.(%s)", strings.Join(quoted, ","))).
		SetResult(&rows).
		Get("/rest/v1/usinas")
	if err != nil {
		return nil, err
	}
	if res.IsError() {
		return nil, fmt.Errorf("id lookup failed: %s: %s", res.Status(), res.String())
	}

	out := make(map[string]int64, len(rows))
	for _, r := range rows {
		out[r.Name] = r.ID
	}
	return out, nil
}

func (c *PostgrestClient) InsertReadings(ctx context.Context, readings []Reading) error {
	if len(readings) == 0 {
		return nil
	}

	rows := make([]postgrestReading, len(readings))
	for i, r := range readings {
		rows[i] = postgrestReading{
			PlantID:       r.PlantID,
			ObservedAt:    formatTime(r.ObservedAt),
			PowerKw:       r.PowerKw,
			DailyYieldKwh: r.DailyYieldKwh,
		}
	}

	res, err := c.http.R().
		SetContext(ctx).
		SetBody(rows).
		Post("/rest/v1/leituras_diarias")
	if err != nil {
		return err
	}
	if res.IsError() {
		return fmt.Errorf("reading insert failed: %s: %s", res.Status(), res.String())
	}
	return nil
}
