package terrain

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/terrainalert/landslide-risk-service/internal/domain"
)

// Querier is the subset of a pgx pool used to read terrain samples.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

const selectSamplesSQL = `SELECT latitude, longitude, elevation, slope, aspect FROM terrain_samples ORDER BY id`

// LoadPostgres reads every row of terrain_samples ordered by id. Rows with
// a NULL or non-finite column are skipped, matching LoadCSV.
func LoadPostgres(ctx context.Context, q Querier) ([]domain.TerrainSample, LoadStats, error) {
	var stats LoadStats

	rows, err := q.Query(ctx, selectSamplesSQL)
	if err != nil {
		return nil, stats, fmt.Errorf("query terrain samples: %w", err)
	}
	defer rows.Close()

	var samples []domain.TerrainSample
	for rows.Next() {
		var lat, lon, elev, slope, aspect sql.NullFloat64
		if err := rows.Scan(&lat, &lon, &elev, &slope, &aspect); err != nil {
			return nil, stats, fmt.Errorf("scan terrain sample: %w", err)
		}
		stats.Read++

		row := nullableSample{
			Latitude:  nullableFloat(lat),
			Longitude: nullableFloat(lon),
			Elevation: nullableFloat(elev),
			Slope:     nullableFloat(slope),
			Aspect:    nullableFloat(aspect),
		}
		s, ok := row.sample()
		if !ok {
			stats.Skipped++
			continue
		}
		samples = append(samples, s)
	}
	if err := rows.Err(); err != nil {
		return nil, stats, fmt.Errorf("iterate terrain samples: %w", err)
	}

	return samples, stats, nil
}

func nullableFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	return &v.Float64
}
