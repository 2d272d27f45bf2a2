package terrain

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/jszwec/csvutil"

	"github.com/terrainalert/landslide-risk-service/internal/domain"
)

// requiredColumns is the header written by the offline DEM extraction.
var requiredColumns = []string{"latitude", "longitude", "elevation", "slope", "aspect"}

// LoadStats summarises a dataset load.
type LoadStats struct {
	Read    int // data rows seen
	Skipped int // rows rejected for missing or non-numeric values
}

// nullableSample uses pointers so empty cells and NULLs decode as nil rather than zero.
type nullableSample struct {
	Latitude  *float64 `csv:"latitude"`
	Longitude *float64 `csv:"longitude"`
	Elevation *float64 `csv:"elevation"`
	Slope     *float64 `csv:"slope"`
	Aspect    *float64 `csv:"aspect"`
}

func (r nullableSample) sample() (domain.TerrainSample, bool) {
	if r.Latitude == nil || r.Longitude == nil || r.Elevation == nil || r.Slope == nil || r.Aspect == nil {
		return domain.TerrainSample{}, false
	}
	s := domain.TerrainSample{
		Latitude:  *r.Latitude,
		Longitude: *r.Longitude,
		Elevation: *r.Elevation,
		Slope:     *r.Slope,
		Aspect:    *r.Aspect,
	}
	return s, s.Finite()
}

// LoadCSVFile opens path and decodes it with LoadCSV.
func LoadCSVFile(path string) ([]domain.TerrainSample, LoadStats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, LoadStats{}, fmt.Errorf("open terrain dataset: %w", err)
	}
	defer f.Close()
	return LoadCSV(f)
}

// LoadCSV decodes terrain samples from CSV with a header row. Extra columns
// are ignored. Rows with an empty, NaN or non-numeric value in any required
// column are skipped and counted in LoadStats.Skipped.
func LoadCSV(r io.Reader) ([]domain.TerrainSample, LoadStats, error) {
	var stats LoadStats

	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	dec, err := csvutil.NewDecoder(cr)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, stats, fmt.Errorf("%w: terrain dataset is empty", domain.ErrDataError)
		}
		return nil, stats, fmt.Errorf("read terrain header: %w", err)
	}
	if err := checkHeader(dec.Header()); err != nil {
		return nil, stats, err
	}

	var samples []domain.TerrainSample
	for {
		var row nullableSample
		err := dec.Decode(&row)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				return nil, stats, fmt.Errorf("parse terrain dataset: %w", err)
			}
			stats.Read++
			stats.Skipped++
			continue
		}
		stats.Read++

		s, ok := row.sample()
		if !ok {
			stats.Skipped++
			continue
		}
		samples = append(samples, s)
	}

	return samples, stats, nil
}

func checkHeader(header []string) error {
	present := make(map[string]bool, len(header))
	for _, h := range header {
		present[h] = true
	}
	for _, col := range requiredColumns {
		if !present[col] {
			return fmt.Errorf("%w: terrain dataset missing column %q", domain.ErrDataError, col)
		}
	}
	return nil
}
