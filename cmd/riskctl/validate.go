package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/terrainalert/landslide-risk-service/internal/classifier"
	"github.com/terrainalert/landslide-risk-service/internal/domain"
	"github.com/terrainalert/landslide-risk-service/internal/terrain"
)

var (
	validateTerrain string
	validateModel   string
)

var errValidationFailed = errors.New("validation failed")

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a terrain dataset and model file for integrity",
	Long: "Runs phased checks over a terrain CSV: parse statistics, duplicate coordinates, " +
		"and value ranges. With --model, also checks the model's feature order and that " +
		"it scores every sample inside [0,1].",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runValidate(cmd.Context(), cmd.OutOrStdout(), validateTerrain, validateModel)
	},
}

func init() {
	validateCmd.Flags().StringVar(&validateTerrain, "terrain", "", "terrain CSV file (required)")
	validateCmd.Flags().StringVar(&validateModel, "model", "", "logistic model YAML file")
	_ = validateCmd.MarkFlagRequired("terrain")
	rootCmd.AddCommand(validateCmd)
}

// phase tracks pass/fail for a validation phase.
type phase struct {
	name     string
	errors   []string
	warnings []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) warnf(format string, args ...any) {
	p.warnings = append(p.warnings, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func runValidate(ctx context.Context, out io.Writer, terrainPath, modelPath string) error {
	fmt.Fprintln(out, "=== Terrain Dataset Validation ===")
	fmt.Fprintln(out)

	samples, stats, err := terrain.LoadCSVFile(terrainPath)
	if err != nil {
		return fmt.Errorf("load terrain: %w", err)
	}

	phases := []*phase{
		validateParse(samples, stats),
		validateUniqueness(samples),
		validateRanges(samples),
	}
	if modelPath != "" {
		phases = append(phases, validateModelFile(ctx, modelPath, samples))
	}

	allPassed := true
	for _, p := range phases {
		status := "PASS"
		if !p.passed() {
			status = fmt.Sprintf("FAIL (%d errors)", len(p.errors))
			allPassed = false
		} else if len(p.warnings) > 0 {
			status = fmt.Sprintf("PASS (%d warnings)", len(p.warnings))
		}
		fmt.Fprintf(out, "  %-32s %s\n", p.name, status)
	}

	fmt.Fprintln(out)
	fmt.Fprintf(out, "Rows: %d read, %d skipped, %d usable\n", stats.Read, stats.Skipped, len(samples))

	for _, p := range phases {
		if len(p.errors) == 0 && len(p.warnings) == 0 {
			continue
		}
		fmt.Fprintf(out, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Fprintf(out, "  [%d] %s\n", i+1, e)
		}
		for _, w := range p.warnings {
			fmt.Fprintf(out, "  warning: %s\n", w)
		}
	}

	if !allPassed {
		fmt.Fprintln(out, "\nValidation FAILED.")
		return errValidationFailed
	}
	fmt.Fprintln(out, "\nAll validations passed.")
	return nil
}

func validateParse(samples []domain.TerrainSample, stats terrain.LoadStats) *phase {
	p := &phase{name: "Dataset parse"}
	if len(samples) == 0 {
		p.errorf("no usable samples in %d rows", stats.Read)
	}
	if stats.Skipped > 0 {
		p.warnf("%d rows skipped for empty or non-numeric values", stats.Skipped)
	}
	return p
}

// validateUniqueness flags repeated coordinates. Nearest lookups resolve
// them to the first occurrence, so later rows are unreachable.
func validateUniqueness(samples []domain.TerrainSample) *phase {
	p := &phase{name: "Coordinate uniqueness"}
	seen := make(map[[2]float64]int, len(samples))
	for i, s := range samples {
		key := [2]float64{s.Latitude, s.Longitude}
		if first, ok := seen[key]; ok {
			p.errorf("sample %d duplicates sample %d at (%g, %g)", i, first, s.Latitude, s.Longitude)
			continue
		}
		seen[key] = i
	}
	return p
}

func validateRanges(samples []domain.TerrainSample) *phase {
	p := &phase{name: "Value ranges"}
	for i, s := range samples {
		if s.Latitude < -90 || s.Latitude > 90 {
			p.errorf("sample %d: latitude %g outside [-90, 90]", i, s.Latitude)
		}
		if s.Longitude < -180 || s.Longitude > 180 {
			p.errorf("sample %d: longitude %g outside [-180, 180]", i, s.Longitude)
		}
		if s.Slope < 0 || s.Slope > 90 {
			p.errorf("sample %d: slope %g outside [0, 90]", i, s.Slope)
		}
		// -1 marks flat cells with no defined aspect.
		if s.Aspect != -1 && (s.Aspect < 0 || s.Aspect > 360) {
			p.errorf("sample %d: aspect %g is neither -1 nor within [0, 360]", i, s.Aspect)
		}
		if s.Elevation < -500 || s.Elevation > 9000 {
			p.warnf("sample %d: elevation %g m is implausible", i, s.Elevation)
		}
	}
	return p
}

// validateModelFile loads the model and scores every sample under calm
// weather to confirm the output stays a probability.
func validateModelFile(ctx context.Context, path string, samples []domain.TerrainSample) *phase {
	p := &phase{name: "Model schema"}
	clf, err := classifier.LoadLogistic(path)
	if err != nil {
		p.errorf("%v", err)
		return p
	}

	calm := domain.WeatherObservation{TemperatureC: 20, HumidityPercent: 60}
	for i, s := range samples {
		prob, err := clf.Score(ctx, domain.Assemble(s, calm))
		if err != nil {
			p.errorf("sample %d: %v", i, err)
			continue
		}
		if err := domain.ValidateProbability(prob); err != nil {
			p.errorf("sample %d: %v", i, err)
		}
	}
	return p
}
