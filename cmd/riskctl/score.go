package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/terrainalert/landslide-risk-service/internal/classifier"
	"github.com/terrainalert/landslide-risk-service/internal/domain"
)

var (
	scoreModel    string
	scoreFeatures domain.FeatureVector
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score one feature vector with a logistic model file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		clf, err := classifier.LoadLogistic(scoreModel)
		if err != nil {
			return err
		}
		if err := scoreFeatures.Validate(); err != nil {
			return err
		}

		p, err := clf.Score(cmd.Context(), scoreFeatures)
		if err != nil {
			return err
		}
		if err := domain.ValidateProbability(p); err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for i, v := range scoreFeatures.Values() {
			fmt.Fprintf(out, "%-17s %g\n", domain.FeatureNames[i], v)
		}
		tier := domain.TierFor(p)
		fmt.Fprintf(out, "%-17s %.4f\n", "probability", p)
		fmt.Fprintf(out, "%-17s %s (%s)\n", "tier", tier, tier.Label())
		return nil
	},
}

func init() {
	f := scoreCmd.Flags()
	f.StringVar(&scoreModel, "model", "model/landslide_model.yaml", "logistic model YAML file")
	f.Float64Var(&scoreFeatures.RainfallMM, "rainfall", 0, "rainfall in mm")
	f.Float64Var(&scoreFeatures.SlopeAngle, "slope", 0, "slope angle in degrees")
	f.Float64Var(&scoreFeatures.Aspect, "aspect", 0, "aspect in degrees")
	f.Float64Var(&scoreFeatures.ElevationM, "elevation", 0, "elevation in metres")
	f.Float64Var(&scoreFeatures.TemperatureC, "temperature", 0, "temperature in Celsius")
	f.Float64Var(&scoreFeatures.HumidityPercent, "humidity", 0, "relative humidity in percent")
	rootCmd.AddCommand(scoreCmd)
}
