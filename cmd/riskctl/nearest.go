package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/terrainalert/landslide-risk-service/internal/terrain"
)

var nearestTerrain string

var nearestCmd = &cobra.Command{
	Use:   "nearest LAT LON",
	Short: "Print the terrain sample nearest to a coordinate",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		lat, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return fmt.Errorf("invalid latitude %q", args[0])
		}
		lon, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("invalid longitude %q", args[1])
		}

		samples, _, err := terrain.LoadCSVFile(nearestTerrain)
		if err != nil {
			return err
		}
		idx, err := terrain.Build(samples)
		if err != nil {
			return err
		}

		m := idx.Nearest(lat, lon)
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "position   %d of %d\n", m.Position, idx.Len())
		fmt.Fprintf(out, "latitude   %g\n", m.Sample.Latitude)
		fmt.Fprintf(out, "longitude  %g\n", m.Sample.Longitude)
		fmt.Fprintf(out, "elevation  %g\n", m.Sample.Elevation)
		fmt.Fprintf(out, "slope      %g\n", m.Sample.Slope)
		fmt.Fprintf(out, "aspect     %g\n", m.Sample.Aspect)
		fmt.Fprintf(out, "distance   %.6f deg\n", m.Distance)
		return nil
	},
}

func init() {
	nearestCmd.Flags().StringVar(&nearestTerrain, "terrain", "", "terrain CSV file (required)")
	_ = nearestCmd.MarkFlagRequired("terrain")
	rootCmd.AddCommand(nearestCmd)
}
