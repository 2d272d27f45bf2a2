package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"os"

	"github.com/jszwec/csvutil"
	"github.com/spf13/cobra"
)

const metresPerDegree = 111_320.0

// gridSpec describes a synthetic terrain grid anchored at its south-west
// corner.
type gridSpec struct {
	Lat, Lon   float64
	Rows, Cols int
	Step       float64 // degrees between cells
	Relief     float64 // peak-to-mean elevation in metres
	Seed       uint64
}

// gridRow is one output CSV row, in the column order the service loads.
type gridRow struct {
	Latitude  float64 `csv:"latitude"`
	Longitude float64 `csv:"longitude"`
	Elevation float64 `csv:"elevation"`
	Slope     float64 `csv:"slope"`
	Aspect    float64 `csv:"aspect"`
}

var (
	gengridOut  string
	gengridSpec = gridSpec{Lat: 9.5, Lon: 76.5, Rows: 40, Cols: 40, Step: 0.01, Relief: 700, Seed: 42}
)

var gengridCmd = &cobra.Command{
	Use:   "gengrid",
	Short: "Write a deterministic synthetic terrain grid as CSV",
	Long: "Generates an elevation surface over a regular lat/lon grid and derives slope and " +
		"aspect from central differences. The same flags always produce the same file.",
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if gengridSpec.Rows < 1 || gengridSpec.Cols < 1 || gengridSpec.Step <= 0 {
			return fmt.Errorf("rows, cols and step must be positive")
		}

		rows := generateGrid(gengridSpec)

		out := cmd.OutOrStdout()
		if gengridOut != "-" {
			f, err := os.Create(gengridOut)
			if err != nil {
				return fmt.Errorf("create %s: %w", gengridOut, err)
			}
			defer f.Close()
			out = f
		}
		if err := writeGrid(out, rows); err != nil {
			return err
		}
		if gengridOut != "-" {
			fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d samples to %s\n", len(rows), gengridOut)
		}
		return nil
	},
}

func init() {
	f := gengridCmd.Flags()
	f.StringVar(&gengridOut, "out", "-", "output CSV path, - for stdout")
	f.Float64Var(&gengridSpec.Lat, "lat", gengridSpec.Lat, "south-west corner latitude")
	f.Float64Var(&gengridSpec.Lon, "lon", gengridSpec.Lon, "south-west corner longitude")
	f.IntVar(&gengridSpec.Rows, "rows", gengridSpec.Rows, "cells north-south")
	f.IntVar(&gengridSpec.Cols, "cols", gengridSpec.Cols, "cells east-west")
	f.Float64Var(&gengridSpec.Step, "step", gengridSpec.Step, "cell size in degrees")
	f.Float64Var(&gengridSpec.Relief, "relief", gengridSpec.Relief, "elevation relief in metres")
	f.Uint64Var(&gengridSpec.Seed, "seed", gengridSpec.Seed, "noise seed")
	rootCmd.AddCommand(gengridCmd)
}

// generateGrid returns spec.Rows*spec.Cols samples in row-major order,
// south to north and west to east.
func generateGrid(spec gridSpec) []gridRow {
	// Elevation is computed with a one-cell border so every output cell has
	// neighbours on all four sides.
	h, w := spec.Rows+2, spec.Cols+2
	rng := rand.New(rand.NewPCG(spec.Seed, spec.Seed^0x9e3779b97f4a7c15))
	z := make([][]float64, h)
	for r := range z {
		z[r] = make([]float64, w)
		for c := range z[r] {
			z[r][c] = elevationAt(spec, r-1, c-1) + (rng.Float64()-0.5)*spec.Relief/25
		}
	}

	out := make([]gridRow, 0, spec.Rows*spec.Cols)
	for r := 1; r <= spec.Rows; r++ {
		lat := spec.Lat + float64(r-1)*spec.Step
		dy := spec.Step * metresPerDegree
		dx := dy * math.Cos(lat*math.Pi/180)
		for c := 1; c <= spec.Cols; c++ {
			dzdx := (z[r][c+1] - z[r][c-1]) / (2 * dx)
			dzdy := (z[r+1][c] - z[r-1][c]) / (2 * dy)
			slope, aspect := slopeAspect(dzdx, dzdy)
			out = append(out, gridRow{
				Latitude:  round(lat, 6),
				Longitude: round(spec.Lon+float64(c-1)*spec.Step, 6),
				Elevation: round(math.Max(z[r][c], 0), 2),
				Slope:     round(slope, 2),
				Aspect:    round(aspect, 2),
			})
		}
	}
	return out
}

// elevationAt is a smooth ridge-and-valley surface over grid coordinates.
func elevationAt(spec gridSpec, r, c int) float64 {
	u := float64(r) / float64(max(spec.Rows, 1))
	v := float64(c) / float64(max(spec.Cols, 1))
	base := spec.Relief * 1.3
	ridge := math.Sin(2*math.Pi*1.3*u) * math.Cos(2*math.Pi*0.9*v)
	tilt := 0.35 * (u - v)
	return base + spec.Relief*(ridge+tilt)
}

// slopeAspect converts east and north gradients to slope in degrees and the
// compass bearing of the downslope direction. Flat cells get aspect -1.
func slopeAspect(dzdx, dzdy float64) (slope, aspect float64) {
	g := math.Hypot(dzdx, dzdy)
	slope = math.Atan(g) * 180 / math.Pi
	if g < 1e-9 {
		return slope, -1
	}
	aspect = math.Atan2(-dzdx, -dzdy) * 180 / math.Pi
	if aspect < 0 {
		aspect += 360
	}
	return slope, aspect
}

func writeGrid(w io.Writer, rows []gridRow) error {
	cw := csv.NewWriter(w)
	if err := csvutil.NewEncoder(cw).Encode(rows); err != nil {
		return fmt.Errorf("encode grid: %w", err)
	}
	cw.Flush()
	return cw.Error()
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
