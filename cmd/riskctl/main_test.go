package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testTerrainCSV = "../../internal/terrain/testdata/terrain_sample.csv"
	testModel      = "../../model/landslide_model.yaml"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })
	err := rootCmd.Execute()
	return out.String(), err
}

func TestRootCommand_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, name := range []string{"nearest", "validate", "score", "assess", "gengrid"} {
		assert.True(t, names[name], "expected subcommand %q not found", name)
	}
}

func TestRootCommand_Metadata(t *testing.T) {
	assert.Equal(t, "riskctl", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)
}

func TestNearestCommand(t *testing.T) {
	out, err := execute(t, "nearest", "--terrain", testTerrainCSV, "10.12", "76.09")
	require.NoError(t, err)
	assert.Contains(t, out, "latitude   10.1\n")
	assert.Contains(t, out, "longitude  76.1\n")
	assert.Contains(t, out, "slope      31.4\n")
}

func TestNearestCommand_BadCoordinate(t *testing.T) {
	_, err := execute(t, "nearest", "--terrain", testTerrainCSV, "north", "76.0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid latitude")
}

func TestNearestCommand_RequiresTerrain(t *testing.T) {
	flag := nearestCmd.Flags().Lookup("terrain")
	require.NotNil(t, flag)
}

func TestScoreCommand(t *testing.T) {
	out, err := execute(t, "score", "--model", testModel,
		"--rainfall", "12.5", "--slope", "30", "--aspect", "215",
		"--elevation", "1200", "--temperature", "24", "--humidity", "80")
	require.NoError(t, err)
	assert.Contains(t, out, "rainfall_mm")
	assert.Less(t, strings.Index(out, "rainfall_mm"), strings.Index(out, "humidity_percent"))
	assert.Contains(t, out, "tier              HIGH (HIGH RISK)")
}

func TestScoreCommand_Flags(t *testing.T) {
	flag := scoreCmd.Flags().Lookup("model")
	require.NotNil(t, flag)
	assert.Equal(t, "model/landslide_model.yaml", flag.DefValue)
}

func TestValidate_Passes(t *testing.T) {
	var out bytes.Buffer
	err := runValidate(context.Background(), &out, testTerrainCSV, testModel)
	require.NoError(t, err)

	s := out.String()
	assert.Contains(t, s, "Dataset parse")
	assert.Contains(t, s, "PASS (1 warnings)")
	assert.Contains(t, s, "Model schema")
	assert.Contains(t, s, "Rows: 6 read, 2 skipped, 4 usable")
	assert.Contains(t, s, "All validations passed.")
}

func TestValidate_Failures(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.csv")
	data := "latitude,longitude,elevation,slope,aspect\n" +
		"10.0,76.0,100,5,90\n" +
		"10.0,76.0,120,6,95\n" +
		"95.0,76.2,130,120,400\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	var out bytes.Buffer
	err := runValidate(context.Background(), &out, path, "")
	require.ErrorIs(t, err, errValidationFailed)

	s := out.String()
	assert.Contains(t, s, "sample 1 duplicates sample 0")
	assert.Contains(t, s, "latitude 95 outside")
	assert.Contains(t, s, "slope 120 outside")
	assert.Contains(t, s, "aspect 400")
	assert.Contains(t, s, "Validation FAILED.")
}

func TestValidate_BadModel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.yaml")
	require.NoError(t, os.WriteFile(path, []byte("features: [slope_angle]\n"), 0o600))

	var out bytes.Buffer
	err := runValidate(context.Background(), &out, testTerrainCSV, path)
	require.ErrorIs(t, err, errValidationFailed)
	assert.Contains(t, out.String(), "do not match schema")
}

func TestValidate_MissingFile(t *testing.T) {
	var out bytes.Buffer
	err := runValidate(context.Background(), &out, filepath.Join(t.TempDir(), "none.csv"), "")
	require.Error(t, err)
	assert.NotErrorIs(t, err, errValidationFailed)
}
