package cli

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteSeriesCSV(t *testing.T) {
	t.Parallel()
	sol := solve(t, eds())
	var buf bytes.Buffer
	require.NoError(t, WriteSeriesCSV(&buf, sol))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, len(sol.Points)+1)
	assert.Equal(t, []string{"t", "t_cosmic", "a", "H"}, records[0])

	present := records[sol.Present()+1]
	assert.Equal(t, "0", present[0])
	assert.Equal(t, "1", present[2])
	assert.NotEmpty(t, present[1], "EdS has a Big Bang, cosmic time must be set")
}

func TestWriteSeriesCSVWithoutBigBang(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	require.NoError(t, WriteSeriesCSV(&buf, solve(t, deSitter())))
	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	for _, r := range records[1:] {
		assert.Empty(t, r[1])
	}
}

func TestWriteSeriesToFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "nested", "dir", "series.csv")
	require.NoError(t, WriteSeriesToFile(path, solve(t, eds())))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "t,t_cosmic,a,H\n"))
}

func TestWriteJSON(t *testing.T) {
	t.Parallel()
	var one bytes.Buffer
	require.NoError(t, WriteJSON(&one, 50, solve(t, lcdm())))
	var summary map[string]any
	require.NoError(t, json.Unmarshal(one.Bytes(), &summary))
	assert.Equal(t, "flat", summary["geometry"])
	assert.InDelta(t, 0.964, summary["age"].(float64), 0.02)
	assert.LessOrEqual(t, len(summary["points"].([]any)), 51)

	var many bytes.Buffer
	require.NoError(t, WriteJSON(&many, 0, solve(t, eds()), solve(t, deSitter())))
	var list []map[string]any
	require.NoError(t, json.Unmarshal(many.Bytes(), &list))
	require.Len(t, list, 2)
	assert.Nil(t, list[1]["age"], "de Sitter has no finite age")
	assert.NotContains(t, list[0], "points")
}

func TestWriteOutputs(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	cfg := OutputConfig{
		OutputFile: filepath.Join(dir, "a.csv"),
		PNGFile:    filepath.Join(dir, "plots", "a.png"),
	}
	var out bytes.Buffer
	require.NoError(t, WriteOutputs(&out, solve(t, eds()), cfg))
	assert.Contains(t, out.String(), "Series saved to: "+cfg.OutputFile)
	assert.Contains(t, out.String(), "Plot saved to: "+cfg.PNGFile)

	png, err := os.ReadFile(cfg.PNGFile)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG")))

	out.Reset()
	cfg.Quiet = true
	require.NoError(t, WriteOutputs(&out, solve(t, eds()), cfg))
	assert.Empty(t, out.String())
}
