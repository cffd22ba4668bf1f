package backtest

import (
	"compress/gzip"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleCSV = `date,open,high,low,close,volume
2024-01-02,100,102,99,101,120000
2024-01-03,101,103,100,102,98000

2024-01-04,102,104,101,103,87000
`

func TestReadBarsParsesRows(t *testing.T) {
	bars, err := ReadBars(strings.NewReader(sampleCSV))
	require.NoError(t, err)
	require.Len(t, bars, 3)

	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), bars[0].Time)
	assert.InDelta(t, 100.0, bars[0].Open, 1e-9)
	assert.InDelta(t, 102.0, bars[0].High, 1e-9)
	assert.InDelta(t, 99.0, bars[0].Low, 1e-9)
	assert.InDelta(t, 101.0, bars[0].Close, 1e-9)
	assert.InDelta(t, 120000.0, bars[0].Volume, 1e-9)
	assert.InDelta(t, 103.0, bars[2].Close, 1e-9)
}

func TestReadBarsWithoutHeader(t *testing.T) {
	bars, err := ReadBars(strings.NewReader("2024-01-02,100,102,99,101,1000\n"))
	require.NoError(t, err)
	assert.Len(t, bars, 1)
}

func TestReadBarsNoVolumeColumn(t *testing.T) {
	bars, err := ReadBars(strings.NewReader("2024-01-02,100,102,99,101\n"))
	require.NoError(t, err)
	require.Len(t, bars, 1)
	assert.Equal(t, 0.0, bars[0].Volume)
}

func TestReadBarsBadPrice(t *testing.T) {
	_, err := ReadBars(strings.NewReader("2024-01-02,100,xx,99,101,1000\n"))
	assert.Error(t, err)
}

func TestLoadBarsPlainFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "600519.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0644))

	set, err := LoadBars(path, "")
	require.NoError(t, err)
	assert.Equal(t, "600519", set.Instrument)
	assert.Equal(t, 3, set.Len())
	assert.NoError(t, set.Validate())
}

func TestLoadBarsGzip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "600036.csv.gz")

	f, err := os.Create(path)
	require.NoError(t, err)
	zw := gzip.NewWriter(f)
	_, err = zw.Write([]byte(sampleCSV))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	set, err := LoadBars(path, "")
	require.NoError(t, err)
	assert.Equal(t, "600036", set.Instrument)
	assert.Equal(t, 3, set.Len())
}

func TestLoadBarsExplicitInstrument(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dataset.csv")
	require.NoError(t, os.WriteFile(path, []byte(sampleCSV), 0644))

	set, err := LoadBars(path, "601318")
	require.NoError(t, err)
	assert.Equal(t, "601318", set.Instrument)
}

func TestDatasetName(t *testing.T) {
	assert.Equal(t, "600519", datasetName("data/600519.csv.xz"))
	assert.Equal(t, "600519", datasetName("600519.csv"))
	assert.Equal(t, "600519", datasetName("600519"))
}
