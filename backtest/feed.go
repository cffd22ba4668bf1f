package backtest

import (
	"compress/gzip"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/quantlab/ashare/market"
	"github.com/ulikunitz/xz"
)

// LoadBars reads a daily-bar CSV dataset:
//
//	date,open,high,low,close,volume
//
// where date is 2006-01-02 (RFC3339 also accepted). A header row is
// allowed; empty and short rows are skipped. Files ending in .gz or
// .xz are decompressed transparently. The instrument name is the file
// base name without extensions unless instrument is non-empty.
func LoadBars(path, instrument string) (*market.BarSet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var r io.Reader = f
	switch {
	case strings.HasSuffix(path, ".gz"):
		zr, err := gzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		defer zr.Close()
		r = zr
	case strings.HasSuffix(path, ".xz"):
		xr, err := xz.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		r = xr
	}

	if instrument == "" {
		instrument = datasetName(path)
	}

	bars, err := ReadBars(r)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return market.NewBarSet(instrument, bars), nil
}

// ReadBars parses bar CSV rows from r.
func ReadBars(r io.Reader) ([]market.Bar, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	var (
		bars     []market.Bar
		sawFirst bool
	)
	for {
		row, err := cr.Read()
		if err == io.EOF {
			return bars, nil
		}
		if err != nil {
			return nil, err
		}
		if len(row) == 0 {
			continue
		}

		// Allow a single header row
		if !sawFirst {
			sawFirst = true
			if strings.EqualFold(strings.TrimSpace(row[0]), "date") {
				continue
			}
		}

		b, ok, err := parseBarRow(row)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		bars = append(bars, b)
	}
}

func parseBarRow(row []string) (market.Bar, bool, error) {
	// Need at least: date,open,high,low,close
	if len(row) < 5 {
		return market.Bar{}, false, nil
	}

	ds := strings.TrimSpace(row[0])
	if ds == "" {
		return market.Bar{}, false, nil
	}
	t, err := time.Parse("2006-01-02", ds)
	if err != nil {
		t2, err2 := time.Parse(time.RFC3339, ds)
		if err2 != nil {
			return market.Bar{}, false, fmt.Errorf("bad date %q: %w", ds, err)
		}
		t = t2
	}

	var b market.Bar
	b.Time = t

	fields := []*float64{&b.Open, &b.High, &b.Low, &b.Close}
	for i, dst := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(row[i+1]), 64)
		if err != nil {
			return market.Bar{}, false, fmt.Errorf("bad field %q: %w", row[i+1], err)
		}
		*dst = v
	}
	if len(row) > 5 && strings.TrimSpace(row[5]) != "" {
		v, err := strconv.ParseFloat(strings.TrimSpace(row[5]), 64)
		if err != nil {
			return market.Bar{}, false, fmt.Errorf("bad volume %q: %w", row[5], err)
		}
		b.Volume = v
	}
	return b, true, nil
}

// datasetName strips the directory and all extensions:
// data/600519.csv.xz -> 600519.
func datasetName(path string) string {
	name := filepath.Base(path)
	for {
		ext := filepath.Ext(name)
		if ext == "" {
			return name
		}
		name = strings.TrimSuffix(name, ext)
	}
}
