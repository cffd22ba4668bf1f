package journal

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"
)

// CSV is a Journal writing fills and equity snapshots to two CSV
// files. Run summaries are not exported; they belong to the SQLite
// backend.
type CSV struct {
	fills  *csv.Writer
	equity *csv.Writer
	ff, ef *os.File
}

func NewCSV(fillsPath, equityPath string) (*CSV, error) {
	ff, err := os.Create(fillsPath)
	if err != nil {
		return nil, err
	}
	ef, err := os.Create(equityPath)
	if err != nil {
		ff.Close()
		return nil, err
	}

	fw := csv.NewWriter(ff)
	ew := csv.NewWriter(ef)

	closeBoth := func() {
		ff.Close()
		ef.Close()
	}

	if err := fw.Write([]string{"run_id", "instrument", "time", "side", "shares", "price", "commission", "realized_pl", "reason", "layer"}); err != nil {
		closeBoth()
		return nil, err
	}
	if err := ew.Write([]string{"run_id", "time", "cash", "shares", "equity"}); err != nil {
		closeBoth()
		return nil, err
	}

	fw.Flush()
	ew.Flush()
	if err := fw.Error(); err != nil {
		closeBoth()
		return nil, err
	}
	if err := ew.Error(); err != nil {
		closeBoth()
		return nil, err
	}

	return &CSV{fw, ew, ff, ef}, nil
}

func (j *CSV) RecordFill(rec FillRecord) error {
	j.fills.Write([]string{
		rec.RunID,
		rec.Instrument,
		rec.Time.Format(time.RFC3339),
		rec.Side,
		strconv.Itoa(rec.Shares),
		f(rec.Price),
		f(rec.Commission),
		f(rec.RealizedPL),
		rec.Reason,
		strconv.Itoa(rec.Layer),
	})
	j.fills.Flush()
	return j.fills.Error()
}

func (j *CSV) RecordEquity(rec EquitySnapshot) error {
	j.equity.Write([]string{
		rec.RunID,
		rec.Time.Format(time.RFC3339),
		f(rec.Cash),
		strconv.Itoa(rec.Shares),
		f(rec.Equity),
	})
	j.equity.Flush()
	return j.equity.Error()
}

func (j *CSV) RecordRun(RunRecord) error {
	// Summaries live in the SQLite backend; the CSV export carries the
	// raw fills and curve only.
	return nil
}

func (j *CSV) Close() error {
	j.fills.Flush()
	j.equity.Flush()
	if err := j.fills.Error(); err != nil {
		return err
	}
	if err := j.equity.Error(); err != nil {
		return err
	}
	if err := j.ff.Close(); err != nil {
		return err
	}
	return j.ef.Close()
}

func f(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
