package journal

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// SQLite is a Journal backed by a SQLite database file.
type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLite{db: db}, nil
}

func (j *SQLite) RecordFill(f FillRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO fills
		(run_id, instrument, time, side, shares, price, commission, realized_pl, reason, layer)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		f.RunID, f.Instrument, f.Time, f.Side, f.Shares,
		f.Price, f.Commission, f.RealizedPL, f.Reason, f.Layer,
	)
	return err
}

func (j *SQLite) RecordEquity(e EquitySnapshot) error {
	_, err := j.db.Exec(`
		INSERT INTO equity
		(run_id, time, cash, shares, equity)
		VALUES (?, ?, ?, ?, ?)`,
		e.RunID, e.Time, e.Cash, e.Shares, e.Equity,
	)
	return err
}

func (j *SQLite) RecordRun(r RunRecord) error {
	_, err := j.db.Exec(`
		INSERT INTO runs
		(run_id, created, instrument, signal, start, end,
		 initial_cash, final_equity, return_pct, trades, wins, losses)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.RunID, r.Created, r.Instrument, r.Signal, r.Start, r.End,
		r.InitialCash, r.FinalEquity, r.ReturnPct, r.Trades, r.Wins, r.Losses,
	)
	return err
}

// GetRun returns a single run summary by ID.
func (j *SQLite) GetRun(runID string) (RunRecord, error) {
	var rec RunRecord

	row := j.db.QueryRow(`
		SELECT run_id, created, instrument, signal, start, end,
		       initial_cash, final_equity, return_pct, trades, wins, losses
		FROM runs
		WHERE run_id = ?`, runID)

	err := row.Scan(
		&rec.RunID, &rec.Created, &rec.Instrument, &rec.Signal,
		&rec.Start, &rec.End, &rec.InitialCash, &rec.FinalEquity,
		&rec.ReturnPct, &rec.Trades, &rec.Wins, &rec.Losses,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return RunRecord{}, fmt.Errorf("run %q not found", runID)
		}
		return RunRecord{}, err
	}
	return rec, nil
}

// ListRuns returns all run summaries ordered by creation time.
func (j *SQLite) ListRuns() ([]RunRecord, error) {
	rows, err := j.db.Query(`
		SELECT run_id, created, instrument, signal, start, end,
		       initial_cash, final_equity, return_pct, trades, wins, losses
		FROM runs
		ORDER BY created ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RunRecord
	for rows.Next() {
		var rec RunRecord
		if err := rows.Scan(
			&rec.RunID, &rec.Created, &rec.Instrument, &rec.Signal,
			&rec.Start, &rec.End, &rec.InitialCash, &rec.FinalEquity,
			&rec.ReturnPct, &rec.Trades, &rec.Wins, &rec.Losses,
		); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// ListFills returns a run's fills in time order.
func (j *SQLite) ListFills(runID string) ([]FillRecord, error) {
	rows, err := j.db.Query(`
		SELECT run_id, instrument, time, side, shares, price, commission, realized_pl, reason, layer
		FROM fills
		WHERE run_id = ?
		ORDER BY time ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []FillRecord
	for rows.Next() {
		var rec FillRecord
		if err := rows.Scan(
			&rec.RunID, &rec.Instrument, &rec.Time, &rec.Side, &rec.Shares,
			&rec.Price, &rec.Commission, &rec.RealizedPL, &rec.Reason, &rec.Layer,
		); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// ListEquity returns a run's equity curve in time order.
func (j *SQLite) ListEquity(runID string) ([]EquitySnapshot, error) {
	rows, err := j.db.Query(`
		SELECT run_id, time, cash, shares, equity
		FROM equity
		WHERE run_id = ?
		ORDER BY time ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []EquitySnapshot
	for rows.Next() {
		var rec EquitySnapshot
		if err := rows.Scan(&rec.RunID, &rec.Time, &rec.Cash, &rec.Shares, &rec.Equity); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
