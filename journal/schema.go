package journal

const Schema = `
CREATE TABLE IF NOT EXISTS fills (
	run_id TEXT NOT NULL,
	instrument TEXT NOT NULL,
	time DATETIME NOT NULL,
	side TEXT NOT NULL,
	shares INTEGER NOT NULL,
	price REAL NOT NULL,
	commission REAL NOT NULL,
	realized_pl REAL NOT NULL,
	reason TEXT NOT NULL,
	layer INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS equity (
	run_id TEXT NOT NULL,
	time DATETIME NOT NULL,
	cash REAL NOT NULL,
	shares INTEGER NOT NULL,
	equity REAL NOT NULL
);

CREATE TABLE IF NOT EXISTS runs (
	run_id TEXT PRIMARY KEY,
	created DATETIME NOT NULL,
	instrument TEXT NOT NULL,
	signal TEXT NOT NULL,
	start DATETIME NOT NULL,
	end DATETIME NOT NULL,
	initial_cash REAL NOT NULL,
	final_equity REAL NOT NULL,
	return_pct REAL NOT NULL,
	trades INTEGER NOT NULL,
	wins INTEGER NOT NULL,
	losses INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_fills_run ON fills(run_id, time);
CREATE INDEX IF NOT EXISTS idx_equity_run ON equity(run_id, time);
`
