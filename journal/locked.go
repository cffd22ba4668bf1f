package journal

import "sync"

// Locked serializes access to an underlying journal so batch runs can
// share one writer.
type Locked struct {
	mu sync.Mutex
	j  Journal
}

// NewLocked wraps j with a mutex.
func NewLocked(j Journal) *Locked {
	return &Locked{j: j}
}

func (l *Locked) RecordFill(f FillRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.j.RecordFill(f)
}

func (l *Locked) RecordEquity(e EquitySnapshot) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.j.RecordEquity(e)
}

func (l *Locked) RecordRun(r RunRecord) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.j.RecordRun(r)
}

func (l *Locked) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.j.Close()
}
