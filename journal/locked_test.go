package journal

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

type countingJournal struct {
	fills  int
	equity int
	runs   int
	closed bool
}

func (c *countingJournal) RecordFill(FillRecord) error       { c.fills++; return nil }
func (c *countingJournal) RecordEquity(EquitySnapshot) error { c.equity++; return nil }
func (c *countingJournal) RecordRun(RunRecord) error         { c.runs++; return nil }
func (c *countingJournal) Close() error                      { c.closed = true; return nil }

func TestLockedSerializesWriters(t *testing.T) {
	inner := &countingJournal{}
	l := NewLocked(inner)

	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				_ = l.RecordFill(FillRecord{})
				_ = l.RecordEquity(EquitySnapshot{})
			}
			_ = l.RecordRun(RunRecord{})
		}()
	}
	wg.Wait()

	assert.Equal(t, 400, inner.fills)
	assert.Equal(t, 400, inner.equity)
	assert.Equal(t, 8, inner.runs)

	assert.NoError(t, l.Close())
	assert.True(t, inner.closed)
}
