package backtest

import (
	"testing"

	"github.com/quantlab/ashare/market"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func batchSets(t *testing.T) []*market.BarSet {
	t.Helper()

	winner := market.NewBarSet("600519", barsFromCloses(martingaleCloses...))

	// Same shape but the recovery never comes: ends open and down.
	loser := market.NewBarSet("600036", barsFromCloses(martingaleCloses[:10]...))

	// Too short to warm up at all.
	short := market.NewBarSet("000333", barsFromCloses(90, 91, 92))

	return []*market.BarSet{winner, loser, short}
}

func TestRunBatchCollectsResultsAndErrors(t *testing.T) {
	items := RunBatch(batchSets(t), martingaleConfig(), 2, nil)
	require.Len(t, items, 3)

	// Input order is preserved.
	assert.Equal(t, "600519", items[0].Instrument)
	assert.Equal(t, "600036", items[1].Instrument)
	assert.Equal(t, "000333", items[2].Instrument)

	require.NoError(t, items[0].Err)
	assert.Equal(t, 1, items[0].Result.Trades)

	require.NoError(t, items[1].Err)
	assert.Equal(t, 0, items[1].Result.Trades)

	// The short instrument fails alone; the batch completes.
	assert.ErrorIs(t, items[2].Err, ErrInsufficientHistory)
	assert.Nil(t, items[2].Result)
}

func TestRunBatchOrderIndependent(t *testing.T) {
	sets := batchSets(t)
	forward := RunBatch(sets, martingaleConfig(), 1, nil)

	reversed := []*market.BarSet{sets[2], sets[1], sets[0]}
	backward := RunBatch(reversed, martingaleConfig(), 1, nil)

	// Same instrument, same result, whichever order it ran in.
	assert.InDelta(t, forward[0].Result.ReturnPct, backward[2].Result.ReturnPct, 1e-12)
	assert.InDelta(t, forward[1].Result.ReturnPct, backward[1].Result.ReturnPct, 1e-12)
	assert.Equal(t, forward[0].Result.Trades, backward[2].Result.Trades)
}

func TestRunBatchConcurrencyMatchesSerial(t *testing.T) {
	sets := batchSets(t)

	serial := RunBatch(sets, martingaleConfig(), 1, nil)
	parallel := RunBatch(sets, martingaleConfig(), 8, nil)

	for i := range serial {
		if serial[i].Err != nil {
			assert.Error(t, parallel[i].Err)
			continue
		}
		assert.InDelta(t, serial[i].Result.FinalEquity, parallel[i].Result.FinalEquity, 1e-12)
		assert.Equal(t, serial[i].Result.Trades, parallel[i].Result.Trades)
		assert.Equal(t, serial[i].Result.EquityCurve(), parallel[i].Result.EquityCurve())
	}
}

func TestSummarize(t *testing.T) {
	items := RunBatch(batchSets(t), martingaleConfig(), 0, nil)
	s := Summarize(items)

	assert.Equal(t, 2, s.Completed)
	assert.Equal(t, 1, s.Skipped)
	assert.Equal(t, 1, s.Profitable)
	require.Len(t, s.Ranked, 2)
	// Ranked by descending return: the winner first.
	assert.Equal(t, "600519", s.Ranked[0].Instrument)
	assert.GreaterOrEqual(t, s.Ranked[0].ReturnPct, s.Ranked[1].ReturnPct)
}
