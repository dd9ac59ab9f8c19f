package harness

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qbbperft/qbb"
)

func TestRunQuickSuite(t *testing.T) {
	var seen []string
	results, sum := Run(context.Background(), QuickSuite(), Options{
		Progress: func(r Result) { seen = append(seen, r.Name) },
	})
	require.Len(t, results, len(QuickSuite()))
	for _, r := range results {
		assert.NoError(t, r.Err, r.Name)
		assert.True(t, r.Pass, "%s: got %d want %d", r.Name, r.Nodes, r.Expected)
	}
	assert.Equal(t, len(results), sum.Cases)
	assert.Equal(t, sum.Cases, sum.Passed)
	assert.Zero(t, sum.Failed)
	assert.Equal(t, []string{"initial", "kiwipete", "pos3", "pos4", "pos5", "pos6"}, seen)
}

func TestRunContinuesAfterFailure(t *testing.T) {
	cases := []Case{
		{Name: "wrong", FEN: qbb.FENStartPos, Depth: 2, Expected: 401},
		{Name: "broken", FEN: "not a fen", Depth: 1, Expected: 1},
		{Name: "right", FEN: qbb.FENStartPos, Depth: 2, Expected: 400},
	}
	results, sum := Run(context.Background(), cases, Options{})
	require.Len(t, results, 3)

	assert.False(t, results[0].Pass)
	assert.Equal(t, uint64(400), results[0].Nodes)
	assert.NoError(t, results[0].Err)

	assert.False(t, results[1].Pass)
	assert.ErrorIs(t, results[1].Err, qbb.ErrInvalidFEN)

	assert.True(t, results[2].Pass)
	assert.Equal(t, 1, sum.Passed)
	assert.Equal(t, 2, sum.Failed)
	assert.Equal(t, uint64(800), sum.Nodes)
}

func TestRunParallelMatchesSerial(t *testing.T) {
	results, sum := Run(context.Background(), QuickSuite(), Options{Workers: 4})
	require.Len(t, results, len(QuickSuite()))
	assert.Equal(t, sum.Cases, sum.Passed)
}

func TestParallelDivideMatchesSerial(t *testing.T) {
	for _, c := range QuickSuite() {
		b := qbb.MustParseFEN(c.FEN)
		want, wantTotal := qbb.PerftDivide(b, 3)

		got, total, err := ParallelDivide(context.Background(), b, 3, 3)
		require.NoError(t, err)
		assert.Equal(t, wantTotal, total, c.Name)
		assert.Equal(t, want, got, c.Name)
	}
}

func TestParallelPerftEdgeDepths(t *testing.T) {
	b := qbb.MustParseFEN(qbb.FENStartPos)

	n, err := ParallelPerft(context.Background(), b, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), n)

	n, err = ParallelPerft(context.Background(), b, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, uint64(20), n)

	_, err = ParallelPerft(context.Background(), b, qbb.MaxPly+1, 2)
	assert.Error(t, err)
}

func TestParallelPerftCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := ParallelPerft(ctx, qbb.MustParseFEN(qbb.FENStartPos), 4, 2)
	assert.ErrorIs(t, err, context.Canceled)

	results, sum := Run(ctx, QuickSuite(), Options{})
	assert.Empty(t, results)
	assert.Zero(t, sum.Cases)
}

func TestDefaultSuiteShape(t *testing.T) {
	suite := DefaultSuite()
	require.Len(t, suite, 6)
	for _, c := range suite {
		_, err := qbb.ParseFEN(c.FEN)
		assert.NoError(t, err, c.Name)
		assert.LessOrEqual(t, c.Depth, qbb.MaxPly)
	}
}
