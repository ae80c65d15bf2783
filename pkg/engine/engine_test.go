package engine_test

import (
	"context"
	"testing"

	"github.com/jniemann-labs/perftgo/pkg/board/fen"
	"github.com/jniemann-labs/perftgo/pkg/engine"
	"github.com/jniemann-labs/perftgo/pkg/perft"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T) *engine.Engine {
	t.Helper()
	return engine.New(context.Background(), "test", "tester", engine.WithZobrist(1))
}

func TestNewDefaultsToStartPosition(t *testing.T) {
	e := newTestEngine(t)
	assert.Equal(t, fen.Initial, e.Position())
}

func TestResetLoadsGivenPosition(t *testing.T) {
	e := newTestEngine(t)

	kiwipete := "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1"
	require.NoError(t, e.Reset(context.Background(), kiwipete))
	assert.Equal(t, kiwipete, e.Position())
}

func TestResetRejectsMalformedFEN(t *testing.T) {
	e := newTestEngine(t)
	err := e.Reset(context.Background(), "not a fen")
	assert.Error(t, err)

	// the position from before the failed reset is left untouched
	assert.Equal(t, fen.Initial, e.Position())
}

func TestPerftFastMatchesStartPositionReference(t *testing.T) {
	e := newTestEngine(t)
	assert.Equal(t, uint64(20), e.PerftFast(context.Background(), 1))
	assert.Equal(t, uint64(400), e.PerftFast(context.Background(), 2))
}

func TestDivideSumsToPerftFastTotal(t *testing.T) {
	e := newTestEngine(t)
	moves, counts := e.Divide(context.Background(), 3)

	var sum uint64
	for _, c := range counts {
		sum += c
	}
	assert.Equal(t, len(moves), len(counts))
	assert.Equal(t, e.PerftFast(context.Background(), 3), sum)
}

func TestSetCoresClampsToValidRange(t *testing.T) {
	e := newTestEngine(t)

	e.SetCores(0)
	assert.EqualValues(t, 1, e.Options().Cores)

	e.SetCores(perft.MaxThreads + 50)
	assert.EqualValues(t, perft.MaxThreads, e.Options().Cores)
}

func TestMoveListMatchesStartPositionCount(t *testing.T) {
	e := newTestEngine(t)
	assert.Len(t, e.MoveList(), 20)
}
