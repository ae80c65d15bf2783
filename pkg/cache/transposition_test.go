package cache_test

import (
	"context"
	"testing"

	"github.com/jniemann-labs/perftgo/pkg/board"
	"github.com/jniemann-labs/perftgo/pkg/cache"
	"github.com/stretchr/testify/assert"
)

func TestTableSizeRoundsDownToPowerOfTwo(t *testing.T) {
	ctx := context.Background()

	tt := cache.New(ctx, 0x1000000)
	assert.Equal(t, uint64(0x1000000), tt.Size())

	tt2 := cache.New(ctx, 0x1f00000)
	assert.Equal(t, uint64(0x1000000), tt2.Size())
}

func TestTableEnforcesMinSize(t *testing.T) {
	tt := cache.New(context.Background(), 1024)
	assert.Equal(t, uint64(cache.MinSize), tt.Size())
}

func TestTableGetPut(t *testing.T) {
	tt := cache.New(context.Background(), cache.MinSize)

	zk := board.NewZobristKeys(1)
	pos := board.StartPosition(zk)
	key := pos.Hash ^ zk.DepthSalt(5)

	_, ok := tt.Get(key, pos.Hash, 5)
	assert.False(t, ok)

	tt.Put(key, pos.Hash, 5, 20)

	count, ok := tt.Get(key, pos.Hash, 5)
	assert.True(t, ok)
	assert.Equal(t, uint64(20), count)

	// Different depth at the same plain hash: the salted key differs, so it misses.
	_, ok = tt.Get(pos.Hash^zk.DepthSalt(4), pos.Hash, 4)
	assert.False(t, ok)
}

func TestTableUsedTracksDistinctSlots(t *testing.T) {
	tt := cache.New(context.Background(), cache.MinSize)
	assert.Equal(t, float64(0), tt.Used())

	zk := board.NewZobristKeys(2)
	pos := board.StartPosition(zk)
	key := pos.Hash ^ zk.DepthSalt(3)

	tt.Put(key, pos.Hash, 3, 42)
	assert.Greater(t, tt.Used(), float64(0))

	tt.Put(key, pos.Hash, 3, 43) // overwrite same slot: used count must not double-increment
	assert.Less(t, tt.Used(), 0.01)
}
