// perft is a movegen debugging tool. See: https://www.chessprogramming.org/Perft_Results.
package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/jniemann-labs/perftgo/pkg/board"
	"github.com/jniemann-labs/perftgo/pkg/board/fen"
	"github.com/jniemann-labs/perftgo/pkg/cache"
	"github.com/jniemann-labs/perftgo/pkg/perft"
	"github.com/seekerror/logw"
)

var (
	depth    = flag.Int("depth", 4, "Search depth")
	position = flag.String("fen", "", "Start position (default to standard)")
	divide   = flag.Bool("divide", false, "Divide counts by initial move, at the final depth")
	fast     = flag.Bool("fast", false, "Use the cached, total-count-only walk instead of the detailed one")
	memory   = flag.Uint64("memory", cache.MinSize, "Perft cache size in bytes")
	cores    = flag.Int("cores", 1, "Worker goroutines for the parallel walk; 1 runs single-threaded")
	seed     = flag.Int64("seed", 0, "Zobrist key seed")
)

func main() {
	ctx := context.Background()
	flag.Parse()

	if *position == "" {
		*position = fen.Initial
	}

	zk := board.NewZobristKeys(*seed)
	pos, err := fen.Decode(*position, zk)
	if err != nil {
		logw.Exitf(ctx, "Invalid fen '%v': %v", *position, err)
	}

	tbl := cache.New(ctx, *memory)

	for i := 1; i <= *depth; i++ {
		start := time.Now()

		if *fast {
			var nodes uint64
			if *cores > 1 {
				nodes = perft.ParallelFast(&pos, zk, i, *cores, tbl)
			} else {
				nodes = perft.Fast(&pos, zk, i, tbl)
			}
			println(fmt.Sprintf("perftfast,%v,%v,%v,%v", *position, i, nodes, time.Since(start).Microseconds()))
		} else {
			var info perft.Info
			if *cores > 1 {
				info = perft.ParallelDetailed(&pos, zk, i, *cores)
			} else {
				info = perft.Detailed(&pos, zk, i)
			}
			println(fmt.Sprintf("perft,%v,%v,%v,%v,%v,%v,%v,%v,%v", *position, i, info.Moves, info.Captures,
				info.EnPassant, info.Castles, info.Promotions, info.Checks, info.Checkmates))
		}

		if *divide && i == *depth {
			moves, counts := perft.Divide(&pos, zk, i, tbl)
			for j, m := range moves {
				println(fmt.Sprintf("  %v: %v", m, counts[j]))
			}
		}
	}
}
