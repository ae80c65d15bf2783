package main

import (
	"context"
	"flag"

	"github.com/jniemann-labs/perftgo/pkg/engine"
	"github.com/jniemann-labs/perftgo/pkg/engine/console"
)

var (
	memory = flag.Uint64("memory", 0, "Initial perft cache size in bytes (0 defaults to cache.MinSize)")
	cores  = flag.Uint("cores", 1, "Initial worker count for the parallel perft walk")
	seed   = flag.Int64("seed", 0, "Zobrist key seed")
)

func main() {
	flag.Parse()
	ctx := context.Background()

	e := engine.New(ctx, "perftgo", "jniemann-labs",
		engine.WithOptions(engine.Options{Memory: *memory, Cores: *cores}),
		engine.WithZobrist(*seed))

	in := engine.ReadStdinLines(ctx)
	driver, out := console.NewDriver(ctx, e, in)
	go engine.WriteStdoutLines(ctx, out)

	<-driver.Closed()
}
