// Package console implements the line-oriented perft driver command surface: new, setboard,
// memory, cores, perft, perftfast, divide, showposition, movelist, showhash and quit.
package console

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jniemann-labs/perftgo/pkg/board"
	"github.com/jniemann-labs/perftgo/pkg/board/fen"
	"github.com/jniemann-labs/perftgo/pkg/engine"
	"github.com/seekerror/logw"
	"github.com/seekerror/stdlib/pkg/util/iox"
)

const ProtocolName = "console"

// Driver implements the perft console driver.
type Driver struct {
	iox.AsyncCloser

	e *engine.Engine

	out chan<- string
}

func NewDriver(ctx context.Context, e *engine.Engine, in <-chan string) (*Driver, <-chan string) {
	out := make(chan string, 100)
	d := &Driver{
		AsyncCloser: iox.NewAsyncCloser(),
		e:           e,
		out:         out,
	}
	go d.process(ctx, in)

	return d, out
}

func (d *Driver) process(ctx context.Context, in <-chan string) {
	defer d.Close()
	defer close(d.out)

	logw.Infof(ctx, "Console protocol initialized")

	d.out <- fmt.Sprintf("engine %v (%v)", d.e.Name(), d.e.Author())

	for {
		select {
		case line, ok := <-in:
			if !ok {
				logw.Infof(ctx, "Input stream broken. Exiting")
				return
			}

			parts := strings.Fields(strings.TrimSpace(line))
			if len(parts) == 0 {
				break
			}

			cmd := parts[0]
			args := parts[1:]

			switch strings.ToLower(cmd) {
			case "new":
				if err := d.e.Reset(ctx, fen.Initial); err != nil {
					logw.Errorf(ctx, "Reset failed: %v", err)
				}

			case "setboard":
				pos := strings.Join(args, " ")
				if err := d.e.Reset(ctx, pos); err != nil {
					d.out <- "illegal position"
					logw.Errorf(ctx, "Invalid position %q: %v", pos, err)
				}

			case "memory":
				if len(args) == 0 {
					break
				}
				bytes, err := strconv.ParseUint(args[0], 10, 64)
				if err != nil {
					d.out <- fmt.Sprintf("invalid memory size: %q", args[0])
					break
				}
				d.e.SetMemory(ctx, bytes)

			case "cores":
				if len(args) == 0 {
					break
				}
				n, err := strconv.Atoi(args[0])
				if err != nil || n < 0 {
					d.out <- fmt.Sprintf("invalid core count: %q", args[0])
					break
				}
				d.e.SetCores(uint(n))

			case "perft":
				depth, err := parseDepth(args)
				if err != nil {
					d.out <- err.Error()
					break
				}
				for i := 1; i <= depth; i++ {
					info := d.e.Perft(ctx, i)
					d.out <- fmt.Sprintf("perft %v: nodes=%v captures=%v ep=%v castles=%v promotions=%v checks=%v mates=%v",
						i, info.Moves, info.Captures, info.EnPassant, info.Castles, info.Promotions, info.Checks, info.Checkmates)
				}

			case "perftfast":
				depth, err := parseDepth(args)
				if err != nil {
					d.out <- err.Error()
					break
				}
				for i := 1; i <= depth; i++ {
					nodes := d.e.PerftFast(ctx, i)
					d.out <- fmt.Sprintf("perftfast %v: nodes=%v", i, nodes)
				}

			case "divide":
				depth, err := parseDepth(args)
				if err != nil {
					d.out <- err.Error()
					break
				}
				moves, counts := d.e.Divide(ctx, depth)
				var total uint64
				for i, m := range moves {
					d.out <- fmt.Sprintf("%v: %v", m, counts[i])
					total += counts[i]
				}
				d.out <- fmt.Sprintf("total: %v", total)

			case "showposition":
				d.printBoard()

			case "movelist":
				for _, m := range d.e.MoveList() {
					d.out <- m.String()
				}

			case "showhash":
				incremental, recomputed := d.e.Hash(), d.e.RecomputeHash()
				d.out <- fmt.Sprintf("hash=0x%x recompute=0x%x %v", incremental, recomputed, d.e.CacheStatus())
				if incremental != recomputed {
					d.out <- fmt.Sprintf("Hash mismatch between incremental and full recompute: 0x%x != 0x%x", incremental, recomputed)
					logw.Errorf(ctx, "Hash mismatch: incremental=0x%x recompute=0x%x", incremental, recomputed)
				}

			case "quit", "exit", "q":
				return

			case "":
				// ignore empty command

			default:
				d.out <- fmt.Sprintf("unknown command: %q", cmd)
				logw.Errorf(ctx, "Unknown command: %q", line)
			}

		case <-d.Closed():
			logw.Infof(ctx, "Driver closed")
			return
		}
	}
}

func parseDepth(args []string) (int, error) {
	if len(args) == 0 {
		return 0, fmt.Errorf("missing depth argument")
	}
	depth, err := strconv.Atoi(args[0])
	if err != nil || depth < 1 {
		return 0, fmt.Errorf("invalid depth: %q", args[0])
	}
	return depth, nil
}

const (
	files      = "    a   b   c   d   e   f   g   h"
	horizontal = "  ---------------------------------"
	vertical   = " | "
)

func (d *Driver) printBoard() {
	pos := d.e.Board()

	d.out <- ""
	d.out <- files
	d.out <- horizontal
	var sb strings.Builder
	sb.WriteString("8" + vertical)
	for i := board.ZeroSquare; i < board.NumSquares; i++ {
		if i != 0 && i%8 == 0 {
			d.out <- sb.String()
			d.out <- horizontal

			sb.Reset()
			sb.WriteString((7 - i.Rank()).String())
			sb.WriteString(vertical)
		}

		sq := board.NumSquares - i - 1
		piece := pos.PieceAt(sq)
		if piece.IsEmpty() || piece.IsEnPassant() {
			sb.WriteString(" ")
		} else {
			sb.WriteString(piece.String())
		}
		sb.WriteString(vertical)
	}
	d.out <- sb.String()
	d.out <- horizontal
	d.out <- files
	d.out <- ""
	d.out <- fmt.Sprintf("fen:    %v", d.e.Position())
	d.out <- fmt.Sprintf("hash: 0x%x", pos.Hash)
	d.out <- ""
}
