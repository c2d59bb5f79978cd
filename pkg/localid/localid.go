// Package localid issues provisional ids for optimistic message echoes.
// Ids are milliseconds since a fixed epoch with a per-millisecond sequence
// in the low bits, so echoes sort by send time and never collide within one
// client instance. Backend-assigned ids live in a different range entirely;
// a provisional id is only ever compared against other provisional ids.
package localid

import (
	"sync"
	"time"
)

const (
	stepBits       = 12
	stepMask       = -1 ^ (-1 << stepBits)
	epoch    int64 = 1704067200000 // 2024-01-01 00:00:00 UTC
)

type Generator struct {
	mu   sync.Mutex
	last int64
	step int64
}

func New() *Generator {
	return &Generator{}
}

func (g *Generator) Next() int64 {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := time.Now().UnixMilli()

	if now < g.last {
		// Clock moved backwards, keep issuing from the last seen millisecond
		now = g.last
	}

	if now == g.last {
		g.step = (g.step + 1) & stepMask
		if g.step == 0 {
			for now <= g.last {
				now = time.Now().UnixMilli()
			}
		}
	} else {
		g.step = 0
	}

	g.last = now

	return ((now - epoch) << stepBits) | g.step
}
