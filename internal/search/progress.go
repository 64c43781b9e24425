package search

import (
	"sync/atomic"
	"time"
)

// Progress is a snapshot of the counters of an [Engine]'s current or last
// search. Skipped counts entries omitted because of an error, which the
// results alone cannot tell apart from entries that did not match.
type Progress struct {
	Directories int64
	Visited     int64
	Matched     int64
	Skipped     int64

	StartTime   time.Time
	FinishTime  time.Time
	HasFinished bool
}

// counters are updated by the searching goroutine and may be read by any
// other goroutine at the same time.
type counters struct {
	directories atomic.Int64
	visited     atomic.Int64
	matched     atomic.Int64
	skipped     atomic.Int64
	startTime   atomic.Int64
	finishTime  atomic.Int64
}

func (c *counters) reset() {
	c.directories.Store(0)
	c.visited.Store(0)
	c.matched.Store(0)
	c.skipped.Store(0)
	c.finishTime.Store(0)
	c.startTime.Store(time.Now().UnixNano())
}

func (c *counters) finish() {
	c.finishTime.Store(time.Now().UnixNano())
}

func (c *counters) snapshot() Progress {
	p := Progress{
		Directories: c.directories.Load(),
		Visited:     c.visited.Load(),
		Matched:     c.matched.Load(),
		Skipped:     c.skipped.Load(),
	}

	if start := c.startTime.Load(); start != 0 {
		p.StartTime = time.Unix(0, start)
	}
	if finish := c.finishTime.Load(); finish != 0 {
		p.FinishTime = time.Unix(0, finish)
		p.HasFinished = true
	}

	return p
}
