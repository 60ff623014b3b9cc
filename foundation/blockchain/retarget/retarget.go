// Package retarget implements the difficulty adjustment policy. Every
// Window blocks the observed average time per block is compared against the
// target and the difficulty moves by a single step, producing a bounded
// walk rather than an unbounded value.
package retarget

import (
	"time"
)

// Defaults for the adjustment policy. The genesis file can override any
// of these for a particular chain.
const (
	DefaultWindow        = 10
	DefaultTargetTime    = 10 * time.Second
	DefaultTolerance     = 2 * time.Second
	DefaultMinDifficulty = 1
)

// Config represents the tuning for the adjustment policy.
type Config struct {
	Window        int           // Blocks between adjustments.
	TargetTime    time.Duration // Desired time per block.
	Tolerance     time.Duration // Drift allowed before the difficulty moves.
	MinDifficulty uint32        // Floor for downward adjustments.
}

// Adjuster recomputes the target difficulty from observed block timing.
type Adjuster struct {
	window        int
	targetTime    time.Duration
	tolerance     time.Duration
	minDifficulty uint32
}

// New constructs an adjuster, filling in defaults for any zero settings.
func New(cfg Config) *Adjuster {
	if cfg.Window <= 0 {
		cfg.Window = DefaultWindow
	}
	if cfg.TargetTime <= 0 {
		cfg.TargetTime = DefaultTargetTime
	}
	if cfg.Tolerance <= 0 {
		cfg.Tolerance = DefaultTolerance
	}
	if cfg.MinDifficulty == 0 {
		cfg.MinDifficulty = DefaultMinDifficulty
	}

	return &Adjuster{
		window:        cfg.Window,
		targetTime:    cfg.TargetTime,
		tolerance:     cfg.Tolerance,
		minDifficulty: cfg.MinDifficulty,
	}
}

// Window returns the number of blocks between adjustments.
func (a *Adjuster) Window() int {
	return a.window
}

// IsBoundary reports whether the specified block number sits on an
// adjustment point. Outside these points the difficulty is carried over
// from the most recently mined block.
func (a *Adjuster) IsBoundary(blockNumber uint64) bool {
	return blockNumber > 0 && blockNumber%uint64(a.window) == 0
}

// NextDifficulty computes the difficulty for the next block. The
// timestamps are the Unix times of the last Window+1 blocks in chain
// order, giving Window observed intervals. Mining faster than the target
// by more than the tolerance raises the difficulty one step, slower
// lowers it one step down to the configured floor.
func (a *Adjuster) NextDifficulty(current uint32, timestamps []uint64) uint32 {
	if len(timestamps) < 2 {
		return current
	}

	first := timestamps[0]
	last := timestamps[len(timestamps)-1]
	if last < first {
		return current
	}

	elapsed := time.Duration(last-first) * time.Second
	average := elapsed / time.Duration(len(timestamps)-1)

	switch {
	case average < a.targetTime-a.tolerance:
		return current + 1

	case average > a.targetTime+a.tolerance:
		if current <= a.minDifficulty {
			return a.minDifficulty
		}
		return current - 1
	}

	return current
}
