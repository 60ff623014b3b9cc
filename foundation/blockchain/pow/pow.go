// Package pow implements the proof of work engine. The nonce search is the
// dominant cost of the whole system and its only unbounded looking loop, so
// everything here is written to keep the per-attempt work down to one header
// hash and to give the caller a cancellation point.
package pow

import (
	"context"
	"errors"
	"math"

	"github.com/ardanlabs/minichain/foundation/blockchain/database"
	"github.com/ethereum/go-ethereum/common"
)

// ErrMiningExhausted is returned when the nonce search runs out of room,
// either by hitting the configured attempt cap or by wrapping the nonce
// range. Practically unreachable at realistic difficulty, but defined.
var ErrMiningExhausted = errors.New("mining exhausted the nonce space")

// defaultProgressEvery is how many attempts pass between progress callbacks
// when the configuration doesn't say otherwise.
const defaultProgressEvery = 50_000

// =============================================================================

// Config represents the tuning for a mining engine.
type Config struct {
	MaxAttempts   uint64               // Cap on hash attempts. Zero allows the full nonce range.
	ProgressEvery uint64               // Attempts between progress callbacks.
	Progress      func(attempts uint64) // Called periodically during the search. May be nil.
	EvHandler     func(v string, args ...any)
}

// Engine knows how to search the nonce space for a block template. The
// engine holds no state between searches, every call to Search works only
// against the template it is given, so changing the target difficulty for
// the next block just means constructing the next template.
type Engine struct {
	maxAttempts   uint64
	progressEvery uint64
	progress      func(attempts uint64)
	evHandler     func(v string, args ...any)
}

// New constructs a mining engine with the specified configuration.
func New(cfg Config) *Engine {
	progressEvery := cfg.ProgressEvery
	if progressEvery == 0 {
		progressEvery = defaultProgressEvery
	}

	ev := cfg.EvHandler
	if ev == nil {
		ev = func(v string, args ...any) {}
	}

	return &Engine{
		maxAttempts:   cfg.MaxAttempts,
		progressEvery: progressEvery,
		progress:      cfg.Progress,
		evHandler:     ev,
	}
}

// Result represents a successful nonce search.
type Result struct {
	Nonce    uint64
	Hash     common.Hash
	Attempts uint64
}

// Search finds the lowest nonce that makes the block's hash satisfy the
// difficulty carried in the block header. The nonce starts at zero and is
// incremented until the hash, read as a big-endian integer, drops below
// 2^(256-difficulty). The search stops early when the context is canceled
// or when the nonce space is exhausted, and the template is never modified.
func (e *Engine) Search(ctx context.Context, block database.Block) (Result, error) {
	e.evHandler("pow: search: started: blk[%d]: difficulty[%d]", block.Header.Number, block.Header.Difficulty)
	defer e.evHandler("pow: search: completed: blk[%d]", block.Header.Number)

	block.Header.Nonce = 0

	var attempts uint64
	for {
		attempts++

		if e.maxAttempts > 0 && attempts > e.maxAttempts {
			e.evHandler("pow: search: EXHAUSTED: blk[%d]: attempts[%d]", block.Header.Number, attempts-1)
			return Result{}, ErrMiningExhausted
		}

		if attempts%e.progressEvery == 0 {
			if e.progress != nil {
				e.progress(attempts)
			}
			e.evHandler("pow: search: attempts[%d]", attempts)

			// Only look at the context on the progress boundary. Checking
			// every attempt measurably slows the hot loop down.
			if ctx.Err() != nil {
				e.evHandler("pow: search: CANCELLED: blk[%d]", block.Header.Number)
				return Result{}, ctx.Err()
			}
		}

		hash := block.Hash()
		if database.IsHashSolved(block.Header.Difficulty, hash) {
			e.evHandler("pow: search: SOLVED: blk[%d]: nonce[%d]: attempts[%d]", block.Header.Number, block.Header.Nonce, attempts)

			result := Result{
				Nonce:    block.Header.Nonce,
				Hash:     hash,
				Attempts: attempts,
			}
			return result, nil
		}

		if block.Header.Nonce == math.MaxUint64 {
			e.evHandler("pow: search: EXHAUSTED: blk[%d]: nonce range wrapped", block.Header.Number)
			return Result{}, ErrMiningExhausted
		}
		block.Header.Nonce++
	}
}
