// Package state is the core API for the chain and implements all the
// business rules and processing.
package state

import (
	"sync"
	"time"

	"github.com/ardanlabs/minichain/foundation/blockchain/database"
	"github.com/ardanlabs/minichain/foundation/blockchain/genesis"
	"github.com/ardanlabs/minichain/foundation/blockchain/mempool"
	"github.com/ardanlabs/minichain/foundation/blockchain/pow"
	"github.com/ardanlabs/minichain/foundation/blockchain/retarget"
	"github.com/ardanlabs/minichain/foundation/blockchain/reward"
)

// EventHandler defines a function that is called when events occur in the
// processing of mining and persisting blocks.
type EventHandler func(v string, args ...any)

// Config represents the configuration required to start the chain.
type Config struct {
	BeneficiaryID  database.AccountID
	Genesis        genesis.Genesis
	Storage        database.Storage
	MiningProgress func(attempts uint64)
	EvHandler      EventHandler
}

// State manages the blockchain database, the pending transaction pool and
// the current mining difficulty. Mutations run through SubmitTransaction
// and MineNextBlock only; queries can be shared with a mining operation
// in flight.
type State struct {
	mu sync.RWMutex

	beneficiaryID database.AccountID
	evHandler     EventHandler

	genesis    genesis.Genesis
	db         *database.Database
	mempool    *mempool.Mempool
	engine     *pow.Engine
	adjuster   *retarget.Adjuster
	rewarder   *reward.Calculator
	difficulty uint32
}

// New constructs a new chain, seeded with the genesis block when the
// storage is empty.
func New(cfg Config) (*State, error) {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	db, err := database.New(cfg.Genesis, cfg.Storage, ev)
	if err != nil {
		return nil, err
	}

	engine := pow.New(pow.Config{
		MaxAttempts: cfg.Genesis.MaxNonceAttempts,
		Progress:    cfg.MiningProgress,
		EvHandler:   ev,
	})

	adjuster := retarget.New(retarget.Config{
		Window:     cfg.Genesis.RetargetWindow,
		TargetTime: time.Duration(cfg.Genesis.TargetBlockTime) * time.Second,
		Tolerance:  time.Duration(cfg.Genesis.RetargetTolerance) * time.Second,
	})

	rewarder := reward.New(reward.Config{
		BaseReward:      cfg.Genesis.MiningReward,
		HalvingInterval: cfg.Genesis.HalvingInterval,
	})

	state := State{
		beneficiaryID: cfg.BeneficiaryID,
		evHandler:     ev,

		genesis:  cfg.Genesis,
		db:       db,
		mempool:  mempool.New(),
		engine:   engine,
		adjuster: adjuster,
		rewarder: rewarder,
	}

	// The difficulty carries over from the most recently mined block. When
	// the tip sits on an adjustment boundary the retarget applies to the
	// block about to be mined, so recompute it on startup as well.
	state.difficulty = db.LatestBlock().Header.Difficulty
	state.difficulty = state.retargetDifficulty(state.difficulty)

	return &state, nil
}

// Shutdown cleanly brings the chain down.
func (s *State) Shutdown() error {
	s.db.Close()
	return nil
}

// retargetDifficulty applies the adjustment policy when the tip of the
// chain sits on an adjustment boundary, otherwise the current difficulty
// is returned unchanged.
func (s *State) retargetDifficulty(current uint32) uint32 {
	tip := s.db.LatestBlock()
	if !s.adjuster.IsBoundary(tip.Header.Number) {
		return current
	}

	blocks := s.db.CopyBlocks()
	window := s.adjuster.Window()
	if len(blocks) < window+1 {
		return current
	}

	timestamps := make([]uint64, 0, window+1)
	for _, block := range blocks[len(blocks)-(window+1):] {
		timestamps = append(timestamps, block.Header.TimeStamp)
	}

	next := s.adjuster.NextDifficulty(current, timestamps)
	if next != current {
		s.evHandler("state: retarget: blk[%d]: difficulty[%d] -> [%d]", tip.Header.Number, current, next)
	}

	return next
}
