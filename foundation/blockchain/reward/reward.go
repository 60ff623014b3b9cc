// Package reward determines the coinbase style transaction credited to the
// account that mines a block.
package reward

import (
	"github.com/ardanlabs/minichain/foundation/blockchain/database"
)

// DefaultBaseReward is the reward credited when the genesis file doesn't
// specify one.
const DefaultBaseReward = 50.0

// Config represents the tuning for the reward schedule.
type Config struct {
	BaseReward      float64 // Reward before any halving.
	HalvingInterval uint64  // Blocks between halvings. Zero keeps the reward flat.
}

// Calculator produces the mining reward for a given block number.
type Calculator struct {
	baseReward      float64
	halvingInterval uint64
}

// New constructs a calculator, defaulting the base reward when unset.
func New(cfg Config) *Calculator {
	if cfg.BaseReward <= 0 {
		cfg.BaseReward = DefaultBaseReward
	}

	return &Calculator{
		baseReward:      cfg.BaseReward,
		halvingInterval: cfg.HalvingInterval,
	}
}

// AmountAt returns the reward for mining the block with the specified
// number: the baseline halved once for every completed halving interval.
func (c *Calculator) AmountAt(blockNumber uint64) float64 {
	if c.halvingInterval == 0 {
		return c.baseReward
	}

	halvings := blockNumber / c.halvingInterval
	if halvings >= 63 {
		return 0
	}

	return c.baseReward / float64(uint64(1)<<halvings)
}

// Transaction builds the reward transaction crediting the beneficiary for
// mining the specified block. It goes through database.NewTx so the reward
// is held to the same validation as any user transaction.
func (c *Calculator) Transaction(beneficiaryID database.AccountID, blockNumber uint64) (database.Tx, error) {
	return database.NewTx(database.RewardAccountID, beneficiaryID, c.AmountAt(blockNumber))
}
