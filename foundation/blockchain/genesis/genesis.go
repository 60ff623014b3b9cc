// Package genesis maintains access to the genesis file.
package genesis

import (
	"encoding/json"
	"os"
	"time"
)

// Genesis represents the genesis file.
type Genesis struct {
	Date              time.Time `json:"date"`
	ChainID           uint16    `json:"chain_id"`           // The chain id represents an unique id for this running instance.
	Difficulty        uint32    `json:"difficulty"`         // How many leading zero bits are needed to solve the work problem.
	MiningReward      float64   `json:"mining_reward"`      // Baseline reward for mining a block.
	HalvingInterval   uint64    `json:"halving_interval"`   // Blocks between reward halvings. Zero keeps the reward flat.
	TargetBlockTime   uint      `json:"target_block_time"`  // Desired seconds per block for the retarget policy.
	RetargetWindow    int       `json:"retarget_window"`    // Blocks between difficulty adjustments.
	RetargetTolerance uint      `json:"retarget_tolerance"` // Seconds of drift allowed before the difficulty moves.
	MaxNonceAttempts  uint64    `json:"max_nonce_attempts"` // Cap on hashes per mining attempt. Zero allows the full nonce range.
}

// =============================================================================

// Load opens and consumes the genesis file.
func Load(path string) (Genesis, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Genesis{}, err
	}

	var genesis Genesis
	err = json.Unmarshal(content, &genesis)
	if err != nil {
		return Genesis{}, err
	}

	return genesis, nil
}
