package state

import (
	"github.com/ardanlabs/minichain/foundation/blockchain/database"
	"github.com/ardanlabs/minichain/foundation/blockchain/genesis"
	"github.com/ethereum/go-ethereum/common"
)

// zeroHash is the fixed previous hash of the genesis block.
var zeroHash = common.Hash{}

// RetrieveGenesis returns a copy of the genesis information.
func (s *State) RetrieveGenesis() genesis.Genesis {
	return s.genesis
}

// RetrieveLatestBlock returns the current tip of the chain.
func (s *State) RetrieveLatestBlock() database.Block {
	return s.db.LatestBlock()
}

// RetrieveMempool returns a copy of the pending transactions.
func (s *State) RetrieveMempool() []database.Tx {
	return s.mempool.Copy()
}

// RetrieveDifficulty returns the difficulty the next block will be mined
// at. The read is guarded since mining updates the difficulty on window
// boundaries.
func (s *State) RetrieveDifficulty() uint32 {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.difficulty
}

// RetrieveBlocks returns a copy of the full chain for display.
func (s *State) RetrieveBlocks() []database.Block {
	return s.db.CopyBlocks()
}

// Height returns the number of blocks in the chain including genesis.
func (s *State) Height() uint64 {
	return s.db.Height()
}

// QueryBlockByNumber returns a snapshot of the specified block for display.
func (s *State) QueryBlockByNumber(num uint64) (database.Block, error) {
	return s.db.GetBlock(num)
}
