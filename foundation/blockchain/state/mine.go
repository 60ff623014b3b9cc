package state

import (
	"context"

	"github.com/ardanlabs/minichain/foundation/blockchain/database"
)

// MineNextBlock snapshots the pending transactions, prepends the mining
// reward and performs the proof of work to produce the next block in the
// chain. The call is atomic: either a fully validated block is appended or
// the chain and the pending pool are left exactly as they were. An empty
// pool is fine, the mined block then carries just the reward transaction.
func (s *State) MineNextBlock(ctx context.Context) (database.Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evHandler("state: MineNextBlock: MINING: started")
	defer s.evHandler("state: MineNextBlock: MINING: completed")

	trans := s.mempool.Snapshot()

	block, err := s.mineBlock(ctx, trans)
	if err != nil {
		s.mempool.Restore(trans)
		return database.Block{}, err
	}

	return block, nil
}

// mineBlock does the work of building, mining and appending the candidate
// block. The pool snapshot is owned by the caller so it can be restored on
// any failure.
func (s *State) mineBlock(ctx context.Context, trans []database.Tx) (database.Block, error) {
	prevBlock := s.db.LatestBlock()
	nextNumber := prevBlock.Header.Number + 1

	// The reward participates in the mined block's hash, so it has to be
	// fixed before the nonce search starts, never injected after.
	rewardTx, err := s.rewarder.Transaction(s.beneficiaryID, nextNumber)
	if err != nil {
		return database.Block{}, err
	}
	trans = append([]database.Tx{rewardTx}, trans...)

	block, err := database.NewBlock(s.beneficiaryID, s.difficulty, prevBlock, trans)
	if err != nil {
		return database.Block{}, err
	}

	s.evHandler("state: MineNextBlock: MINING: blk[%d]: txs[%d]: difficulty[%d]", block.Header.Number, len(trans), block.Header.Difficulty)

	result, err := s.engine.Search(ctx, block)
	if err != nil {
		return database.Block{}, err
	}
	block.Header.Nonce = result.Nonce

	// One last check before the block is committed.
	if err := block.ValidateBlock(prevBlock, s.evHandler); err != nil {
		return database.Block{}, err
	}

	if err := s.db.Write(block); err != nil {
		return database.Block{}, err
	}

	s.evHandler("state: MineNextBlock: MINING: SOLVED: blk[%d]: hash[%s]: nonce[%d]: attempts[%d]", block.Header.Number, result.Hash, result.Nonce, result.Attempts)

	// Apply the difficulty adjustment policy for the block after this one.
	s.difficulty = s.retargetDifficulty(s.difficulty)

	return block, nil
}
