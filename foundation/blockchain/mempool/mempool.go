// Package mempool maintains the pool of transactions waiting to be mined
// into the next block. Transactions keep their submission order.
package mempool

import (
	"sync"

	"github.com/ardanlabs/minichain/foundation/blockchain/database"
)

// Mempool represents the ordered pool of pending transactions.
type Mempool struct {
	mu   sync.RWMutex
	pool []database.Tx
}

// New constructs a new mempool for use.
func New() *Mempool {
	return &Mempool{}
}

// Count returns the current number of transactions in the pool.
func (mp *Mempool) Count() int {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	return len(mp.pool)
}

// Add appends a transaction to the pool.
func (mp *Mempool) Add(tx database.Tx) int {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool = append(mp.pool, tx)
	return len(mp.pool)
}

// Snapshot removes and returns every pending transaction in submission
// order. The caller owns the returned slice. If the block these
// transactions were taken for fails to mine, use Restore to put them back.
func (mp *Mempool) Snapshot() []database.Tx {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	trans := mp.pool
	mp.pool = nil

	return trans
}

// Restore places a previously taken snapshot back at the front of the
// pool, ahead of anything submitted while mining was in flight.
func (mp *Mempool) Restore(trans []database.Tx) {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool = append(trans, mp.pool...)
}

// Copy returns a copy of the pending transactions for queries.
func (mp *Mempool) Copy() []database.Tx {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	trans := make([]database.Tx, len(mp.pool))
	copy(trans, mp.pool)

	return trans
}

// Truncate clears all the transactions from the pool.
func (mp *Mempool) Truncate() {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool = nil
}
