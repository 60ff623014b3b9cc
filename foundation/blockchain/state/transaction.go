package state

import (
	"github.com/ardanlabs/minichain/foundation/blockchain/database"
)

// SubmitTransaction validates the transaction details, constructs the
// immutable transaction record and adds it to the pending pool. A
// malformed submission is rejected before it can enter the pool.
func (s *State) SubmitTransaction(fromID database.AccountID, toID database.AccountID, value float64) (database.Tx, error) {
	tx, err := database.NewTx(fromID, toID, value)
	if err != nil {
		return database.Tx{}, err
	}

	n := s.mempool.Add(tx)
	s.evHandler("state: SubmitTransaction: tx[%s] added: pool[%d]", tx, n)

	return tx, nil
}
