package public

import (
	"github.com/ardanlabs/minichain/foundation/blockchain/database"
	"github.com/ethereum/go-ethereum/common"
)

// tx represents a transaction in a response.
type tx struct {
	From      database.AccountID `json:"from"`
	To        database.AccountID `json:"to"`
	Value     float64            `json:"value"`
	TimeStamp uint64             `json:"timestamp"`
	IsReward  bool               `json:"is_reward"`
}

func toTx(dbTx database.Tx) tx {
	return tx{
		From:      dbTx.FromID,
		To:        dbTx.ToID,
		Value:     dbTx.Value,
		TimeStamp: dbTx.TimeStamp,
		IsReward:  dbTx.IsReward(),
	}
}

// block represents a block in a response. The field set and ordering match
// what the block hash is computed over so a client can verify the hash by
// recomputation.
type block struct {
	Hash          common.Hash        `json:"hash"`
	Number        uint64             `json:"number"`
	TimeStamp     uint64             `json:"timestamp"`
	PrevBlockHash common.Hash        `json:"prev_block_hash"`
	Nonce         uint64             `json:"nonce"`
	Difficulty    uint32             `json:"difficulty"`
	Beneficiary   database.AccountID `json:"beneficiary"`
	TransRoot     common.Hash        `json:"trans_root"`
	Transactions  []tx               `json:"transactions"`
}

func toBlock(dbBlock database.Block) block {
	trans := make([]tx, len(dbBlock.Trans))
	for i, dbTx := range dbBlock.Trans {
		trans[i] = toTx(dbTx)
	}

	return block{
		Hash:          dbBlock.Hash(),
		Number:        dbBlock.Header.Number,
		TimeStamp:     dbBlock.Header.TimeStamp,
		PrevBlockHash: dbBlock.Header.PrevBlockHash,
		Nonce:         dbBlock.Header.Nonce,
		Difficulty:    dbBlock.Header.Difficulty,
		Beneficiary:   dbBlock.Header.BeneficiaryID,
		TransRoot:     dbBlock.Header.TransRoot,
		Transactions:  trans,
	}
}

// submitTx is what clients post to add a transaction to the pending pool.
type submitTx struct {
	From  string  `json:"from" validate:"required"`
	To    string  `json:"to" validate:"required"`
	Value float64 `json:"value" validate:"gte=0"`
}

// chainStatus reports the current shape of the chain.
type chainStatus struct {
	Height      uint64      `json:"height"`
	LatestBlock common.Hash `json:"latest_block"`
	Difficulty  uint32      `json:"difficulty"`
	Mempool     int         `json:"mempool"`
}

// validateResult reports the outcome of a full chain validation.
type validateResult struct {
	Valid       bool   `json:"valid"`
	FailedBlock uint64 `json:"failed_block,omitempty"`
	Error       string `json:"error,omitempty"`
}
