// Package database handles the lower level support for maintaining the
// blockchain in memory and persisting every block through a configured
// storage implementation.
package database

import (
	"errors"
	"fmt"
	"sync"

	"github.com/ardanlabs/minichain/foundation/blockchain/genesis"
)

// ErrBlockNotExist is returned when a requested block number is beyond the
// current height of the chain.
var ErrBlockNotExist = errors.New("block does not exist")

// Storage interface represents the behavior required to be implemented by
// any package providing support for reading and writing the blockchain.
type Storage interface {
	Write(blockData BlockData) error
	GetBlock(num uint64) (BlockData, error)
	ForEach() Iterator
	Close() error
	Reset() error
}

// Iterator interface represents the behavior required to be implemented by
// any package providing support to iterate over the stored blocks.
type Iterator interface {
	Next() (BlockData, error)
	Done() bool
}

// =============================================================================

// Database manages the chain of blocks. The full chain is kept in memory
// for validation and queries while every block is written through to the
// configured storage. The chain is never empty, the genesis block is
// created on first use.
type Database struct {
	mu sync.RWMutex

	genesis genesis.Genesis
	blocks  []Block
	storage Storage
}

// New constructs a new database, reloading and re-validating any blocks the
// storage already holds. An empty storage is seeded with the genesis block.
func New(gen genesis.Genesis, storage Storage, evHandler func(v string, args ...any)) (*Database, error) {
	db := Database{
		genesis: gen,
		storage: storage,
	}

	iter := storage.ForEach()
	for blockData, err := iter.Next(); !iter.Done(); blockData, err = iter.Next() {
		if err != nil {
			return nil, err
		}

		block := ToBlock(blockData)

		// Every reloaded block must still link against the block before it.
		// The genesis block has no predecessor to check.
		if block.Header.Number > 0 {
			if err := block.ValidateBlock(db.blocks[len(db.blocks)-1], evHandler); err != nil {
				return nil, fmt.Errorf("storage block %d: %w", block.Header.Number, err)
			}
		}

		// The stored hash must match a fresh computation over the fields.
		if h := block.Hash(); h != blockData.Hash {
			return nil, fmt.Errorf("storage block %d: stored hash %s does not match computed hash %s", block.Header.Number, blockData.Hash, h)
		}

		db.blocks = append(db.blocks, block)
	}

	if len(db.blocks) == 0 {
		genesisBlock := GenesisBlock(gen)
		if err := storage.Write(NewBlockData(genesisBlock)); err != nil {
			return nil, err
		}
		db.blocks = append(db.blocks, genesisBlock)
	}

	return &db, nil
}

// Close closes the underlying storage.
func (db *Database) Close() {
	db.storage.Close()
}

// Write validates nothing and appends the specified block to the chain,
// persisting it to storage first. The caller owns validation.
func (db *Database) Write(block Block) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if err := db.storage.Write(NewBlockData(block)); err != nil {
		return err
	}
	db.blocks = append(db.blocks, block)

	return nil
}

// LatestBlock returns the current tip of the chain.
func (db *Database) LatestBlock() Block {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return db.blocks[len(db.blocks)-1]
}

// Height returns the number of blocks in the chain including genesis.
func (db *Database) Height() uint64 {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return uint64(len(db.blocks))
}

// GetBlock returns the block for the specified number.
func (db *Database) GetBlock(num uint64) (Block, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if num >= uint64(len(db.blocks)) {
		return Block{}, ErrBlockNotExist
	}

	return db.blocks[num], nil
}

// CopyBlocks makes a copy of the current chain for iteration. The block
// values hold their back references by stored digest, not by pointer, so
// each copy can be validated independently.
func (db *Database) CopyBlocks() []Block {
	db.mu.RLock()
	defer db.mu.RUnlock()

	blocks := make([]Block, len(db.blocks))
	copy(blocks, db.blocks)

	return blocks
}
