// Package leveldb implements the database.Storage interface on top of a
// LevelDB key/value store, keying each block by its big-endian number so
// the natural key order is the chain order.
package leveldb

import (
	"encoding/binary"
	"encoding/json"
	"errors"

	"github.com/ardanlabs/minichain/foundation/blockchain/database"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// LevelDB represents the storage implementation for reading and storing
// blocks inside a LevelDB database. This implements the database.Storage
// interface.
type LevelDB struct {
	db *leveldb.DB
}

// New constructs a LevelDB value for use.
func New(dbPath string) (*LevelDB, error) {
	db, err := leveldb.OpenFile(dbPath, nil)
	if err != nil {
		return nil, err
	}

	return &LevelDB{db: db}, nil
}

// Close releases the underlying LevelDB handle.
func (l *LevelDB) Close() error {
	return l.db.Close()
}

// Write stores the specified block under its block number.
func (l *LevelDB) Write(blockData database.BlockData) error {
	data, err := json.Marshal(blockData)
	if err != nil {
		return err
	}

	return l.db.Put(blockKey(blockData.Header.Number), data, nil)
}

// GetBlock returns the specified block by number.
func (l *LevelDB) GetBlock(num uint64) (database.BlockData, error) {
	data, err := l.db.Get(blockKey(num), nil)
	if err != nil {
		return database.BlockData{}, err
	}

	var blockData database.BlockData
	if err := json.Unmarshal(data, &blockData); err != nil {
		return database.BlockData{}, err
	}

	return blockData, nil
}

// ForEach returns an iterator to walk through all the blocks starting
// with the genesis block.
func (l *LevelDB) ForEach() database.Iterator {
	return &LevelDBIterator{levelDB: l, current: ^uint64(0)}
}

// Reset will clear out all the stored blocks.
func (l *LevelDB) Reset() error {
	iter := l.db.NewIterator(&util.Range{}, nil)
	defer iter.Release()

	for iter.Next() {
		if err := l.db.Delete(iter.Key(), nil); err != nil {
			return err
		}
	}

	return iter.Error()
}

// blockKey forms the key for the specified block number.
func blockKey(num uint64) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, num)
	return key
}

// =============================================================================

// LevelDBIterator represents the iteration implementation for walking
// through the stored blocks. This implements the database.Iterator interface.
type LevelDBIterator struct {
	levelDB *LevelDB // Access to the LevelDB storage API.
	current uint64   // Current block number being iterated over.
	eoc     bool     // Represents the iterator is at the end of the chain.
}

// Next retrieves the next block from the store.
func (li *LevelDBIterator) Next() (database.BlockData, error) {
	if li.eoc {
		return database.BlockData{}, errors.New("end of chain")
	}

	li.current++
	blockData, err := li.levelDB.GetBlock(li.current)
	if errors.Is(err, leveldb.ErrNotFound) {
		li.eoc = true
	}

	return blockData, err
}

// Done returns the end of chain value.
func (li *LevelDBIterator) Done() bool {
	return li.eoc
}
