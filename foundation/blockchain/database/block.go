package database

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math/big"
	"time"

	"github.com/ardanlabs/minichain/foundation/blockchain/genesis"
	"github.com/ardanlabs/minichain/foundation/blockchain/merkle"
	"github.com/ethereum/go-ethereum/common"
)

// BlockHeader represents common information required for each block.
type BlockHeader struct {
	Number        uint64      `json:"number"`          // Block number in the chain. Zero is the genesis block.
	TimeStamp     uint64      `json:"timestamp"`       // Time the block was mined.
	PrevBlockHash common.Hash `json:"prev_block_hash"` // Hash of the previous block in the chain.
	Nonce         uint64      `json:"nonce"`           // Value identified to solve the hash solution.
	Difficulty    uint32      `json:"difficulty"`      // Number of leading zero bits needed to solve the hash solution.
	BeneficiaryID AccountID   `json:"beneficiary"`     // The account receiving the mining reward.
	TransRoot     common.Hash `json:"trans_root"`      // Merkle root over the transactions in this block.
}

// Block represents a group of transactions batched together.
type Block struct {
	Header BlockHeader
	Trans  []Tx
}

// NewBlock constructs the next block template off the specified previous
// block. The nonce is left at zero, it is the mining engine's job to find
// the value that solves the hash puzzle.
func NewBlock(beneficiaryID AccountID, difficulty uint32, prevBlock Block, trans []Tx) (Block, error) {
	root, err := merkle.Root(trans)
	if err != nil {
		return Block{}, err
	}

	nb := Block{
		Header: BlockHeader{
			Number:        prevBlock.Header.Number + 1,
			TimeStamp:     uint64(time.Now().UTC().Unix()),
			PrevBlockHash: prevBlock.Hash(),
			Nonce:         0,
			Difficulty:    difficulty,
			BeneficiaryID: beneficiaryID,
			TransRoot:     common.Hash(root),
		},
		Trans: trans,
	}

	return nb, nil
}

// GenesisBlock constructs the fixed first block of the chain. It carries no
// transactions, a zero previous hash, a zero nonce and the baseline
// difficulty. Unlike every other block it is not mined, but it still has its
// own computed hash so block one can link back to it.
func GenesisBlock(gen genesis.Genesis) Block {
	return Block{
		Header: BlockHeader{
			Number:        0,
			TimeStamp:     uint64(gen.Date.UTC().Unix()),
			PrevBlockHash: common.Hash{},
			Nonce:         0,
			Difficulty:    gen.Difficulty,
		},
	}
}

// Hash returns the unique hash for the block. The digest is computed over
// the canonical encoding of the header fields, fixed-width big-endian
// integers in declared order. The transactions participate through the
// merkle root stored in the header.
func (b Block) Hash() common.Hash {
	var buf bytes.Buffer

	binary.Write(&buf, binary.BigEndian, b.Header.Number)
	binary.Write(&buf, binary.BigEndian, b.Header.TimeStamp)
	buf.Write(b.Header.PrevBlockHash.Bytes())
	binary.Write(&buf, binary.BigEndian, b.Header.Nonce)
	binary.Write(&buf, binary.BigEndian, b.Header.Difficulty)
	writeString(&buf, string(b.Header.BeneficiaryID))
	buf.Write(b.Header.TransRoot.Bytes())

	hash := sha256.Sum256(buf.Bytes())
	return common.BytesToHash(hash[:])
}

// ValidateBlock takes a block and validates it against its predecessor. Any
// mutation of the block's content after mining is detected here, either by
// the recomputed merkle root or by the broken hash link.
func (b Block) ValidateBlock(previousBlock Block, evHandler func(v string, args ...any)) error {
	evHandler("database: ValidateBlock: blk[%d]: check: block number is the next number", b.Header.Number)

	if b.Header.Number != previousBlock.Header.Number+1 {
		return fmt.Errorf("this block is not the next number, got %d, exp %d", b.Header.Number, previousBlock.Header.Number+1)
	}

	evHandler("database: ValidateBlock: blk[%d]: check: parent hash does match parent block", b.Header.Number)

	if b.Header.PrevBlockHash != previousBlock.Hash() {
		return fmt.Errorf("parent block hash doesn't match our known parent, got %s, exp %s", b.Header.PrevBlockHash, previousBlock.Hash())
	}

	evHandler("database: ValidateBlock: blk[%d]: check: merkle root does match transactions", b.Header.Number)

	root, err := merkle.Root(b.Trans)
	if err != nil {
		return err
	}
	if b.Header.TransRoot != common.Hash(root) {
		return fmt.Errorf("merkle root does not match transactions, got %s, exp %s", common.Hash(root), b.Header.TransRoot)
	}

	evHandler("database: ValidateBlock: blk[%d]: check: block hash has been solved", b.Header.Number)

	hash := b.Hash()
	if !IsHashSolved(b.Header.Difficulty, hash) {
		return fmt.Errorf("%s invalid block hash", hash)
	}

	return nil
}

// IsHashSolved checks the hash to make sure it complies with the POW rules.
// The hash interpreted as a big-endian integer must be below 2^(256-difficulty),
// which is the same as requiring difficulty leading zero bits.
func IsHashSolved(difficulty uint32, hash common.Hash) bool {
	if difficulty > 256 {
		return false
	}

	target := new(big.Int).Lsh(big.NewInt(1), uint(256-difficulty))
	return new(big.Int).SetBytes(hash.Bytes()).Cmp(target) < 0
}

// =============================================================================

// BlockData represents what is serialized to storage and to clients. The
// field set and ordering match what the hash is computed over, so any reader
// can verify the stored hash by recomputation.
type BlockData struct {
	Hash   common.Hash `json:"hash"`
	Header BlockHeader `json:"header"`
	Trans  []Tx        `json:"trans"`
}

// NewBlockData constructs the value to serialize.
func NewBlockData(block Block) BlockData {
	blockData := BlockData{
		Hash:   block.Hash(),
		Header: block.Header,
		Trans:  block.Trans,
	}

	return blockData
}

// ToBlock converts a BlockData back into a Block.
func ToBlock(blockData BlockData) Block {
	block := Block{
		Header: blockData.Header,
		Trans:  blockData.Trans,
	}

	return block
}
