package database_test

import (
	"math"
	"testing"
	"time"

	"github.com/ardanlabs/minichain/foundation/blockchain/database"
	"github.com/ardanlabs/minichain/foundation/blockchain/genesis"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

// testGenesis returns the genesis settings used across these tests.
func testGenesis() genesis.Genesis {
	return genesis.Genesis{
		Date:         time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
		ChainID:      1,
		Difficulty:   1,
		MiningReward: 50,
	}
}

// solve increments the nonce until the block hash satisfies its own
// difficulty. Only usable at the low difficulty these tests run with.
func solve(t *testing.T, block database.Block) database.Block {
	t.Helper()

	for !database.IsHashSolved(block.Header.Difficulty, block.Hash()) {
		block.Header.Nonce++
	}

	return block
}

// =============================================================================

func Test_Transactions(t *testing.T) {
	type table struct {
		name  string
		from  database.AccountID
		to    database.AccountID
		value float64
		valid bool
	}

	tt := []table{
		{name: "basic", from: "aria", to: "bill", value: 10, valid: true},
		{name: "zero", from: "aria", to: "bill", value: 0, valid: true},
		{name: "negative", from: "aria", to: "bill", value: -1, valid: false},
		{name: "nan", from: "aria", to: "bill", value: math.NaN(), valid: false},
		{name: "infinite", from: "aria", to: "bill", value: math.Inf(1), valid: false},
		{name: "emptyfrom", from: "", to: "bill", value: 10, valid: false},
		{name: "spacesto", from: "aria", to: "bi ll", value: 10, valid: false},
	}

	t.Log("Given the need to validate new transactions.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen handling transaction %q.", testID, tst.name)
			{
				f := func(t *testing.T) {
					_, err := database.NewTx(tst.from, tst.to, tst.value)
					switch {
					case tst.valid && err != nil:
						t.Fatalf("\t%s\tTest %d:\tShould be able to create the transaction: %v", failed, testID, err)
					case !tst.valid && err == nil:
						t.Fatalf("\t%s\tTest %d:\tShould reject the malformed transaction.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould get the expected validation result.", success, testID)
				}

				t.Run(tst.name, f)
			}
		}
	}
}

func Test_BlockHashDeterminism(t *testing.T) {
	t.Log("Given the need to verify block hashes are stable across serialization.")
	{
		t.Log("\tTest 0:\tWhen hashing a block before and after a round trip.")
		{
			genBlock := database.GenesisBlock(testGenesis())

			tx, err := database.NewTx("aria", "bill", 25)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to create a transaction: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to create a transaction.", success)

			block, err := database.NewBlock("miner1", 1, genBlock, []database.Tx{tx})
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to create the block: %v", failed, err)
			}
			block = solve(t, block)

			blockData := database.NewBlockData(block)
			if blockData.Hash != block.Hash() {
				t.Fatalf("\t%s\tTest 0:\tShould store the computed hash in the block data.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould store the computed hash in the block data.", success)

			back := database.ToBlock(blockData)
			if back.Hash() != blockData.Hash {
				t.Logf("\t\tTest 0:\tgot: %s", back.Hash())
				t.Logf("\t\tTest 0:\texp: %s", blockData.Hash)
				t.Fatalf("\t%s\tTest 0:\tShould recompute the identical hash after the round trip.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould recompute the identical hash after the round trip.", success)
		}
	}
}

func Test_BlockLinkage(t *testing.T) {
	t.Log("Given the need to validate the hash linkage between blocks.")
	{
		t.Log("\tTest 0:\tWhen validating a mined block against its parent.")
		{
			genBlock := database.GenesisBlock(testGenesis())

			tx, err := database.NewTx("aria", "bill", 25)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to create a transaction: %v", failed, err)
			}

			block, err := database.NewBlock("miner1", 1, genBlock, []database.Tx{tx})
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to create the block: %v", failed, err)
			}
			block = solve(t, block)

			if block.Header.Number != genBlock.Header.Number+1 {
				t.Fatalf("\t%s\tTest 0:\tShould carry the next block number.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould carry the next block number.", success)

			if block.Header.PrevBlockHash != genBlock.Hash() {
				t.Fatalf("\t%s\tTest 0:\tShould reference the parent hash.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould reference the parent hash.", success)

			if err := block.ValidateBlock(genBlock, nullEv); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould validate against the parent: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould validate against the parent.", success)

			wrongNumber := block
			wrongNumber.Header.Number = 5
			if err := wrongNumber.ValidateBlock(genBlock, nullEv); err == nil {
				t.Fatalf("\t%s\tTest 0:\tShould reject a block with the wrong number.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould reject a block with the wrong number.", success)

			if err := block.ValidateBlock(block, nullEv); err == nil {
				t.Fatalf("\t%s\tTest 0:\tShould reject a block whose parent hash doesn't match.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould reject a block whose parent hash doesn't match.", success)
		}
	}
}

func Test_TamperDetection(t *testing.T) {
	t.Log("Given the need to detect a mutated transaction inside a stored block.")
	{
		t.Log("\tTest 0:\tWhen changing a transaction amount without re-mining.")
		{
			chain := []database.Block{database.GenesisBlock(testGenesis())}

			for i := 0; i < 3; i++ {
				tx, err := database.NewTx("aria", "bill", float64(10+i))
				if err != nil {
					t.Fatalf("\t%s\tTest 0:\tShould be able to create a transaction: %v", failed, err)
				}

				block, err := database.NewBlock("miner1", 1, chain[len(chain)-1], []database.Tx{tx})
				if err != nil {
					t.Fatalf("\t%s\tTest 0:\tShould be able to create block %d: %v", failed, i+1, err)
				}
				chain = append(chain, solve(t, block))
			}

			for i := 1; i < len(chain); i++ {
				if err := chain[i].ValidateBlock(chain[i-1], nullEv); err != nil {
					t.Fatalf("\t%s\tTest 0:\tShould have a valid chain before tampering: %v", failed, err)
				}
			}
			t.Logf("\t%s\tTest 0:\tShould have a valid chain before tampering.", success)

			const tampered = 2
			chain[tampered].Trans[0].Value = 1_000_000

			firstInvalid := -1
			for i := 1; i < len(chain); i++ {
				if err := chain[i].ValidateBlock(chain[i-1], nullEv); err != nil {
					firstInvalid = i
					break
				}
			}

			if firstInvalid == -1 {
				t.Fatalf("\t%s\tTest 0:\tShould detect the tampered chain.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould detect the tampered chain.", success)

			if firstInvalid < tampered {
				t.Logf("\t\tTest 0:\tgot: %d", firstInvalid)
				t.Logf("\t\tTest 0:\texp: >= %d", tampered)
				t.Fatalf("\t%s\tTest 0:\tShould report the violation at or after the tampered block.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould report the violation at or after the tampered block.", success)
		}
	}
}

// =============================================================================

func nullEv(v string, args ...any) {}
