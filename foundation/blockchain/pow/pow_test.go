package pow_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ardanlabs/minichain/foundation/blockchain/database"
	"github.com/ardanlabs/minichain/foundation/blockchain/genesis"
	"github.com/ardanlabs/minichain/foundation/blockchain/pow"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

// template builds an unmined candidate block at the specified difficulty.
func template(t *testing.T, difficulty uint32) database.Block {
	t.Helper()

	gen := genesis.Genesis{
		Date:         time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
		ChainID:      1,
		Difficulty:   difficulty,
		MiningReward: 50,
	}
	genBlock := database.GenesisBlock(gen)

	tx, err := database.NewTx("aria", "bill", 10)
	if err != nil {
		t.Fatalf("unable to create transaction: %v", err)
	}

	block, err := database.NewBlock("miner1", difficulty, genBlock, []database.Tx{tx})
	if err != nil {
		t.Fatalf("unable to create block: %v", err)
	}

	return block
}

// =============================================================================

func Test_Search(t *testing.T) {
	t.Log("Given the need to find a nonce that satisfies the difficulty.")
	{
		t.Log("\tTest 0:\tWhen mining a block at a low difficulty.")
		{
			const difficulty = 4
			block := template(t, difficulty)

			engine := pow.New(pow.Config{})

			result, err := engine.Search(context.Background(), block)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to complete the search: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to complete the search.", success)

			block.Header.Nonce = result.Nonce
			if !database.IsHashSolved(difficulty, block.Hash()) {
				t.Fatalf("\t%s\tTest 0:\tShould produce a hash that satisfies the difficulty.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould produce a hash that satisfies the difficulty.", success)

			if block.Hash() != result.Hash {
				t.Fatalf("\t%s\tTest 0:\tShould report the hash for the winning nonce.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould report the hash for the winning nonce.", success)

			for nonce := uint64(0); nonce < result.Nonce; nonce++ {
				block.Header.Nonce = nonce
				if database.IsHashSolved(difficulty, block.Hash()) {
					t.Fatalf("\t%s\tTest 0:\tShould find the lowest solving nonce, but %d also solves.", failed, nonce)
				}
			}
			t.Logf("\t%s\tTest 0:\tShould find the lowest solving nonce.", success)

			if result.Attempts != result.Nonce+1 {
				t.Logf("\t\tTest 0:\tgot: %d", result.Attempts)
				t.Logf("\t\tTest 0:\texp: %d", result.Nonce+1)
				t.Fatalf("\t%s\tTest 0:\tShould count one attempt per nonce tried.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould count one attempt per nonce tried.", success)
		}
	}
}

func Test_SearchDeterminism(t *testing.T) {
	t.Log("Given the need for repeated searches to agree on the same nonce.")
	{
		t.Log("\tTest 0:\tWhen mining the same template twice.")
		{
			block := template(t, 4)
			engine := pow.New(pow.Config{})

			first, err := engine.Search(context.Background(), block)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to complete the first search: %v", failed, err)
			}

			second, err := engine.Search(context.Background(), block)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to complete the second search: %v", failed, err)
			}

			if first.Nonce != second.Nonce || first.Hash != second.Hash {
				t.Fatalf("\t%s\tTest 0:\tShould produce the same result both times.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould produce the same result both times.", success)
		}
	}
}

func Test_SearchCancellation(t *testing.T) {
	t.Log("Given the need to abandon a search when the context is canceled.")
	{
		t.Log("\tTest 0:\tWhen mining at an unreachable difficulty with a canceled context.")
		{
			block := template(t, 64)

			engine := pow.New(pow.Config{ProgressEvery: 1})

			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			if _, err := engine.Search(ctx, block); !errors.Is(err, context.Canceled) {
				t.Fatalf("\t%s\tTest 0:\tShould get a context.Canceled error: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould get a context.Canceled error.", success)
		}
	}
}

func Test_SearchExhaustion(t *testing.T) {
	t.Log("Given the need to stop after the configured attempt cap.")
	{
		t.Log("\tTest 0:\tWhen mining at an unreachable difficulty with a small cap.")
		{
			block := template(t, 64)

			var calls int
			engine := pow.New(pow.Config{
				MaxAttempts:   10,
				ProgressEvery: 4,
				Progress:      func(attempts uint64) { calls++ },
			})

			if _, err := engine.Search(context.Background(), block); !errors.Is(err, pow.ErrMiningExhausted) {
				t.Fatalf("\t%s\tTest 0:\tShould get an ErrMiningExhausted error: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould get an ErrMiningExhausted error.", success)

			if calls == 0 {
				t.Fatalf("\t%s\tTest 0:\tShould report progress during the search.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould report progress during the search.", success)
		}
	}
}
