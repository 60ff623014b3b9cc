package retarget_test

import (
	"testing"
	"time"

	"github.com/ardanlabs/minichain/foundation/blockchain/retarget"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

// timestamps builds a run of block times spaced by the specified interval,
// one more timestamp than the window so the window has that many intervals.
func timestamps(window int, interval time.Duration) []uint64 {
	ts := make([]uint64, 0, window+1)
	base := uint64(1_700_000_000)
	for i := 0; i <= window; i++ {
		ts = append(ts, base+uint64(i)*uint64(interval.Seconds()))
	}
	return ts
}

// =============================================================================

func Test_NextDifficulty(t *testing.T) {
	type table struct {
		name     string
		current  uint32
		interval time.Duration
		exp      uint32
	}

	tt := []table{
		{name: "fast", current: 6, interval: 3 * time.Second, exp: 7},
		{name: "slow", current: 6, interval: 20 * time.Second, exp: 5},
		{name: "ontarget", current: 6, interval: 10 * time.Second, exp: 6},
		{name: "fasttolerated", current: 6, interval: 8 * time.Second, exp: 6},
		{name: "slowtolerated", current: 6, interval: 12 * time.Second, exp: 6},
		{name: "floor", current: 1, interval: 30 * time.Second, exp: 1},
	}

	adjuster := retarget.New(retarget.Config{
		Window:     10,
		TargetTime: 10 * time.Second,
		Tolerance:  2 * time.Second,
	})

	t.Log("Given the need to adjust the difficulty from observed block timing.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen blocks arrive every %v with difficulty %d.", testID, tst.interval, tst.current)
			{
				f := func(t *testing.T) {
					got := adjuster.NextDifficulty(tst.current, timestamps(10, tst.interval))
					if got != tst.exp {
						t.Logf("\t\tTest %d:\tgot: %d", testID, got)
						t.Logf("\t\tTest %d:\texp: %d", testID, tst.exp)
						t.Fatalf("\t%s\tTest %d:\tShould get the expected difficulty.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould get the expected difficulty.", success, testID)
				}

				t.Run(tst.name, f)
			}
		}
	}
}

func Test_Boundary(t *testing.T) {
	t.Log("Given the need to adjust only on window boundaries.")
	{
		t.Log("\tTest 0:\tWhen checking block numbers against a window of 10.")
		{
			adjuster := retarget.New(retarget.Config{Window: 10})

			boundaries := []uint64{10, 20, 100}
			for _, num := range boundaries {
				if !adjuster.IsBoundary(num) {
					t.Fatalf("\t%s\tTest 0:\tShould treat block %d as a boundary.", failed, num)
				}
			}
			t.Logf("\t%s\tTest 0:\tShould treat window multiples as boundaries.", success)

			others := []uint64{0, 1, 9, 11, 25}
			for _, num := range others {
				if adjuster.IsBoundary(num) {
					t.Fatalf("\t%s\tTest 0:\tShould not treat block %d as a boundary.", failed, num)
				}
			}
			t.Logf("\t%s\tTest 0:\tShould not treat other block numbers as boundaries.", success)
		}
	}
}

func Test_ShortHistory(t *testing.T) {
	t.Log("Given the need to leave the difficulty alone without enough history.")
	{
		t.Log("\tTest 0:\tWhen fewer than two timestamps are available.")
		{
			adjuster := retarget.New(retarget.Config{})

			if got := adjuster.NextDifficulty(6, nil); got != 6 {
				t.Fatalf("\t%s\tTest 0:\tShould keep the difficulty with no timestamps, got %d.", failed, got)
			}
			t.Logf("\t%s\tTest 0:\tShould keep the difficulty with no timestamps.", success)

			if got := adjuster.NextDifficulty(6, []uint64{1_700_000_000}); got != 6 {
				t.Fatalf("\t%s\tTest 0:\tShould keep the difficulty with one timestamp, got %d.", failed, got)
			}
			t.Logf("\t%s\tTest 0:\tShould keep the difficulty with one timestamp.", success)
		}
	}
}
