package commands

import (
	"fmt"
	"os"

	"github.com/ardanlabs/minichain/foundation/blockchain/database"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var mineCmd = &cobra.Command{
	Use:   "mine",
	Short: "Mine the next block from the pending pool",
	RunE:  mineRun,
}

func mineRun(cmd *cobra.Command, args []string) error {
	bar := newMiningBar()

	st, err := openState(func(attempts uint64) {
		bar.Set64(int64(attempts))
	})
	if err != nil {
		return err
	}
	defer st.Shutdown()

	block, err := st.MineNextBlock(cmd.Context())
	bar.Finish()
	bar.Clear()
	if err != nil {
		return err
	}

	printBlockSummary(block)
	return nil
}

// newMiningBar constructs the spinner used while the nonce search runs.
// The total is unknown so the bar just counts hash attempts.
func newMiningBar() *progressbar.ProgressBar {
	return progressbar.NewOptions64(
		-1,
		progressbar.OptionSetDescription("Mining block..."),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowIts(),
		progressbar.OptionSetItsString("hashes"),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSpinnerType(14),
	)
}

// printBlockSummary writes the mined block details to the terminal.
func printBlockSummary(block database.Block) {
	fmt.Println("New block mined:")
	fmt.Printf("  Number:       %d\n", block.Header.Number)
	fmt.Printf("  Hash:         %s\n", block.Hash())
	fmt.Printf("  Prev Hash:    %s\n", block.Header.PrevBlockHash)
	fmt.Printf("  Nonce:        %d\n", block.Header.Nonce)
	fmt.Printf("  Difficulty:   %d\n", block.Header.Difficulty)
	fmt.Printf("  Transactions: %d\n", len(block.Trans))
}
