package commands

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/ardanlabs/minichain/foundation/blockchain/database"
	"github.com/ardanlabs/minichain/foundation/blockchain/state"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:   "show [block number]",
	Short: "Show the blockchain or a single block",
	Args:  cobra.MaximumNArgs(1),
	RunE:  showRun,
}

func showRun(cmd *cobra.Command, args []string) error {
	st, err := openState(nil)
	if err != nil {
		return err
	}
	defer st.Shutdown()

	if len(args) == 1 {
		num, err := strconv.ParseUint(args[0], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid block number %q", args[0])
		}

		block, err := st.QueryBlockByNumber(num)
		if err != nil {
			return err
		}

		return printBlock(block)
	}

	printChain(st)
	return nil
}

// printChain writes every block in the chain to the terminal.
func printChain(st *state.State) {
	for _, block := range st.RetrieveBlocks() {
		fmt.Printf("--- Block #%d ---\n", block.Header.Number)
		if err := printBlock(block); err != nil {
			fmt.Println("unable to display block:", err)
		}
	}
}

// printBlock writes the serialized form of the block, the same field set
// the hash is computed over, so the output can be verified externally.
func printBlock(block database.Block) error {
	data, err := json.MarshalIndent(database.NewBlockData(block), "", "  ")
	if err != nil {
		return err
	}

	fmt.Println(string(data))
	return nil
}
