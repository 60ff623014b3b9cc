package commands

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/ardanlabs/minichain/foundation/blockchain/database"
	"github.com/ardanlabs/minichain/foundation/blockchain/state"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run an interactive mining session",
	RunE:  runRun,
}

func runRun(cmd *cobra.Command, args []string) error {

	// The bar in play is swapped for every mining operation, the engine
	// hook just forwards the attempt count to whichever bar is active.
	var bar *progressbar.ProgressBar
	st, err := openState(func(attempts uint64) {
		if bar != nil {
			bar.Set64(int64(attempts))
		}
	})
	if err != nil {
		return err
	}
	defer st.Shutdown()

	fmt.Printf("Chain loaded: height %d, difficulty %d\n", st.Height(), st.RetrieveDifficulty())

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Println()
		fmt.Println("Choose an option:")
		fmt.Println("1. New transaction")
		fmt.Println("2. Mine a new block")
		fmt.Println("3. Show blockchain")
		fmt.Println("4. Validate chain")
		fmt.Println("0. Exit")
		fmt.Print("Enter your choice: ")

		if !scanner.Scan() {
			return scanner.Err()
		}

		switch strings.TrimSpace(scanner.Text()) {
		case "1":
			if err := promptTransaction(scanner, st); err != nil {
				fmt.Println("Failed to add transaction:", err)
			}

		case "2":
			bar = newMiningBar()
			block, err := st.MineNextBlock(cmd.Context())
			bar.Finish()
			bar.Clear()
			bar = nil
			if err != nil {
				fmt.Println("Mining failed:", err)
				continue
			}
			printBlockSummary(block)

		case "3":
			printChain(st)

		case "4":
			if err := st.ValidateChain(); err != nil {
				fmt.Println("Chain INVALID:", err)
				continue
			}
			fmt.Println("Chain valid.")

		case "0":
			fmt.Println("Exiting.")
			return nil

		default:
			fmt.Println("Invalid choice, try again.")
		}
	}
}

// promptTransaction reads the transaction details from the terminal and
// submits them to the pending pool.
func promptTransaction(scanner *bufio.Scanner, st *state.State) error {
	fmt.Print("Sender: ")
	if !scanner.Scan() {
		return scanner.Err()
	}
	from := strings.TrimSpace(scanner.Text())

	fmt.Print("Receiver: ")
	if !scanner.Scan() {
		return scanner.Err()
	}
	to := strings.TrimSpace(scanner.Text())

	fmt.Print("Amount: ")
	if !scanner.Scan() {
		return scanner.Err()
	}
	value, err := strconv.ParseFloat(strings.TrimSpace(scanner.Text()), 64)
	if err != nil {
		return fmt.Errorf("invalid amount: %w", err)
	}

	tx, err := st.SubmitTransaction(database.AccountID(from), database.AccountID(to), value)
	if err != nil {
		return err
	}

	fmt.Println("Transaction added:", tx)
	return nil
}
