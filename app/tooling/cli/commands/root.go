// Package commands contains the functionality for the set of commands
// currently supported by the CLI tooling.
package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/ardanlabs/minichain/foundation/blockchain/database"
	"github.com/ardanlabs/minichain/foundation/blockchain/database/storage/disk"
	"github.com/ardanlabs/minichain/foundation/blockchain/database/storage/leveldb"
	"github.com/ardanlabs/minichain/foundation/blockchain/database/storage/memory"
	"github.com/ardanlabs/minichain/foundation/blockchain/genesis"
	"github.com/ardanlabs/minichain/foundation/blockchain/state"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "minichain",
	Short: "A sandbox for mining blocks on a local chain",
	Long:  `minichain maintains a local proof-of-work ledger: submit transactions, mine blocks, inspect and validate the chain.`,
}

func init() {
	rootCmd.PersistentFlags().StringP("miner", "m", "miner1", "account credited with mining rewards")
	rootCmd.PersistentFlags().StringP("genesis", "g", "zblock/genesis.json", "path to the genesis file")
	rootCmd.PersistentFlags().StringP("storage", "s", "disk", "block storage kind (disk|leveldb|memory)")
	rootCmd.PersistentFlags().StringP("db-path", "d", "zblock/blocks", "path to the block storage")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "print core events while processing")

	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		fmt.Fprintln(os.Stderr, "binding flags:", err)
	}

	viper.SetEnvPrefix("minichain")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	rootCmd.SilenceUsage = true

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(mineCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(validateCmd)
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// =============================================================================

// openState constructs the chain from the flag settings. The progress
// function is handed to the mining engine so long searches can be
// reported to the terminal.
func openState(progress func(attempts uint64)) (*state.State, error) {
	beneficiaryID, err := database.ToAccountID(viper.GetString("miner"))
	if err != nil {
		return nil, fmt.Errorf("invalid miner account: %w", err)
	}

	gen, err := genesis.Load(viper.GetString("genesis"))
	if err != nil {
		return nil, fmt.Errorf("unable to load genesis file: %w", err)
	}

	storage, err := newStorage(viper.GetString("storage"), viper.GetString("db-path"))
	if err != nil {
		return nil, fmt.Errorf("unable to open storage: %w", err)
	}

	ev := func(v string, args ...any) {}
	if viper.GetBool("verbose") {
		ev = func(v string, args ...any) {
			fmt.Fprintf(os.Stderr, v+"\n", args...)
		}
	}

	return state.New(state.Config{
		BeneficiaryID:  beneficiaryID,
		Genesis:        gen,
		Storage:        storage,
		MiningProgress: progress,
		EvHandler:      ev,
	})
}

// newStorage constructs the configured storage implementation.
func newStorage(kind string, dbPath string) (database.Storage, error) {
	switch kind {
	case "disk":
		return disk.New(dbPath)
	case "leveldb":
		return leveldb.New(dbPath)
	case "memory":
		return memory.New()
	}

	return nil, fmt.Errorf("unknown storage kind %q", kind)
}
