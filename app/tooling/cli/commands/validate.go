package commands

import (
	"errors"
	"fmt"

	"github.com/ardanlabs/minichain/foundation/blockchain/state"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the hash linkage of the full chain",
	RunE:  validateRun,
}

func validateRun(cmd *cobra.Command, args []string) error {
	st, err := openState(nil)
	if err != nil {
		return err
	}
	defer st.Shutdown()

	if err := st.ValidateChain(); err != nil {
		var cie *state.ChainInvalidError
		if errors.As(err, &cie) {
			return fmt.Errorf("chain invalid at block %d: %w", cie.Number, cie.Err)
		}
		return err
	}

	fmt.Printf("Chain valid: %d blocks.\n", st.Height())
	return nil
}
