package state

import (
	"fmt"
)

// ChainInvalidError is returned by ValidateChain when a broken link or
// tampered block is found. The chain is reported as-is for inspection,
// never auto repaired.
type ChainInvalidError struct {
	Number uint64 // Number of the first invalid block.
	Err    error
}

// Error implements the error interface.
func (cie *ChainInvalidError) Error() string {
	return fmt.Sprintf("chain invalid at block %d: %s", cie.Number, cie.Err)
}

// Unwrap exposes the underlying validation failure.
func (cie *ChainInvalidError) Unwrap() error {
	return cie.Err
}

// =============================================================================

// ValidateChain walks the chain from the genesis block forward, validating
// every adjacent pair. The first violation found is returned as a
// ChainInvalidError carrying the offending block number.
func (s *State) ValidateChain() error {
	s.evHandler("state: ValidateChain: started")
	defer s.evHandler("state: ValidateChain: completed")

	blocks := s.db.CopyBlocks()

	gen := blocks[0]
	if gen.Header.Number != 0 {
		return &ChainInvalidError{Number: gen.Header.Number, Err: fmt.Errorf("first block is not the genesis block")}
	}
	if gen.Header.PrevBlockHash != zeroHash {
		return &ChainInvalidError{Number: 0, Err: fmt.Errorf("genesis block previous hash is not zero")}
	}

	for i := 1; i < len(blocks); i++ {
		if err := blocks[i].ValidateBlock(blocks[i-1], s.evHandler); err != nil {
			return &ChainInvalidError{Number: blocks[i].Header.Number, Err: err}
		}
	}

	return nil
}
