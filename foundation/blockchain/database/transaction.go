package database

import (
	"bytes"
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

// ErrInvalidTransaction is returned when a transaction fails validation
// before it can enter the pending pool.
var ErrInvalidTransaction = errors.New("invalid transaction")

// RewardAccountID is the reserved account a mining reward is drawn from.
const RewardAccountID = AccountID("root")

// =============================================================================

// AccountID represents an opaque participant identifier. There is no key
// management in this system, an account is just a well formed name.
type AccountID string

// ToAccountID validates and converts the specified string into an AccountID.
func ToAccountID(s string) (AccountID, error) {
	accountID := AccountID(s)
	if !accountID.IsAccountID() {
		return "", fmt.Errorf("%w: malformed account identifier %q", ErrInvalidTransaction, s)
	}

	return accountID, nil
}

// IsAccountID verifies the underlying value is well formed.
func (a AccountID) IsAccountID() bool {
	if a == "" {
		return false
	}

	return !strings.ContainsAny(string(a), " \t\r\n")
}

// =============================================================================

// Tx represents a transfer of value between two parties. A transaction is
// immutable once constructed and is owned by the block that records it.
type Tx struct {
	FromID    AccountID `json:"from"`
	ToID      AccountID `json:"to"`
	Value     float64   `json:"value"`
	TimeStamp uint64    `json:"timestamp"`
}

// NewTx constructs a new transaction and validates the amount and the
// two account identifiers.
func NewTx(fromID AccountID, toID AccountID, value float64) (Tx, error) {
	if !fromID.IsAccountID() {
		return Tx{}, fmt.Errorf("%w: malformed from account %q", ErrInvalidTransaction, fromID)
	}

	if !toID.IsAccountID() {
		return Tx{}, fmt.Errorf("%w: malformed to account %q", ErrInvalidTransaction, toID)
	}

	if math.IsNaN(value) || math.IsInf(value, 0) || value < 0 {
		return Tx{}, fmt.Errorf("%w: value must be a non-negative amount, got %v", ErrInvalidTransaction, value)
	}

	tx := Tx{
		FromID:    fromID,
		ToID:      toID,
		Value:     value,
		TimeStamp: uint64(time.Now().UTC().Unix()),
	}

	return tx, nil
}

// IsReward tests if the transaction credits a mining reward.
func (tx Tx) IsReward() bool {
	return tx.FromID == RewardAccountID
}

// Hash implements the merkle Hashable interface. The digest is computed
// over the canonical encoding of the transaction fields.
func (tx Tx) Hash() ([]byte, error) {
	hash := sha256.Sum256(tx.encode())
	return hash[:], nil
}

// String implements the fmt.Stringer interface for logging.
func (tx Tx) String() string {
	return fmt.Sprintf("%s->%s:%v", tx.FromID, tx.ToID, tx.Value)
}

// =============================================================================

// encode produces the canonical byte encoding of the transaction. Every
// integer is fixed-width big-endian and identifiers are length prefixed, so
// the bytes are stable across platforms and readers.
func (tx Tx) encode() []byte {
	var buf bytes.Buffer

	writeString(&buf, string(tx.FromID))
	writeString(&buf, string(tx.ToID))
	binary.Write(&buf, binary.BigEndian, math.Float64bits(tx.Value))
	binary.Write(&buf, binary.BigEndian, tx.TimeStamp)

	return buf.Bytes()
}

// writeString writes a length prefixed string into the buffer.
func writeString(buf *bytes.Buffer, s string) {
	binary.Write(buf, binary.BigEndian, uint32(len(s)))
	buf.WriteString(s)
}
