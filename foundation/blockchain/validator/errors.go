package validator

import (
	"fmt"

	"github.com/ardanlabs/utxo/foundation/blockchain/database"
)

// NegativeOutputError is returned when a transaction carries an output
// with a negative amount.
type NegativeOutputError struct {
	Index  int
	Amount float64
}

// Error implements the error interface.
func (e *NegativeOutputError) Error() string {
	return fmt.Sprintf("negative output amount %g at index %d", e.Amount, e.Index)
}

// DuplicateInputError is returned when a transaction spends the same UTXO
// more than once in its own input list.
type DuplicateInputError struct {
	UTXO database.UTXOID
}

// Error implements the error interface.
func (e *DuplicateInputError) Error() string {
	return fmt.Sprintf("utxo %s used twice in the same transaction", e.UTXO)
}

// MissingUTXOError is returned when an input references a UTXO that does
// not exist in the store. Outputs of pending transactions are unspendable
// and fall under this error as well.
type MissingUTXOError struct {
	UTXO database.UTXOID
}

// Error implements the error interface.
func (e *MissingUTXOError) Error() string {
	return fmt.Sprintf("input utxo %s does not exist", e.UTXO)
}

// OwnerMismatchError is returned when the claimed owner of an input does
// not match the owner recorded on the UTXO.
type OwnerMismatchError struct {
	UTXO     database.UTXOID
	Got      string
	Expected string
}

// Error implements the error interface.
func (e *OwnerMismatchError) Error() string {
	return fmt.Sprintf("utxo %s owner mismatch, got %s, exp %s", e.UTXO, e.Got, e.Expected)
}

// MempoolConflictError is returned when an input references a UTXO already
// claimed by a different pending transaction.
type MempoolConflictError struct {
	UTXO            database.UTXOID
	ConflictingTxID string
}

// Error implements the error interface.
func (e *MempoolConflictError) Error() string {
	return fmt.Sprintf("utxo %s already claimed by pending transaction %s", e.UTXO, e.ConflictingTxID)
}

// InsufficientInputError is returned when the inputs of a transaction do
// not cover its outputs.
type InsufficientInputError struct {
	TotalInput  float64
	TotalOutput float64
}

// Error implements the error interface.
func (e *InsufficientInputError) Error() string {
	return fmt.Sprintf("insufficient inputs, input %.8f, output %.8f", e.TotalInput, e.TotalOutput)
}
