// Package validator implements the rules a transaction must satisfy before
// it can enter the mempool or be committed into a block. Validation never
// mutates state and is safe to run repeatedly against a consistent read of
// the database.
package validator

import (
	"fmt"
	"math"

	"github.com/ardanlabs/utxo/foundation/blockchain/database"
)

// feeTolerance bounds the float comparison when checking a coinbase output
// against the collected fees.
const feeTolerance = 1e-8

// Validate checks the transaction against the current UTXO set and the
// specified mempool claims, in a fixed rule order so rejections are
// deterministic. On success it returns the derived fee, which may be zero.
//
// The rules, in order:
//  1. no output amount is negative
//  2. no UTXO is spent twice within the transaction
//  3. every input exists in the store and its claimed owner matches
//  4. no input is already claimed by a different pending transaction
//  5. the inputs cover the outputs
func Validate(tx database.Tx, db *database.Database, claimed map[database.UTXOID]string) (float64, error) {
	for i, out := range tx.Outputs {
		if out.Amount < 0 {
			return 0, &NegativeOutputError{Index: i, Amount: out.Amount}
		}
	}

	seen := make(map[database.UTXOID]struct{}, len(tx.Inputs))
	for _, in := range tx.Inputs {
		id := in.UTXOID()
		if _, exists := seen[id]; exists {
			return 0, &DuplicateInputError{UTXO: id}
		}
		seen[id] = struct{}{}
	}

	var totalInput float64
	for _, in := range tx.Inputs {
		id := in.UTXOID()

		utxo, exists := db.GetUTXO(id)
		if !exists {
			return 0, &MissingUTXOError{UTXO: id}
		}

		if utxo.Owner != in.ClaimedOwner {
			return 0, &OwnerMismatchError{UTXO: id, Got: in.ClaimedOwner, Expected: utxo.Owner}
		}

		totalInput += utxo.Amount
	}

	for _, in := range tx.Inputs {
		id := in.UTXOID()
		if txID, exists := claimed[id]; exists && txID != tx.TxID {
			return 0, &MempoolConflictError{UTXO: id, ConflictingTxID: txID}
		}
	}

	totalOutput := tx.TotalOutput()
	if totalInput < totalOutput {
		return 0, &InsufficientInputError{TotalInput: totalInput, TotalOutput: totalOutput}
	}

	return totalInput - totalOutput, nil
}

// ValidateCoinbase checks the zero-input transaction minting the block's
// fees. A coinbase is exempt from rules 2-5 since it has no inputs, but the
// output must be non-negative and must equal the collected fees exactly.
func ValidateCoinbase(tx database.Tx, totalFees float64) error {
	if len(tx.Inputs) != 0 {
		return fmt.Errorf("coinbase transaction must have no inputs, got %d", len(tx.Inputs))
	}

	if len(tx.Outputs) != 1 {
		return fmt.Errorf("coinbase transaction must have exactly one output, got %d", len(tx.Outputs))
	}

	if tx.Outputs[0].Amount < 0 {
		return &NegativeOutputError{Index: 0, Amount: tx.Outputs[0].Amount}
	}

	if math.Abs(tx.Outputs[0].Amount-totalFees) > feeTolerance {
		return fmt.Errorf("coinbase output %.8f does not match collected fees %.8f", tx.Outputs[0].Amount, totalFees)
	}

	return nil
}
