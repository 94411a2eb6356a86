// Package txbuilder assembles transfer transactions from a sender's
// available UTXOs. Selection is greedy first-fit over the store's ordered
// listing: no attempt is made to minimize input count or change.
package txbuilder

import (
	"fmt"

	"github.com/ardanlabs/utxo/foundation/blockchain/database"
	"github.com/google/uuid"
)

// InsufficientFundsError is returned when the sender's unclaimed UTXOs
// cannot cover the amount plus the fee.
type InsufficientFundsError struct {
	Sender string
	Have   float64
	Need   float64
}

// Error implements the error interface.
func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds for %s, have %.8f, need %.8f", e.Sender, e.Have, e.Need)
}

// =============================================================================

// BuildTransfer selects the sender's UTXOs that are not claimed by any
// pending transaction, accumulating in store order until amount plus fee is
// covered, and assembles a transfer with a fresh transaction id. A change
// output back to the sender is emitted only when it is strictly positive.
//
// The claims pre-filter keeps the builder from reusing the sender's own
// pending outputs; the built transaction must still go through mempool
// admission for full validation.
func BuildTransfer(db *database.Database, claimed map[database.UTXOID]string, sender string, recipient string, amount float64, fee float64) (database.Tx, error) {
	needed := amount + fee

	var selected []database.UTXO
	var total float64

	for _, utxo := range db.UTXOs(sender) {
		if _, exists := claimed[utxo.ID()]; exists {
			continue
		}

		selected = append(selected, utxo)
		total += utxo.Amount
		if total >= needed {
			break
		}
	}

	if total < needed {
		return database.Tx{}, &InsufficientFundsError{Sender: sender, Have: total, Need: needed}
	}

	inputs := make([]database.TxInput, len(selected))
	for i, utxo := range selected {
		inputs[i] = database.TxInput{
			PrevTxID:     utxo.TxID,
			PrevIndex:    utxo.Index,
			ClaimedOwner: sender,
		}
	}

	outputs := []database.TxOutput{{Amount: amount, Address: recipient}}
	if change := total - amount - fee; change > 0 {
		outputs = append(outputs, database.TxOutput{Amount: change, Address: sender})
	}

	return database.NewTx("tx_"+uuid.NewString(), inputs, outputs), nil
}
