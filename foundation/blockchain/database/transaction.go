package database

import (
	"fmt"
	"time"
)

// Set of statuses a transaction moves through.
const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
)

// =============================================================================

// TxInput references a UTXO being spent. The claimed owner stands in for a
// signature: validation requires it to match the owner recorded on the UTXO.
type TxInput struct {
	PrevTxID     string `json:"prev_tx"`
	PrevIndex    int    `json:"index"`
	ClaimedOwner string `json:"owner"`
}

// UTXOID returns the key of the UTXO this input spends.
func (in TxInput) UTXOID() UTXOID {
	return UTXOID{TxID: in.PrevTxID, Index: in.PrevIndex}
}

// TxOutput represents value being assigned to an address.
type TxOutput struct {
	Amount  float64 `json:"amount"`
	Address string  `json:"address"`
}

// =============================================================================

// Tx is a transaction moving value between addresses. The fee is never
// stored, it is derived as the sum of the inputs minus the sum of the
// outputs. A transaction is frozen once it enters the mempool.
type Tx struct {
	TxID      string     `json:"tx_id"`
	Inputs    []TxInput  `json:"inputs"`
	Outputs   []TxOutput `json:"outputs"`
	Status    string     `json:"status"`
	TimeStamp int64      `json:"timestamp"` // Unix milliseconds when the transaction was created.
}

// NewTx constructs a pending transaction from the specified inputs
// and outputs.
func NewTx(txID string, inputs []TxInput, outputs []TxOutput) Tx {
	return Tx{
		TxID:      txID,
		Inputs:    inputs,
		Outputs:   outputs,
		Status:    StatusPending,
		TimeStamp: time.Now().UTC().UnixMilli(),
	}
}

// NewCoinbaseTx constructs the zero-input transaction that pays the
// collected fees of a block to the miner. It is born confirmed.
func NewCoinbaseTx(blockNumber uint64, totalFees float64, minerAddress string) Tx {
	now := time.Now().UTC().UnixMilli()

	return Tx{
		TxID:      fmt.Sprintf("coinbase_%d_%d", blockNumber, now),
		Outputs:   []TxOutput{{Amount: totalFees, Address: minerAddress}},
		Status:    StatusConfirmed,
		TimeStamp: now,
	}
}

// IsCoinbase reports whether this transaction mints fees rather than
// spending existing UTXOs.
func (tx Tx) IsCoinbase() bool {
	return len(tx.Inputs) == 0
}

// TotalOutput sums the output amounts of the transaction.
func (tx Tx) TotalOutput() float64 {
	var total float64
	for _, out := range tx.Outputs {
		total += out.Amount
	}
	return total
}

// String implements the fmt.Stringer interface for logging.
func (tx Tx) String() string {
	return fmt.Sprintf("%s: %d in, %d out", tx.TxID, len(tx.Inputs), len(tx.Outputs))
}
