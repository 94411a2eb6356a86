package database

import "fmt"

// UTXOID uniquely identifies an unspent transaction output by the
// transaction that created it and the position of the output.
type UTXOID struct {
	TxID  string `json:"tx_id"`
	Index int    `json:"index"`
}

// String implements the fmt.Stringer interface for logging.
func (id UTXOID) String() string {
	return fmt.Sprintf("(%s, %d)", id.TxID, id.Index)
}

// =============================================================================

// UTXO represents an unspent transaction output. A UTXO exists in the
// database if and only if it has not been spent.
type UTXO struct {
	TxID   string  `json:"tx_id"`
	Index  int     `json:"index"`
	Amount float64 `json:"amount"`
	Owner  string  `json:"owner"`
}

// ID returns the composite key for this UTXO.
func (u UTXO) ID() UTXOID {
	return UTXOID{TxID: u.TxID, Index: u.Index}
}
