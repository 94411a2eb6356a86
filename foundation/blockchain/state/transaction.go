package state

import (
	"github.com/ardanlabs/utxo/foundation/blockchain/database"
	"github.com/ardanlabs/utxo/foundation/blockchain/txbuilder"
)

// SubmitTransfer builds a transfer from the sender's available UTXOs and
// admits it into the mempool. The returned transaction is pending until a
// mining operation commits it.
func (s *State) SubmitTransfer(sender string, recipient string, amount float64, fee float64) (database.Tx, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := txbuilder.BuildTransfer(s.db, s.mempool.Claims(), sender, recipient, amount, fee)
	if err != nil {
		return database.Tx{}, err
	}

	admittedFee, err := s.mempool.Admit(tx, s.db)
	if err != nil {
		return database.Tx{}, err
	}

	s.evHandler("state: SubmitTransfer: tx[%s] admitted: fee[%.8f]", tx.TxID, admittedFee)

	return tx, nil
}

// SubmitTransaction admits a directly constructed transaction into the
// mempool. On success the derived fee is returned.
func (s *State) SubmitTransaction(tx database.Tx) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fee, err := s.mempool.Admit(tx, s.db)
	if err != nil {
		return 0, err
	}

	s.evHandler("state: SubmitTransaction: tx[%s] admitted: fee[%.8f]", tx.TxID, fee)

	return fee, nil
}
