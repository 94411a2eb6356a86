package state

import (
	"fmt"
	"sort"

	"github.com/ardanlabs/utxo/foundation/blockchain/database"
	"github.com/ardanlabs/utxo/foundation/blockchain/validator"
)

// NoTransactionsError is returned when a block is requested and there is
// nothing to mine. The reason distinguishes an empty mempool from a pool
// whose contents all failed re-validation.
type NoTransactionsError struct {
	Reason string
}

// Error implements the error interface.
func (e *NoTransactionsError) Error() string {
	return fmt.Sprintf("no transactions to mine: %s", e.Reason)
}

// =============================================================================

// minedTx pairs a pending transaction with the fee derived during
// re-validation so selection and the coinbase agree on one number.
type minedTx struct {
	tx  database.Tx
	fee float64
}

// MineNewBlock drains the best pending transactions into a new block. Every
// pending transaction is re-validated against current database state first;
// any that no longer pass are dropped from the mempool. The survivors are
// ordered by fee, the top howMany are committed atomically (inputs burned,
// outputs and the fee coinbase minted, block appended), and the new block
// is returned. Passing howMany <= 0 uses the genesis trans-per-block value.
func (s *State) MineNewBlock(minerAddress string, howMany int) (database.Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if howMany <= 0 {
		howMany = int(s.genesis.TransPerBlock)
	}

	pending := s.mempool.Copy()
	if len(pending) == 0 {
		return database.Block{}, &NoTransactionsError{Reason: "mempool is empty"}
	}

	s.evHandler("state: MineNewBlock: MINING: %d pending, selecting up to %d", len(pending), howMany)

	// Mempool contents can drift from database state between admission and
	// mining. Re-validate everything and drop what no longer holds.
	survivors := make([]minedTx, 0, len(pending))
	for _, tx := range pending {
		fee, err := validator.Validate(tx, s.db, nil)
		if err != nil {
			s.evHandler("state: MineNewBlock: MINING: WARNING: dropping tx[%s]: %s", tx.TxID, err)
			s.mempool.Remove(tx.TxID)
			continue
		}
		survivors = append(survivors, minedTx{tx: tx, fee: fee})
	}

	if len(survivors) == 0 {
		return database.Block{}, &NoTransactionsError{Reason: "no pending transaction survived re-validation"}
	}

	// Order by fee descending. The sort is stable so equal fees keep their
	// admission order.
	sort.SliceStable(survivors, func(i, j int) bool {
		return survivors[i].fee > survivors[j].fee
	})

	if howMany < len(survivors) {
		survivors = survivors[:howMany]
	}

	var totalFees float64
	trans := make([]database.Tx, 0, len(survivors)+1)
	for _, mtx := range survivors {
		totalFees += mtx.fee
		mtx.tx.Status = database.StatusConfirmed
		trans = append(trans, mtx.tx)
	}

	// The coinbase carries the collected fees to the miner and rides at the
	// end of the block's transaction list.
	blockNumber := s.db.LatestBlock().Number + 1
	coinbase := database.NewCoinbaseTx(blockNumber, totalFees, minerAddress)
	if err := validator.ValidateCoinbase(coinbase, totalFees); err != nil {
		return database.Block{}, err
	}
	trans = append(trans, coinbase)

	block := database.NewBlock(s.db.LatestBlock(), minerAddress, trans, totalFees)

	s.evHandler("state: MineNewBlock: MINING: commit: %s", block)

	if err := s.db.ApplyBlock(block); err != nil {
		return database.Block{}, err
	}

	for _, mtx := range survivors {
		s.mempool.Remove(mtx.tx.TxID)
	}

	return block, nil
}
