package state

import (
	"github.com/ardanlabs/utxo/foundation/blockchain/database"
	"github.com/ardanlabs/utxo/foundation/blockchain/genesis"
)

// RetrieveGenesis returns a copy of the genesis information.
func (s *State) RetrieveGenesis() genesis.Genesis {
	return s.genesis
}

// RetrieveBalance returns the sum of the unspent outputs owned by the
// specified address.
func (s *State) RetrieveBalance(address string) float64 {
	return s.db.Balance(address)
}

// RetrieveUTXOs returns the unspent outputs owned by the specified address,
// or every unspent output when the address is empty.
func (s *State) RetrieveUTXOs(address string) []database.UTXO {
	return s.db.UTXOs(address)
}

// RetrieveMempool returns the pending transactions in admission order.
func (s *State) RetrieveMempool() []database.Tx {
	return s.mempool.Copy()
}

// MempoolLength returns the current length of the mempool.
func (s *State) MempoolLength() int {
	return s.mempool.Count()
}

// RetrieveChain returns committed blocks newest first, at most limit. The
// database caps the read regardless of the limit asked for.
func (s *State) RetrieveChain(limit int) []database.Block {
	return s.db.Chain(limit)
}

// RetrieveLatestBlock returns the most recently committed block.
func (s *State) RetrieveLatestBlock() database.Block {
	return s.db.LatestBlock()
}
