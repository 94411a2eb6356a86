// Package database handles the lower level support for maintaining the
// ledger: the in memory UTXO set, the block sequence, and reading/writing
// blocks through a storage backend.
package database

import (
	"fmt"
	"sort"
	"sync"

	"github.com/ardanlabs/utxo/foundation/blockchain/genesis"
)

// maxChainRead caps the number of blocks a chain query returns so a read
// against a remote backend stays bounded. Callers must not assume the full
// chain comes back.
const maxChainRead = 20

// Storage interface represents the behavior required to be implemented by
// any package providing support for storing and reading committed blocks.
type Storage interface {
	Write(block Block) error
	ForEach() Iterator
	Close() error
	Reset() error
}

// Iterator interface represents the behavior required to be implemented by
// any package providing support to iterate over the stored blocks.
type Iterator interface {
	Next() (Block, error)
	Done() bool
}

// =============================================================================

// Database manages the UTXO set and the chain of committed blocks.
type Database struct {
	mu sync.RWMutex

	genesis     genesis.Genesis
	utxos       map[UTXOID]UTXO
	blocks      []Block
	latestBlock Block

	storage Storage
}

// New constructs a new database, installs the genesis allocations, and
// replays any blocks found in storage to rebuild the UTXO set.
func New(genesis genesis.Genesis, storage Storage, evHandler func(v string, args ...any)) (*Database, error) {
	db := Database{
		genesis: genesis,
		utxos:   make(map[UTXOID]UTXO),
		storage: storage,
	}

	db.installGenesis(genesis.Balances)

	iter := storage.ForEach()
	for block, err := iter.Next(); !iter.Done(); block, err = iter.Next() {
		if err != nil {
			return nil, err
		}

		if block.Number != db.latestBlock.Number+1 {
			return nil, fmt.Errorf("stored block out of order, got %d, exp %d", block.Number, db.latestBlock.Number+1)
		}

		evHandler("database: New: replay: %s", block)

		db.applyBlock(block)
	}

	return &db, nil
}

// Close closes the storage backend.
func (db *Database) Close() {
	db.storage.Close()
}

// Reset clears the UTXO set, the chain, and the storage backend, then
// installs the specified allocations as fresh genesis UTXOs.
func (db *Database) Reset(allocations map[string]float64) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if err := db.storage.Reset(); err != nil {
		return err
	}

	db.blocks = nil
	db.latestBlock = Block{}
	db.utxos = make(map[UTXOID]UTXO)
	db.installGenesis(allocations)

	return nil
}

// installGenesis mints one UTXO per address under the sentinel genesis
// transaction id. Addresses are ordered so the output indexes are stable
// across runs.
func (db *Database) installGenesis(allocations map[string]float64) {
	addresses := make([]string, 0, len(allocations))
	for address := range allocations {
		addresses = append(addresses, address)
	}
	sort.Strings(addresses)

	for i, address := range addresses {
		utxo := UTXO{
			TxID:   GenesisPrevHash,
			Index:  i,
			Amount: allocations[address],
			Owner:  address,
		}
		db.utxos[utxo.ID()] = utxo
	}
}

// =============================================================================

// GetUTXO performs a point lookup of an unspent output by its key.
func (db *Database) GetUTXO(id UTXOID) (UTXO, bool) {
	db.mu.RLock()
	defer db.mu.RUnlock()

	utxo, exists := db.utxos[id]
	return utxo, exists
}

// UTXOs returns the unspent outputs for the specified owner, or every
// unspent output when the owner is empty. The result is ordered by key so
// coin selection is deterministic.
func (db *Database) UTXOs(owner string) []UTXO {
	db.mu.RLock()
	defer db.mu.RUnlock()

	var utxos []UTXO
	for _, utxo := range db.utxos {
		if owner == "" || utxo.Owner == owner {
			utxos = append(utxos, utxo)
		}
	}

	sort.Slice(utxos, func(i, j int) bool {
		if utxos[i].TxID != utxos[j].TxID {
			return utxos[i].TxID < utxos[j].TxID
		}
		return utxos[i].Index < utxos[j].Index
	})

	return utxos
}

// PutUTXO adds or replaces an unspent output.
func (db *Database) PutUTXO(utxo UTXO) {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.utxos[utxo.ID()] = utxo
}

// DeleteUTXO removes an unspent output. Deleting an absent key is a no-op.
func (db *Database) DeleteUTXO(id UTXOID) {
	db.mu.Lock()
	defer db.mu.Unlock()

	delete(db.utxos, id)
}

// Balance sums the unspent outputs owned by the specified address.
func (db *Database) Balance(address string) float64 {
	db.mu.RLock()
	defer db.mu.RUnlock()

	var balance float64
	for _, utxo := range db.utxos {
		if utxo.Owner == address {
			balance += utxo.Amount
		}
	}

	return balance
}

// Fee derives the fee for the specified transaction against the current
// UTXO set. Inputs no longer present contribute nothing.
func (db *Database) Fee(tx Tx) float64 {
	db.mu.RLock()
	defer db.mu.RUnlock()

	var totalInput float64
	for _, in := range tx.Inputs {
		if utxo, exists := db.utxos[in.UTXOID()]; exists {
			totalInput += utxo.Amount
		}
	}

	return totalInput - tx.TotalOutput()
}

// =============================================================================

// LatestBlock returns the most recently committed block.
func (db *Database) LatestBlock() Block {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return db.latestBlock
}

// Chain returns committed blocks newest first. The read is capped so a
// backend holding a long chain is never drained in one call; asking for
// zero or a value beyond the cap returns the capped maximum.
func (db *Database) Chain(limit int) []Block {
	db.mu.RLock()
	defer db.mu.RUnlock()

	if limit <= 0 || limit > maxChainRead {
		limit = maxChainRead
	}
	if limit > len(db.blocks) {
		limit = len(db.blocks)
	}

	blocks := make([]Block, 0, limit)
	for i := len(db.blocks) - 1; i >= len(db.blocks)-limit; i-- {
		blocks = append(blocks, db.blocks[i])
	}

	return blocks
}

// ApplyBlock persists the block and then, under a single lock acquisition,
// burns every input UTXO and mints every output UTXO of the block's
// transactions and appends the block to the chain. A concurrent reader
// never observes a partially applied block.
func (db *Database) ApplyBlock(block Block) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if block.Number != db.latestBlock.Number+1 {
		return fmt.Errorf("block is out of order, got %d, exp %d", block.Number, db.latestBlock.Number+1)
	}

	if err := db.storage.Write(block); err != nil {
		return err
	}

	db.applyBlock(block)

	return nil
}

// applyBlock mutates the UTXO set and chain for one block. Callers must
// hold the write lock or have exclusive access during construction.
func (db *Database) applyBlock(block Block) {
	for _, tx := range block.Transactions {
		for _, in := range tx.Inputs {
			delete(db.utxos, in.UTXOID())
		}

		for i, out := range tx.Outputs {
			utxo := UTXO{
				TxID:   tx.TxID,
				Index:  i,
				Amount: out.Amount,
				Owner:  out.Address,
			}
			db.utxos[utxo.ID()] = utxo
		}
	}

	db.blocks = append(db.blocks, block)
	db.latestBlock = block
}
