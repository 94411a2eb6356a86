// Package state is the core API for the ledger and implements all the
// business rules and processing.
package state

import (
	"sync"

	"github.com/ardanlabs/utxo/foundation/blockchain/database"
	"github.com/ardanlabs/utxo/foundation/blockchain/genesis"
	"github.com/ardanlabs/utxo/foundation/blockchain/mempool"
)

// EventHandler defines a function that is called when events occur in the
// processing of transactions and blocks.
type EventHandler func(v string, args ...any)

// =============================================================================

// Config represents the configuration required to start the engine.
type Config struct {
	Genesis   genesis.Genesis
	Storage   database.Storage
	EvHandler EventHandler
}

// State manages the ledger: the UTXO database, the mempool, and the mining
// of new blocks. A single mutex serializes every mutating operation; the
// engine is designed for one coordinating process.
type State struct {
	mu sync.Mutex

	evHandler EventHandler
	genesis   genesis.Genesis

	db      *database.Database
	mempool *mempool.Mempool
}

// New constructs a new state for ledger management.
func New(cfg Config) (*State, error) {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	// Construct the database with the genesis allocations and replay any
	// blocks the storage backend holds.
	db, err := database.New(cfg.Genesis, cfg.Storage, ev)
	if err != nil {
		return nil, err
	}

	poolSize := int(cfg.Genesis.PoolSize)
	if poolSize == 0 {
		poolSize = int(genesis.Default().PoolSize)
	}

	state := State{
		evHandler: ev,
		genesis:   cfg.Genesis,
		db:        db,
		mempool:   mempool.New(poolSize),
	}

	return &state, nil
}

// Shutdown cleanly brings the engine down.
func (s *State) Shutdown() error {
	s.db.Close()
	return nil
}

// Reset clears the UTXO set, the mempool, and the chain, then installs the
// specified allocations as the new genesis state. An empty allocation map
// falls back to the configured genesis balances.
func (s *State) Reset(allocations map[string]float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(allocations) == 0 {
		allocations = s.genesis.Balances
	}

	s.evHandler("state: Reset: installing genesis with %d allocations", len(allocations))

	if err := s.db.Reset(allocations); err != nil {
		return err
	}
	s.mempool.Truncate()

	return nil
}
