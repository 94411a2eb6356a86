// Package mempool maintains the bounded pool of pending transactions and
// the conflict set of UTXO keys those transactions claim. Admission runs
// the validator; once a pending transaction claims a UTXO, any later
// transaction claiming the same UTXO is rejected regardless of its fee.
package mempool

import (
	"errors"
	"sort"
	"sync"

	"github.com/ardanlabs/utxo/foundation/blockchain/database"
	"github.com/ardanlabs/utxo/foundation/blockchain/validator"
)

// ErrFull is returned when the pool is at capacity and no resident
// transaction can be evicted to make room.
var ErrFull = errors.New("mempool full and no transaction can be evicted")

// entry tracks a resident transaction with its admission sequence. The
// sequence breaks fee ties: first admitted wins.
type entry struct {
	tx  database.Tx
	seq uint64
}

// Mempool represents the pool of pending transactions keyed by transaction
// id, with a second index over the UTXO keys they claim.
type Mempool struct {
	mu sync.RWMutex

	maxSize int
	pool    map[string]entry
	claimed map[database.UTXOID]string
	seq     uint64
}

// New constructs a mempool holding at most maxSize pending transactions.
func New(maxSize int) *Mempool {
	return &Mempool{
		maxSize: maxSize,
		pool:    make(map[string]entry),
		claimed: make(map[database.UTXOID]string),
	}
}

// Count returns the current number of transactions in the pool.
func (mp *Mempool) Count() int {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	return len(mp.pool)
}

// Admit validates the transaction against the current database state and
// the conflict set and inserts it into the pool. When the pool is at
// capacity the single lowest-fee resident is evicted first; if eviction
// cannot free a slot the transaction is rejected with ErrFull. On success
// the derived fee is returned.
func (mp *Mempool) Admit(tx database.Tx, db *database.Database) (float64, error) {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if len(mp.pool) >= mp.maxSize {
		if !mp.evictLowestFee(db) {
			return 0, ErrFull
		}
	}

	fee, err := validator.Validate(tx, db, mp.claimed)
	if err != nil {
		return 0, err
	}

	mp.seq++
	mp.pool[tx.TxID] = entry{tx: tx, seq: mp.seq}
	for _, in := range tx.Inputs {
		mp.claimed[in.UTXOID()] = tx.TxID
	}

	return fee, nil
}

// Remove takes the transaction out of the pool and releases its claims.
// Removing a transaction that is not resident is a no-op.
func (mp *Mempool) Remove(txID string) {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.remove(txID)
}

// Copy returns the resident transactions in admission order.
func (mp *Mempool) Copy() []database.Tx {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	entries := make([]entry, 0, len(mp.pool))
	for _, ent := range mp.pool {
		entries = append(entries, ent)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].seq < entries[j].seq
	})

	txs := make([]database.Tx, len(entries))
	for i, ent := range entries {
		txs[i] = ent.tx
	}

	return txs
}

// TopByFee derives each resident transaction's fee against the current
// database state and returns at most howMany transactions ordered by fee
// descending. Ties keep admission order.
func (mp *Mempool) TopByFee(howMany int, db *database.Database) []database.Tx {
	txs := mp.Copy()

	sort.SliceStable(txs, func(i, j int) bool {
		return db.Fee(txs[i]) > db.Fee(txs[j])
	})

	if howMany >= 0 && howMany < len(txs) {
		txs = txs[:howMany]
	}

	return txs
}

// Claims returns a copy of the conflict set: the UTXO keys claimed by
// pending transactions and the transaction claiming each.
func (mp *Mempool) Claims() map[database.UTXOID]string {
	mp.mu.RLock()
	defer mp.mu.RUnlock()

	claims := make(map[database.UTXOID]string, len(mp.claimed))
	for id, txID := range mp.claimed {
		claims[id] = txID
	}

	return claims
}

// Truncate clears all the transactions from the pool and empties the
// conflict set.
func (mp *Mempool) Truncate() {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	mp.pool = make(map[string]entry)
	mp.claimed = make(map[database.UTXOID]string)
}

// =============================================================================

// remove deletes the transaction and releases its claims. Callers must hold
// the write lock.
func (mp *Mempool) remove(txID string) {
	ent, exists := mp.pool[txID]
	if !exists {
		return
	}

	delete(mp.pool, txID)
	for _, in := range ent.tx.Inputs {
		if mp.claimed[in.UTXOID()] == txID {
			delete(mp.claimed, in.UTXOID())
		}
	}
}

// evictLowestFee drops the resident transaction with the lowest derived
// fee, breaking ties toward the earliest admitted. It reports whether a
// slot was freed. Callers must hold the write lock.
func (mp *Mempool) evictLowestFee(db *database.Database) bool {
	if len(mp.pool) == 0 {
		return false
	}

	var victim string
	var victimFee float64
	var victimSeq uint64
	first := true

	for txID, ent := range mp.pool {
		fee := db.Fee(ent.tx)
		if first || fee < victimFee || (fee == victimFee && ent.seq < victimSeq) {
			victim = txID
			victimFee = fee
			victimSeq = ent.seq
			first = false
		}
	}

	mp.remove(victim)

	return true
}
