package mempool_test

import (
	"errors"
	"testing"

	"github.com/ardanlabs/utxo/foundation/blockchain/database"
	"github.com/ardanlabs/utxo/foundation/blockchain/database/storage/memory"
	"github.com/ardanlabs/utxo/foundation/blockchain/genesis"
	"github.com/ardanlabs/utxo/foundation/blockchain/mempool"
	"github.com/ardanlabs/utxo/foundation/blockchain/validator"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

func nopEv(v string, args ...any) {}

func newDatabase(t *testing.T, balances map[string]float64) *database.Database {
	t.Helper()

	storage, err := memory.New()
	if err != nil {
		t.Fatalf("\t%s\tShould be able to construct storage: %v", failed, err)
	}

	db, err := database.New(genesis.Genesis{Balances: balances}, storage, nopEv)
	if err != nil {
		t.Fatalf("\t%s\tShould be able to open database: %v", failed, err)
	}

	return db
}

// transfer builds a transaction spending the specified genesis output.
func transfer(txID string, index int, owner string, amount float64, fee float64) database.Tx {
	return database.NewTx(txID,
		[]database.TxInput{{PrevTxID: database.GenesisPrevHash, PrevIndex: index, ClaimedOwner: owner}},
		[]database.TxOutput{{Amount: amount - fee, Address: "Recipient"}},
	)
}

// =============================================================================

func Test_FirstSeenWins(t *testing.T) {
	balances := map[string]float64{"Alice": 50}

	t.Log("Given the need to reject conflicting pending spends.")
	{
		t.Log("\tTest 0:\tWhen two transactions claim the same UTXO.")
		{
			db := newDatabase(t, balances)
			mp := mempool.New(50)

			first := transfer("tx_1", 0, "Alice", 50, 0.001)
			if _, err := mp.Admit(first, db); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould admit the first claim: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould admit the first claim.", success)

			// The rival offers a far higher fee. First seen still wins.
			rival := transfer("tx_2", 0, "Alice", 50, 10)
			_, err := mp.Admit(rival, db)

			var conflictErr *validator.MempoolConflictError
			if !errors.As(err, &conflictErr) {
				t.Fatalf("\t%s\tTest 0:\tShould reject the rival with a conflict, got %v.", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould reject the rival regardless of its fee.", success)

			if conflictErr.ConflictingTxID != "tx_1" {
				t.Fatalf("\t%s\tTest 0:\tShould name the holding transaction, got %s.", failed, conflictErr.ConflictingTxID)
			}
			t.Logf("\t%s\tTest 0:\tShould name the holding transaction.", success)

			// Removing the holder releases the claim for the rival.
			mp.Remove("tx_1")
			if _, err := mp.Admit(rival, db); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould admit the rival once the claim is released: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould admit the rival once the claim is released.", success)
		}
	}
}

func Test_Eviction(t *testing.T) {
	balances := map[string]float64{
		"Alice": 50,
		"Bob":   30,
		"Carol": 20,
	}

	t.Log("Given the need to evict the lowest fee transaction at capacity.")
	{
		t.Log("\tTest 0:\tWhen admitting into a full pool.")
		{
			db := newDatabase(t, balances)
			mp := mempool.New(2)

			// Genesis outputs index by sorted address: Alice 0, Bob 1, Carol 2.
			low := transfer("tx_low", 0, "Alice", 50, 0.001)
			high := transfer("tx_high", 1, "Bob", 30, 5)

			if _, err := mp.Admit(low, db); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould admit the low fee transaction: %v", failed, err)
			}
			if _, err := mp.Admit(high, db); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould admit the high fee transaction: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould fill the pool to capacity.", success)

			next := transfer("tx_next", 2, "Carol", 20, 1)
			if _, err := mp.Admit(next, db); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould admit by evicting the lowest fee: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould admit by evicting the lowest fee.", success)

			if mp.Count() != 2 {
				t.Fatalf("\t%s\tTest 0:\tShould stay at capacity, got %d.", failed, mp.Count())
			}

			// The evicted claim must be free again.
			retry := transfer("tx_retry", 0, "Alice", 50, 0.002)
			if _, err := mp.Admit(retry, db); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould have released the evicted claim: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould have released the evicted claim.", success)
		}

		t.Log("\tTest 1:\tWhen fees tie, the earliest admitted is evicted.")
		{
			db := newDatabase(t, balances)
			mp := mempool.New(2)

			a := transfer("tx_a", 0, "Alice", 50, 1)
			b := transfer("tx_b", 1, "Bob", 30, 1)

			if _, err := mp.Admit(a, db); err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould admit tx_a: %v", failed, err)
			}
			if _, err := mp.Admit(b, db); err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould admit tx_b: %v", failed, err)
			}

			next := transfer("tx_c", 2, "Carol", 20, 2)
			if _, err := mp.Admit(next, db); err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould admit tx_c: %v", failed, err)
			}

			var ids []string
			for _, tx := range mp.Copy() {
				ids = append(ids, tx.TxID)
			}

			for _, id := range ids {
				if id == "tx_a" {
					t.Fatalf("\t%s\tTest 1:\tShould have evicted the earliest admitted, pool holds %v.", failed, ids)
				}
			}
			t.Logf("\t%s\tTest 1:\tShould have evicted the earliest admitted on a tie.", success)
		}
	}
}

func Test_RemoveIdempotent(t *testing.T) {
	balances := map[string]float64{"Alice": 50}

	t.Log("Given the need for idempotent removal.")
	{
		t.Log("\tTest 0:\tWhen removing a transaction twice.")
		{
			db := newDatabase(t, balances)
			mp := mempool.New(50)

			tx := transfer("tx_1", 0, "Alice", 50, 0.001)
			if _, err := mp.Admit(tx, db); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould admit the transaction: %v", failed, err)
			}

			mp.Remove("tx_1")
			mp.Remove("tx_1")
			mp.Remove("tx_never_existed")

			if mp.Count() != 0 {
				t.Fatalf("\t%s\tTest 0:\tShould have an empty pool, got %d.", failed, mp.Count())
			}
			if len(mp.Claims()) != 0 {
				t.Fatalf("\t%s\tTest 0:\tShould have no claims left.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould tolerate repeated and unknown removals.", success)
		}
	}
}

func Test_TopByFee(t *testing.T) {
	balances := map[string]float64{
		"Alice": 50,
		"Bob":   30,
		"Carol": 20,
	}

	t.Log("Given the need to select the best transactions by fee.")
	{
		t.Log("\tTest 0:\tWhen ranking three transactions with distinct fees.")
		{
			db := newDatabase(t, balances)
			mp := mempool.New(50)

			txs := []database.Tx{
				transfer("tx_mid", 0, "Alice", 50, 2),
				transfer("tx_low", 1, "Bob", 30, 1),
				transfer("tx_high", 2, "Carol", 20, 3),
			}
			for _, tx := range txs {
				if _, err := mp.Admit(tx, db); err != nil {
					t.Fatalf("\t%s\tTest 0:\tShould admit %s: %v", failed, tx.TxID, err)
				}
			}

			top := mp.TopByFee(2, db)
			if len(top) != 2 {
				t.Fatalf("\t%s\tTest 0:\tShould get 2 transactions back, got %d.", failed, len(top))
			}
			if top[0].TxID != "tx_high" || top[1].TxID != "tx_mid" {
				t.Fatalf("\t%s\tTest 0:\tShould rank by fee descending, got %s %s.", failed, top[0].TxID, top[1].TxID)
			}
			t.Logf("\t%s\tTest 0:\tShould rank by fee descending.", success)
		}
	}
}

func Test_CopyOrder(t *testing.T) {
	balances := map[string]float64{
		"Alice": 50,
		"Bob":   30,
	}

	t.Log("Given the need to read the pool in admission order.")
	{
		t.Log("\tTest 0:\tWhen copying after two admissions.")
		{
			db := newDatabase(t, balances)
			mp := mempool.New(50)

			first := transfer("tx_first", 0, "Alice", 50, 1)
			second := transfer("tx_second", 1, "Bob", 30, 2)

			if _, err := mp.Admit(first, db); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould admit tx_first: %v", failed, err)
			}
			if _, err := mp.Admit(second, db); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould admit tx_second: %v", failed, err)
			}

			txs := mp.Copy()
			if len(txs) != 2 || txs[0].TxID != "tx_first" || txs[1].TxID != "tx_second" {
				t.Fatalf("\t%s\tTest 0:\tShould keep admission order in the copy.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould keep admission order in the copy.", success)
		}
	}
}
