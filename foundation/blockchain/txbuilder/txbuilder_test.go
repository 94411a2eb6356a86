package txbuilder_test

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/ardanlabs/utxo/foundation/blockchain/database"
	"github.com/ardanlabs/utxo/foundation/blockchain/database/storage/memory"
	"github.com/ardanlabs/utxo/foundation/blockchain/genesis"
	"github.com/ardanlabs/utxo/foundation/blockchain/txbuilder"
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

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

// =============================================================================

func Test_BuildTransfer(t *testing.T) {
	t.Log("Given the need to assemble a transfer from a sender's UTXOs.")
	{
		t.Log("\tTest 0:\tWhen one UTXO covers the amount plus fee.")
		{
			db := newDatabase(t, map[string]float64{"Alice": 50})

			tx, err := txbuilder.BuildTransfer(db, nil, "Alice", "Bob", 10, 0.001)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to build the transfer: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to build the transfer.", success)

			if !strings.HasPrefix(tx.TxID, "tx_") {
				t.Fatalf("\t%s\tTest 0:\tShould assign a tx_ prefixed id, got %s.", failed, tx.TxID)
			}
			t.Logf("\t%s\tTest 0:\tShould assign a tx_ prefixed id.", success)

			if tx.Status != database.StatusPending {
				t.Fatalf("\t%s\tTest 0:\tShould be pending, got %s.", failed, tx.Status)
			}

			if len(tx.Inputs) != 1 {
				t.Fatalf("\t%s\tTest 0:\tShould select one input, got %d.", failed, len(tx.Inputs))
			}

			if len(tx.Outputs) != 2 {
				t.Fatalf("\t%s\tTest 0:\tShould have a payment and a change output, got %d.", failed, len(tx.Outputs))
			}
			if !almostEqual(tx.Outputs[0].Amount, 10) || tx.Outputs[0].Address != "Bob" {
				t.Fatalf("\t%s\tTest 0:\tShould pay Bob 10, got %v to %s.", failed, tx.Outputs[0].Amount, tx.Outputs[0].Address)
			}
			if !almostEqual(tx.Outputs[1].Amount, 39.999) || tx.Outputs[1].Address != "Alice" {
				t.Fatalf("\t%s\tTest 0:\tShould return 39.999 change to Alice, got %v to %s.", failed, tx.Outputs[1].Amount, tx.Outputs[1].Address)
			}
			t.Logf("\t%s\tTest 0:\tShould pay the recipient and return the change.", success)
		}

		t.Log("\tTest 1:\tWhen the inputs match the amount plus fee exactly.")
		{
			db := newDatabase(t, map[string]float64{"Alice": 10})

			tx, err := txbuilder.BuildTransfer(db, nil, "Alice", "Bob", 9.5, 0.5)
			if err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to build the transfer: %v", failed, err)
			}

			if len(tx.Outputs) != 1 {
				t.Fatalf("\t%s\tTest 1:\tShould not emit a zero change output, got %d outputs.", failed, len(tx.Outputs))
			}
			t.Logf("\t%s\tTest 1:\tShould not emit a zero change output.", success)
		}

		t.Log("\tTest 2:\tWhen several UTXOs are needed.")
		{
			db := newDatabase(t, map[string]float64{"Alice": 5})
			db.PutUTXO(database.UTXO{TxID: "tx_prev", Index: 0, Amount: 4, Owner: "Alice"})

			tx, err := txbuilder.BuildTransfer(db, nil, "Alice", "Bob", 8, 0.5)
			if err != nil {
				t.Fatalf("\t%s\tTest 2:\tShould be able to build the transfer: %v", failed, err)
			}

			if len(tx.Inputs) != 2 {
				t.Fatalf("\t%s\tTest 2:\tShould accumulate UTXOs until covered, got %d inputs.", failed, len(tx.Inputs))
			}
			t.Logf("\t%s\tTest 2:\tShould accumulate UTXOs until covered.", success)

			if !almostEqual(tx.Outputs[1].Amount, 0.5) {
				t.Fatalf("\t%s\tTest 2:\tShould return the right change, got %v.", failed, tx.Outputs[1].Amount)
			}
			t.Logf("\t%s\tTest 2:\tShould return the right change.", success)
		}

		t.Log("\tTest 3:\tWhen the sender cannot cover amount plus fee.")
		{
			db := newDatabase(t, map[string]float64{"Alice": 5})

			_, err := txbuilder.BuildTransfer(db, nil, "Alice", "Bob", 5, 0.001)

			var insuffErr *txbuilder.InsufficientFundsError
			if !errors.As(err, &insuffErr) {
				t.Fatalf("\t%s\tTest 3:\tShould fail with insufficient funds, got %v.", failed, err)
			}
			t.Logf("\t%s\tTest 3:\tShould fail with insufficient funds.", success)

			if !almostEqual(insuffErr.Have, 5) || !almostEqual(insuffErr.Need, 5.001) {
				t.Fatalf("\t%s\tTest 3:\tShould report have 5 need 5.001, got %v and %v.", failed, insuffErr.Have, insuffErr.Need)
			}
			t.Logf("\t%s\tTest 3:\tShould report the shortfall.", success)
		}

		t.Log("\tTest 4:\tWhen the sender's UTXOs are claimed by pending transactions.")
		{
			db := newDatabase(t, map[string]float64{"Alice": 50})

			claimed := map[database.UTXOID]string{
				{TxID: database.GenesisPrevHash, Index: 0}: "tx_pending",
			}

			_, err := txbuilder.BuildTransfer(db, claimed, "Alice", "Bob", 1, 0.001)

			var insuffErr *txbuilder.InsufficientFundsError
			if !errors.As(err, &insuffErr) {
				t.Fatalf("\t%s\tTest 4:\tShould skip claimed UTXOs and fail, got %v.", failed, err)
			}
			t.Logf("\t%s\tTest 4:\tShould skip claimed UTXOs during selection.", success)
		}
	}
}
