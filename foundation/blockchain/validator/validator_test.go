package validator_test

import (
	"errors"
	"math"
	"testing"

	"github.com/ardanlabs/utxo/foundation/blockchain/database"
	"github.com/ardanlabs/utxo/foundation/blockchain/database/storage/memory"
	"github.com/ardanlabs/utxo/foundation/blockchain/genesis"
	"github.com/ardanlabs/utxo/foundation/blockchain/validator"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
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

// =============================================================================

func Test_Validate(t *testing.T) {
	balances := map[string]float64{
		"Alice": 50,
		"Bob":   30,
	}

	aliceInput := database.TxInput{PrevTxID: database.GenesisPrevHash, PrevIndex: 0, ClaimedOwner: "Alice"}

	type table struct {
		name    string
		tx      database.Tx
		claimed map[database.UTXOID]string
		fee     float64
		target  error
	}

	tt := []table{
		{
			name: "valid transfer with fee",
			tx: database.NewTx("tx_1",
				[]database.TxInput{aliceInput},
				[]database.TxOutput{{Amount: 10, Address: "Bob"}, {Amount: 39.999, Address: "Alice"}},
			),
			fee: 0.001,
		},
		{
			name: "zero fee is accepted",
			tx: database.NewTx("tx_1",
				[]database.TxInput{aliceInput},
				[]database.TxOutput{{Amount: 50, Address: "Bob"}},
			),
			fee: 0,
		},
		{
			name: "negative output",
			tx: database.NewTx("tx_1",
				[]database.TxInput{aliceInput},
				[]database.TxOutput{{Amount: -1, Address: "Bob"}},
			),
			target: &validator.NegativeOutputError{},
		},
		{
			name: "duplicate input",
			tx: database.NewTx("tx_1",
				[]database.TxInput{aliceInput, aliceInput},
				[]database.TxOutput{{Amount: 10, Address: "Bob"}},
			),
			target: &validator.DuplicateInputError{},
		},
		{
			name: "missing utxo",
			tx: database.NewTx("tx_1",
				[]database.TxInput{{PrevTxID: "tx_nope", PrevIndex: 0, ClaimedOwner: "Alice"}},
				[]database.TxOutput{{Amount: 1, Address: "Bob"}},
			),
			target: &validator.MissingUTXOError{},
		},
		{
			name: "owner mismatch",
			tx: database.NewTx("tx_1",
				[]database.TxInput{{PrevTxID: database.GenesisPrevHash, PrevIndex: 0, ClaimedOwner: "Mallory"}},
				[]database.TxOutput{{Amount: 1, Address: "Mallory"}},
			),
			target: &validator.OwnerMismatchError{},
		},
		{
			name: "mempool conflict",
			tx: database.NewTx("tx_2",
				[]database.TxInput{aliceInput},
				[]database.TxOutput{{Amount: 1, Address: "Bob"}},
			),
			claimed: map[database.UTXOID]string{aliceInput.UTXOID(): "tx_1"},
			target:  &validator.MempoolConflictError{},
		},
		{
			name: "own claim is not a conflict",
			tx: database.NewTx("tx_1",
				[]database.TxInput{aliceInput},
				[]database.TxOutput{{Amount: 49, Address: "Bob"}},
			),
			claimed: map[database.UTXOID]string{aliceInput.UTXOID(): "tx_1"},
			fee:     1,
		},
		{
			name: "insufficient input",
			tx: database.NewTx("tx_1",
				[]database.TxInput{aliceInput},
				[]database.TxOutput{{Amount: 60, Address: "Bob"}},
			),
			target: &validator.InsufficientInputError{},
		},
	}

	t.Log("Given the need to validate transactions against the UTXO set.")
	{
		for testID, tst := range tt {
			t.Logf("\tTest %d:\tWhen validating a %s.", testID, tst.name)
			{
				f := func(t *testing.T) {
					db := newDatabase(t, balances)

					fee, err := validator.Validate(tst.tx, db, tst.claimed)

					if tst.target == nil {
						if err != nil {
							t.Fatalf("\t%s\tTest %d:\tShould accept the transaction: %v", failed, testID, err)
						}
						t.Logf("\t%s\tTest %d:\tShould accept the transaction.", success, testID)

						if math.Abs(fee-tst.fee) > 1e-9 {
							t.Fatalf("\t%s\tTest %d:\tShould derive the right fee, got %v, exp %v.", failed, testID, fee, tst.fee)
						}
						t.Logf("\t%s\tTest %d:\tShould derive the right fee.", success, testID)
						return
					}

					if err == nil {
						t.Fatalf("\t%s\tTest %d:\tShould reject the transaction.", failed, testID)
					}
					t.Logf("\t%s\tTest %d:\tShould reject the transaction.", success, testID)

					if !matches(err, tst.target) {
						t.Fatalf("\t%s\tTest %d:\tShould get the right rejection type, got %T.", failed, testID, err)
					}
					t.Logf("\t%s\tTest %d:\tShould get the right rejection type.", success, testID)
				}

				t.Run(tst.name, f)
			}
		}
	}
}

// matches reports whether err holds the same concrete type as target.
func matches(err error, target error) bool {
	switch target.(type) {
	case *validator.NegativeOutputError:
		var e *validator.NegativeOutputError
		return errors.As(err, &e)
	case *validator.DuplicateInputError:
		var e *validator.DuplicateInputError
		return errors.As(err, &e)
	case *validator.MissingUTXOError:
		var e *validator.MissingUTXOError
		return errors.As(err, &e)
	case *validator.OwnerMismatchError:
		var e *validator.OwnerMismatchError
		return errors.As(err, &e)
	case *validator.MempoolConflictError:
		var e *validator.MempoolConflictError
		return errors.As(err, &e)
	case *validator.InsufficientInputError:
		var e *validator.InsufficientInputError
		return errors.As(err, &e)
	}
	return false
}

func Test_RuleOrder(t *testing.T) {
	balances := map[string]float64{"Alice": 50}

	t.Log("Given the need for a fixed validation rule order.")
	{
		t.Log("\tTest 0:\tWhen a transaction breaks several rules at once.")
		{
			db := newDatabase(t, balances)

			// Negative output, duplicate input, and a missing UTXO. The
			// negative output must win.
			bad := database.TxInput{PrevTxID: "tx_nope", PrevIndex: 0, ClaimedOwner: "Alice"}
			tx := database.NewTx("tx_1",
				[]database.TxInput{bad, bad},
				[]database.TxOutput{{Amount: -5, Address: "Bob"}},
			)

			_, err := validator.Validate(tx, db, nil)

			var negErr *validator.NegativeOutputError
			if !errors.As(err, &negErr) {
				t.Fatalf("\t%s\tTest 0:\tShould report the negative output first, got %T.", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould report the negative output first.", success)

			// With the output fixed, the duplicate input must win over the
			// missing UTXO.
			tx.Outputs[0].Amount = 5
			_, err = validator.Validate(tx, db, nil)

			var dupErr *validator.DuplicateInputError
			if !errors.As(err, &dupErr) {
				t.Fatalf("\t%s\tTest 0:\tShould report the duplicate input next, got %T.", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould report the duplicate input next.", success)
		}
	}
}

func Test_ValidateCoinbase(t *testing.T) {
	t.Log("Given the need to validate the fee minting transaction.")
	{
		t.Log("\tTest 0:\tWhen checking well formed and malformed coinbases.")
		{
			coinbase := database.NewCoinbaseTx(1, 0.5, "Miner1")
			if err := validator.ValidateCoinbase(coinbase, 0.5); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould accept a coinbase matching the fees: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould accept a coinbase matching the fees.", success)

			zero := database.NewCoinbaseTx(1, 0, "Miner1")
			if err := validator.ValidateCoinbase(zero, 0); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould accept a zero fee coinbase: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould accept a zero fee coinbase.", success)

			if err := validator.ValidateCoinbase(coinbase, 0.4); err == nil {
				t.Fatalf("\t%s\tTest 0:\tShould reject a coinbase not matching the fees.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould reject a coinbase not matching the fees.", success)

			withInput := coinbase
			withInput.Inputs = []database.TxInput{{PrevTxID: "tx_1", PrevIndex: 0, ClaimedOwner: "Miner1"}}
			if err := validator.ValidateCoinbase(withInput, 0.5); err == nil {
				t.Fatalf("\t%s\tTest 0:\tShould reject a coinbase with inputs.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould reject a coinbase with inputs.", success)
		}
	}
}
