package disk_test

import (
	"testing"

	"github.com/ardanlabs/utxo/foundation/blockchain/database"
	"github.com/ardanlabs/utxo/foundation/blockchain/database/storage/disk"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

func Test_DiskStorage(t *testing.T) {
	t.Log("Given the need to store and iterate blocks on disk.")
	{
		t.Log("\tTest 0:\tWhen writing, iterating, and resetting the chain.")
		{
			storage, err := disk.New(t.TempDir())
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to construct storage: %v", failed, err)
			}
			defer storage.Close()

			blocks := []database.Block{
				{Number: 1, PrevHash: database.GenesisPrevHash, Miner: "Miner1", Hash: "block_1"},
				{Number: 2, PrevHash: "block_1", Miner: "Miner1", Hash: "block_2"},
			}

			for _, block := range blocks {
				if err := storage.Write(block); err != nil {
					t.Fatalf("\t%s\tTest 0:\tShould be able to write block %d: %v", failed, block.Number, err)
				}
			}
			t.Logf("\t%s\tTest 0:\tShould be able to write blocks.", success)

			block, err := storage.GetBlock(2)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to read a block back: %v", failed, err)
			}
			if block.Hash != "block_2" {
				t.Fatalf("\t%s\tTest 0:\tShould read the block that was written, got %s.", failed, block.Hash)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to read a block back.", success)

			var count int
			iter := storage.ForEach()
			for block, err := iter.Next(); !iter.Done(); block, err = iter.Next() {
				if err != nil {
					t.Fatalf("\t%s\tTest 0:\tShould be able to iterate: %v", failed, err)
				}
				count++
				if block.Number != uint64(count) {
					t.Fatalf("\t%s\tTest 0:\tShould iterate in block order, got %d, exp %d.", failed, block.Number, count)
				}
			}
			if count != len(blocks) {
				t.Fatalf("\t%s\tTest 0:\tShould iterate every block, got %d, exp %d.", failed, count, len(blocks))
			}
			t.Logf("\t%s\tTest 0:\tShould iterate every block in order.", success)

			if err := storage.Reset(); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to reset: %v", failed, err)
			}

			iter = storage.ForEach()
			if _, err := iter.Next(); !iter.Done() {
				t.Fatalf("\t%s\tTest 0:\tShould have no blocks after reset: %v", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould have no blocks after reset.", success)
		}
	}
}
