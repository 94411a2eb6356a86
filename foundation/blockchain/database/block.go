package database

import (
	"fmt"
	"time"
)

// GenesisPrevHash is the sentinel previous-hash carried by the first block.
const GenesisPrevHash = "genesis"

// =============================================================================

// Block represents a group of confirmed transactions committed together.
// A block is immutable once appended to the chain.
type Block struct {
	Number       uint64  `json:"block_number"`
	PrevHash     string  `json:"previous_hash"`
	Miner        string  `json:"miner"`
	Transactions []Tx    `json:"transactions"`
	TotalFees    float64 `json:"total_fees"`
	TimeStamp    int64   `json:"timestamp"` // Unix milliseconds when the block was assembled.
	Hash         string  `json:"hash"`
}

// NewBlock constructs the next block in the chain from the selected
// transactions. The hash is a deterministic identity digest of the block's
// key fields, not a cryptographic commitment. This is a simulation.
func NewBlock(prevBlock Block, minerAddress string, trans []Tx, totalFees float64) Block {
	prevHash := GenesisPrevHash
	if prevBlock.Number > 0 {
		prevHash = prevBlock.Hash
	}

	number := prevBlock.Number + 1
	now := time.Now().UTC().UnixMilli()

	return Block{
		Number:       number,
		PrevHash:     prevHash,
		Miner:        minerAddress,
		Transactions: trans,
		TotalFees:    totalFees,
		TimeStamp:    now,
		Hash:         fmt.Sprintf("block_%d_%s_%d_%d", number, minerAddress, len(trans), now),
	}
}

// String implements the fmt.Stringer interface for logging.
func (b Block) String() string {
	return fmt.Sprintf("block %d by %s: %d txs, %.8f fees", b.Number, b.Miner, len(b.Transactions), b.TotalFees)
}
