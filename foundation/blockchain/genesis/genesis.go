// Package genesis maintains access to the genesis file.
package genesis

import (
	"encoding/json"
	"os"
	"time"
)

// Genesis represents the genesis file.
type Genesis struct {
	Date          time.Time          `json:"date"`
	ChainID       uint16             `json:"chain_id"`        // The chain id represents an unique id for this running instance.
	TransPerBlock uint16             `json:"trans_per_block"` // The default number of transactions mined into a block.
	PoolSize      uint16             `json:"pool_size"`       // The maximum number of pending transactions the mempool will hold.
	Balances      map[string]float64 `json:"balances"`        // The coins allocated to each address at genesis.
}

// =============================================================================

// Load opens and consumes the genesis file.
func Load(path string) (Genesis, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Genesis{}, err
	}

	var genesis Genesis
	err = json.Unmarshal(content, &genesis)
	if err != nil {
		return Genesis{}, err
	}

	return genesis, nil
}

// Default returns the genesis state used when no genesis file exists or
// when the chain is reset without explicit allocations.
func Default() Genesis {
	return Genesis{
		Date:          time.Now().UTC(),
		ChainID:       1,
		TransPerBlock: 5,
		PoolSize:      50,
		Balances: map[string]float64{
			"Alice":   50.0,
			"Bob":     30.0,
			"Charlie": 20.0,
			"David":   10.0,
			"Eve":     5.0,
		},
	}
}
