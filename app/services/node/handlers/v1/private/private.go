// Package private maintains the group of handlers for node level access.
package private

import (
	"context"
	"net/http"

	"github.com/ardanlabs/utxo/business/web/errs"
	"github.com/ardanlabs/utxo/foundation/blockchain/state"
	"github.com/ardanlabs/utxo/foundation/web"
	"go.uber.org/zap"
)

// Handlers manages the set of node level endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
}

// mineRequest asks the node to commit a batch of pending transactions.
type mineRequest struct {
	MinerAddress string `json:"miner_address" validate:"required"`
	NumTxs       int    `json:"num_txs" validate:"gte=0"`
}

// resetRequest installs a fresh genesis state. An empty allocation map
// falls back to the configured genesis balances.
type resetRequest struct {
	Allocations map[string]float64 `json:"allocations" validate:"dive,gte=0"`
}

// Status returns the current status of the node.
func (h Handlers) Status(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	latest := h.State.RetrieveLatestBlock()

	status := struct {
		LatestBlockHash   string `json:"latest_block_hash"`
		LatestBlockNumber uint64 `json:"latest_block_number"`
		Uncommitted       int    `json:"uncommitted"`
	}{
		LatestBlockHash:   latest.Hash,
		LatestBlockNumber: latest.Number,
		Uncommitted:       h.State.MempoolLength(),
	}

	return web.Respond(ctx, w, status, http.StatusOK)
}

// Mine commits the best pending transactions into a new block.
func (h Handlers) Mine(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var mr mineRequest
	if err := web.Decode(r, &mr); err != nil {
		return err
	}

	h.Log.Infow("mine block", "traceid", v.TraceID, "miner", mr.MinerAddress, "numtxs", mr.NumTxs)

	block, err := h.State.MineNewBlock(mr.MinerAddress, mr.NumTxs)
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	return web.Respond(ctx, w, block, http.StatusOK)
}

// ResetGenesis clears the chain and installs a fresh genesis state.
func (h Handlers) ResetGenesis(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var rr resetRequest
	if err := web.Decode(r, &rr); err != nil {
		return err
	}

	if err := h.State.Reset(rr.Allocations); err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	resp := struct {
		Status string `json:"status"`
	}{
		Status: "system reset with new genesis state",
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}
