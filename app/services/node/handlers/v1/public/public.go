// Package public maintains the group of handlers for public access.
package public

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/ardanlabs/utxo/business/web/errs"
	"github.com/ardanlabs/utxo/foundation/blockchain/state"
	"github.com/ardanlabs/utxo/foundation/events"
	"github.com/ardanlabs/utxo/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handlers manages the set of public node endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
	WS    websocket.Upgrader
	Evts  *events.Events
}

// Events handles a web socket to provide engine events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	ch := h.Evts.Subscribe(v.TraceID)
	defer h.Evts.Unsubscribe(v.TraceID)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, wd := <-ch:
			if !wd {
				return nil
			}

			if err := c.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return err
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}

// Genesis returns the genesis information.
func (h Handlers) Genesis(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	gen := h.State.RetrieveGenesis()
	return web.Respond(ctx, w, gen, http.StatusOK)
}

// Balance returns the sum of the unspent outputs for the specified address.
func (h Handlers) Balance(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	address := web.Param(r, "address")

	bal := balance{
		Address: address,
		Balance: h.State.RetrieveBalance(address),
	}

	return web.Respond(ctx, w, bal, http.StatusOK)
}

// UTXOs returns the unspent outputs owned by the specified address.
func (h Handlers) UTXOs(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	address := web.Param(r, "address")

	utxos := h.State.RetrieveUTXOs(address)

	return web.Respond(ctx, w, utxos, http.StatusOK)
}

// Mempool returns the set of uncommitted transactions.
func (h Handlers) Mempool(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	txs := h.State.RetrieveMempool()
	return web.Respond(ctx, w, txs, http.StatusOK)
}

// SubmitTransfer builds a transfer from the sender's UTXOs and adds it to
// the mempool.
func (h Handlers) SubmitTransfer(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var st submitTransfer
	if err := web.Decode(r, &st); err != nil {
		return err
	}

	h.Log.Infow("add tran", "traceid", v.TraceID, "sender", st.Sender, "recipient", st.Recipient, "amount", st.Amount, "fee", st.Fee)

	tx, err := h.State.SubmitTransfer(st.Sender, st.Recipient, st.Amount, st.Fee)
	if err != nil {
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	resp := submitResult{
		Status: "transaction added to mempool",
		Tx:     tx,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// BlocksByLimit returns the latest blocks, newest first. The node caps the
// number of blocks returned regardless of the limit asked for.
func (h Handlers) BlocksByLimit(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	limit := 0
	if p := web.Param(r, "limit"); p != "" {
		var err error
		limit, err = strconv.Atoi(p)
		if err != nil {
			return errs.NewTrusted(err, http.StatusBadRequest)
		}
	}

	blocks := h.State.RetrieveChain(limit)
	if len(blocks) == 0 {
		return web.Respond(ctx, w, nil, http.StatusNoContent)
	}

	return web.Respond(ctx, w, blocks, http.StatusOK)
}
