// Package public maintains the group of handlers for public access.
package public

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	v1 "github.com/ardanlabs/minichain/business/web/v1"
	"github.com/ardanlabs/minichain/foundation/blockchain/database"
	"github.com/ardanlabs/minichain/foundation/blockchain/pow"
	"github.com/ardanlabs/minichain/foundation/blockchain/state"
	"github.com/ardanlabs/minichain/foundation/events"
	"github.com/ardanlabs/minichain/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handlers manages the set of public chain endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
	WS    websocket.Upgrader
	Evts  *events.Events
}

// Events handles a web socket to provide events to a client.
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

	ch := h.Evts.Acquire(v.TraceID)
	defer h.Evts.Release(v.TraceID)

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

// SubmitTransaction adds a new user transaction to the pending pool.
func (h Handlers) SubmitTransaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var st submitTx
	if err := web.Decode(r, &st); err != nil {
		return err
	}

	h.Log.Infow("add user tran", "traceid", v.TraceID, "from", st.From, "to", st.To, "value", st.Value)

	dbTx, err := h.State.SubmitTransaction(database.AccountID(st.From), database.AccountID(st.To), st.Value)
	if err != nil {
		return v1.NewRequestError(err, http.StatusBadRequest)
	}

	resp := struct {
		Status string `json:"status"`
		Tx     tx     `json:"tx"`
	}{
		Status: "transaction added to mempool",
		Tx:     toTx(dbTx),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Mine performs the proof of work to produce the next block in the chain.
// The search is bound to the request context, a client disconnect cancels
// the mining operation.
func (h Handlers) Mine(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	block, err := h.State.MineNextBlock(r.Context())
	if err != nil {
		switch {
		case errors.Is(err, pow.ErrMiningExhausted):
			return v1.NewRequestError(err, http.StatusServiceUnavailable)
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return v1.NewRequestError(err, http.StatusRequestTimeout)
		default:
			return err
		}
	}

	return web.Respond(ctx, w, toBlock(block), http.StatusCreated)
}

// Genesis returns the genesis information.
func (h Handlers) Genesis(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	gen := h.State.RetrieveGenesis()
	return web.Respond(ctx, w, gen, http.StatusOK)
}

// Status reports the current shape of the chain.
func (h Handlers) Status(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	latest := h.State.RetrieveLatestBlock()

	status := chainStatus{
		Height:      h.State.Height(),
		LatestBlock: latest.Hash(),
		Difficulty:  h.State.RetrieveDifficulty(),
		Mempool:     len(h.State.RetrieveMempool()),
	}

	return web.Respond(ctx, w, status, http.StatusOK)
}

// Mempool returns the set of uncommitted transactions.
func (h Handlers) Mempool(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	pool := h.State.RetrieveMempool()

	trans := make([]tx, len(pool))
	for i, dbTx := range pool {
		trans[i] = toTx(dbTx)
	}

	return web.Respond(ctx, w, trans, http.StatusOK)
}

// Blocks returns all the blocks in the chain.
func (h Handlers) Blocks(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	dbBlocks := h.State.RetrieveBlocks()

	blocks := make([]block, len(dbBlocks))
	for i, dbBlock := range dbBlocks {
		blocks[i] = toBlock(dbBlock)
	}

	return web.Respond(ctx, w, blocks, http.StatusOK)
}

// BlockByNumber returns a snapshot of the specified block.
func (h Handlers) BlockByNumber(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	num, err := strconv.ParseUint(web.Param(r, "number"), 10, 64)
	if err != nil {
		return v1.NewRequestError(errors.New("invalid block number"), http.StatusBadRequest)
	}

	dbBlock, err := h.State.QueryBlockByNumber(num)
	if err != nil {
		if errors.Is(err, database.ErrBlockNotExist) {
			return v1.NewRequestError(err, http.StatusNotFound)
		}
		return err
	}

	return web.Respond(ctx, w, toBlock(dbBlock), http.StatusOK)
}

// ValidateChain walks the chain from genesis forward and reports the first
// violation found.
func (h Handlers) ValidateChain(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	result := validateResult{Valid: true}

	if err := h.State.ValidateChain(); err != nil {
		result.Valid = false
		result.Error = err.Error()

		var cie *state.ChainInvalidError
		if errors.As(err, &cie) {
			result.FailedBlock = cie.Number
		}
	}

	return web.Respond(ctx, w, result, http.StatusOK)
}
