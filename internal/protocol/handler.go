// Package protocol implements the interchain query packet lifecycle: the
// channel handshake, building and sending query packets, and processing the
// acknowledgements and timeouts that come back for them.
//
// A Handler works on the store of a single call. It keeps no state of its
// own, so the caller decides whether the writes of a call are committed.
package protocol

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/CosmWasm/wasmicq/internal/config"
	"github.com/CosmWasm/wasmicq/internal/state"
	"github.com/CosmWasm/wasmicq/internal/store"
	"github.com/CosmWasm/wasmicq/types"
)

// Version is the only channel version this protocol speaks.
const Version = "icq-1"

// Handler runs the protocol operations of one call against kv.
type Handler struct {
	state  *state.State
	cfg    config.Config
	logger zerolog.Logger
}

func NewHandler(kv store.KVStore, cfg config.Config, logger zerolog.Logger) *Handler {
	return &Handler{
		state:  state.New(kv),
		cfg:    cfg,
		logger: logger,
	}
}

// State exposes the typed store the handler works on.
func (h *Handler) State() *state.State {
	return h.state
}

// Instantiate records the name and version of the contract.
func (h *Handler) Instantiate(version types.ContractVersion) (*types.Response, error) {
	if err := h.state.SetContractVersion(version); err != nil {
		return nil, fmt.Errorf("save contract version: %w", err)
	}
	h.logger.Info().
		Str("contract", version.Contract).
		Str("version", version.Version).
		Msg("contract instantiated")
	return types.NewResponse("instantiate").
		AddAttribute("contract", version.Contract).
		AddAttribute("version", version.Version), nil
}
