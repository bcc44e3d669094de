package protocol

import (
	"strconv"

	"github.com/CosmWasm/wasmicq/types"
)

// OnTimeout marks the request sent with sequence as abandoned. Timed out
// queries are never resent. It never fails: store errors are only logged.
func (h *Handler) OnTimeout(sequence uint64) *types.IBCBasicResponse {
	res := types.NewIBCBasicResponse("ibc_packet_timeout").
		AddAttribute("sequence", strconv.FormatUint(sequence, 10))
	h.logger.Info().Uint64("sequence", sequence).Msg("query packet timed out")

	pending, err := h.state.PendingRequest(sequence)
	if err != nil {
		h.logger.Error().Err(err).Uint64("sequence", sequence).Msg("load pending request")
		return res
	}
	if pending == nil || pending.Status != types.StatusPending {
		return res
	}
	pending.Status = types.StatusAbandoned
	if err := h.state.SavePendingRequest(*pending); err != nil {
		h.logger.Error().Err(err).Uint64("sequence", sequence).Msg("save abandoned request")
	}
	return res
}
