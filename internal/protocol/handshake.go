package protocol

import (
	"fmt"

	"github.com/CosmWasm/wasmicq/types"
)

// ValidateOrderAndVersion accepts only unordered channels on Version. An
// ordered channel stops working entirely after a single lost packet.
//
// For a channel between chain A and chain B opened by A, B learns the
// counterparty version during OpenTry and A learns it during OpenAck. It is
// checked whenever it is known and skipped otherwise.
func ValidateOrderAndVersion(channel types.IBCChannel, counterpartyVersion *string) error {
	if channel.Order != types.Unordered {
		return types.UnsupportedOrdering{Order: channel.Order}
	}
	if channel.Version != Version {
		return types.VersionMismatch{Actual: channel.Version, Expected: Version}
	}
	if counterpartyVersion != nil && *counterpartyVersion != Version {
		return types.VersionMismatch{Actual: *counterpartyVersion, Expected: Version}
	}
	return nil
}

func counterVersion(ver string, ok bool) *string {
	if !ok {
		return nil
	}
	return &ver
}

// ChannelOpen handles OpenInit and OpenTry. A nil response accepts the
// proposed version unchanged.
func (h *Handler) ChannelOpen(msg types.IBCChannelOpenMsg) (*types.IBC3ChannelOpenResponse, error) {
	channel := msg.GetChannel()
	if err := ValidateOrderAndVersion(channel, counterVersion(msg.GetCounterVersion())); err != nil {
		h.logger.Info().
			Err(err).
			Str("channel", channel.Endpoint.ChannelID).
			Str("order", channel.Order).
			Str("version", channel.Version).
			Msg("channel open rejected")
		return nil, err
	}
	h.logger.Info().
		Str("channel", channel.Endpoint.ChannelID).
		Str("connection", channel.ConnectionID).
		Msg("channel open accepted")
	return nil, nil
}

// ChannelConnect handles OpenAck and OpenConfirm and registers the channel.
// Connecting the same channel id again overwrites its registration.
func (h *Handler) ChannelConnect(msg types.IBCChannelConnectMsg) (*types.IBCBasicResponse, error) {
	channel := msg.GetChannel()
	if err := ValidateOrderAndVersion(channel, counterVersion(msg.GetCounterVersion())); err != nil {
		h.logger.Info().
			Err(err).
			Str("channel", channel.Endpoint.ChannelID).
			Str("order", channel.Order).
			Str("version", channel.Version).
			Msg("channel connect rejected")
		return nil, err
	}

	info := types.ChannelInfo{
		ID:                   channel.Endpoint.ChannelID,
		CounterpartyEndpoint: channel.CounterpartyEndpoint,
		ConnectionID:         channel.ConnectionID,
	}
	if err := h.state.SaveChannel(info); err != nil {
		return nil, fmt.Errorf("save channel %s: %w", info.ID, err)
	}
	h.logger.Info().
		Str("channel", info.ID).
		Str("counterparty_port", info.CounterpartyEndpoint.PortID).
		Str("counterparty_channel", info.CounterpartyEndpoint.ChannelID).
		Msg("channel connected")

	return types.NewIBCBasicResponse("ibc_channel_connect").
		AddAttribute("channel", info.ID).
		AddAttribute("connection", info.ConnectionID), nil
}

// ChannelClose removes the channel from the registry. Queries on it fail afterwards.
func (h *Handler) ChannelClose(msg types.IBCChannelCloseMsg) (*types.IBCBasicResponse, error) {
	id := msg.GetChannel().Endpoint.ChannelID
	if err := h.state.RemoveChannel(id); err != nil {
		return nil, fmt.Errorf("remove channel %s: %w", id, err)
	}
	h.logger.Info().Str("channel", id).Msg("channel closed")

	return types.NewIBCBasicResponse("ibc_channel_close").
		AddAttribute("channel", id), nil
}
