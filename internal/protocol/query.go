package protocol

import (
	"encoding/json"
	"errors"

	"github.com/CosmWasm/wasmicq/types"
)

// ErrNotInstantiated is returned by the contract version query before Instantiate.
var ErrNotInstantiated = errors.New("contract version: not instantiated")

// Query answers a read-only query message with its JSON response.
func (h *Handler) Query(msg types.QueryMsg) ([]byte, error) {
	res, err := h.query(msg)
	if err != nil {
		return nil, err
	}
	return json.Marshal(res)
}

func (h *Handler) query(msg types.QueryMsg) (any, error) {
	st := h.state
	switch {
	case msg.AllBalances != nil:
		balances, err := st.Balances()
		return types.AllBalancesResponse{Balances: balances}, err
	case msg.AllPriceFeeds != nil:
		prices, err := st.Prices()
		return types.AllPriceFeedsResponse{Prices: prices}, err
	case msg.AllErrors != nil:
		errs, err := st.QueryErrors()
		return types.AllErrorsResponse{Errors: errs}, err
	case msg.LastSequence != nil:
		seq, err := st.LastAcknowledged()
		return types.LastSequenceResponse{Sequence: seq}, err
	case msg.Result != nil:
		return st.Result(msg.Result.Sequence)
	case msg.Pending != nil:
		req, err := st.PendingRequest(msg.Pending.Sequence)
		return types.PendingResponse{Request: req}, err
	case msg.Channel != nil:
		info, err := st.Channel(msg.Channel.ID)
		return types.ChannelResponse{Channel: info}, err
	case msg.ListChannels != nil:
		channels, err := st.Channels()
		return types.ListChannelsResponse{Channels: channels}, err
	case msg.ContractVersion != nil:
		v, err := st.ContractVersion()
		if err != nil {
			return nil, err
		}
		if v == nil {
			return nil, ErrNotInstantiated
		}
		return v, nil
	default:
		return nil, types.InvalidRequest{Err: "unknown query variant"}
	}
}
