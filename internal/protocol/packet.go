package protocol

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/gogo/protobuf/proto"

	"github.com/CosmWasm/wasmicq/types"
)

// Query is one routed request that can be sent to the remote query host.
type Query interface {
	// Path routes the request to a query handler on the remote chain.
	Path() string
	// Marshal encodes the request body for Path.
	Marshal() ([]byte, error)
	Validate() error

	// record stores the query parameters on the pending request.
	record(req *types.PendingRequest)
}

var (
	_ Query = BalanceQuery{}
	_ Query = TwapQuery{}
)

// BalanceQuery asks the bank module for the balance of one denom of an account.
type BalanceQuery struct {
	Address string
	Denom   string
}

func (q BalanceQuery) Path() string { return types.BalanceQueryPath }

func (q BalanceQuery) Marshal() ([]byte, error) {
	return proto.Marshal(&types.QueryBalanceRequest{Address: q.Address, Denom: q.Denom})
}

func (q BalanceQuery) Validate() error {
	switch {
	case q.Address == "":
		return types.InvalidRequest{Err: "address must not be empty"}
	case q.Denom == "":
		return types.InvalidRequest{Err: "denom must not be empty"}
	}
	return nil
}

func (q BalanceQuery) record(req *types.PendingRequest) {
	req.Balance = &types.BalanceParams{Address: q.Address, Denom: q.Denom}
}

// TwapQuery asks for the arithmetic time weighted average price of a pool
// from StartTime until the remote block time.
type TwapQuery struct {
	PoolID     uint64
	BaseAsset  string
	QuoteAsset string
	// nanoseconds since unix epoch
	StartTime types.Uint64
}

func (q TwapQuery) Path() string { return types.TwapQueryPath }

func (q TwapQuery) Marshal() ([]byte, error) {
	return proto.Marshal(&types.ArithmeticTwapToNowRequest{
		PoolId:     q.PoolID,
		BaseAsset:  q.BaseAsset,
		QuoteAsset: q.QuoteAsset,
		StartTime:  types.NewTimestamp(q.StartTime),
	})
}

func (q TwapQuery) Validate() error {
	switch {
	case q.BaseAsset == "":
		return types.InvalidRequest{Err: "base_asset must not be empty"}
	case q.QuoteAsset == "":
		return types.InvalidRequest{Err: "quote_asset must not be empty"}
	}
	return nil
}

func (q TwapQuery) record(req *types.PendingRequest) {
	req.Twap = &types.TwapParams{
		PoolID:     q.PoolID,
		BaseAsset:  q.BaseAsset,
		QuoteAsset: q.QuoteAsset,
		StartTime:  q.StartTime,
	}
}

// NewRequestQuery routes q as a single ABCI query at the latest height without proof.
func NewRequestQuery(q Query) (*types.RequestQuery, error) {
	data, err := q.Marshal()
	if err != nil {
		return nil, fmt.Errorf("encode %s request: %w", q.Path(), err)
	}
	return &types.RequestQuery{Path: q.Path(), Data: data}, nil
}

// EncodePacketData wraps a batch of requests and a memo into the packet payload.
func EncodePacketData(memo string, reqs ...*types.RequestQuery) ([]byte, error) {
	batch, err := proto.Marshal(&types.CosmosQuery{Requests: reqs})
	if err != nil {
		return nil, fmt.Errorf("encode query batch: %w", err)
	}
	return json.Marshal(types.InterchainQueryPacketData{Data: batch, Memo: memo})
}

// DecodePacketData is the inverse of EncodePacketData.
func DecodePacketData(bz []byte) (*types.CosmosQuery, string, error) {
	var packet types.InterchainQueryPacketData
	if err := json.Unmarshal(bz, &packet); err != nil {
		return nil, "", fmt.Errorf("decode packet data: %w", err)
	}
	var batch types.CosmosQuery
	if err := proto.Unmarshal(packet.Data, &batch); err != nil {
		return nil, "", fmt.Errorf("decode query batch: %w", err)
	}
	return &batch, packet.Memo, nil
}

// SendQuery emits one query packet on channelID and records it as pending.
// The packet carries the allocated sequence and times out TimeoutSeconds
// after the current block time.
func (h *Handler) SendQuery(env types.Env, channelID string, q Query) (*types.Response, error) {
	ok, err := h.state.HasChannel(channelID)
	if err != nil {
		return nil, fmt.Errorf("load channel %s: %w", channelID, err)
	}
	if !ok {
		return nil, types.UnknownChannel{ID: channelID}
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}

	req, err := NewRequestQuery(q)
	if err != nil {
		return nil, err
	}
	data, err := EncodePacketData(h.cfg.Memo, req)
	if err != nil {
		return nil, err
	}

	seq, err := h.NextSequence()
	if err != nil {
		return nil, err
	}
	timeout := env.Block.PlusSeconds(h.cfg.TimeoutSeconds)

	pending := types.PendingRequest{
		Sequence:  seq,
		ChannelID: channelID,
		Path:      q.Path(),
		SentAt:    env.Block.Time,
		TimeoutAt: timeout,
		Status:    types.StatusPending,
	}
	q.record(&pending)
	if err := h.state.SavePendingRequest(pending); err != nil {
		return nil, fmt.Errorf("save pending request %d: %w", seq, err)
	}

	resData, err := json.Marshal(types.SendQueryResponse{Sequence: seq})
	if err != nil {
		return nil, err
	}

	h.logger.Info().
		Str("channel", channelID).
		Uint64("sequence", seq).
		Str("path", q.Path()).
		Time("timeout", timeoutTime(timeout)).
		Msg("query packet sent")

	res := types.NewResponse(methodFor(q)).
		AddAttribute("channel", channelID).
		AddAttribute("sequence", strconv.FormatUint(seq, 10)).
		AddAttribute("path", q.Path()).
		AddMessage(types.CosmosMsg{IBC: &types.IBCMsg{SendPacket: &types.SendPacketMsg{
			ChannelID: channelID,
			Data:      data,
			Timeout:   types.IBCTimeout{Timestamp: &timeout},
			Sequence:  seq,
		}}})
	res.Data = resData
	return res, nil
}

// TwapStartTime is the start of the TWAP window ending at the block time.
func (h *Handler) TwapStartTime(block types.BlockInfo) types.Uint64 {
	return block.MinusSeconds(h.cfg.TwapWindowSeconds)
}

func methodFor(q Query) string {
	switch q.(type) {
	case TwapQuery:
		return "send_query_twap"
	default:
		return "send_query_balance"
	}
}

func timeoutTime(ns types.Uint64) time.Time {
	if ns > math.MaxInt64 {
		ns = math.MaxInt64
	}
	return time.Unix(0, int64(ns)).UTC()
}
