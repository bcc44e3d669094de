// Package ibctesting runs an interchain query channel in process: a query
// host standing in for the remote chain and a coordinator that relays
// handshakes, packets, acknowledgements and timeouts to a Contract.
package ibctesting

import (
	"fmt"

	"github.com/gogo/protobuf/proto"

	"github.com/CosmWasm/wasmicq/internal/protocol"
	"github.com/CosmWasm/wasmicq/types"
)

// HostPortID is the port of the query host module on the remote chain.
const HostPortID = "icqhost"

// Error codes the host reports in a failed ResponseQuery.
const (
	CodeInvalidRequest uint32 = 3
	CodeNotFound       uint32 = 22
)

type twapKey struct {
	poolID      uint64
	base, quote string
}

// Host answers query packets from fixtures, the way the async-icq host
// module answers them from chain state.
type Host struct {
	balances map[string]map[string]string
	twaps    map[twapKey]string
	allowed  map[string]bool

	// Err, when set, makes the host fail every batch with an error acknowledgement.
	Err string
	// Received counts the packets the host has executed.
	Received int
}

// NewHost creates a host that allows the bank balance and TWAP paths.
func NewHost() *Host {
	return &Host{
		balances: make(map[string]map[string]string),
		twaps:    make(map[twapKey]string),
		allowed: map[string]bool{
			types.BalanceQueryPath: true,
			types.TwapQueryPath:    true,
		},
	}
}

func (h *Host) SetBalance(address, denom, amount string) {
	if h.balances[address] == nil {
		h.balances[address] = make(map[string]string)
	}
	h.balances[address][denom] = amount
}

func (h *Host) SetTwap(poolID uint64, base, quote, price string) {
	h.twaps[twapKey{poolID, base, quote}] = price
}

// Disallow removes path from the allow list.
func (h *Host) Disallow(path string) {
	delete(h.allowed, path)
}

// OnRecvPacket executes the query batch in data and returns the acknowledgement.
func (h *Host) OnRecvPacket(data []byte) ([]byte, error) {
	h.Received++
	if h.Err != "" {
		return protocol.EncodeErrorAck(h.Err)
	}

	batch, _, err := protocol.DecodePacketData(data)
	if err != nil {
		return protocol.EncodeErrorAck(err.Error())
	}
	responses := make([]*types.ResponseQuery, 0, len(batch.Requests))
	for _, req := range batch.Requests {
		if !h.allowed[req.Path] {
			return protocol.EncodeErrorAck(fmt.Sprintf("query path not allowed: %s", req.Path))
		}
		responses = append(responses, h.query(req))
	}
	return protocol.EncodeResultAck(responses...)
}

func (h *Host) query(req *types.RequestQuery) *types.ResponseQuery {
	switch req.Path {
	case types.BalanceQueryPath:
		var q types.QueryBalanceRequest
		if err := proto.Unmarshal(req.Data, &q); err != nil {
			return failed(CodeInvalidRequest, err.Error())
		}
		if q.Address == "" {
			return failed(CodeInvalidRequest, "invalid address: empty address string is not allowed")
		}
		// the bank module reports zero for unknown accounts and denoms
		amount := "0"
		if a, ok := h.balances[q.Address][q.Denom]; ok {
			amount = a
		}
		return succeeded(&types.QueryBalanceResponse{Balance: &types.ProtoCoin{Denom: q.Denom, Amount: amount}})
	case types.TwapQueryPath:
		var q types.ArithmeticTwapToNowRequest
		if err := proto.Unmarshal(req.Data, &q); err != nil {
			return failed(CodeInvalidRequest, err.Error())
		}
		price, ok := h.twaps[twapKey{q.PoolId, q.BaseAsset, q.QuoteAsset}]
		if !ok {
			return failed(CodeNotFound, fmt.Sprintf("no twap record for pool %d (%s/%s)", q.PoolId, q.BaseAsset, q.QuoteAsset))
		}
		return succeeded(&types.ArithmeticTwapToNowResponse{ArithmeticTwap: price})
	default:
		return failed(CodeInvalidRequest, "unknown query path "+req.Path)
	}
}

func succeeded(msg proto.Message) *types.ResponseQuery {
	value, err := proto.Marshal(msg)
	if err != nil {
		return failed(CodeInvalidRequest, err.Error())
	}
	return &types.ResponseQuery{Value: value}
}

func failed(code uint32, log string) *types.ResponseQuery {
	return &types.ResponseQuery{Code: code, Codespace: "sdk", Log: log}
}
