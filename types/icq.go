package types

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Routing paths understood by the remote query host.
const (
	BalanceQueryPath = "/cosmos.bank.v1beta1.Query/Balance"
	TwapQueryPath    = "/osmosis.twap.v1beta1.Query/ArithmeticTwapToNow"
)

//------- Execute -------------

type InstantiateMsg struct{}

// ExecuteMsg is the contract's execute message. Exactly one of the fields is set.
type ExecuteMsg struct {
	SendQueryBalance *QueryBalanceMsg `json:"send_query_balance,omitempty"`
	SendQueryTwap    *QueryTwapMsg    `json:"send_query_twap,omitempty"`
}

type QueryBalanceMsg struct {
	Channel string `json:"channel"`
	Address string `json:"address"`
	Denom   string `json:"denom"`
}

type QueryTwapMsg struct {
	Channel    string `json:"channel"`
	PoolID     uint64 `json:"pool_id"`
	BaseAsset  string `json:"base_asset"`
	QuoteAsset string `json:"quote_asset"`
}

// SendQueryResponse is returned as Response.Data from the send_query_* messages.
type SendQueryResponse struct {
	Sequence uint64 `json:"sequence"`
}

//------- Wire envelopes -------------

// InterchainQueryPacketData is the JSON payload of every outbound packet.
// Data holds a protobuf encoded CosmosQuery.
type InterchainQueryPacketData struct {
	Data []byte `json:"data"`
	Memo string `json:"memo"`
}

// InterchainQueryPacketAck is the JSON structure inside a successful acknowledgement.
// Data holds a protobuf encoded CosmosResponse.
type InterchainQueryPacketAck struct {
	Data []byte `json:"data"`
}

// Acknowledgement is the tagged union carried by every acknowledgement:
// either {"result": <base64>} or {"error": <string>}.
type Acknowledgement struct {
	Result []byte
	Err    *string
}

// NewResultAcknowledgement builds a successful acknowledgement.
func NewResultAcknowledgement(result []byte) Acknowledgement {
	if result == nil {
		result = []byte{}
	}
	return Acknowledgement{Result: result}
}

// NewErrorAcknowledgement builds an error acknowledgement.
func NewErrorAcknowledgement(msg string) Acknowledgement {
	return Acknowledgement{Err: &msg}
}

// Success reports whether this is the result variant.
func (a Acknowledgement) Success() bool {
	return a.Err == nil
}

// ErrorMessage returns the error string of an error acknowledgement, or "" for a result.
func (a Acknowledgement) ErrorMessage() string {
	if a.Err == nil {
		return ""
	}
	return *a.Err
}

// MarshalJSON encodes exactly one of the two variants.
func (a Acknowledgement) MarshalJSON() ([]byte, error) {
	if a.Err != nil {
		return json.Marshal(struct {
			Error string `json:"error"`
		}{*a.Err})
	}
	result := a.Result
	if result == nil {
		result = []byte{}
	}
	return json.Marshal(struct {
		Result []byte `json:"result"`
	}{result})
}

// UnmarshalJSON requires exactly one of "result" or "error" to be present.
func (a *Acknowledgement) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		return errors.New("acknowledgement is null")
	}
	resultRaw, hasResult := raw["result"]
	errorRaw, hasError := raw["error"]
	switch {
	case hasResult && hasError:
		return errors.New("both 'result' and 'error' fields are set")
	case isNull(resultRaw) || isNull(errorRaw):
		return errors.New("'result' and 'error' must not be null")
	case hasResult:
		var result []byte
		if err := json.Unmarshal(resultRaw, &result); err != nil {
			return fmt.Errorf("invalid 'result': %w", err)
		}
		*a = NewResultAcknowledgement(result)
	case hasError:
		var msg string
		if err := json.Unmarshal(errorRaw, &msg); err != nil {
			return fmt.Errorf("invalid 'error': %w", err)
		}
		*a = NewErrorAcknowledgement(msg)
	default:
		return errors.New("neither 'result' nor 'error' field is set")
	}
	return nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

//------- Persisted entities -------------

// ChannelInfo is static info on one channel that doesn't change.
type ChannelInfo struct {
	// id of this channel
	ID string `json:"id" msgpack:"id"`
	// the remote channel/port we connect to
	CounterpartyEndpoint IBCEndpoint `json:"counterparty_endpoint" msgpack:"counterparty_endpoint"`
	// the connection this exists on (you can use to query client/consensus info)
	ConnectionID string `json:"connection_id" msgpack:"connection_id"`
}

type RequestStatus string

const (
	StatusPending      RequestStatus = "pending"
	StatusAcknowledged RequestStatus = "acknowledged"
	StatusFailed       RequestStatus = "failed"
	StatusAbandoned    RequestStatus = "abandoned"
)

// PendingRequest is the bookkeeping for one sent query, keyed by sequence.
// Exactly one of Balance and Twap is set.
type PendingRequest struct {
	Sequence  uint64         `json:"sequence" msgpack:"sequence"`
	ChannelID string         `json:"channel_id" msgpack:"channel_id"`
	Path      string         `json:"path" msgpack:"path"`
	Balance   *BalanceParams `json:"balance,omitempty" msgpack:"balance"`
	Twap      *TwapParams    `json:"twap,omitempty" msgpack:"twap"`
	SentAt    Uint64         `json:"sent_at" msgpack:"sent_at"`
	TimeoutAt Uint64         `json:"timeout_at" msgpack:"timeout_at"`
	Status    RequestStatus  `json:"status" msgpack:"status"`
}

// BalanceParams are the parameters of a sent bank balance query.
type BalanceParams struct {
	Address string `json:"address" msgpack:"address"`
	Denom   string `json:"denom" msgpack:"denom"`
}

// TwapParams are the parameters of a sent TWAP query, including the resolved window start.
type TwapParams struct {
	PoolID     uint64 `json:"pool_id" msgpack:"pool_id"`
	BaseAsset  string `json:"base_asset" msgpack:"base_asset"`
	QuoteAsset string `json:"quote_asset" msgpack:"quote_asset"`
	// nanoseconds since unix epoch
	StartTime Uint64 `json:"start_time" msgpack:"start_time"`
}

// ContractVersion is recorded on instantiate.
type ContractVersion struct {
	Contract string `json:"contract" msgpack:"contract"`
	Version  string `json:"version" msgpack:"version"`
}
