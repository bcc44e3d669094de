package types

// These types are extracted from tendermint, cosmos-sdk, osmosis and async-icq
// protobuf definitions to reduce the amount of dependencies we need to
// encode and parse the query packets.

import (
	proto "github.com/gogo/protobuf/proto"
)

// This is a compile-time assertion to ensure that this file
// is compatible with the proto package it is being compiled against.
const _ = proto.GoGoProtoPackageIsVersion3 // please upgrade the proto package

// CosmosQuery contains a list of tendermint ABCI query requests. It should be
// used when sending queries to an SDK host chain.
type CosmosQuery struct {
	Requests []*RequestQuery `protobuf:"bytes,1,rep,name=requests,proto3" json:"requests"`
}

func (m *CosmosQuery) Reset()         { *m = CosmosQuery{} }
func (m *CosmosQuery) String() string { return proto.CompactTextString(m) }
func (*CosmosQuery) ProtoMessage()    {}

// RequestQuery is tendermint's abci RequestQuery.
type RequestQuery struct {
	Data   []byte `protobuf:"bytes,1,opt,name=data,proto3" json:"data,omitempty"`
	Path   string `protobuf:"bytes,2,opt,name=path,proto3" json:"path,omitempty"`
	Height int64  `protobuf:"varint,3,opt,name=height,proto3" json:"height,omitempty"`
	Prove  bool   `protobuf:"varint,4,opt,name=prove,proto3" json:"prove,omitempty"`
}

func (m *RequestQuery) Reset()         { *m = RequestQuery{} }
func (m *RequestQuery) String() string { return proto.CompactTextString(m) }
func (*RequestQuery) ProtoMessage()    {}

// CosmosResponse contains a list of tendermint ABCI query responses. It should
// be used when receiving responses from an SDK host chain.
type CosmosResponse struct {
	Responses []*ResponseQuery `protobuf:"bytes,1,rep,name=responses,proto3" json:"responses"`
}

func (m *CosmosResponse) Reset()         { *m = CosmosResponse{} }
func (m *CosmosResponse) String() string { return proto.CompactTextString(m) }
func (*CosmosResponse) ProtoMessage()    {}

// ResponseQuery is tendermint's abci ResponseQuery without the proof ops (field 8),
// which are never requested.
type ResponseQuery struct {
	Code uint32 `protobuf:"varint,1,opt,name=code,proto3" json:"code,omitempty"`
	// nondeterministic
	Log       string `protobuf:"bytes,3,opt,name=log,proto3" json:"log,omitempty"`
	Info      string `protobuf:"bytes,4,opt,name=info,proto3" json:"info,omitempty"`
	Index     int64  `protobuf:"varint,5,opt,name=index,proto3" json:"index,omitempty"`
	Key       []byte `protobuf:"bytes,6,opt,name=key,proto3" json:"key,omitempty"`
	Value     []byte `protobuf:"bytes,7,opt,name=value,proto3" json:"value,omitempty"`
	Height    int64  `protobuf:"varint,9,opt,name=height,proto3" json:"height,omitempty"`
	Codespace string `protobuf:"bytes,10,opt,name=codespace,proto3" json:"codespace,omitempty"`
}

func (m *ResponseQuery) Reset()         { *m = ResponseQuery{} }
func (m *ResponseQuery) String() string { return proto.CompactTextString(m) }
func (*ResponseQuery) ProtoMessage()    {}

// IsOK reports whether the remote query succeeded.
func (m *ResponseQuery) IsOK() bool {
	return m.Code == 0
}

// QueryBalanceRequest is the request type for the Query/Balance RPC method.
type QueryBalanceRequest struct {
	// address is the address to query balances for.
	Address string `protobuf:"bytes,1,opt,name=address,proto3" json:"address,omitempty"`
	// denom is the coin denom to query balances for.
	Denom string `protobuf:"bytes,2,opt,name=denom,proto3" json:"denom,omitempty"`
}

func (m *QueryBalanceRequest) Reset()         { *m = QueryBalanceRequest{} }
func (m *QueryBalanceRequest) String() string { return proto.CompactTextString(m) }
func (*QueryBalanceRequest) ProtoMessage()    {}

// QueryBalanceResponse is the response type for the Query/Balance RPC method.
type QueryBalanceResponse struct {
	// balance is the balance of the coin.
	Balance *ProtoCoin `protobuf:"bytes,1,opt,name=balance,proto3" json:"balance,omitempty"`
}

func (m *QueryBalanceResponse) Reset()         { *m = QueryBalanceResponse{} }
func (m *QueryBalanceResponse) String() string { return proto.CompactTextString(m) }
func (*QueryBalanceResponse) ProtoMessage()    {}

// ProtoCoin is the protobuf form of the sdk Coin. Amount is a decimal integer string.
type ProtoCoin struct {
	Denom  string `protobuf:"bytes,1,opt,name=denom,proto3" json:"denom,omitempty"`
	Amount string `protobuf:"bytes,2,opt,name=amount,proto3" json:"amount,omitempty"`
}

func (m *ProtoCoin) Reset()         { *m = ProtoCoin{} }
func (m *ProtoCoin) String() string { return proto.CompactTextString(m) }
func (*ProtoCoin) ProtoMessage()    {}

// ToCoin converts to the JSON Coin type.
func (m *ProtoCoin) ToCoin() Coin {
	return Coin{Denom: m.Denom, Amount: m.Amount}
}

// ArithmeticTwapToNowRequest is osmosis' twap Query/ArithmeticTwapToNow request.
type ArithmeticTwapToNowRequest struct {
	PoolId     uint64     `protobuf:"varint,1,opt,name=pool_id,json=poolId,proto3" json:"pool_id,omitempty"`
	BaseAsset  string     `protobuf:"bytes,2,opt,name=base_asset,json=baseAsset,proto3" json:"base_asset,omitempty"`
	QuoteAsset string     `protobuf:"bytes,3,opt,name=quote_asset,json=quoteAsset,proto3" json:"quote_asset,omitempty"`
	StartTime  *Timestamp `protobuf:"bytes,4,opt,name=start_time,json=startTime,proto3" json:"start_time,omitempty"`
}

func (m *ArithmeticTwapToNowRequest) Reset()         { *m = ArithmeticTwapToNowRequest{} }
func (m *ArithmeticTwapToNowRequest) String() string { return proto.CompactTextString(m) }
func (*ArithmeticTwapToNowRequest) ProtoMessage()    {}

// ArithmeticTwapToNowResponse carries the twap as a decimal string.
type ArithmeticTwapToNowResponse struct {
	ArithmeticTwap string `protobuf:"bytes,1,opt,name=arithmetic_twap,json=arithmeticTwap,proto3" json:"arithmetic_twap,omitempty"`
}

func (m *ArithmeticTwapToNowResponse) Reset()         { *m = ArithmeticTwapToNowResponse{} }
func (m *ArithmeticTwapToNowResponse) String() string { return proto.CompactTextString(m) }
func (*ArithmeticTwapToNowResponse) ProtoMessage()    {}

// Timestamp is google.protobuf.Timestamp.
type Timestamp struct {
	// Represents seconds of UTC time since Unix epoch
	// 1970-01-01T00:00:00Z.
	Seconds int64 `protobuf:"varint,1,opt,name=seconds,proto3" json:"seconds,omitempty"`
	// Non-negative fractions of a second at nanosecond resolution.
	Nanos int32 `protobuf:"varint,2,opt,name=nanos,proto3" json:"nanos,omitempty"`
}

func (m *Timestamp) Reset()         { *m = Timestamp{} }
func (m *Timestamp) String() string { return proto.CompactTextString(m) }
func (*Timestamp) ProtoMessage()    {}

// NewTimestamp converts nanoseconds since unix epoch.
func NewTimestamp(nanos Uint64) *Timestamp {
	return &Timestamp{
		Seconds: int64(nanos / 1_000_000_000),
		Nanos:   int32(nanos % 1_000_000_000),
	}
}

// UnixNano converts back to nanoseconds since unix epoch.
func (m *Timestamp) UnixNano() Uint64 {
	return Uint64(m.Seconds)*1_000_000_000 + Uint64(m.Nanos)
}
