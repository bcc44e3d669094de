package types

type IBCEndpoint struct {
	PortID    string `json:"port_id"`
	ChannelID string `json:"channel_id"`
}

type IBCChannel struct {
	Endpoint             IBCEndpoint `json:"endpoint"`
	CounterpartyEndpoint IBCEndpoint `json:"counterparty_endpoint"`
	Order                IBCOrder    `json:"order"`
	Version              string      `json:"version"`
	ConnectionID         string      `json:"connection_id"`
}

// IBCOrder mirrors the string form of the sdk channel Order.
// Proto files: https://github.com/cosmos/ibc-go/blob/v8.0.0/proto/ibc/core/channel/v1/channel.proto#L69-L80
type IBCOrder = string

// These are the only two valid values for IBCOrder
const (
	Unordered = "ORDER_UNORDERED"
	Ordered   = "ORDER_ORDERED"
)

// IBCTimeoutBlock Height is a monotonically increasing data type
// that can be compared against another Height for the purposes of updating and
// freezing clients.
// Ordering is (revision, height)
type IBCTimeoutBlock struct {
	// the version that the client is currently on
	// (eg. after reseting the chain this could increment 1 as height drops to 0)
	Revision uint64 `json:"revision"`
	// block height after which the packet times out.
	// the height within the given revision
	Height uint64 `json:"height"`
}

// IBCTimeout is the timeout for an IBC packet. At least one of block and timestamp is required.
type IBCTimeout struct {
	Block *IBCTimeoutBlock `json:"block,omitempty"`
	// Nanoseconds since UNIX epoch
	Timestamp *Uint64 `json:"timestamp,omitempty"`
}

// Expired reports whether the timeout has passed at the given block.
// A timeout without block and timestamp never expires.
func (t IBCTimeout) Expired(block BlockInfo) bool {
	if t.Timestamp != nil && uint64(block.Time) >= uint64(*t.Timestamp) {
		return true
	}
	if t.Block != nil && block.Height >= t.Block.Height {
		return true
	}
	return false
}

type IBCPacket struct {
	Data     []byte      `json:"data"`
	Src      IBCEndpoint `json:"src"`
	Dest     IBCEndpoint `json:"dest"`
	Sequence uint64      `json:"sequence"`
	Timeout  IBCTimeout  `json:"timeout"`
}

type IBCAcknowledgement struct {
	Data []byte `json:"data"`
}

// IBCChannelOpenMsg is the handshake message for the OpenInit and OpenTry steps.
// Exactly one of the fields is set.
type IBCChannelOpenMsg struct {
	OpenInit *IBCOpenInit `json:"open_init,omitempty"`
	OpenTry  *IBCOpenTry  `json:"open_try,omitempty"`
}

// GetChannel returns the IBCChannel in this message.
func (msg IBCChannelOpenMsg) GetChannel() IBCChannel {
	if msg.OpenInit != nil {
		return msg.OpenInit.Channel
	}
	return msg.OpenTry.Channel
}

// GetCounterVersion checks if the message has a counterparty version and
// returns it if so. The counterparty version is only known on OpenTry.
func (msg IBCChannelOpenMsg) GetCounterVersion() (ver string, ok bool) {
	if msg.OpenTry != nil {
		return msg.OpenTry.CounterpartyVersion, true
	}
	return "", false
}

type IBCOpenInit struct {
	Channel IBCChannel `json:"channel"`
}

type IBCOpenTry struct {
	Channel             IBCChannel `json:"channel"`
	CounterpartyVersion string     `json:"counterparty_version"`
}

// IBCChannelConnectMsg is the handshake message for the OpenAck and OpenConfirm steps.
// Exactly one of the fields is set.
type IBCChannelConnectMsg struct {
	OpenAck     *IBCOpenAck     `json:"open_ack,omitempty"`
	OpenConfirm *IBCOpenConfirm `json:"open_confirm,omitempty"`
}

// GetChannel returns the IBCChannel in this message.
func (msg IBCChannelConnectMsg) GetChannel() IBCChannel {
	if msg.OpenAck != nil {
		return msg.OpenAck.Channel
	}
	return msg.OpenConfirm.Channel
}

// GetCounterVersion checks if the message has a counterparty version and
// returns it if so. The counterparty version is only known on OpenAck.
func (msg IBCChannelConnectMsg) GetCounterVersion() (ver string, ok bool) {
	if msg.OpenAck != nil {
		return msg.OpenAck.CounterpartyVersion, true
	}
	return "", false
}

type IBCOpenAck struct {
	Channel             IBCChannel `json:"channel"`
	CounterpartyVersion string     `json:"counterparty_version"`
}

type IBCOpenConfirm struct {
	Channel IBCChannel `json:"channel"`
}

// IBCChannelCloseMsg is sent on either side of a channel close.
// Exactly one of the fields is set.
type IBCChannelCloseMsg struct {
	CloseInit    *IBCCloseInit    `json:"close_init,omitempty"`
	CloseConfirm *IBCCloseConfirm `json:"close_confirm,omitempty"`
}

// GetChannel returns the IBCChannel in this message.
func (msg IBCChannelCloseMsg) GetChannel() IBCChannel {
	if msg.CloseInit != nil {
		return msg.CloseInit.Channel
	}
	return msg.CloseConfirm.Channel
}

type IBCCloseInit struct {
	Channel IBCChannel `json:"channel"`
}

type IBCCloseConfirm struct {
	Channel IBCChannel `json:"channel"`
}

type IBCPacketReceiveMsg struct {
	Packet  IBCPacket `json:"packet"`
	Relayer string    `json:"relayer"`
}

type IBCPacketAckMsg struct {
	Acknowledgement IBCAcknowledgement `json:"acknowledgement"`
	OriginalPacket  IBCPacket          `json:"original_packet"`
	Relayer         string             `json:"relayer"`
}

type IBCPacketTimeoutMsg struct {
	Packet  IBCPacket `json:"packet"`
	Relayer string    `json:"relayer"`
}

// IBC3ChannelOpenResponse is returned from the open step when the contract
// wants to override the proposed version. A nil response accepts it.
type IBC3ChannelOpenResponse struct {
	Version string `json:"version"`
}

// IBCBasicResponse is the return value for the majority of the ibc handlers.
// They are able to dispatch messages / events on their own,
// but have no meaningful return value to the calling code.
//
// Callbacks that have return values (like ibc_receive_packet)
// or that cannot redispatch messages (like ibc_channel_open)
// will use other Response types
type IBCBasicResponse struct {
	// Messages comes directly from the contract and is its request for action
	Messages []CosmosMsg `json:"messages"`
	// attributes for a log event to return over abci interface
	Attributes []EventAttribute `json:"attributes"`
}

// NewIBCBasicResponse starts a response tagged with the handling method.
func NewIBCBasicResponse(method string) *IBCBasicResponse {
	return &IBCBasicResponse{
		Messages:   []CosmosMsg{},
		Attributes: []EventAttribute{{Key: "method", Value: method}},
	}
}

// AddAttribute appends a key/value pair and returns the response for chaining.
func (r *IBCBasicResponse) AddAttribute(key, value string) *IBCBasicResponse {
	r.Attributes = append(r.Attributes, EventAttribute{Key: key, Value: value})
	return r
}

// Attribute returns the value of the first attribute with the given key.
func (r *IBCBasicResponse) Attribute(key string) (string, bool) {
	return findAttribute(r.Attributes, key)
}

// IBCReceiveResponse defines the return value on packet response processing.
// This "success" case should be returned even in application-level errors,
// Where the Acknowledgement bytes contain an encoded error message to be returned to
// the calling chain.
type IBCReceiveResponse struct {
	// binary encoded data to be returned to calling chain as the acknowledgement
	Acknowledgement []byte `json:"acknowledgement"`
	// attributes for a log event to return over abci interface
	Attributes []EventAttribute `json:"attributes"`
}
