package types

//------- Results / Msgs -------------

// Response defines the return value on a successful instantiate/execute.
type Response struct {
	// Messages are the contract's requests for action. They are all
	// "fire and forget": the contract never waits for their outcome.
	Messages []CosmosMsg `json:"messages"`
	// base64-encoded bytes to return as ABCI.Data field
	Data []byte `json:"data"`
	// attributes for a log event to return over abci interface
	Attributes []EventAttribute `json:"attributes"`
}

// NewResponse starts a response tagged with the handling method.
func NewResponse(method string) *Response {
	return &Response{
		Messages:   []CosmosMsg{},
		Attributes: []EventAttribute{{Key: "method", Value: method}},
	}
}

// AddAttribute appends a key/value pair and returns the response for chaining.
func (r *Response) AddAttribute(key, value string) *Response {
	r.Attributes = append(r.Attributes, EventAttribute{Key: key, Value: value})
	return r
}

// AddMessage appends an outbound message and returns the response for chaining.
func (r *Response) AddMessage(msg CosmosMsg) *Response {
	r.Messages = append(r.Messages, msg)
	return r
}

// Attribute returns the value of the first attribute with the given key.
func (r *Response) Attribute(key string) (string, bool) {
	return findAttribute(r.Attributes, key)
}

// EventAttribute represents an attribute of an event.
type EventAttribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

func findAttribute(attrs []EventAttribute, key string) (string, bool) {
	for _, a := range attrs {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

// CosmosMsg represents a message the contract asks the host to dispatch.
// Only the IBC variant is ever produced by this contract.
type CosmosMsg struct {
	IBC *IBCMsg `json:"ibc,omitempty"`
}

// IBCMsg represents a message to the IBC module.
type IBCMsg struct {
	SendPacket *SendPacketMsg `json:"send_packet,omitempty"`
}

// SendPacketMsg represents a message to send an IBC packet.
//
// Sequence is allocated by the contract. The host transport uses it as the
// packet sequence, so the acknowledgement or timeout for this packet comes
// back carrying the same number.
type SendPacketMsg struct {
	ChannelID string     `json:"channel_id"`
	Data      []byte     `json:"data"`
	Timeout   IBCTimeout `json:"timeout"`
	Sequence  uint64     `json:"sequence"`
}
