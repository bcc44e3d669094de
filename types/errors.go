package types

import (
	"fmt"
)

// Protocol errors returned by the contract entry points. All of them abort
// the call, so nothing written during the call is committed.
var (
	_ error = UnsupportedOrdering{}
	_ error = VersionMismatch{}
	_ error = UnknownChannel{}
	_ error = MalformedAck{}
	_ error = MalformedResponse{}
	_ error = UnknownRequest{}
	_ error = AlreadyAcknowledged{}
	_ error = InvalidRequest{}
)

// UnsupportedOrdering is returned from the handshake for any channel that is not unordered.
type UnsupportedOrdering struct {
	Order IBCOrder `json:"order"`
}

func (e UnsupportedOrdering) Error() string {
	return fmt.Sprintf("only unordered channels are supported, got %s", e.Order)
}

// VersionMismatch is returned when either side proposes a version other than the protocol version.
type VersionMismatch struct {
	Actual   string `json:"actual"`
	Expected string `json:"expected"`
}

func (e VersionMismatch) Error() string {
	return fmt.Sprintf("invalid IBC channel version. Got (%s), expected (%s)", e.Actual, e.Expected)
}

// UnknownChannel is returned when sending over a channel that is not in the registry.
type UnknownChannel struct {
	ID string `json:"id"`
}

func (e UnknownChannel) Error() string {
	return fmt.Sprintf("no such channel: %s", e.ID)
}

// MalformedAck is returned when the outer acknowledgement envelope cannot be decoded.
type MalformedAck struct {
	Err error
}

func (e MalformedAck) Error() string {
	return fmt.Sprintf("malformed acknowledgement: %v", e.Err)
}

func (e MalformedAck) Unwrap() error { return e.Err }

// Layers of a successful acknowledgement, outermost first.
const (
	LayerPacketAck      = "packet_ack"
	LayerCosmosResponse = "cosmos_response"
	LayerQueryResponse  = "query_response"
)

// MalformedResponse is returned when one of the nested layers inside a
// successful acknowledgement cannot be decoded. Layer names the failing step.
type MalformedResponse struct {
	Layer string
	Err   error
}

func (e MalformedResponse) Error() string {
	return fmt.Sprintf("malformed %s in acknowledgement: %v", e.Layer, e.Err)
}

func (e MalformedResponse) Unwrap() error { return e.Err }

// UnknownRequest is returned when a response arrives for a sequence with no pending request.
type UnknownRequest struct {
	Sequence uint64 `json:"sequence"`
}

func (e UnknownRequest) Error() string {
	return fmt.Sprintf("no pending request for sequence %d", e.Sequence)
}

// AlreadyAcknowledged is returned when a second acknowledgement arrives for a sequence.
type AlreadyAcknowledged struct {
	Sequence uint64 `json:"sequence"`
}

func (e AlreadyAcknowledged) Error() string {
	return fmt.Sprintf("sequence %d already has a terminal result", e.Sequence)
}

// InvalidRequest is returned when an execute or query message cannot be handled.
type InvalidRequest struct {
	Err     string `json:"error"`
	Request []byte `json:"request"`
}

func (e InvalidRequest) Error() string {
	return fmt.Sprintf("invalid request: %s - original request: %s", e.Err, string(e.Request))
}
