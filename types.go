package icq

import (
	"github.com/CosmWasm/wasmicq/internal/protocol"
	"github.com/CosmWasm/wasmicq/types"
)

// ContractName is recorded on instantiate together with Version.
const ContractName = "wasmicq"

// Version of this library.
const Version = "0.1.0"

// ChannelVersion is the IBC channel version both ends must agree on.
const ChannelVersion = protocol.Version

// Env is the block and contract information passed into every entry point.
type Env = types.Env

// MessageInfo identifies the sender of an instantiate or execute message.
type MessageInfo = types.MessageInfo

// Response is returned from instantiate and execute.
type Response = types.Response

// IBCBasicResponse is returned from most IBC entry points.
type IBCBasicResponse = types.IBCBasicResponse
