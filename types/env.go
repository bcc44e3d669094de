package types

import (
	"math"
	"time"
)

//---------- Env ---------

// Env represents the execution environment for one contract call.
// It includes information about the current block and the contract itself.
type Env struct {
	Block    BlockInfo    `json:"block"`
	Contract ContractInfo `json:"contract"`
}

// BlockInfo represents information about the current block being processed.
type BlockInfo struct {
	// block height this transaction is executed
	Height uint64 `json:"height"`
	// time in nanoseconds since unix epoch. Uses Uint64 to ensure JavaScript compatibility.
	Time    Uint64 `json:"time"`
	ChainID string `json:"chain_id"`
}

// BlockTime returns the block time as a time.Time in UTC.
func (b BlockInfo) BlockTime() time.Time {
	return time.Unix(0, int64(b.Time)).UTC()
}

// PlusSeconds returns the block time shifted by secs, in nanoseconds.
// The result saturates at the largest representable time.
func (b BlockInfo) PlusSeconds(secs uint64) Uint64 {
	if secs > (math.MaxUint64-uint64(b.Time))/uint64(time.Second) {
		return math.MaxUint64
	}
	return b.Time + Uint64(secs*uint64(time.Second))
}

// MinusSeconds returns the block time shifted back by secs, or 0 when that
// would precede the epoch.
func (b BlockInfo) MinusSeconds(secs uint64) Uint64 {
	if secs > uint64(b.Time)/uint64(time.Second) {
		return 0
	}
	return b.Time - Uint64(secs*uint64(time.Second))
}

// ContractInfo represents information about the current contract being executed.
type ContractInfo struct {
	// Bech32 encoded sdk.AccAddress of the contract
	Address HumanAddress `json:"address"`
	// Port the contract is bound to
	PortID string `json:"port_id"`
}

// MessageInfo represents information about the message being executed.
type MessageInfo struct {
	// Bech32 encoded sdk.AccAddress executing the contract
	Sender HumanAddress `json:"sender"`
	// Amount of funds send to the contract along with this message
	Funds Array[Coin] `json:"funds"`
}
