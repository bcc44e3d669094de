// Package state holds the persisted schema of the interchain query contract.
//
// Every entity lives in the store handed to New; State keeps nothing in
// memory between calls.
package state

import (
	"github.com/CosmWasm/wasmicq/internal/store"
	"github.com/CosmWasm/wasmicq/types"
)

var (
	contractVersion  = NewItem[types.ContractVersion]("contract_info")
	channelInfo      = NewMap[string, types.ChannelInfo]("channel_info", StringKey{})
	nextSequenceSend = NewItem[uint64]("next_sequence_send")
	lastSequenceAck  = NewItem[uint64]("last_sequence_acknowledgment")
	pendingRequests  = NewMap[uint64, types.PendingRequest]("icq_requests", Uint64Key{})
	balanceResponses = NewMap[uint64, types.Coin]("icq_responses", Uint64Key{})
	priceResponses   = NewMap[uint64, string]("icq_price_responses", Uint64Key{})
	queryErrors      = NewMap[uint64, string]("icq_errors", Uint64Key{})
)

// State gives typed access to the contract entities in one store.
type State struct {
	kv store.KVStore
}

func New(kv store.KVStore) *State {
	return &State{kv: kv}
}

func (s *State) ContractVersion() (*types.ContractVersion, error) {
	return contractVersion.MayLoad(s.kv)
}

func (s *State) SetContractVersion(v types.ContractVersion) error {
	return contractVersion.Save(s.kv, v)
}

//-------- channels --------

// Channel returns nil if the channel is not registered.
func (s *State) Channel(id string) (*types.ChannelInfo, error) {
	if id == "" {
		return nil, nil
	}
	return channelInfo.MayLoad(s.kv, id)
}

// HasChannel reports false for the empty id, which is never registered.
func (s *State) HasChannel(id string) (bool, error) {
	if id == "" {
		return false, nil
	}
	return channelInfo.Has(s.kv, id)
}

// SaveChannel overwrites any previous registration of the same id.
func (s *State) SaveChannel(info types.ChannelInfo) error {
	return channelInfo.Save(s.kv, info.ID, info)
}

func (s *State) RemoveChannel(id string) error {
	return channelInfo.Remove(s.kv, id)
}

func (s *State) Channels() ([]types.ChannelInfo, error) {
	entries, err := channelInfo.Range(s.kv)
	if err != nil {
		return nil, err
	}
	out := make([]types.ChannelInfo, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Value)
	}
	return out, nil
}

//-------- sequences --------

// SequenceCounter returns the last allocated sequence, 0 if none was allocated.
func (s *State) SequenceCounter() (uint64, error) {
	v, err := nextSequenceSend.MayLoad(s.kv)
	if err != nil || v == nil {
		return 0, err
	}
	return *v, nil
}

func (s *State) SetSequenceCounter(seq uint64) error {
	return nextSequenceSend.Save(s.kv, seq)
}

// LastAcknowledged returns nil before the first acknowledgement.
func (s *State) LastAcknowledged() (*uint64, error) {
	return lastSequenceAck.MayLoad(s.kv)
}

func (s *State) SetLastAcknowledged(seq uint64) error {
	return lastSequenceAck.Save(s.kv, seq)
}

//-------- pending requests --------

// PendingRequest returns nil if nothing was sent with this sequence.
func (s *State) PendingRequest(seq uint64) (*types.PendingRequest, error) {
	return pendingRequests.MayLoad(s.kv, seq)
}

func (s *State) SavePendingRequest(req types.PendingRequest) error {
	return pendingRequests.Save(s.kv, req.Sequence, req)
}

func (s *State) PendingRequests() ([]types.PendingRequest, error) {
	entries, err := pendingRequests.Range(s.kv)
	if err != nil {
		return nil, err
	}
	out := make([]types.PendingRequest, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Value)
	}
	return out, nil
}

//-------- results --------

func (s *State) Balance(seq uint64) (*types.Coin, error) {
	return balanceResponses.MayLoad(s.kv, seq)
}

func (s *State) SaveBalance(seq uint64, coin types.Coin) error {
	return balanceResponses.Save(s.kv, seq, coin)
}

func (s *State) Balances() ([]types.SequencedBalance, error) {
	entries, err := balanceResponses.Range(s.kv)
	if err != nil {
		return nil, err
	}
	out := make([]types.SequencedBalance, 0, len(entries))
	for _, e := range entries {
		out = append(out, types.SequencedBalance{Sequence: e.Key, Balance: e.Value})
	}
	return out, nil
}

func (s *State) Price(seq uint64) (*string, error) {
	return priceResponses.MayLoad(s.kv, seq)
}

func (s *State) SavePrice(seq uint64, price string) error {
	return priceResponses.Save(s.kv, seq, price)
}

func (s *State) Prices() ([]types.SequencedPrice, error) {
	entries, err := priceResponses.Range(s.kv)
	if err != nil {
		return nil, err
	}
	out := make([]types.SequencedPrice, 0, len(entries))
	for _, e := range entries {
		out = append(out, types.SequencedPrice{Sequence: e.Key, Price: e.Value})
	}
	return out, nil
}

func (s *State) QueryError(seq uint64) (*string, error) {
	return queryErrors.MayLoad(s.kv, seq)
}

func (s *State) SaveQueryError(seq uint64, msg string) error {
	return queryErrors.Save(s.kv, seq, msg)
}

func (s *State) QueryErrors() ([]types.SequencedError, error) {
	entries, err := queryErrors.Range(s.kv)
	if err != nil {
		return nil, err
	}
	out := make([]types.SequencedError, 0, len(entries))
	for _, e := range entries {
		out = append(out, types.SequencedError{Sequence: e.Key, Error: e.Value})
	}
	return out, nil
}

// Result collects whatever terminal outcome is stored for seq.
func (s *State) Result(seq uint64) (types.ResultResponse, error) {
	res := types.ResultResponse{Sequence: seq}
	var err error
	if res.Balance, err = s.Balance(seq); err != nil {
		return res, err
	}
	if res.Price, err = s.Price(seq); err != nil {
		return res, err
	}
	if res.Error, err = s.QueryError(seq); err != nil {
		return res, err
	}
	return res, nil
}

// HasOutcome reports whether a result or error was already written for seq.
func (s *State) HasOutcome(seq uint64) (bool, error) {
	for _, has := range []func(store.KVStore, uint64) (bool, error){
		balanceResponses.Has, priceResponses.Has, queryErrors.Has,
	} {
		ok, err := has(s.kv, seq)
		if err != nil || ok {
			return ok, err
		}
	}
	return false, nil
}
