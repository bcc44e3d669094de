package types

//-------- Queries --------

// QueryMsg is the contract's read-only query message. Exactly one of the fields is set.
type QueryMsg struct {
	AllBalances     *struct{}     `json:"all_balances,omitempty"`
	AllPriceFeeds   *struct{}     `json:"all_price_feeds,omitempty"`
	AllErrors       *struct{}     `json:"all_errors,omitempty"`
	LastSequence    *struct{}     `json:"last_sequence,omitempty"`
	Result          *ResultQuery  `json:"result,omitempty"`
	Pending         *PendingQuery `json:"pending,omitempty"`
	Channel         *ChannelQuery `json:"channel,omitempty"`
	ListChannels    *struct{}     `json:"list_channels,omitempty"`
	ContractVersion *struct{}     `json:"contract_version,omitempty"`
}

type ResultQuery struct {
	Sequence uint64 `json:"sequence"`
}

type PendingQuery struct {
	Sequence uint64 `json:"sequence"`
}

type ChannelQuery struct {
	ID string `json:"id"`
}

type SequencedBalance struct {
	Sequence uint64 `json:"sequence"`
	Balance  Coin   `json:"balance"`
}

type SequencedPrice struct {
	Sequence uint64 `json:"sequence"`
	Price    string `json:"price"`
}

type SequencedError struct {
	Sequence uint64 `json:"sequence"`
	Error    string `json:"error"`
}

type AllBalancesResponse struct {
	Balances Array[SequencedBalance] `json:"balances"`
}

type AllPriceFeedsResponse struct {
	Prices Array[SequencedPrice] `json:"prices"`
}

type AllErrorsResponse struct {
	Errors Array[SequencedError] `json:"errors"`
}

// LastSequenceResponse has Sequence unset before the first acknowledgement.
type LastSequenceResponse struct {
	Sequence *uint64 `json:"sequence"`
}

// ResultResponse holds the terminal outcome of one sequence.
// At most one of Balance, Price and Error is set; none is set while in flight.
type ResultResponse struct {
	Sequence uint64  `json:"sequence"`
	Balance  *Coin   `json:"balance,omitempty"`
	Price    *string `json:"price,omitempty"`
	Error    *string `json:"error,omitempty"`
}

type PendingResponse struct {
	Request *PendingRequest `json:"request"`
}

type ChannelResponse struct {
	Channel *ChannelInfo `json:"channel"`
}

type ListChannelsResponse struct {
	Channels Array[ChannelInfo] `json:"channels"`
}
