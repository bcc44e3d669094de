package protocol

import (
	"encoding/json"
	"math"
	"testing"

	dbm "github.com/cometbft/cometbft-db"
	"github.com/gogo/protobuf/proto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CosmWasm/wasmicq/internal/config"
	"github.com/CosmWasm/wasmicq/internal/logging"
	"github.com/CosmWasm/wasmicq/internal/store"
	"github.com/CosmWasm/wasmicq/types"
)

// 2023-11-14T22:13:20Z
const testBlockTime = types.Uint64(1_700_000_000_000_000_000)

func testEnv() types.Env {
	return types.Env{
		Block: types.BlockInfo{Height: 100, Time: testBlockTime, ChainID: "testing"},
		Contract: types.ContractInfo{
			Address: "cosmos1contract",
			PortID:  "wasm.cosmos1contract",
		},
	}
}

func connect(t *testing.T, h *Handler, id string) {
	t.Helper()
	_, err := h.ChannelConnect(types.IBCChannelConnectMsg{
		OpenConfirm: &types.IBCOpenConfirm{Channel: testChannel(id, types.Unordered, Version)},
	})
	require.NoError(t, err)
}

func sentPacket(t *testing.T, res *types.Response) *types.SendPacketMsg {
	t.Helper()
	require.Len(t, res.Messages, 1)
	require.NotNil(t, res.Messages[0].IBC)
	require.NotNil(t, res.Messages[0].IBC.SendPacket)
	return res.Messages[0].IBC.SendPacket
}

func TestNextSequenceIsStrictlyIncreasing(t *testing.T) {
	h := newHandler(t)
	var prev uint64
	for i := 0; i < 50; i++ {
		seq, err := h.NextSequence()
		require.NoError(t, err)
		require.Greater(t, seq, prev)
		prev = seq
	}
	assert.Equal(t, uint64(50), prev)

	require.NoError(t, h.State().SetSequenceCounter(^uint64(0)))
	_, err := h.NextSequence()
	require.ErrorContains(t, err, "exhausted")
}

func TestSendQueryUnknownChannel(t *testing.T) {
	h := newHandler(t)
	connect(t, h, "channel-0")
	_, err := h.SendQuery(testEnv(), "channel-0", BalanceQuery{Address: "osmo1abc", Denom: "uosmo"})
	require.NoError(t, err)

	_, err = h.SendQuery(testEnv(), "channel-none", BalanceQuery{Address: "osmo1abc", Denom: "uosmo"})
	require.Equal(t, types.UnknownChannel{ID: "channel-none"}, err)
	_, err = h.SendQuery(testEnv(), "", BalanceQuery{Address: "osmo1abc", Denom: "uosmo"})
	require.Equal(t, types.UnknownChannel{ID: ""}, err)

	counter, err := h.State().SequenceCounter()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), counter)
}

func TestSendQueryTimeoutNeverPrecedesBlockTime(t *testing.T) {
	cfg := config.Default()
	cfg.TimeoutSeconds = 1 << 62
	cfg.TwapWindowSeconds = 1 << 62
	h := NewHandler(store.NewTx(dbm.NewMemDB()), cfg, logging.Nop())
	connect(t, h, "channel-0")

	res, err := h.SendQuery(testEnv(), "channel-0", BalanceQuery{Address: "osmo1abc", Denom: "uosmo"})
	require.NoError(t, err)
	packet := sentPacket(t, res)
	require.NotNil(t, packet.Timeout.Timestamp)
	assert.Equal(t, types.Uint64(math.MaxUint64), *packet.Timeout.Timestamp)
	assert.Greater(t, uint64(*packet.Timeout.Timestamp), uint64(testBlockTime))

	assert.Equal(t, types.Uint64(0), h.TwapStartTime(testEnv().Block))
}

func TestSendBalanceQueryRoundTrip(t *testing.T) {
	h := newHandler(t)
	connect(t, h, "channel-0")

	res, err := h.SendQuery(testEnv(), "channel-0", BalanceQuery{Address: "osmo1abc", Denom: "uosmo"})
	require.NoError(t, err)
	packet := sentPacket(t, res)
	assert.Equal(t, "channel-0", packet.ChannelID)
	assert.Equal(t, uint64(1), packet.Sequence)
	require.NotNil(t, packet.Timeout.Timestamp)
	assert.Equal(t, testBlockTime+120_000_000_000, *packet.Timeout.Timestamp)
	assert.Nil(t, packet.Timeout.Block)

	var data types.SendQueryResponse
	require.NoError(t, json.Unmarshal(res.Data, &data))
	assert.Equal(t, uint64(1), data.Sequence)
	method, _ := res.Attribute("method")
	assert.Equal(t, "send_query_balance", method)

	batch, memo, err := DecodePacketData(packet.Data)
	require.NoError(t, err)
	assert.Equal(t, "icq request", memo)
	require.Len(t, batch.Requests, 1)
	assert.Equal(t, "/cosmos.bank.v1beta1.Query/Balance", batch.Requests[0].Path)

	expected, err := proto.Marshal(&types.QueryBalanceRequest{Address: "osmo1abc", Denom: "uosmo"})
	require.NoError(t, err)
	assert.Equal(t, expected, batch.Requests[0].Data)

	var req types.QueryBalanceRequest
	require.NoError(t, proto.Unmarshal(batch.Requests[0].Data, &req))
	assert.Equal(t, "osmo1abc", req.Address)
	assert.Equal(t, "uosmo", req.Denom)

	pending, err := h.State().PendingRequest(1)
	require.NoError(t, err)
	require.NotNil(t, pending)
	assert.Equal(t, types.PendingRequest{
		Sequence:  1,
		ChannelID: "channel-0",
		Path:      types.BalanceQueryPath,
		Balance:   &types.BalanceParams{Address: "osmo1abc", Denom: "uosmo"},
		SentAt:    testBlockTime,
		TimeoutAt: testBlockTime + 120_000_000_000,
		Status:    types.StatusPending,
	}, *pending)
}

func TestSendTwapQuery(t *testing.T) {
	h := newHandler(t)
	connect(t, h, "channel-0")
	env := testEnv()

	q := TwapQuery{PoolID: 1, BaseAsset: "uosmo", QuoteAsset: "uatom", StartTime: h.TwapStartTime(env.Block)}
	assert.Equal(t, testBlockTime-4*3600*1_000_000_000, q.StartTime)

	res, err := h.SendQuery(env, "channel-0", q)
	require.NoError(t, err)
	method, _ := res.Attribute("method")
	assert.Equal(t, "send_query_twap", method)

	batch, _, err := DecodePacketData(sentPacket(t, res).Data)
	require.NoError(t, err)
	require.Len(t, batch.Requests, 1)
	assert.Equal(t, types.TwapQueryPath, batch.Requests[0].Path)

	var req types.ArithmeticTwapToNowRequest
	require.NoError(t, proto.Unmarshal(batch.Requests[0].Data, &req))
	assert.Equal(t, uint64(1), req.PoolId)
	assert.Equal(t, "uatom", req.QuoteAsset)
	require.NotNil(t, req.StartTime)
	assert.Equal(t, q.StartTime, req.StartTime.UnixNano())

	pending, err := h.State().PendingRequest(1)
	require.NoError(t, err)
	require.NotNil(t, pending.Twap)
	assert.Nil(t, pending.Balance)
	assert.Equal(t, q.StartTime, pending.Twap.StartTime)
}

func TestTwapStartTimeClampsAtZero(t *testing.T) {
	h := newHandler(t)
	assert.Equal(t, types.Uint64(0), h.TwapStartTime(types.BlockInfo{Time: 1_000}))
}

func TestSendQueryValidation(t *testing.T) {
	h := newHandler(t)
	connect(t, h, "channel-0")

	cases := map[string]Query{
		"balance without address": BalanceQuery{Denom: "uosmo"},
		"balance without denom":   BalanceQuery{Address: "osmo1abc"},
		"twap without base":       TwapQuery{PoolID: 1, QuoteAsset: "uatom"},
		"twap without quote":      TwapQuery{PoolID: 1, BaseAsset: "uosmo"},
	}
	for name, q := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := h.SendQuery(testEnv(), "channel-0", q)
			require.IsType(t, types.InvalidRequest{}, err)
		})
	}

	counter, err := h.State().SequenceCounter()
	require.NoError(t, err)
	assert.Zero(t, counter)
}

func TestDecodePacketDataErrors(t *testing.T) {
	_, _, err := DecodePacketData([]byte("not json"))
	require.ErrorContains(t, err, "decode packet data")

	bz, err := json.Marshal(types.InterchainQueryPacketData{Data: []byte{0xff, 0xff}})
	require.NoError(t, err)
	_, _, err = DecodePacketData(bz)
	require.ErrorContains(t, err, "decode query batch")
}
