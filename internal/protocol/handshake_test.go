package protocol

import (
	"errors"
	"testing"

	dbm "github.com/cometbft/cometbft-db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CosmWasm/wasmicq/internal/config"
	"github.com/CosmWasm/wasmicq/internal/logging"
	"github.com/CosmWasm/wasmicq/internal/store"
	"github.com/CosmWasm/wasmicq/types"
)

func newHandler(t *testing.T) *Handler {
	t.Helper()
	return NewHandler(store.NewTx(dbm.NewMemDB()), config.Default(), logging.Nop())
}

func testChannel(id, order, version string) types.IBCChannel {
	return types.IBCChannel{
		Endpoint:             types.IBCEndpoint{PortID: "wasm.contract", ChannelID: id},
		CounterpartyEndpoint: types.IBCEndpoint{PortID: "icqhost", ChannelID: "channel-7"},
		Order:                order,
		Version:              version,
		ConnectionID:         "connection-0",
	}
}

func strPtr(s string) *string { return &s }

func TestValidateOrderAndVersion(t *testing.T) {
	cases := map[string]struct {
		channel      types.IBCChannel
		counterparty *string
		expErr       error
	}{
		"unordered, counterparty unknown": {
			channel: testChannel("channel-0", types.Unordered, "icq-1"),
		},
		"unordered, counterparty matches": {
			channel:      testChannel("channel-0", types.Unordered, "icq-1"),
			counterparty: strPtr("icq-1"),
		},
		"ordered is rejected": {
			channel: testChannel("channel-0", types.Ordered, "icq-1"),
			expErr:  types.UnsupportedOrdering{Order: types.Ordered},
		},
		"ordered is rejected before the version": {
			channel: testChannel("channel-0", types.Ordered, "icq-0"),
			expErr:  types.UnsupportedOrdering{Order: types.Ordered},
		},
		"local version mismatch": {
			channel: testChannel("channel-0", types.Unordered, "icq-0"),
			expErr:  types.VersionMismatch{Actual: "icq-0", Expected: "icq-1"},
		},
		"counterparty version mismatch": {
			channel:      testChannel("channel-0", types.Unordered, "icq-1"),
			counterparty: strPtr("ics20-1"),
			expErr:       types.VersionMismatch{Actual: "ics20-1", Expected: "icq-1"},
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			err := ValidateOrderAndVersion(tc.channel, tc.counterparty)
			if tc.expErr == nil {
				require.NoError(t, err)
				return
			}
			require.Equal(t, tc.expErr, err)
		})
	}
}

func TestChannelOpen(t *testing.T) {
	h := newHandler(t)

	res, err := h.ChannelOpen(types.IBCChannelOpenMsg{
		OpenInit: &types.IBCOpenInit{Channel: testChannel("channel-0", types.Unordered, Version)},
	})
	require.NoError(t, err)
	assert.Nil(t, res)

	_, err = h.ChannelOpen(types.IBCChannelOpenMsg{
		OpenTry: &types.IBCOpenTry{
			Channel:             testChannel("channel-0", types.Unordered, Version),
			CounterpartyVersion: "icq-0",
		},
	})
	var mismatch types.VersionMismatch
	require.True(t, errors.As(err, &mismatch))
	assert.Equal(t, "icq-0", mismatch.Actual)

	// nothing is registered before connect
	channels, err := h.State().Channels()
	require.NoError(t, err)
	assert.Empty(t, channels)
}

func TestChannelConnectAndClose(t *testing.T) {
	h := newHandler(t)
	channel := testChannel("channel-0", types.Unordered, Version)

	res, err := h.ChannelConnect(types.IBCChannelConnectMsg{
		OpenAck: &types.IBCOpenAck{Channel: channel, CounterpartyVersion: Version},
	})
	require.NoError(t, err)
	method, _ := res.Attribute("method")
	assert.Equal(t, "ibc_channel_connect", method)

	// reconnecting overwrites instead of accumulating
	channel.ConnectionID = "connection-9"
	_, err = h.ChannelConnect(types.IBCChannelConnectMsg{
		OpenConfirm: &types.IBCOpenConfirm{Channel: channel},
	})
	require.NoError(t, err)

	channels, err := h.State().Channels()
	require.NoError(t, err)
	require.Len(t, channels, 1)
	assert.Equal(t, types.ChannelInfo{
		ID:                   "channel-0",
		CounterpartyEndpoint: channel.CounterpartyEndpoint,
		ConnectionID:         "connection-9",
	}, channels[0])

	res, err = h.ChannelClose(types.IBCChannelCloseMsg{CloseInit: &types.IBCCloseInit{Channel: channel}})
	require.NoError(t, err)
	id, _ := res.Attribute("channel")
	assert.Equal(t, "channel-0", id)

	_, err = h.SendQuery(testEnv(), "channel-0", BalanceQuery{Address: "osmo1abc", Denom: "uosmo"})
	require.Equal(t, types.UnknownChannel{ID: "channel-0"}, err)
}

func TestChannelConnectRejectsOrdered(t *testing.T) {
	h := newHandler(t)
	_, err := h.ChannelConnect(types.IBCChannelConnectMsg{
		OpenConfirm: &types.IBCOpenConfirm{Channel: testChannel("channel-0", types.Ordered, Version)},
	})
	require.Equal(t, types.UnsupportedOrdering{Order: types.Ordered}, err)

	ok, err := h.State().HasChannel("channel-0")
	require.NoError(t, err)
	assert.False(t, ok)
}
