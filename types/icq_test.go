package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcknowledgementSerialization(t *testing.T) {
	bz, err := json.Marshal(NewResultAcknowledgement([]byte{1}))
	require.NoError(t, err)
	assert.Equal(t, `{"result":"AQ=="}`, string(bz))

	bz, err = json.Marshal(NewResultAcknowledgement(nil))
	require.NoError(t, err)
	assert.Equal(t, `{"result":""}`, string(bz))

	bz, err = json.Marshal(NewErrorAcknowledgement("boom"))
	require.NoError(t, err)
	assert.Equal(t, `{"error":"boom"}`, string(bz))
}

func TestAcknowledgementDeserialization(t *testing.T) {
	var ack Acknowledgement
	require.NoError(t, json.Unmarshal([]byte(`{"result":"AQ=="}`), &ack))
	assert.True(t, ack.Success())
	assert.Equal(t, []byte{1}, ack.Result)
	assert.Empty(t, ack.ErrorMessage())

	require.NoError(t, json.Unmarshal([]byte(`{"error":""}`), &ack))
	assert.False(t, ack.Success())
	assert.Equal(t, "", ack.ErrorMessage())

	cases := map[string]string{
		"both":          `{"result":"AQ==","error":"x"}`,
		"neither":       `{"data":"AQ=="}`,
		"null":          `null`,
		"bad base64":    `{"result":"!!"}`,
		"error type":    `{"error":1}`,
		"not an object": `[]`,
		"null error":    `{"error":null}`,
		"null result":   `{"result":null}`,
	}
	for name, doc := range cases {
		t.Run(name, func(t *testing.T) {
			var ack Acknowledgement
			require.Error(t, json.Unmarshal([]byte(doc), &ack))
		})
	}
}

func TestExecuteMsgSerialization(t *testing.T) {
	var msg ExecuteMsg
	doc := `{"send_query_twap":{"channel":"channel-1","pool_id":5,"base_asset":"uosmo","quote_asset":"uatom"}}`
	require.NoError(t, json.Unmarshal([]byte(doc), &msg))
	assert.Nil(t, msg.SendQueryBalance)
	require.NotNil(t, msg.SendQueryTwap)
	assert.Equal(t, QueryTwapMsg{Channel: "channel-1", PoolID: 5, BaseAsset: "uosmo", QuoteAsset: "uatom"}, *msg.SendQueryTwap)
}

func TestPendingRequestJSON(t *testing.T) {
	req := PendingRequest{
		Sequence:  2,
		ChannelID: "channel-0",
		Path:      BalanceQueryPath,
		Balance:   &BalanceParams{Address: "osmo1a", Denom: "uosmo"},
		SentAt:    10,
		TimeoutAt: 20,
		Status:    StatusPending,
	}
	bz, err := json.Marshal(req)
	require.NoError(t, err)
	assert.JSONEq(t, `{"sequence":2,"channel_id":"channel-0","path":"/cosmos.bank.v1beta1.Query/Balance","balance":{"address":"osmo1a","denom":"uosmo"},"sent_at":"10","timeout_at":"20","status":"pending"}`, string(bz))
}
