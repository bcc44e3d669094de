package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryMsgVariants(t *testing.T) {
	var msg QueryMsg
	require.NoError(t, json.Unmarshal([]byte(`{"result":{"sequence":12}}`), &msg))
	require.NotNil(t, msg.Result)
	assert.Equal(t, uint64(12), msg.Result.Sequence)
	assert.Nil(t, msg.AllBalances)

	bz, err := json.Marshal(QueryMsg{LastSequence: &struct{}{}})
	require.NoError(t, err)
	assert.Equal(t, `{"last_sequence":{}}`, string(bz))
}

func TestResultResponseOmitsMissingOutcome(t *testing.T) {
	bz, err := json.Marshal(ResultResponse{Sequence: 4})
	require.NoError(t, err)
	assert.Equal(t, `{"sequence":4}`, string(bz))

	price := "1.5"
	bz, err = json.Marshal(ResultResponse{Sequence: 4, Price: &price})
	require.NoError(t, err)
	assert.Equal(t, `{"sequence":4,"price":"1.5"}`, string(bz))
}

func TestLastSequenceResponse(t *testing.T) {
	bz, err := json.Marshal(LastSequenceResponse{})
	require.NoError(t, err)
	assert.Equal(t, `{"sequence":null}`, string(bz))

	var res LastSequenceResponse
	require.NoError(t, json.Unmarshal([]byte(`{"sequence":3}`), &res))
	require.NotNil(t, res.Sequence)
	assert.Equal(t, uint64(3), *res.Sequence)
}
