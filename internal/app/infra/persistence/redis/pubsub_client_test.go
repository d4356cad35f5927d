package redis

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mall/ordercore/internal/app/domains/entity/etorder"
)

func TestStatusChannelIsPerOrder(t *testing.T) {
	assert.Equal(t, "order:status:o1", StatusChannel("o1"))
	assert.NotEqual(t, StatusChannel("o1"), StatusChannel("o2"))
}

func TestParseStatusMessage(t *testing.T) {
	payload, err := json.Marshal(StatusMessage{OrderID: "o1", Status: etorder.StatusToSend})
	require.NoError(t, err)
	assert.JSONEq(t, `{"order_id":"o1","status":"TO_SEND"}`, string(payload))

	msg, err := ParseStatusMessage(string(payload))
	require.NoError(t, err)
	assert.Equal(t, etorder.StatusToSend, msg.Status)

	_, err = ParseStatusMessage("not json")
	assert.Error(t, err)
}
