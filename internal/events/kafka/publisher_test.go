package kafka

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sheikh-saqib/llvar-ledger/internal/models/events"
)

func TestBuildMessages(t *testing.T) {
	evs := []any{
		events.RecordProcessed{RunID: "run-1", Index: 0, Status: "applied"},
		map[string]string{"plain": "value"},
	}

	msgs, err := buildMessages("ledger.records", evs)
	require.NoError(t, err)
	require.Len(t, msgs, 2)

	assert.Equal(t, "ledger.records", msgs[0].Topic)
	assert.Equal(t, []byte("run-1"), msgs[0].Key)
	var decoded events.RecordProcessed
	require.NoError(t, json.Unmarshal(msgs[0].Value, &decoded))
	assert.Equal(t, "applied", decoded.Status)

	assert.Nil(t, msgs[1].Key)
	assert.JSONEq(t, `{"plain":"value"}`, string(msgs[1].Value))
}

func TestBuildMessagesMarshalError(t *testing.T) {
	_, err := buildMessages("t", []any{make(chan int)})
	assert.Error(t, err)
}

func TestPublishNothing(t *testing.T) {
	p := NewPublisher([]string{"localhost:0"})
	defer p.Close()
	assert.NoError(t, p.Publish(context.Background(), "t"))
}
