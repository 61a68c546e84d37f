package models

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisputeEvidence_TableAndID(t *testing.T) {
	assert.Equal(t, "dispute_evidence", DisputeEvidence{}.TableName())

	e := &DisputeEvidence{FileName: "receipt.jpg"}
	require.NoError(t, e.BeforeCreate(nil))
	assert.NotEqual(t, uuid.Nil, e.ID)

	id := e.ID
	require.NoError(t, e.BeforeCreate(nil))
	assert.Equal(t, id, e.ID)
}

func TestDispute_EvidenceJSON(t *testing.T) {
	d := Dispute{Title: "Screen cracked"}
	raw, err := json.Marshal(d)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), `"evidence"`)

	d.Evidence = []DisputeEvidence{{FileName: "photo.png", FileType: "image/png", FileSize: 2048}}
	raw, err = json.Marshal(d)
	require.NoError(t, err)

	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &out))
	evidence, ok := out["evidence"].([]interface{})
	require.True(t, ok)
	require.Len(t, evidence, 1)
	assert.Equal(t, "photo.png", evidence[0].(map[string]interface{})["fileName"])
}
