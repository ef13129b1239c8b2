package schema

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalJSON_KeepsOrder(t *testing.T) {
	input := `{"!z":"number","a":{"!y":"string","b":"email"},"!m":"ISO3166"}`

	node, err := ParseJSON([]byte(input))
	require.NoError(t, err)

	out, err := json.Marshal(node)
	require.NoError(t, err)
	assert.Equal(t, input, string(out))
}

func TestUnmarshalJSON_Embedded(t *testing.T) {
	var req struct {
		Schema *Node `json:"schema"`
	}
	err := json.Unmarshal([]byte(`{"schema": {"!numeric": "number", "text": "string"}}`), &req)
	require.NoError(t, err)
	require.NotNil(t, req.Schema)
	assert.Equal(t, 2, req.Schema.Len())
	assert.True(t, req.Schema.Entries[0].Required)

	err = json.Unmarshal([]byte(`{"schema": {"!numeric": 3}}`), &req)
	assert.Error(t, err)
}
