package ner

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPersonNamesSchema(t *testing.T) {
	raw, err := json.Marshal(personNamesSchema)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(raw, &doc))

	assert.Equal(t, "object", doc["type"])
	assert.Equal(t, false, doc["additionalProperties"])
	assert.Equal(t, []any{"names"}, doc["required"])

	props, ok := doc["properties"].(map[string]any)
	require.True(t, ok)
	names, ok := props["names"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "array", names["type"])
}

func TestParsePersonNames(t *testing.T) {
	tests := []struct {
		name    string
		reply   string
		want    []string
		wantErr bool
	}{
		{name: "plain object", reply: `{"names":["Ahab","Ishmael"]}`, want: []string{"Ahab", "Ishmael"}},
		{name: "code fenced", reply: "```json\n{\"names\":[\"Queequeg\"]}\n```", want: []string{"Queequeg"}},
		{name: "preamble", reply: `Here you go: {"names":[]}`, want: []string{}},
		{name: "no json", reply: "I could not find anyone.", wantErr: true},
		{name: "broken json", reply: `{"names":["Ahab"`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parsePersonNames(tt.reply)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidResponse)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
