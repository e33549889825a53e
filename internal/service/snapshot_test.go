package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BuzzLyutic/todo-list/internal/model"
)

func TestEncodeSnapshot(t *testing.T) {
	data, err := EncodeSnapshot(nil)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))

	data, err = EncodeSnapshot([]model.Task{{ID: "a", Text: "Buy milk", Completed: true}})
	require.NoError(t, err)
	assert.Equal(t, "[\n  {\n    \"id\": \"a\",\n    \"text\": \"Buy milk\",\n    \"completed\": true\n  }\n]\n", string(data))
}

func TestDecodeSnapshot(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		want    []model.Task
		wantErr bool
	}{
		{name: "empty list", data: `[]`, want: []model.Task{}},
		{name: "string id", data: `[{"id":"x","text":"t","completed":true}]`, want: []model.Task{{ID: "x", Text: "t", Completed: true}}},
		{name: "numeric id", data: `[{"id":42,"text":"t","completed":false}]`, want: []model.Task{{ID: "42", Text: "t"}}},
		{name: "null", data: `null`, wantErr: true},
		{name: "object", data: `{}`, wantErr: true},
		{name: "garbage", data: `not json`, wantErr: true},
		{name: "missing id", data: `[{"text":"t","completed":false}]`, wantErr: true},
		{name: "null id", data: `[{"id":null,"text":"t","completed":false}]`, wantErr: true},
		{name: "bool id", data: `[{"id":true,"text":"t","completed":false}]`, wantErr: true},
		{name: "completed as string", data: `[{"id":"x","text":"t","completed":"yes"}]`, wantErr: true},
		{name: "duplicate id", data: `[{"id":"x","text":"a","completed":false},{"id":"x","text":"b","completed":false}]`, wantErr: true},
		{name: "renamed fields", data: `[{"id":"x","txt":"a","done":true}]`, wantErr: true},
		{name: "unknown extra field", data: `[{"id":"x","text":"a","completed":false,"priority":1}]`, wantErr: true},
		{name: "only id", data: `[{"id":"x"}]`, wantErr: true},
		{name: "missing completed", data: `[{"id":"x","text":"a"}]`, wantErr: true},
		{name: "null text", data: `[{"id":"x","text":null,"completed":false}]`, wantErr: true},
		{name: "empty text", data: `[{"id":"x","text":"","completed":false}]`, wantErr: true},
		{name: "blank text", data: `[{"id":"x","text":"   ","completed":true}]`, wantErr: true},
		{name: "trailing data", data: `[] []`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeSnapshot([]byte(tt.data))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMalformedSnapshot)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
