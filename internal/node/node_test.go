package node

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJSON(t *testing.T) {
	v, err := ParseJSON([]byte(`{"type":"audio","duration":60000,"lat":35.5,"items":[{"x":1}]}`))
	require.NoError(t, err)

	obj, ok := AsObject(v)
	require.True(t, ok)
	assert.Equal(t, "audio", obj.Type())
	assert.Equal(t, int64(60000), obj["duration"])
	assert.Equal(t, 35.5, obj["lat"])

	items, err := AsList(obj["items"])
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, int64(1), items[0]["x"])
}

func TestParseJSON_Malformed(t *testing.T) {
	_, err := ParseJSON([]byte(`{"type":`))
	assert.Error(t, err)
}

func TestParseYAML(t *testing.T) {
	v, err := ParseYAML([]byte("type: box\ncontents:\n  - type: text\n    text: hi\n"))
	require.NoError(t, err)

	obj, ok := AsObject(v)
	require.True(t, ok)
	contents, err := AsList(obj["contents"])
	require.NoError(t, err)
	require.Len(t, contents, 1)
	assert.Equal(t, "text", contents[0].Type())
}

func TestNode_Lookup(t *testing.T) {
	n := Node{
		"area": Node{"x": int64(10)},
		"actions": []any{
			Node{"type": "uri"},
			Node{"type": "message"},
		},
	}
	tests := []struct {
		path   string
		want   any
		wantOk bool
	}{
		{"area.x", int64(10), true},
		{"area.y", nil, false},
		{"actions.1.type", "message", true},
		{"actions.2.type", nil, false},
		{"actions.x.type", nil, false},
		{"missing", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, ok := n.Lookup(tt.path)
			assert.Equal(t, tt.wantOk, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAsList_NotObjects(t *testing.T) {
	_, err := AsList([]any{"text"})
	assert.Error(t, err)

	_, err = AsList("text")
	assert.Error(t, err)

	list, err := AsList(nil)
	assert.NoError(t, err)
	assert.Nil(t, list)
}

func TestFingerprint(t *testing.T) {
	a := Node{"type": "text", "text": "hi"}
	b := Node{"text": "hi", "type": "text"}
	c := Node{"type": "text", "text": "bye"}

	assert.Equal(t, FingerprintString(a), FingerprintString(b))
	assert.NotEqual(t, FingerprintString(a), FingerprintString(c))
}
