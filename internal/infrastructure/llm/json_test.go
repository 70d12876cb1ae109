package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
		ok      bool
	}{
		{
			name:    "bare object",
			content: `{"products":[]}`,
			want:    `{"products":[]}`,
			ok:      true,
		},
		{
			name:    "object with surrounding prose",
			content: "Here is the data you asked for:\n{\"a\":1}\nHope that helps!",
			want:    `{"a":1}`,
			ok:      true,
		},
		{
			name:    "json code fence",
			content: "```json\n{\"a\":1}\n```",
			want:    `{"a":1}`,
			ok:      true,
		},
		{
			name:    "plain code fence",
			content: "```\n{\"a\": {\"b\": 2}}\n```",
			want:    `{"a": {"b": 2}}`,
			ok:      true,
		},
		{
			name:    "no object at all",
			content: "sorry, I could not find any products",
			ok:      false,
		},
		{
			name:    "unbalanced braces picks outermost span",
			content: `prefix {"a":1} suffix {"b":2}`,
			want:    `{"a":1} suffix {"b":2}`,
			ok:      true,
		},
		{
			name:    "empty content",
			content: "",
			ok:      false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractJSONObject(tt.content)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestDecodeObject(t *testing.T) {
	t.Run("decodes embedded object", func(t *testing.T) {
		var obj map[string]any
		err := DecodeObject("```json\n{\"products\":[{\"product_name\":\"A\"}]}\n```", &obj)
		require.NoError(t, err)
		assert.Contains(t, obj, "products")
	})

	t.Run("returns ErrNoJSONObject when nothing to decode", func(t *testing.T) {
		var obj map[string]any
		err := DecodeObject("no json here", &obj)
		assert.ErrorIs(t, err, ErrNoJSONObject)
	})

	t.Run("propagates unmarshal errors", func(t *testing.T) {
		var obj map[string]any
		err := DecodeObject(`{"broken": }`, &obj)
		assert.Error(t, err)
	})
}

func TestRecordsFromList(t *testing.T) {
	t.Run("keeps only object entries", func(t *testing.T) {
		records := RecordsFromList([]any{
			map[string]any{"product_name": "A"},
			"not an object",
			map[string]any{"product_name": "B"},
		})
		require.Len(t, records, 2)
		assert.Equal(t, "A", records[0]["product_name"])
	})

	t.Run("non-list input yields nil", func(t *testing.T) {
		assert.Nil(t, RecordsFromList("oops"))
		assert.Nil(t, RecordsFromList(nil))
		assert.Nil(t, RecordsFromList(map[string]any{"a": 1}))
	})
}
