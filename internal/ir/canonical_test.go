package ir

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCanonical_Scalars(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{"null", Null{}, `null`},
		{"nil", nil, `null`},
		{"string", String("demo"), `"demo"`},
		{"int", Int(-4), `-4`},
		{"float", Float(2.5), `2.5`},
		{"integral float", Float(5), `5`},
		{"bool", true, `true`},
		{"no html escaping", "<a&b>", `"<a&b>"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := MarshalCanonical(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(got))
		})
	}
}

func TestMarshalCanonical_SortedKeys(t *testing.T) {
	got, err := MarshalCanonical(map[string]any{
		"b": Int(2),
		"a": []any{String("x"), Null{}},
		"A": "upper",
	})
	require.NoError(t, err)
	assert.Equal(t, `{"A":"upper","a":["x",null],"b":2}`, string(got))
}

func TestMarshalCanonical_Row(t *testing.T) {
	r := NewRow(O("instances.name", String("b")), O("instances.id", Int(1)))
	got, err := MarshalCanonical(r)
	require.NoError(t, err)
	assert.Equal(t, `{"instances.id":1,"instances.name":"b"}`, string(got))
}

func TestMarshalCanonical_NFC(t *testing.T) {
	got, err := MarshalCanonical("e\u0301")
	require.NoError(t, err)
	assert.Equal(t, "\"\u00e9\"", string(got))
}

func TestMarshalCanonical_LineSeparatorsLiteral(t *testing.T) {
	got, err := MarshalCanonical("a\u2028b")
	require.NoError(t, err)
	assert.Equal(t, "\"a\u2028b\"", string(got))

	got, err = MarshalCanonical(`a\u2028b`)
	require.NoError(t, err)
	assert.Equal(t, `"a\\u2028b"`, string(got))
}

func TestMarshalCanonical_RejectsNonFinite(t *testing.T) {
	_, err := MarshalCanonical(Float(math.Inf(1)))
	assert.Error(t, err)
}

func TestMarshalCanonical_Unsupported(t *testing.T) {
	_, err := MarshalCanonical(struct{}{})
	assert.Error(t, err)
}
