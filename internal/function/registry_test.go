package function

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/perspective/internal/ir"
)

func TestRegistry_DuplicateName(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(Abs()))

	err := r.Register(Abs())
	require.Error(t, err)
	assert.True(t, IsDuplicateName(err))
	assert.Equal(t, "DUPLICATE_NAME: function ABS is already registered", err.Error())
}

func TestRegistry_DuplicateNameIsCaseInsensitive(t *testing.T) {
	r := NewRegistry()
	require.NoError(t, r.Register(Abs()))

	lower := &builtin{name: "abs", signature: "abs(X)"}
	assert.True(t, IsDuplicateName(r.Register(lower)))
}

func TestRegistry_Lookup(t *testing.T) {
	r, err := NewDefaultRegistry()
	require.NoError(t, err)

	fn, err := r.Lookup("log10")
	require.NoError(t, err)
	assert.Equal(t, "LOG10", fn.Name())

	_, err = r.Lookup("SIN")
	require.Error(t, err)
	assert.True(t, IsUnknownFunction(err))
}

func TestRegistry_ListSortedAndRestartable(t *testing.T) {
	r, err := NewDefaultRegistry()
	require.NoError(t, err)

	first := r.List()
	second := r.List()
	require.Len(t, first, r.Len())
	assert.Equal(t, first, second)

	for i := 1; i < len(first); i++ {
		assert.Less(t, first[i-1].Name, first[i].Name)
	}
}

func TestRegistry_SignaturesContainName(t *testing.T) {
	r, err := NewDefaultRegistry()
	require.NoError(t, err)

	for _, info := range r.List() {
		assert.NotEmpty(t, info.Signature)
		assert.Contains(t, info.Signature, info.Name)
		assert.NotEmpty(t, info.Description)
	}
}

func TestArity(t *testing.T) {
	assert.True(t, Exactly(1).Accepts(1))
	assert.False(t, Exactly(1).Accepts(0))
	assert.False(t, Exactly(1).Accepts(2))
	assert.True(t, AtLeast(1).Accepts(10))
	assert.False(t, AtLeast(1).Accepts(0))
	assert.True(t, Arity{Min: 1, Max: 2}.Accepts(2))

	assert.Equal(t, "exactly 1", Exactly(1).String())
	assert.Equal(t, "at least 1", AtLeast(1).String())
	assert.Equal(t, "1 to 2", Arity{Min: 1, Max: 2}.String())
}

func TestCall_ValidationError(t *testing.T) {
	_, err := Call(Log10(), []ir.Value{ir.Int(0)})
	require.Error(t, err)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "LOG10", ve.Function)
	assert.Equal(t, []string{"Argument 1 should be positive"}, ve.Violations)
}

func TestFirstFailure_StopsAtFirst(t *testing.T) {
	violations := FirstFailure(nil, ArgsCount(1), IsNumber(0))
	assert.Equal(t, []string{"Function requires exactly 1 argument(s) but 0 were given"}, violations)
}
