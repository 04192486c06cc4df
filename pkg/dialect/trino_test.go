package dialect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Registration disables the JSON hook at package init, so the default
// state under test is "disabled". Tests that re-enable it restore the
// disabled state afterward.

func TestDecodeTrinoValueJSONHookDisabled(t *testing.T) {
	require.Nil(t, trinoJSONDeserializer, "registration must have disabled the hook")

	got, err := decodeTrinoValue("JSON", []byte(`{"a":1}`))
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, got, "JSON columns stay raw strings with the hook disabled")

	got, err = decodeTrinoValue("json", `[1,2]`)
	require.NoError(t, err)
	assert.Equal(t, `[1,2]`, got)
}

func TestDecodeTrinoValueDefaultHookParses(t *testing.T) {
	trinoJSONDeserializer = defaultTrinoJSONDeserializer
	t.Cleanup(DisableTrinoJSONDeserialization)

	got, err := decodeTrinoValue("JSON", []byte(`{"a":1}`))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": float64(1)}, got)

	_, err = decodeTrinoValue("JSON", []byte(`{broken`))
	assert.Error(t, err)
}

func TestDecodeTrinoValueNonJSONPassthrough(t *testing.T) {
	got, err := decodeTrinoValue("DOUBLE", 0.5)
	require.NoError(t, err)
	assert.Equal(t, 0.5, got)

	got, err = decodeTrinoValue("VARCHAR", "hello")
	require.NoError(t, err)
	assert.Equal(t, "hello", got)
}

func TestDisableTrinoJSONDeserializationIdempotent(t *testing.T) {
	DisableTrinoJSONDeserialization()
	DisableTrinoJSONDeserialization()

	got, err := decodeTrinoValue("JSON", []byte(`"x"`))
	require.NoError(t, err)
	assert.Equal(t, `"x"`, got)
}

func TestDecodeTrinoValueNonBytesJSONPassthrough(t *testing.T) {
	// Values that are neither bytes nor strings are left alone even for
	// JSON columns.
	got, err := decodeTrinoValue("JSON", 42)
	require.NoError(t, err)
	assert.Equal(t, 42, got)
}
