package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBackend() *MemoryBackend {
	return NewMemoryBackend(Schema{
		ID: "org.example.test",
		Keys: map[string]Value{
			"name":    StringValue("initial"),
			"size":    IntValue(24),
			"dpi":     DoubleValue(96),
			"enabled": BoolValue(false),
		},
	})
}

func TestMemoryBackend_UnknownSchema(t *testing.T) {
	_, err := testBackend().Open("org.example.missing")
	assert.ErrorIs(t, err, ErrSchemaNotFound)
}

func TestMemoryStore_GetSet(t *testing.T) {
	s, err := testBackend().Open("org.example.test")
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, "org.example.test", s.Schema())

	name, err := s.String("name")
	require.NoError(t, err)
	assert.Equal(t, "initial", name)

	require.NoError(t, s.SetString("name", "changed"))
	require.NoError(t, s.SetInt("size", 48))
	require.NoError(t, s.SetDouble("dpi", 144))
	require.NoError(t, s.SetBool("enabled", true))

	name, _ = s.String("name")
	size, _ := s.Int("size")
	dpi, _ := s.Double("dpi")
	enabled, _ := s.Bool("enabled")

	assert.Equal(t, "changed", name)
	assert.Equal(t, 48, size)
	assert.InDelta(t, 144.0, dpi, 0.001)
	assert.True(t, enabled)
}

func TestMemoryStore_Errors(t *testing.T) {
	s, err := testBackend().Open("org.example.test")
	require.NoError(t, err)

	_, err = s.String("missing")
	assert.ErrorIs(t, err, ErrUnknownKey)

	_, err = s.Int("name")
	assert.ErrorIs(t, err, ErrTypeMismatch)

	assert.ErrorIs(t, s.SetBool("size", true), ErrTypeMismatch)
	assert.ErrorIs(t, s.Reset("missing"), ErrUnknownKey)

	require.NoError(t, s.Close())
	require.NoError(t, s.Close())
	_, err = s.String("name")
	assert.ErrorIs(t, err, ErrClosed)
}

func TestMemoryStore_Reset(t *testing.T) {
	s, err := testBackend().Open("org.example.test")
	require.NoError(t, err)

	require.NoError(t, s.SetInt("size", 64))
	require.NoError(t, s.Reset("size"))

	size, err := s.Int("size")
	require.NoError(t, err)
	assert.Equal(t, 24, size)
}

func TestMemoryStore_SharedAcrossHandles(t *testing.T) {
	b := testBackend()
	a, err := b.Open("org.example.test")
	require.NoError(t, err)
	c, err := b.Open("org.example.test")
	require.NoError(t, err)

	require.NoError(t, a.SetString("name", "from a"))

	got, err := c.String("name")
	require.NoError(t, err)
	assert.Equal(t, "from a", got)
}

func TestMemoryStore_Subscribe(t *testing.T) {
	b := testBackend()
	writer, err := b.Open("org.example.test")
	require.NoError(t, err)
	reader, err := b.Open("org.example.test")
	require.NoError(t, err)

	var got []string
	cancel := reader.Subscribe("name", func(key string) { got = append(got, key) })
	reader.Subscribe("size", func(key string) { got = append(got, key) })

	require.NoError(t, writer.SetString("name", "x"))
	require.NoError(t, writer.Reset("name"))
	require.NoError(t, writer.SetBool("enabled", true))
	assert.Equal(t, []string{"name", "name"}, got)

	cancel()
	cancel()
	require.NoError(t, writer.SetString("name", "y"))
	assert.Equal(t, []string{"name", "name"}, got)

	require.NoError(t, reader.Close())
	require.NoError(t, writer.SetInt("size", 30))
	assert.Equal(t, []string{"name", "name"}, got, "closing drops subscriptions")
}

func TestMemoryStore_CallbackMayWrite(t *testing.T) {
	s, err := testBackend().Open("org.example.test")
	require.NoError(t, err)

	s.Subscribe("size", func(string) {
		_ = s.SetString("name", "follow-up")
	})
	require.NoError(t, s.SetInt("size", 32))

	name, _ := s.String("name")
	assert.Equal(t, "follow-up", name)
}

func TestValueFormat(t *testing.T) {
	assert.Equal(t, "abc", StringValue("abc").Format())
	assert.Equal(t, "24", IntValue(24).Format())
	assert.Equal(t, "144", DoubleValue(144).Format())
	assert.Equal(t, "true", BoolValue(true).Format())
	assert.Equal(t, "bool", KindBool.String())
}
