package memory

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_Seeded(t *testing.T) {
	s := NewConfigStore(map[string]any{"ocr.dpi": 150}, map[string]any{"ocr.language": "deu"})

	assert.Equal(t, 150, s.GetInt("ocr.dpi"))
	assert.Equal(t, "deu", s.GetString("ocr.language"))
	assert.Equal(t, ":memory:", s.Path())
}

func TestConfigStore_TypedGetters(t *testing.T) {
	s := NewConfigStore()
	require.NoError(t, s.Set("a", "text"))
	require.NoError(t, s.Set("b", int64(7)))
	require.NoError(t, s.Set("c", float64(2)))
	require.NoError(t, s.Set("d", true))

	assert.Equal(t, "text", s.GetString("a"))
	assert.Equal(t, 7, s.GetInt("b"))
	assert.Equal(t, 2, s.GetInt("c"))
	assert.True(t, s.GetBool("d"))

	assert.Equal(t, "", s.GetString("b"))
	assert.Equal(t, 0, s.GetInt("a"))
	assert.False(t, s.GetBool("missing"))
}

func TestConfigStore_SaveCounted(t *testing.T) {
	s := NewConfigStore()
	assert.Equal(t, 0, s.Saves())

	require.NoError(t, s.Save())
	require.NoError(t, s.Save())
	require.NoError(t, s.Load())

	assert.Equal(t, 2, s.Saves())
}

func TestConfigStore_Concurrency(t *testing.T) {
	s := NewConfigStore()

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			_ = s.Set("k", n)
		}(i)
		go func() {
			defer wg.Done()
			_ = s.GetInt("k")
		}()
	}
	wg.Wait()

	_, ok := s.Get("k")
	assert.True(t, ok)
}
