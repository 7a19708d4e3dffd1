package strategy_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ndewijer/Fund-Position-Manager-Backend/internal/strategy"
)

// TestDefaultRegistry tests the built-in strategy set.
//
// WHY: The budget stores the active strategy by name. If a built-in went missing
// from the registry every suggestion request would 404.
func TestDefaultRegistry(t *testing.T) {
	reg := strategy.DefaultRegistry()

	t.Run("lists built-ins sorted by name", func(t *testing.T) {
		list := reg.List()
		require.Len(t, list, 2)
		assert.Equal(t, strategy.AssetRebalanceStrategyName, list[0].Name())
		assert.Equal(t, strategy.SimpleStrategyName, list[1].Name())
	})

	t.Run("get known strategy", func(t *testing.T) {
		s, ok := reg.Get("simple")
		require.True(t, ok)
		assert.Equal(t, "simple", s.Name())
		assert.NotEmpty(t, s.DisplayName())
		assert.NotEmpty(t, s.Description())
	})

	t.Run("unknown name is a plain miss", func(t *testing.T) {
		s, ok := reg.Get("momentum")
		assert.False(t, ok)
		assert.Nil(t, s)
	})

	t.Run("concurrent lookups", func(t *testing.T) {
		var wg sync.WaitGroup
		for range 20 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, ok := reg.Get(strategy.AssetRebalanceStrategyName)
				assert.True(t, ok)
				assert.Len(t, reg.List(), 2)
			}()
		}
		wg.Wait()
	})
}

// TestNewRegistry_DuplicateName tests that two strategies cannot share a key.
func TestNewRegistry_DuplicateName(t *testing.T) {
	_, err := strategy.NewRegistry(strategy.NewSimpleStrategy(), strategy.NewSimpleStrategy())
	assert.Error(t, err)
}

// TestInfo tests the listing view of a strategy.
func TestInfo(t *testing.T) {
	info := strategy.Info(strategy.NewAssetRebalanceStrategy())

	assert.Equal(t, "asset_rebalance", info.Name)
	assert.Equal(t, "Asset class rebalance", info.DisplayName)
	require.Contains(t, info.ConfigSchema, "properties")
	props := info.ConfigSchema["properties"].(map[string]any)
	assert.Contains(t, props, "targets")
	assert.Contains(t, props, "execution_window_days")
	assert.Contains(t, props, "min_position_for_rebalance")

	simple := strategy.Info(strategy.NewSimpleStrategy())
	assert.Empty(t, simple.ConfigSchema)
}

// TestValidateConfig tests the optional validation hook.
//
// WHY: A config that would silently fall back to defaults at evaluation time
// should be rejected when it is saved instead.
func TestValidateConfig(t *testing.T) {
	t.Run("simple accepts anything", func(t *testing.T) {
		err := strategy.ValidateConfig(strategy.NewSimpleStrategy(), map[string]any{"foo": 1})
		assert.NoError(t, err)
	})

	t.Run("asset rebalance rejects an inverted band", func(t *testing.T) {
		err := strategy.ValidateConfig(strategy.NewAssetRebalanceStrategy(), map[string]any{
			"targets": map[string]any{"bond": map[string]any{"min": 20.0, "max": 10.0}},
		})
		assert.Error(t, err)
	})
}
