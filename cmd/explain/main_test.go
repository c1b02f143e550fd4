package main

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/WindhoverLabs/explain/inspect"
	"github.com/WindhoverLabs/explain/message"
)

func buildCatalog() *message.Catalog {
	cat := message.NewCatalog()
	msg := cat.AddMessage()
	msg.ID = 0x0881
	msg.OpsName = "TDT_HK"
	msg.SrcSymbol = "test_data_types_src"
	msg.DstSymbol = "test_data_types_dst"
	return cat
}

func TestResolveMessageByEachAxis(t *testing.T) {
	cat := buildCatalog()

	t.Run("by hex id", func(t *testing.T) {
		msg, err := resolveMessage(cat, "881")
		require.NoError(t, err)
		assert.Equal(t, "TDT_HK", msg.OpsName)
	})
	t.Run("by ops name", func(t *testing.T) {
		msg, err := resolveMessage(cat, "TDT_HK")
		require.NoError(t, err)
		assert.Equal(t, uint32(0x0881), msg.ID)
	})
	t.Run("by src symbol", func(t *testing.T) {
		msg, err := resolveMessage(cat, "test_data_types_src")
		require.NoError(t, err)
		assert.Equal(t, uint32(0x0881), msg.ID)
	})
	t.Run("by dst symbol", func(t *testing.T) {
		msg, err := resolveMessage(cat, "test_data_types_dst")
		require.NoError(t, err)
		assert.Equal(t, uint32(0x0881), msg.ID)
	})
	t.Run("no match", func(t *testing.T) {
		_, err := resolveMessage(cat, "nonexistent")
		assert.Error(t, err)
	})
}

func TestParseSide(t *testing.T) {
	t.Run("default empty is src", func(t *testing.T) {
		side, err := parseSide("")
		require.NoError(t, err)
		assert.Equal(t, inspect.Src, side)
	})
	t.Run("explicit src", func(t *testing.T) {
		side, err := parseSide("src")
		require.NoError(t, err)
		assert.Equal(t, inspect.Src, side)
	})
	t.Run("dst", func(t *testing.T) {
		side, err := parseSide("dst")
		require.NoError(t, err)
		assert.Equal(t, inspect.Dst, side)
	})
	t.Run("invalid", func(t *testing.T) {
		_, err := parseSide("sideways")
		assert.Error(t, err)
	})
}

func TestValidatePath(t *testing.T) {
	t.Run("existing file", func(t *testing.T) {
		f, err := os.CreateTemp(t.TempDir(), "map-*.json")
		require.NoError(t, err)
		f.Close()
		assert.NoError(t, validatePath(f.Name()))
	})
	t.Run("missing file", func(t *testing.T) {
		assert.Error(t, validatePath("/nonexistent/path/to/map.json"))
	})
}
