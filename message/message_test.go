package message

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCatalogLookupsReturnFirstMatch(t *testing.T) {
	cat := NewCatalog()

	first := cat.AddMessage()
	first.ID = 0x0881
	first.OpsName = "TDT_HK"
	first.SrcSymbol = "test_data_types_src"
	first.DstSymbol = "test_data_types_dst"
	cat.AddField(first, Field{OpName: "synch", BitLength: 16, SrcBitOffset: 128, DstBitOffset: 128})

	// A duplicate id/name inserted second must never win a lookup.
	second := cat.AddMessage()
	second.ID = 0x0881
	second.OpsName = "TDT_HK"

	t.Run("by id", func(t *testing.T) {
		got, ok := cat.FindByID(0x0881)
		assert.True(t, ok)
		assert.Same(t, first, got)
	})
	t.Run("missing id", func(t *testing.T) {
		_, ok := cat.FindByID(0)
		assert.False(t, ok)
	})
	t.Run("by ops name", func(t *testing.T) {
		got, ok := cat.FindByOpsName("TDT_HK")
		assert.True(t, ok)
		assert.Same(t, first, got)
	})
	t.Run("by src symbol", func(t *testing.T) {
		got, ok := cat.FindBySrcSymbol("test_data_types_src")
		assert.True(t, ok)
		assert.Same(t, first, got)
	})
	t.Run("by dst symbol", func(t *testing.T) {
		got, ok := cat.FindByDstSymbol("test_data_types_dst")
		assert.True(t, ok)
		assert.Same(t, first, got)
	})
	t.Run("empty string matches empty field", func(t *testing.T) {
		got, ok := cat.FindBySrcSymbol("")
		assert.True(t, ok)
		assert.Same(t, second, got)
	})
}

func TestMessageFieldsPreserveInsertionOrder(t *testing.T) {
	cat := NewCatalog()
	msg := cat.AddMessage()
	names := []string{"a", "b", "c", "d"}
	for _, n := range names {
		cat.AddField(msg, Field{OpName: n, BitLength: 8})
	}
	got := make([]string, len(msg.Fields))
	for i, f := range msg.Fields {
		got[i] = f.OpName
	}
	assert.Equal(t, names, got)
}

func TestEndianString(t *testing.T) {
	assert.Equal(t, "L", Little.String())
	assert.Equal(t, "B", Big.String())
}
