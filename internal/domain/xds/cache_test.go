package xds

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTDS(id, name string) TDS {
	return TDS{
		ID:          id,
		Name:        name,
		Description: "tool " + id,
		InputSchema: map[string]any{"type": "object"},
		Ext: TDSExt{
			Domain: "http://upstream",
			Method: "GET",
			Path:   "/v1/items/{iid}",
		},
	}
}

func TestCacheInsertAndLookup(t *testing.T) {
	cache := NewMcpCache()
	cache.InsertTDS("T1", sampleTDS("T1", "echo"))

	byID, ok := cache.GetTDS("T1")
	require.True(t, ok)
	assert.Equal(t, "T1", byID.ID)

	byName, ok := cache.GetTDSByName("echo")
	require.True(t, ok)
	assert.Equal(t, "T1", byName.ID)
}

func TestCacheRemoveClearsNameIndex(t *testing.T) {
	cache := NewMcpCache()
	cache.InsertTDS("T1", sampleTDS("T1", "echo"))
	cache.RemoveTDS("T1")

	_, ok := cache.GetTDS("T1")
	assert.False(t, ok)
	_, ok = cache.GetTDSByName("echo")
	assert.False(t, ok)

	// removing again is a no-op
	cache.RemoveTDS("T1")
}

func TestCacheNameCollisionLastWriteWins(t *testing.T) {
	cache := NewMcpCache()
	cache.InsertTDS("T1", sampleTDS("T1", "echo"))
	cache.InsertTDS("T2", sampleTDS("T2", "echo"))

	byName, ok := cache.GetTDSByName("echo")
	require.True(t, ok)
	assert.Equal(t, "T2", byName.ID)

	// the earlier TDS stays reachable by id
	_, ok = cache.GetTDS("T1")
	assert.True(t, ok)

	// removing the loser must not disturb the winner's name binding
	cache.RemoveTDS("T1")
	byName, ok = cache.GetTDSByName("echo")
	require.True(t, ok)
	assert.Equal(t, "T2", byName.ID)
}

func TestListTDSForIDSPreservesOrderAndSkipsMissing(t *testing.T) {
	cache := NewMcpCache()
	cache.InsertTDS("T1", sampleTDS("T1", "alpha"))
	cache.InsertTDS("T3", sampleTDS("T3", "echo"))
	cache.InsertIDS("IDS_A", IDS{
		ID:      "IDS_A",
		Name:    "instance a",
		ToolIDs: []string{"T1", "T3", "Tmissing"},
	})

	tools := cache.ListTDSForIDS("IDS_A")
	require.Len(t, tools, 2)
	assert.Equal(t, "T1", tools[0].ID)
	assert.Equal(t, "T3", tools[1].ID)
}

func TestListTDSForIDSUnknownIDS(t *testing.T) {
	cache := NewMcpCache()
	assert.Empty(t, cache.ListTDSForIDS("nope"))
}

func TestIDSParseMetadata(t *testing.T) {
	ids := IDS{ID: "I1", Metadata: `{"proto_type":"streamable-stateless"}`}
	md, err := ids.ParseMetadata()
	require.NoError(t, err)
	assert.Equal(t, ProtoStreamableStateless, md.ProtoType)

	ids.Metadata = "not json"
	_, err = ids.ParseMetadata()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tds := sampleTDS("", "echo")
	assert.Error(t, tds.Validate())
	tds.ID = "T1"
	tds.Name = ""
	assert.Error(t, tds.Validate())
	tds.Name = "echo"
	assert.NoError(t, tds.Validate())

	ids := IDS{ID: "I1", Name: "inst", ToolIDs: []string{"T1"}}
	assert.NoError(t, ids.Validate())
	ids.ToolIDs = nil
	assert.Error(t, ids.Validate())
	ids = IDS{Name: "inst", ToolIDs: []string{"T1"}}
	assert.Error(t, ids.Validate())
}
