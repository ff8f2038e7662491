package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPutAndGet(t *testing.T) {
	m := NewManager(10, time.Minute)
	m.Put("s1", Session{IDSID: "IDS_A"})

	got, ok := m.Get("s1")
	require.True(t, ok)
	assert.Equal(t, "IDS_A", got.IDSID)

	_, ok = m.Get("missing")
	assert.False(t, ok)
}

func TestPutPreservesCreatedAt(t *testing.T) {
	m := NewManager(10, time.Minute)
	m.Put("s1", Session{IDSID: "IDS_A"})
	created, ok := m.CreatedAt("s1")
	require.True(t, ok)

	time.Sleep(10 * time.Millisecond)
	m.Put("s1", Session{IDSID: "IDS_B"})

	createdAfter, ok := m.CreatedAt("s1")
	require.True(t, ok)
	assert.Equal(t, created, createdAfter)

	got, _ := m.Get("s1")
	assert.Equal(t, "IDS_B", got.IDSID)
}

func TestTTLExpiry(t *testing.T) {
	m := NewManager(10, 50*time.Millisecond)
	m.Put("s1", Session{IDSID: "IDS_A"})

	time.Sleep(120 * time.Millisecond)
	_, ok := m.Get("s1")
	assert.False(t, ok)
}

func TestGetRefreshesDeadline(t *testing.T) {
	m := NewManager(10, 100*time.Millisecond)
	m.Put("s1", Session{IDSID: "IDS_A"})

	// keep touching inside the TTL window
	for i := 0; i < 4; i++ {
		time.Sleep(60 * time.Millisecond)
		_, ok := m.Get("s1")
		require.True(t, ok)
	}
}

func TestRemove(t *testing.T) {
	m := NewManager(10, time.Minute)
	m.Put("s1", Session{IDSID: "IDS_A"})
	m.Remove("s1")

	_, ok := m.Get("s1")
	assert.False(t, ok)
	assert.Zero(t, m.Len())
}
