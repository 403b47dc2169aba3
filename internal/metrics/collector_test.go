package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectorRecordTiming(t *testing.T) {
	c := NewCollector()

	c.RecordTiming(OpSearch, 10*time.Millisecond)
	c.RecordTiming(OpSearch, 30*time.Millisecond)
	c.RecordTiming(OpTraverse, 5*time.Millisecond)

	snap := c.Snapshot()
	require.NotNil(t, snap.Search)
	assert.Equal(t, int64(2), snap.Search.Count)
	assert.Equal(t, int64(40), snap.Search.TotalTimeMs)
	assert.Equal(t, 20.0, snap.Search.AvgTimeMs)
	assert.Equal(t, int64(10), snap.Search.MinTimeMs)
	assert.Equal(t, int64(30), snap.Search.MaxTimeMs)

	require.NotNil(t, snap.Traverse)
	assert.Equal(t, int64(1), snap.Traverse.Count)
}

func TestCollectorEmptySnapshot(t *testing.T) {
	snap := NewCollector().Snapshot()

	assert.Nil(t, snap.Search)
	assert.Nil(t, snap.Traverse)
	assert.Nil(t, snap.Suggest)
	assert.Nil(t, snap.Validate)
	assert.Nil(t, snap.Embedding)
	assert.Nil(t, snap.SnapshotLoad)
	assert.GreaterOrEqual(t, snap.UptimeSeconds, 0.0)
}

func TestCollectorConcurrentAccess(t *testing.T) {
	c := NewCollector()
	done := make(chan struct{})

	for i := 0; i < 4; i++ {
		go func() {
			for j := 0; j < 100; j++ {
				c.RecordTiming(OpSuggest, time.Millisecond)
			}
			done <- struct{}{}
		}()
	}
	for i := 0; i < 4; i++ {
		<-done
	}

	snap := c.Snapshot()
	require.NotNil(t, snap.Suggest)
	assert.Equal(t, int64(400), snap.Suggest.Count)
}
