package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCollector(t *testing.T) {
	c := NewCollector()
	c.RecordTurn("matched", "greeting", 10*time.Millisecond)
	c.RecordTurn("matched", "greeting", 30*time.Millisecond)
	c.RecordTurn("ambiguous", "", 20*time.Millisecond)
	c.RecordRejected()
	c.RecordError()

	s := c.Collect(2*1024*1024, "/tmp/side_data.db")
	assert.Equal(t, int64(3), s.TurnCount)
	assert.Equal(t, int64(1), s.RejectedCount)
	assert.Equal(t, int64(1), s.ErrorCount)
	assert.InDelta(t, 20.0, s.AvgLatencyMs, 0.001)
	assert.Equal(t, map[string]int64{"matched": 2, "ambiguous": 1}, s.Outcomes)
	assert.Equal(t, map[string]int64{"greeting": 2}, s.Intents)
	assert.InDelta(t, 2.0, s.DBSizeMB, 0.001)
	assert.Greater(t, s.Goroutines, 0)

	// Snapshots are copies.
	s.Outcomes["matched"] = 99
	again := c.Collect(0, "")
	assert.Equal(t, int64(3), again.TurnCount)
	assert.Equal(t, int64(2), again.Outcomes["matched"])
}

func TestCollector_Empty(t *testing.T) {
	s := NewCollector().Collect(0, "")
	assert.Zero(t, s.AvgLatencyMs)
	assert.Empty(t, s.Outcomes)
}
