package workers

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWorkerIsDead(t *testing.T) {
	now := time.Now()

	heartbeatAt := func(age time.Duration) *time.Time {
		ts := now.Add(-age)
		return &ts
	}

	t.Run("dead when heartbeat older than timeout", func(t *testing.T) {
		w := &Worker{Name: "w1", LastHeartbeat: heartbeatAt(301 * time.Second)}
		assert.True(t, w.IsDead(now, DefaultHeartbeatTimeout))
	})

	t.Run("alive when heartbeat within timeout", func(t *testing.T) {
		w := &Worker{Name: "w1", LastHeartbeat: heartbeatAt(299 * time.Second)}
		assert.False(t, w.IsDead(now, DefaultHeartbeatTimeout))
	})

	t.Run("alive at exactly the timeout boundary", func(t *testing.T) {
		w := &Worker{Name: "w1", LastHeartbeat: heartbeatAt(DefaultHeartbeatTimeout)}
		assert.False(t, w.IsDead(now, DefaultHeartbeatTimeout))
	})

	t.Run("never dead without a heartbeat", func(t *testing.T) {
		w := &Worker{Name: "w1"}
		assert.False(t, w.IsDead(now, DefaultHeartbeatTimeout))
		assert.False(t, w.HasHeartbeat())
	})

	t.Run("zero heartbeat treated as missing", func(t *testing.T) {
		zero := time.Time{}
		w := &Worker{Name: "w1", LastHeartbeat: &zero}
		assert.False(t, w.HasHeartbeat())
		assert.False(t, w.IsDead(now, DefaultHeartbeatTimeout))
	})
}

func TestWorkerHeartbeatAge(t *testing.T) {
	now := time.Now()
	ts := now.Add(-42 * time.Second)

	w := &Worker{Name: "w1", LastHeartbeat: &ts}
	assert.Equal(t, 42*time.Second, w.HeartbeatAge(now))

	missing := &Worker{Name: "w2"}
	assert.Equal(t, time.Duration(0), missing.HeartbeatAge(now))
}
