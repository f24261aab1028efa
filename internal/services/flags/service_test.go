package flags

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestService_SetAndGet(t *testing.T) {
	svc := NewService()

	assert.False(t, svc.GetFlag("mq01_reported_to_order"))

	svc.SetFlag("mq01_reported_to_order", true)
	assert.True(t, svc.GetFlag("mq01_reported_to_order"))

	svc.SetFlag("mq01_reported_to_order", false)
	assert.False(t, svc.GetFlag("mq01_reported_to_order"))
}

func TestService_SnapshotRestore(t *testing.T) {
	svc := NewService()
	svc.SetFlag("a", true)
	svc.SetFlag("b", false)

	snapshot := svc.Snapshot()
	assert.Equal(t, map[string]bool{"a": true, "b": false}, snapshot)

	snapshot["a"] = false
	assert.True(t, svc.GetFlag("a"))

	restored := NewService()
	restored.Restore(snapshot)
	assert.False(t, restored.GetFlag("a"))
}
