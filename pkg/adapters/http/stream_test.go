package http

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStreamManager_SubscribeBroadcast(t *testing.T) {
	sm := NewStreamManager()
	ch, cancel := sm.Subscribe("handbook")
	other, cancelOther := sm.Subscribe("other")
	defer cancelOther()

	sm.Broadcast("handbook", RevisionEvent{Document: "handbook", Revision: 2})

	assert.Equal(t, RevisionEvent{Document: "handbook", Revision: 2}, <-ch)
	assert.Empty(t, other)

	cancel()
	cancel()
	_, open := <-ch
	assert.False(t, open)
	assert.NotContains(t, sm.subscribers, "handbook")
}

func TestStreamManager_DropsWhenFull(t *testing.T) {
	sm := NewStreamManager()
	ch, cancel := sm.Subscribe("handbook")
	defer cancel()

	for i := 0; i < cap(ch)+5; i++ {
		sm.Broadcast("handbook", RevisionEvent{Document: "handbook", Revision: i})
	}

	assert.Len(t, ch, cap(ch))
}
