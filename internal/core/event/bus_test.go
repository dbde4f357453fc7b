package event

import (
	"testing"

	"github.com/l1jgo/ecscore/internal/core/ecs"
	"github.com/stretchr/testify/assert"
)

func TestBusDoubleBuffer(t *testing.T) {
	b := NewBus()
	var got []ecs.Entity
	Subscribe(b, func(ev EntityCreated) { got = append(got, ev.Entity) })

	Emit(b, EntityCreated{Entity: 1})
	Emit(b, EntityCreated{Entity: 2})
	assert.Equal(t, 2, b.Pending())

	// not yet visible
	assert.Equal(t, 0, b.DispatchAll())
	assert.Empty(t, got)

	b.SwapBuffers()
	assert.Equal(t, 0, b.Pending())
	assert.Equal(t, 2, b.DispatchAll())
	assert.Equal(t, []ecs.Entity{1, 2}, got)

	// delivered once
	assert.Equal(t, 0, b.DispatchAll())
	b.SwapBuffers()
	assert.Equal(t, 0, b.DispatchAll())
	assert.Len(t, got, 2)
}

func TestBusDispatchOrderFollowsFirstEmit(t *testing.T) {
	b := NewBus()
	var trace []string
	Subscribe(b, func(EntityDestroyed) { trace = append(trace, "destroyed") })
	Subscribe(b, func(EntityCreated) { trace = append(trace, "created") })
	Subscribe(b, func(Expired) { trace = append(trace, "expired") })

	for range 3 {
		Emit(b, Expired{Entity: 5, Age: 2})
		Emit(b, EntityCreated{Entity: 6})
		Emit(b, EntityDestroyed{Entity: 5})
		b.SwapBuffers()
		b.DispatchAll()
	}
	want := []string{"expired", "created", "destroyed"}
	assert.Equal(t, append(append(append([]string{}, want...), want...), want...), trace)
}

func TestBusUnsubscribedEventsAreDropped(t *testing.T) {
	b := NewBus()
	Emit(b, Expired{Entity: 1})
	b.SwapBuffers()
	assert.Equal(t, 1, b.DispatchAll())
	assert.Equal(t, 0, b.DispatchAll())
}
