//go:build ecsdebug

package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// go test -tags ecsdebug -run ^TestDebugAssertions$ ./internal/core/ecs -count 1
func TestDebugAssertions(t *testing.T) {
	m, _ := abc(1, 2)
	other, _ := abc(3)

	assert.PanicsWithValue(t, "ecs: PopBack on empty manager", func() {
		NewComponentManager[int](0).PopBack()
	})
	assert.Panics(t, func() { m.Index(2) })
	assert.Panics(t, func() { m.EntityAt(-1) })
	assert.Panics(t, func() { m.swapComponents(0, 5) })
	assert.Panics(t, func() { m.RecordEnd().Record() })
	assert.Panics(t, func() { Record[int]{}.GetEntity() })
	assert.Panics(t, func() { m.RecordBegin().Record().Swap(other.RecordBegin().Record()) })
	assert.Panics(t, func() { m.RecordBegin().Distance(other.RecordBegin()) })

	assert.NotPanics(t, func() { m.swapComponents(1, 1) })
}
