package event

import "github.com/l1jgo/ecscore/internal/core/ecs"

// World lifecycle events.

type EntityCreated struct {
	Entity ecs.Entity
}

type EntityDestroyed struct {
	Entity ecs.Entity
}

// Expired is emitted when a Lifetime component runs out.
type Expired struct {
	Entity ecs.Entity
	Age    int
}
