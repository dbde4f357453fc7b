package component

// Lifetime counts ticks down to expiry. An entity whose Remaining reaches
// zero is marked for destruction by LifetimeSystem.
type Lifetime struct {
	Remaining int
	Age       int
}

// Health is a plain payload carried by long-lived entities.
type Health struct {
	HP    int32
	MaxHP int32
}
