package component

// Position is a point in world space.
// Pure data; systems do all mutation.
type Position struct {
	X float64
	Y float64
}

// Velocity is applied to Position once per second of simulated time.
type Velocity struct {
	DX float64
	DY float64
}
