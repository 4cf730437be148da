package component

// Behavior is the animation/ability state an entity is in. The state graph
// itself lives in the behavior system; this is the per-entity cursor.
type Behavior struct {
	Graph   string
	Current string
	// Elapsed is the time spent in Current, in seconds.
	Elapsed float64
	// RootMotionSpeed is the forward speed authored for Current.
	RootMotionSpeed float64
	// Transitions counts state changes since spawn.
	Transitions int
	Started     bool
}

var BehaviorComponent = NewComponent[Behavior]()
