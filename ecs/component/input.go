package component

import "github.com/milk9111/locomotion/input"

// Input carries the intent drained for the current tick and the buffer it
// was drained from, so systems can write back corrections.
type Input struct {
	Snapshot input.Snapshot
	Source   *input.State
}

var InputComponent = NewComponent[Input]()
