package universe

//Event is sent by the universe to the registered viewers
//the set of events is closed: FrameEvent, StatusEvent, FinishEvent
type Event interface {
	event()
}

//FrameEvent carries the cells to redraw
//when Full is not nil there is no diff and the whole field must be redrawn from Full
type FrameEvent struct {
	Dimensions Dimensions
	Changes    []CellChange
	Full       Population
}

//StatusEvent is sent when the running mode or the counters change
type StatusEvent struct {
	Status Status
}

//FinishEvent is sent once the simulation reaches the finished state
type FinishEvent struct {
	Status Status
}

func (FrameEvent) event()  {}
func (StatusEvent) event() {}
func (FinishEvent) event() {}
