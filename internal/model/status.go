package model

// JobStatus represents the lifecycle state of a preview prefetch job
type JobStatus string

const (
	// JobStatusQueued means the job waits for a worker or for its start delay
	JobStatusQueued JobStatus = "Queued"

	// JobStatusRunning means a worker is rendering the job's items
	JobStatusRunning JobStatus = "Running"

	// JobStatusCancelled means the job was superseded, pruned or torn down
	JobStatusCancelled JobStatus = "Cancelled"

	// JobStatusDone means the job's results were applied on the UI thread
	JobStatusDone JobStatus = "Done"
)

// String returns the string representation of JobStatus
func (js JobStatus) String() string {
	return string(js)
}

// IsActive returns true if the job may still produce results
func (js JobStatus) IsActive() bool {
	return js == JobStatusQueued || js == JobStatusRunning
}

// IsFinished returns true if the job reached a terminal state (cancelled or done)
func (js JobStatus) IsFinished() bool {
	return js == JobStatusCancelled || js == JobStatusDone
}

// TouchState is the gesture classification of the current touch sequence
type TouchState int

const (
	TouchRest TouchState = iota
	TouchScrolling
	TouchSnapPrevEdge
	TouchSnapNextEdge
)

// String returns a readable name for the touch state
func (ts TouchState) String() string {
	switch ts {
	case TouchRest:
		return "Rest"
	case TouchScrolling:
		return "Scrolling"
	case TouchSnapPrevEdge:
		return "SnapPrevEdge"
	case TouchSnapNextEdge:
		return "SnapNextEdge"
	default:
		return "Unknown"
	}
}

// IsEdge returns true for the two edge-tap states
func (ts TouchState) IsEdge() bool {
	return ts == TouchSnapPrevEdge || ts == TouchSnapNextEdge
}
