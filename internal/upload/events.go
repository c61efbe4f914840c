package upload

// EventKind enumerates coordinator progress notifications.
type EventKind int

const (
	EventStarted EventKind = iota
	EventFound
	EventUploading
	EventResolved
	EventFailed
	EventDone
)

func (k EventKind) String() string {
	switch k {
	case EventStarted:
		return "started"
	case EventFound:
		return "found"
	case EventUploading:
		return "uploading"
	case EventResolved:
		return "resolved"
	case EventFailed:
		return "failed"
	case EventDone:
		return "done"
	}
	return "unknown"
}

// Event describes one step of the queue. Remaining counts the tasks still
// queued after the current one.
type Event struct {
	Kind      EventKind
	Field     string
	File      string
	Digest    string
	FileID    string
	Remaining int
	Err       error
}

// Observer receives events synchronously, in order, from the goroutine
// running the queue.
type Observer func(Event)
