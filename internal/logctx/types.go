package logctx

import (
	"sync"
	"time"
)

// Single log record
type Event struct {
	Timestamp time.Time
	Severity  string
	Tags      []string
	Message   string
}

// Buffered context logger drained by a watcher goroutine
type Logger struct {
	ID         string
	CreatedAt  time.Time
	Done       <-chan struct{}
	PrintLevel int // Highest verbosity recorded (errors are always recorded)

	mutex sync.Mutex // protects queue and PrintLevel
	cond  *sync.Cond // signals new events to the watcher
	queue []Event
	wg    *sync.WaitGroup // watcher goroutines still draining
}

// Repeat suppression state kept by one watcher
type dedupState struct {
	last        Event // latest occurrence of the current message
	suppressed  int   // repeats held back since the last summary
	lastSummary time.Time
}
