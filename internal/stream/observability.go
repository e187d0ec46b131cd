package stream

import (
	"fmt"
	"io"
	"time"
)

// StateEvent records one connection state transition.
type StateEvent struct {
	From    State
	To      State
	Attempt int
	Delay   time.Duration
	Err     error
}

// Observer receives connection state transitions for logging and
// metrics.
type Observer interface {
	OnStateChange(event StateEvent)
}

// LogObserver writes state transitions to an io.Writer.
type LogObserver struct {
	w io.Writer
}

// NewLogObserver creates an Observer that logs transitions to w.
func NewLogObserver(w io.Writer) *LogObserver {
	return &LogObserver{w: w}
}

func (o *LogObserver) OnStateChange(event StateEvent) {
	ts := time.Now().UTC().Format(time.RFC3339)
	line := fmt.Sprintf("[%s] stream %s->%s", ts, event.From, event.To)
	if event.To == StateBackoff {
		line += fmt.Sprintf(" attempt=%d delay=%s", event.Attempt, event.Delay)
	}
	if event.Err != nil {
		line += " err=" + event.Err.Error()
	}
	fmt.Fprintln(o.w, line)
}

// NoopObserver discards all events. Useful for tests.
type NoopObserver struct{}

func (NoopObserver) OnStateChange(StateEvent) {}
