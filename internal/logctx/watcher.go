package logctx

import (
	"fmt"
	"io"
	"msgidscope/internal/global"
	"strings"
	"time"
)

const (
	dedupWindow      time.Duration = 5 * time.Second // Max gap between two occurrences of one run of repeats
	dedupMinRepeats  int           = 10              // Held back repeats that trigger a summary mid-run
	suppressCooldown time.Duration = 1 * time.Minute // Min gap between mid-run summaries
)

// Starts a go routine that reads events and writes formatted output to io.Writer.
// Stops once logger.Done is closed and the queue is empty.
func StartWatcher(logger *Logger, output io.Writer) {
	logger.wg.Add(1)

	go func() {
		defer logger.wg.Done()

		var dedup dedupState
		for {
			event, ok := logger.next()
			if !ok {
				dedup.flush(output)
				return
			}

			if dedup.suppress(event, output) {
				continue
			}

			fmt.Fprint(output, event.Format())
		}
	}()
}

// Blocks for the next queued event; ok is false when done with nothing left to write
func (logger *Logger) next() (event Event, ok bool) {
	logger.mutex.Lock()
	defer logger.mutex.Unlock()

	for len(logger.queue) == 0 {
		select {
		case <-logger.Done:
			return
		default:
			logger.cond.Wait()
		}
	}

	event = logger.queue[0]
	logger.queue = logger.queue[1:]
	ok = true
	return
}

// Reports whether event repeats the previous message and should be skipped.
// A run of repeats ends with the first different message or a gap longer than
// dedupWindow, and its held back count is summarized before anything else is written.
func (dedup *dedupState) suppress(event Event, output io.Writer) (skip bool) {
	repeat := event.Message != "" && event.Message == dedup.last.Message &&
		event.Timestamp.Sub(dedup.last.Timestamp) <= dedupWindow
	if !repeat {
		dedup.flush(output)
		dedup.last = event
		return
	}

	skip = true
	dedup.last.Timestamp = event.Timestamp
	dedup.last.Tags = event.Tags
	dedup.suppressed++

	// Long floods still report progress
	if dedup.suppressed >= dedupMinRepeats && event.Timestamp.Sub(dedup.lastSummary) >= suppressCooldown {
		dedup.flush(output)
	}
	return
}

// Writes the summary for repeats held back in the current run
func (dedup *dedupState) flush(output io.Writer) {
	if dedup.suppressed == 0 {
		return
	}

	summary := Event{
		Timestamp: dedup.last.Timestamp,
		Tags:      dedup.last.Tags,
		Severity:  global.InfoLog,
		Message:   fmt.Sprintf("Suppressed %d repeated messages: %s", dedup.suppressed, strings.TrimSuffix(dedup.last.Message, "\n")),
	}
	fmt.Fprintln(output, summary.Format())

	dedup.lastSummary = dedup.last.Timestamp
	dedup.suppressed = 0
}
