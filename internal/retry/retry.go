// Package retry implements the Retry Queue (C15): reschedules an IMAP
// pull when the scheduled window found no matching mail.
package retry

import (
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Entry tracks one source's pending retry, carrying the original
// scheduled-run identity so downstream systems see the same logical run
// regardless of how many polls were needed (§4.15).
type Entry struct {
	SourceID      string
	RunID         string
	IntervalMins  int
	CutoffHour    int
	NextAttempt   time.Time
}

// Handler is invoked when a scheduled retry fires.
type Handler func(sourceID, runID string)

// Queue schedules and tracks retries via robfig/cron, the same scheduler
// C11's URL-fetch adapter uses, so both acquisition-time scheduling and
// retry scheduling share one dependency.
type Queue struct {
	mu      sync.Mutex
	cron    *cron.Cron
	entries map[string]cron.EntryID
	handler Handler
}

// NewQueue constructs a Queue bound to handler, which fires on every
// retry attempt.
func NewQueue(handler Handler) *Queue {
	q := &Queue{
		cron:    cron.New(),
		entries: make(map[string]cron.EntryID),
		handler: handler,
	}
	q.cron.Start()
	return q
}

// Schedule implements §4.15: if retryIfNoEmail is set and the current
// local time is before retryCutoffHour, schedule a retry in
// retryIntervalMinutes. Scheduling a retry for a source that already has
// one pending replaces it (only one outstanding retry per source/run).
func (q *Queue) Schedule(sourceID, runID string, intervalMins, cutoffHour int, now time.Time) bool {
	if now.Hour() >= cutoffHour {
		log.Info().Str("source", sourceID).Msg("retry cutoff reached, not rescheduling")
		return false
	}

	q.mu.Lock()
	defer q.mu.Unlock()

	if id, ok := q.entries[sourceID]; ok {
		q.cron.Remove(id)
	}

	fireAt := now.Add(time.Duration(intervalMins) * time.Minute)
	schedule := &oneShotSchedule{at: fireAt}
	entryID := q.cron.Schedule(schedule, cron.FuncJob(func() {
		q.mu.Lock()
		delete(q.entries, sourceID)
		q.mu.Unlock()
		q.handler(sourceID, runID)
	}))
	q.entries[sourceID] = entryID
	return true
}

// oneShotSchedule fires exactly once at a fixed time, then never again.
// cron.Schedule has no native one-shot primitive; this is the idiomatic
// way to get one out of it without a background goroutine of our own.
type oneShotSchedule struct {
	at   time.Time
	done bool
}

func (s *oneShotSchedule) Next(t time.Time) time.Time {
	if s.done {
		return time.Time{}
	}
	s.done = true
	return s.at
}

// Cancel removes any pending retry for sourceID (e.g. a manual trigger
// superseded it).
func (q *Queue) Cancel(sourceID string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if id, ok := q.entries[sourceID]; ok {
		q.cron.Remove(id)
		delete(q.entries, sourceID)
	}
}

// Stop shuts down the underlying cron scheduler.
func (q *Queue) Stop() {
	q.cron.Stop()
}
