package manager

import (
	"context"
	"time"
)

// admit reserves a queue slot and then one of the in-flight slots.
// Returns a release func to be deferred.
func (m *Manager) admit(ctx context.Context) (func(), error) {
	// The queue counts running and waiting pipelines; a full queue rejects
	// immediately.
	select {
	case m.queueCh <- struct{}{}:
	default:
		return func() {}, tooBusyError{reason: "queue_full"}
	}

	acquired := false
	defer func() {
		if !acquired {
			<-m.queueCh
		}
	}()
	timer := time.NewTimer(m.cfg.MaxWait)
	defer timer.Stop()
	select {
	case m.runCh <- struct{}{}:
		acquired = true
		return func() { <-m.runCh; <-m.queueCh }, nil
	case <-ctx.Done():
		return func() {}, ctx.Err()
	case <-timer.C:
		return func() {}, tooBusyError{reason: "wait_timeout"}
	}
}
