package fileview

import (
	"sync/atomic"
	"time"

	"fyne.io/fyne/v2"
)

// Scheduler runs callbacks on the UI goroutine. Both methods may be called
// from any goroutine and return a function that cancels the callback if it
// has not run yet.
type Scheduler interface {
	Idle(fn func()) (cancel func())
	AfterFunc(d time.Duration, fn func()) (cancel func())
}

// FyneScheduler queues callbacks with fyne.Do.
type FyneScheduler struct{}

func (FyneScheduler) Idle(fn func()) func() {
	var cancelled atomic.Bool
	go fyne.Do(func() {
		if !cancelled.Load() {
			fn()
		}
	})
	return func() { cancelled.Store(true) }
}

func (FyneScheduler) AfterFunc(d time.Duration, fn func()) func() {
	var cancelled atomic.Bool
	t := time.AfterFunc(d, func() {
		fyne.Do(func() {
			if !cancelled.Load() {
				fn()
			}
		})
	})
	return func() {
		cancelled.Store(true)
		t.Stop()
	}
}
