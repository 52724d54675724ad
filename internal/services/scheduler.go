// internal/services/scheduler.go
package services

import "time"

// CancelFunc stops a scheduled task. It reports whether the task was stopped
// before running.
type CancelFunc func() bool

type Scheduler interface {
	Schedule(delay time.Duration, task func()) CancelFunc
}

// TimerScheduler runs tasks on their own goroutine via time.AfterFunc.
type TimerScheduler struct{}

func (TimerScheduler) Schedule(delay time.Duration, task func()) CancelFunc {
	t := time.AfterFunc(delay, task)
	return t.Stop
}
