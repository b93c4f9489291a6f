package usecase

import "time"

// Scheduler issues one-shot deferred actions. The production implementation
// wraps time.AfterFunc; tests substitute a fake that fires on demand.
type Scheduler interface {
	Schedule(delay time.Duration, fn func())
}

type timerScheduler struct{}

func NewTimerScheduler() Scheduler {
	return timerScheduler{}
}

func (timerScheduler) Schedule(delay time.Duration, fn func()) {
	time.AfterFunc(delay, fn)
}
