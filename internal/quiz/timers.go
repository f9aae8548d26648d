package quiz

import "time"

// Timer is a cancellable scheduled callback.
type Timer interface {
	Stop() bool
}

// Scheduler arms callbacks after a delay. The callback runs on a goroutine of
// the scheduler's choosing.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type realScheduler struct{}

func (realScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// RealScheduler schedules on the runtime timers.
func RealScheduler() Scheduler { return realScheduler{} }

type timerKind int

const (
	tickTimer timerKind = iota
	advanceTimer
	retainTimer
)

func (k timerKind) String() string {
	switch k {
	case tickTimer:
		return "tick"
	case advanceTimer:
		return "advance"
	case retainTimer:
		return "retain"
	default:
		return "unknown"
	}
}

// timerArena tracks the pending timers of every session. Only the engine loop
// touches it.
type timerArena struct {
	timers map[string]map[timerKind]Timer
}

func newTimerArena() *timerArena {
	return &timerArena{timers: make(map[string]map[timerKind]Timer)}
}

// set replaces any pending timer of the same kind for the session.
func (a *timerArena) set(sessionID string, kind timerKind, t Timer) {
	byKind, ok := a.timers[sessionID]
	if !ok {
		byKind = make(map[timerKind]Timer, 3)
		a.timers[sessionID] = byKind
	}
	if old, ok := byKind[kind]; ok {
		old.Stop()
	}
	byKind[kind] = t
}

// clear forgets a timer that already fired without stopping anything.
func (a *timerArena) clear(sessionID string, kind timerKind) {
	if byKind, ok := a.timers[sessionID]; ok {
		delete(byKind, kind)
		if len(byKind) == 0 {
			delete(a.timers, sessionID)
		}
	}
}

func (a *timerArena) cancelAll(sessionID string) int {
	byKind := a.timers[sessionID]
	for _, t := range byKind {
		t.Stop()
	}
	delete(a.timers, sessionID)
	return len(byKind)
}

func (a *timerArena) stopAll() {
	for id := range a.timers {
		a.cancelAll(id)
	}
}

func (a *timerArena) pending(sessionID string) int {
	return len(a.timers[sessionID])
}
