package game

import (
	"sync"
	"time"
)

// task is a cancellable periodic trigger owned by a server loop.
type task struct {
	ticker *time.Ticker
	once   sync.Once
}

func newTask(every time.Duration) *task {
	return &task{ticker: time.NewTicker(every)}
}

// C returns the channel the task fires on.
func (t *task) C() <-chan time.Time {
	if t == nil {
		return nil
	}
	return t.ticker.C
}

// Cancel stops the task. It is synchronous and safe to call more than once.
func (t *task) Cancel() {
	if t == nil {
		return
	}
	t.once.Do(t.ticker.Stop)
}
