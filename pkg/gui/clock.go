package gui

import (
	"fmt"
	"sync"
	"time"
)

// Clock is a countdown shown next to the board when the session carries a
// time limit. It is display only; running out does not end the game.
type Clock struct {
	mu        sync.Mutex
	remaining time.Duration
	paused    bool
	stop      chan struct{}
}

func NewClock(d time.Duration) *Clock {
	return &Clock{
		remaining: d,
		paused:    true,
		stop:      make(chan struct{}),
	}
}

func (cl *Clock) String() string {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	r := cl.remaining
	if r < 0 {
		r = 0
	}
	return fmt.Sprintf("%d:%02d", int(r.Minutes()), int(r.Seconds())%60)
}

// Start ticks once a second until Stop, calling onTick after each tick.
// onTick runs on the clock's goroutine.
func (cl *Clock) Start(onTick func()) {
	go func() {
		tick := time.NewTicker(time.Second)
		defer tick.Stop()
		for {
			select {
			case <-tick.C:
				cl.mu.Lock()
				if !cl.paused && cl.remaining > 0 {
					cl.remaining -= time.Second
				}
				cl.mu.Unlock()
				onTick()
			case <-cl.stop:
				return
			}
		}
	}()
}

func (cl *Clock) Resume() {
	cl.mu.Lock()
	cl.paused = false
	cl.mu.Unlock()
}

func (cl *Clock) Pause() {
	cl.mu.Lock()
	cl.paused = true
	cl.mu.Unlock()
}

func (cl *Clock) Expired() bool {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	return cl.remaining <= 0
}

func (cl *Clock) Stop() {
	close(cl.stop)
}
