package clock

import (
	"context"
	"testing"
	"time"
)

func TestFakeTimersFireInOrder(t *testing.T) {
	f := NewFake()
	var got []int
	f.ScheduleOnce(30*time.Millisecond, func() { got = append(got, 3) })
	f.ScheduleOnce(10*time.Millisecond, func() { got = append(got, 1) })
	f.ScheduleOnce(10*time.Millisecond, func() { got = append(got, 2) })

	f.Step(5 * time.Millisecond)
	if len(got) != 0 {
		t.Fatalf("fired too early: %v", got)
	}
	f.Step(50 * time.Millisecond)
	if len(got) != 3 || got[0] != 1 || got[1] != 2 || got[2] != 3 {
		t.Fatalf("order = %v", got)
	}
	if f.Pending() != 0 {
		t.Fatalf("pending = %d", f.Pending())
	}
}

func TestFakeTimerStop(t *testing.T) {
	f := NewFake()
	fired := false
	tm := f.ScheduleOnce(time.Second, func() { fired = true })
	if !tm.Stop() {
		t.Fatal("first stop should report true")
	}
	if tm.Stop() {
		t.Fatal("second stop should report false")
	}
	f.Advance(2 * time.Second)
	if fired {
		t.Fatal("stopped timer fired")
	}
}

func TestFakeEveryTick(t *testing.T) {
	f := NewFake()
	var n int
	var total time.Duration
	cancel := f.EveryTick(func(dt time.Duration) {
		n++
		total += dt
	})
	f.Advance(10 * f.Frame())
	cancel()
	cancel()
	f.Advance(10 * f.Frame())
	if n != 10 {
		t.Fatalf("ticks = %d", n)
	}
	if total != 10*f.Frame() {
		t.Fatalf("total = %v", total)
	}
	if f.Now() != 20*f.Frame() {
		t.Fatalf("now = %v", f.Now())
	}
}

func TestFakeTickCancelledMidFrame(t *testing.T) {
	f := NewFake()
	var second int
	var cancelSecond func()
	f.EveryTick(func(time.Duration) { cancelSecond() })
	cancelSecond = f.EveryTick(func(time.Duration) { second++ })
	f.Step(f.Frame())
	if second != 0 {
		t.Fatalf("cancelled tick ran %d times", second)
	}
}

func TestLoopPostAndCall(t *testing.T) {
	l := NewLoop(200)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go l.Run(ctx)

	fired := make(chan struct{})
	l.Post(func() {
		l.ScheduleOnce(10*time.Millisecond, func() { close(fired) })
	})
	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("timer never fired")
	}

	var v int
	if err := l.Call(ctx, func() { v = 42 }); err != nil {
		t.Fatalf("call: %v", err)
	}
	if v != 42 {
		t.Fatalf("v = %d", v)
	}

	l.Stop()
	if err := l.Call(context.Background(), func() {}); err != ErrLoopStopped {
		t.Fatalf("call after stop = %v", err)
	}
}

func TestLoopRecoversPanics(t *testing.T) {
	l := NewLoop(200)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go l.Run(ctx)

	l.Post(func() { panic("boom") })
	if err := l.Call(ctx, func() {}); err != nil {
		t.Fatalf("loop died after panic: %v", err)
	}
}

func TestLoopCallCancelledContext(t *testing.T) {
	l := NewLoop(200)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go l.Run(ctx)

	done, stop := context.WithCancel(context.Background())
	stop()
	ran := false
	if err := l.Call(done, func() { ran = true }); err != context.Canceled {
		t.Fatalf("call with cancelled ctx = %v", err)
	}
	if err := l.Call(ctx, func() {}); err != nil {
		t.Fatalf("call: %v", err)
	}
	if ran {
		t.Fatal("cancelled call still ran")
	}
}

func TestTicksCount(t *testing.T) {
	f := NewFake()
	a := f.EveryTick(func(time.Duration) {})
	f.EveryTick(func(time.Duration) {})
	if f.Ticks() != 2 {
		t.Fatalf("ticks = %d", f.Ticks())
	}
	a()
	if f.Ticks() != 1 {
		t.Fatalf("ticks after cancel = %d", f.Ticks())
	}
}
