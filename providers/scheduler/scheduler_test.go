package scheduler

import (
	"reflect"
	"testing"
	"time"
)

func TestSync_RunsOnCallingGoroutine(t *testing.T) {
	ran := false
	Sync.Schedule(func() { ran = true })
	if !ran {
		t.Fatal("Sync.Schedule should run fn before returning")
	}
}

func TestImmediate_IsSync(t *testing.T) {
	if reflect.ValueOf(Immediate).Pointer() != reflect.ValueOf(Sync).Pointer() {
		t.Fatal("Immediate should be the same Scheduler value as Sync")
	}
}

func TestGoroutine_PreservesSubmissionOrder(t *testing.T) {
	s := NewGoroutine(0)

	done := make(chan struct{})
	var order []int
	results := make(chan int, 3)

	for i := 0; i < 3; i++ {
		i := i
		s.Schedule(func() { results <- i })
	}
	go func() {
		for i := 0; i < 3; i++ {
			order = append(order, <-results)
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for scheduled closures")
	}

	for i, v := range order {
		if v != i {
			t.Fatalf("order = %v, want [0 1 2]", order)
		}
	}
}

func TestTimeout_RunsAfterDelay(t *testing.T) {
	s := NewTimeout(10 * time.Millisecond)
	done := make(chan struct{})
	s.Schedule(func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for the deferred closure to run")
	}
}

func TestSchedulerFunc_AdaptsPlainFunction(t *testing.T) {
	var calledWith func()
	s := SchedulerFunc(func(fn func()) { calledWith = fn })
	marker := func() {}
	s.Schedule(marker)
	if calledWith == nil {
		t.Fatal("SchedulerFunc.Schedule should invoke the adapted function")
	}
}
