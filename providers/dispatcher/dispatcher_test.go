package dispatcher

import "testing"

func TestEmit_DeliversToRegisteredHandlersInOrder(t *testing.T) {
	d := New()
	var order []int

	d.On("ctx", "evt", func(payload any) { order = append(order, 1) })
	d.On("ctx", "evt", func(payload any) { order = append(order, 2) })

	d.Emit("ctx", "evt", nil)

	if len(order) != 2 || order[0] != 1 || order[1] != 2 {
		t.Fatalf("order = %v, want [1 2]", order)
	}
}

func TestEmit_PassesPayloadThrough(t *testing.T) {
	d := New()
	var got any
	d.On("ctx", "evt", func(payload any) { got = payload })
	d.Emit("ctx", "evt", "hello")
	if got != "hello" {
		t.Fatalf("payload = %v, want %q", got, "hello")
	}
}

func TestEmit_ScopesByContextAndEvent(t *testing.T) {
	d := New()
	var fired bool
	d.On("ctx-a", "evt", func(any) { fired = true })
	d.Emit("ctx-b", "evt", nil)
	if fired {
		t.Fatal("a handler registered under ctx-a should not fire for ctx-b")
	}
}

func TestSubscription_RemovesOnlyItsOwnHandler(t *testing.T) {
	d := New()
	var calls int
	subA := d.On("ctx", "evt", func(any) { calls++ })
	d.On("ctx", "evt", func(any) { calls++ })

	subA()
	d.Emit("ctx", "evt", nil)

	if calls != 1 {
		t.Fatalf("calls = %d, want 1 after canceling one of two handlers", calls)
	}
}

func TestOff_RemovesEveryHandlerForEvent(t *testing.T) {
	d := New()
	var calls int
	d.On("ctx", "evt", func(any) { calls++ })
	d.On("ctx", "evt", func(any) { calls++ })

	d.Off("ctx", "evt")
	d.Emit("ctx", "evt", nil)

	if calls != 0 {
		t.Fatalf("calls = %d, want 0 after Off", calls)
	}
}

func TestDispatcher_ZeroValueIsReadyToUse(t *testing.T) {
	var d Dispatcher
	var fired bool
	d.On(DefaultContext, "evt", func(any) { fired = true })
	d.Emit(DefaultContext, "evt", nil)
	if !fired {
		t.Fatal("a zero-value Dispatcher should be usable without calling New")
	}
}
