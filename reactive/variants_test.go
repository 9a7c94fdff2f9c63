package reactive

import (
	"errors"
	"testing"
	"time"

	"github.com/dagify-go/dagify/providers/dispatcher"
	"github.com/dagify-go/dagify/providers/scheduler"
)

func TestNewTrigger_CountsEveryUpstreamEmissionRegardlessOfPayload(t *testing.T) {
	src := NewNode(0, WithNotifyScheduler(scheduler.Sync))
	trig := NewTrigger([]*Node{src}, WithNotifyScheduler(scheduler.Sync))

	var emissions []any
	_, _ = trig.Subscribe(Observer{Next: func(v any) { emissions = append(emissions, v) }})
	emissions = nil // drop the initial delivery of 1 (subscribing to src counted its current value)

	// Each upstream emission increments the counter, whatever its payload.
	if err := src.Set(5); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := src.Set(1); err != nil {
		t.Fatalf("Set: %v", err)
	}

	if len(emissions) != 2 || emissions[0] != int64(2) || emissions[1] != int64(3) {
		t.Fatalf("emissions = %v, want [2 3]", emissions)
	}
}

func TestNewTriggerFromEvent_CountsDispatcherEmissions(t *testing.T) {
	d := dispatcher.New()
	trig := NewTriggerFromEvent(d, "ctx", "evt", WithNotifyScheduler(scheduler.Sync))

	var emissions []any
	_, _ = trig.Subscribe(Observer{Next: func(v any) { emissions = append(emissions, v) }})
	emissions = nil

	d.Emit("ctx", "evt", nil)
	d.Emit("ctx", "evt", nil)

	if len(emissions) != 2 || emissions[0] != int64(1) || emissions[1] != int64(2) {
		t.Fatalf("emissions = %v, want [1 2]", emissions)
	}
}

func TestNewSinkNode_RejectsSubscribeButAcceptsSet(t *testing.T) {
	n := NewSinkNode(1)
	if _, err := n.Subscribe(Observer{}); !errors.Is(err, ErrSinkSubscribe) {
		t.Fatalf("Subscribe error = %v, want ErrSinkSubscribe", err)
	}
	if err := n.Set(2); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got := n.Value(); got != 2 {
		t.Fatalf("Value() = %v, want 2", got)
	}
}

func TestNewEventNode_TakesDispatcherPayloadAsValue(t *testing.T) {
	d := dispatcher.New()
	n := NewEventNode(d, "ctx", "evt", WithNotifyScheduler(scheduler.Sync))

	var emissions []any
	_, _ = n.Subscribe(Observer{Next: func(v any) { emissions = append(emissions, v) }})

	d.Emit("ctx", "evt", "hello")
	d.Emit("ctx", "evt", "world")

	if len(emissions) != 2 || emissions[0] != "hello" || emissions[1] != "world" {
		t.Fatalf("emissions = %v, want [hello world]", emissions)
	}
}

func TestNewComposite_OrderedChildrenProduceList(t *testing.T) {
	a := NewNode(1, WithNotifyScheduler(scheduler.Sync))
	b := NewNode(2, WithNotifyScheduler(scheduler.Sync))

	c, err := NewComposite([]any{a, b}, WithDisableBatching(), WithNotifyScheduler(scheduler.Sync))
	if err != nil {
		t.Fatalf("NewComposite: %v", err)
	}

	list, ok := c.Value().([]any)
	if !ok || len(list) != 2 || list[0] != 1 || list[1] != 2 {
		t.Fatalf("Value() = %v, want [1 2]", c.Value())
	}
}

func TestNewComposite_KeyedChildrenProduceMap(t *testing.T) {
	a := NewNode("x", WithNotifyScheduler(scheduler.Sync))
	b := NewNode("y", WithNotifyScheduler(scheduler.Sync))

	c, err := NewComposite(map[string]any{"a": a, "b": b}, WithDisableBatching(), WithNotifyScheduler(scheduler.Sync))
	if err != nil {
		t.Fatalf("NewComposite: %v", err)
	}

	m, ok := c.Value().(map[string]any)
	if !ok || m["a"] != "x" || m["b"] != "y" {
		t.Fatalf("Value() = %v, want map[a:x b:y]", c.Value())
	}
}

func TestComposite_AddNodesAndRemoveNodesMutateChildren(t *testing.T) {
	a := NewNode(1, WithNotifyScheduler(scheduler.Sync))
	b := NewNode(2, WithNotifyScheduler(scheduler.Sync))
	c := NewNode(3, WithNotifyScheduler(scheduler.Sync))

	comp, err := NewComposite([]any{a, b}, WithDisableBatching(), WithNotifyScheduler(scheduler.Sync))
	if err != nil {
		t.Fatalf("NewComposite: %v", err)
	}

	if err := comp.AddNodes(c); err != nil {
		t.Fatalf("AddNodes: %v", err)
	}
	list := comp.Value().([]any)
	if len(list) != 3 || list[2] != 3 {
		t.Fatalf("Value() after AddNodes = %v, want [1 2 3]", list)
	}

	if err := comp.RemoveNodes(1); err != nil {
		t.Fatalf("RemoveNodes: %v", err)
	}
	list = comp.Value().([]any)
	if len(list) != 2 || list[0] != 1 || list[1] != 3 {
		t.Fatalf("Value() after RemoveNodes(1) = %v, want [1 3]", list)
	}
}

func TestNewExecutionNode_OnlyPropagatesOnTriggerFire(t *testing.T) {
	src := NewNode(1, WithNotifyScheduler(scheduler.Sync))
	trig := NewNode(0, WithNotifyScheduler(scheduler.Sync))

	n, err := NewExecutionNode(func(deps Deps) (any, error) {
		return deps.Get(0).(int) * 10, nil
	}, []any{src}, trig, WithNotifyScheduler(scheduler.Sync))
	if err != nil {
		t.Fatalf("NewExecutionNode: %v", err)
	}

	var emissions []any
	_, _ = n.Subscribe(Observer{Next: func(v any) { emissions = append(emissions, v) }})
	emissions = nil

	// Changing the dependency alone does not propagate without a trigger
	// fire: NewExecutionNode's whole point is decoupling recompute timing
	// from dependency-change timing.
	if err := src.Set(2); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if len(emissions) != 0 {
		t.Fatalf("emissions after dependency change alone = %v, want none", emissions)
	}

	if err := trig.Set(1); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if len(emissions) != 1 || emissions[0] != 20 {
		t.Fatalf("emissions after trigger fire = %v, want [20]", emissions)
	}
}

func TestBridge_SetForwardsToInputAndMirrorsOutput(t *testing.T) {
	input := NewNode(1, WithNotifyScheduler(scheduler.Sync))
	output, err := NewComputed(func(deps Deps) (any, error) {
		return deps.Get(0).(int) * 2, nil
	}, []any{input}, WithDisableBatching(), WithNotifyScheduler(scheduler.Sync))
	if err != nil {
		t.Fatalf("NewComputed: %v", err)
	}

	b := NewBridgeNode(input, output, WithNotifyScheduler(scheduler.Sync))
	if got := b.Value(); got != 2 {
		t.Fatalf("initial bridge value = %v, want 2", got)
	}

	if err := b.Set(5); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got := input.Value(); got != 5 {
		t.Fatalf("input value after Set = %v, want 5", got)
	}
	if got := b.Value(); got != 10 {
		t.Fatalf("bridge value after Set = %v, want 10", got)
	}
}

// TestBridge_SetDoesNotRaceTheAsyncUpdateScheduler exercises output under
// the real default scheduler (no WithDisableBatching), so Bridge.Set must
// recompute output synchronously itself rather than racing the background
// dispatch goroutine — otherwise the bridge would mirror the stale
// pre-Set value back to its own subscribers.
func TestBridge_SetDoesNotRaceTheAsyncUpdateScheduler(t *testing.T) {
	input := NewNode(1, WithNotifyScheduler(scheduler.Sync))
	output, err := NewComputed(func(deps Deps) (any, error) {
		return deps.Get(0).(int) * 2, nil
	}, []any{input})
	if err != nil {
		t.Fatalf("NewComputed: %v", err)
	}

	ready := make(chan struct{}, 1)
	_, _ = output.Subscribe(Observer{Next: func(v any) {
		select {
		case ready <- struct{}{}:
		default:
		}
	}})
	select {
	case <-ready:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for output's initial async compute")
	}

	b := NewBridgeNode(input, output)
	if got := b.Value(); got != 2 {
		t.Fatalf("initial bridge value = %v, want 2", got)
	}

	if err := b.Set(5); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if got := input.Value(); got != 5 {
		t.Fatalf("input value after Set = %v, want 5", got)
	}
	if got := b.Value(); got != 10 {
		t.Fatalf("bridge value after Set = %v, want 10 (must not mirror a stale pre-Set value)", got)
	}
}

func TestErrStream_RecentReturnsOldestFirstAndLastReturnsNewest(t *testing.T) {
	s := newErrStream()
	err1 := errors.New("first")
	err2 := errors.New("second")

	s.push(err1)
	s.push(err2)

	recent := s.recent()
	if len(recent) != 2 || recent[0] != err1 || recent[1] != err2 {
		t.Fatalf("recent() = %v, want [first second]", recent)
	}
	if s.last() != err2 {
		t.Fatalf("last() = %v, want %v", s.last(), err2)
	}
}

func TestErrStream_CapsLengthAtMax(t *testing.T) {
	s := newErrStream()
	s.max = 2
	s.push(errors.New("a"))
	s.push(errors.New("b"))
	s.push(errors.New("c"))

	recent := s.recent()
	if len(recent) != 2 {
		t.Fatalf("recent() length = %d, want 2 after exceeding max", len(recent))
	}
	if recent[len(recent)-1].Error() != "c" {
		t.Fatalf("last retained error = %v, want \"c\"", recent[len(recent)-1])
	}
}
