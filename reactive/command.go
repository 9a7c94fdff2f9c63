package reactive

import (
	"fmt"

	"github.com/dagify-go/dagify/internal/depset"
	"github.com/dagify-go/dagify/providers/dispatcher"
)

// CommandConfig is a command node's external-payload pipeline: an
// optional shape transform, an optional drop filter, an optional
// validator, and the handler that produces the node's emitted value.
type CommandConfig struct {
	Map       func(data any) any
	Filter    func(data any) bool
	Validator func(data any) (bool, error)
	Handler   func(data any) (any, error)
}

// CommandNode is a stateful-like node externally pumped through
// CommandConfig's pipeline rather than through plain Set.
type CommandNode struct {
	*Node
	cfg CommandConfig
}

// NewCommandNode constructs a CommandNode. By default nothing pumps it;
// call ListenOn to receive inputs from a dispatcher context, or call Set
// directly.
func NewCommandNode(cfg CommandConfig, opts ...Option) *CommandNode {
	return &CommandNode{Node: NewNode(NoEmit, opts...), cfg: cfg}
}

// Set runs data through map -> filter -> validator -> handler. A falsy
// filter result drops the input silently. A failed validator routes to
// the error channel as ErrValidationFailure. The handler's result is
// classified exactly like a computed node's compute result: a
// depset.Subscriber starts a push-source recompute, a depset.Future is
// awaited asynchronously, and NoEmit suppresses emission.
func (c *CommandNode) Set(data any) error {
	if c.cfg.Map != nil {
		data = c.cfg.Map(data)
	}
	if c.cfg.Filter != nil && !c.cfg.Filter(data) {
		return nil
	}
	if c.cfg.Validator != nil {
		valid, verr := c.cfg.Validator(data)
		if !valid {
			err := fmt.Errorf("%w: %v", ErrValidationFailure, verr)
			c.Node.errs.push(err)
			c.Node.notifyError(err)
			return err
		}
	}
	if c.cfg.Handler == nil {
		return nil
	}

	result, err := c.cfg.Handler(data)
	if err != nil {
		wrapped := fmt.Errorf("%w: %v", ErrUserCompute, err)
		c.Node.errs.push(wrapped)
		c.Node.notifyError(wrapped)
		return wrapped
	}

	switch typed := result.(type) {
	case depset.Subscriber:
		c.Node.computeAsyncPush(typed)
	case depset.Future:
		c.Node.computeAsyncFuture(typed)
	default:
		if !IsNoEmit(result) {
			c.Node.setValue(result, false)
		}
	}
	return nil
}

// Next is an alias for Set.
func (c *CommandNode) Next(data any) error { return c.Set(data) }

// ListenOn subscribes this command node to receive its input from the
// dispatcher's (context, commandName) channel. A nil dispatcher uses
// dispatcher.Default.
func (c *CommandNode) ListenOn(d *dispatcher.Dispatcher, context, commandName string) {
	if d == nil {
		d = dispatcher.Default
	}
	unsubscribe := d.On(context, commandName, func(payload any) {
		_ = c.Set(payload)
	})

	c.Node.mu.Lock()
	prev := c.Node.triggerCancel
	c.Node.triggerCancel = func() {
		if prev != nil {
			prev()
		}
		unsubscribe()
	}
	c.Node.mu.Unlock()
}
