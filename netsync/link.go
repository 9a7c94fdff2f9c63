package netsync

import (
	"fmt"

	"github.com/dagify-go/dagify/reactive"
)

// Transport is the minimal send/receive surface an external multiplex RPC
// must provide; netsync only decides whether and which direction to use
// it, never how bytes cross the wire.
type Transport interface {
	Send(b []byte) error
	Receive() (<-chan []byte, error)
}

// Link wires a node to a Transport according to the Action decided by
// Interpret(local.Mode, remote.Mode). When sending, the node's current
// value is sent as soon as the link is made (subscribing delivers it), and
// every later emission after that. The returned cancel stops both
// directions: it unsubscribes the outbound sender and ends the inbound
// receive loop. It does not close the transport.
func Link(n *reactive.Node, transport Transport, local, remote HandshakeFrame) (cancel func(), err error) {
	action := Interpret(local.Mode, remote.Mode)

	var subCancel func()
	if action == ActionSend || action == ActionBoth {
		subCancel, err = n.Subscribe(reactive.Observer{
			Next: func(any) {
				b, encErr := n.EncodeForSink()
				if encErr != nil {
					return
				}
				_ = transport.Send(b)
			},
		})
		if err != nil {
			return nil, fmt.Errorf("netsync: subscribe for send: %w", err)
		}
	}

	if action == ActionReceive || action == ActionBoth {
		inbound, recvErr := transport.Receive()
		if recvErr != nil {
			if subCancel != nil {
				subCancel()
			}
			return nil, fmt.Errorf("netsync: receive: %w", recvErr)
		}
		stop := make(chan struct{})
		go func() {
			for {
				select {
				case b, ok := <-inbound:
					if !ok {
						return
					}
					_ = n.Set(b)
				case <-stop:
					return
				}
			}
		}()
		prior := subCancel
		subCancel = func() {
			close(stop)
			if prior != nil {
				prior()
			}
		}
	}

	if subCancel == nil {
		subCancel = func() {}
	}
	return subCancel, nil
}
