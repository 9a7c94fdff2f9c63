package netsync

// Action describes what traffic a local peer should open given its own
// mode and the remote peer's declared mode.
type Action int

const (
	ActionNone Action = iota
	ActionSend
	ActionReceive
	ActionBoth
)

func (a Action) String() string {
	switch a {
	case ActionSend:
		return "send"
	case ActionReceive:
		return "receive"
	case ActionBoth:
		return "both"
	default:
		return "no traffic"
	}
}

// Interpret applies the mode-pair table:
//
//	local \ remote   sink        source      transform
//	sink             no traffic  receive     receive
//	source           send        no traffic  send
//	transform        send        receive     both
func Interpret(local, remote Mode) Action {
	switch local {
	case ModeSink:
		switch remote {
		case ModeSink:
			return ActionNone
		default:
			return ActionReceive
		}
	case ModeSource:
		switch remote {
		case ModeSource:
			return ActionNone
		default:
			return ActionSend
		}
	default: // transform
		switch remote {
		case ModeSink:
			return ActionSend
		case ModeSource:
			return ActionReceive
		default:
			return ActionBoth
		}
	}
}
