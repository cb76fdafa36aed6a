package handlers

import (
	"gridbot/server/messages"
	"gridbot/server/sim"
)

// namedCommand maps a wire command name to its state-machine command.
// Reset is not here: it is handled at the dispatch layer, not by Apply.
func namedCommand(name string) (sim.Command, bool) {
	switch name {
	case "forward":
		return sim.Command{Kind: sim.Forward}, true
	case "backward":
		return sim.Command{Kind: sim.Backward}, true
	case "left":
		return sim.Command{Kind: sim.TurnLeft}, true
	case "right":
		return sim.Command{Kind: sim.TurnRight}, true
	case "recharge":
		return sim.Command{Kind: sim.Recharge}, true
	}
	return sim.Command{}, false
}

// stateBroadcast builds the state envelope pushed to session watchers.
func stateBroadcast(msg string, state sim.State) messages.BaseMessage {
	return messages.BaseMessage{
		Type:    messages.MessageTypeState,
		Payload: messages.StateMessage{Message: msg, State: state},
	}
}
