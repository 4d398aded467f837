package events

import "fmt"

var allowedEvents = map[string]struct{}{
	// script
	"script.started":   {},
	"script.completed": {},
	"script.failed":    {},
	"script.inert":     {},

	// node
	"node.executed": {},
	"node.failed":   {},

	// delay continuations
	"delay.scheduled": {},
	"delay.resumed":   {},
	"delay.cancelled": {},

	// signals to host sub-systems
	"signal.emitted": {},

	// world
	"world.loaded":    {},
	"world.saved":     {},
	"message.emitted": {},

	// play sessions
	"session.started": {},
	"session.ended":   {},
	"session.expired": {},

	// operator / test console
	"operator.runNode":  {},
	"operator.runEvent": {},
	"operator.validate": {},

	// system
	"system.startup":  {},
	"system.shutdown": {},
	"system.error":    {},
}

func Validate(event string) error {
	if _, ok := allowedEvents[event]; !ok {
		return fmt.Errorf("unknown event: %s", event)
	}
	return nil
}
