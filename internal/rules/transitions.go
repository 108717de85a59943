package rules

import (
	"fmt"

	"ticket-tracker.com/ticket-tracker/internal/constants"
)

// Transitions is the full status state machine: each status maps to the set of
// statuses a ticket may move to next. Anything absent from a row is rejected,
// including the current status itself, so a self-transition is not a no-op.
// Closed has no outbound transitions.
var Transitions = map[constants.TicketStatus][]constants.TicketStatus{
	constants.StatusOpen:       {constants.StatusInProgress, constants.StatusClosed},
	constants.StatusInProgress: {constants.StatusResolved, constants.StatusOpen},
	constants.StatusResolved:   {constants.StatusClosed, constants.StatusInProgress},
	constants.StatusClosed:     {},
}

func CheckTransition(current, requested constants.TicketStatus) error {
	if current == constants.StatusClosed {
		return fmt.Errorf("cannot modify status of a closed ticket")
	}
	for _, next := range Transitions[current] {
		if next == requested {
			return nil
		}
	}
	return fmt.Errorf("cannot change status from %s to %s", current, requested)
}
