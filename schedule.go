package dispatch

import "github.com/io-da/schedule"

// scheduledDispatch stores an invocation to be fired whenever its schedule triggers.
// The invocation is kept as a descriptor so it re-resolves against the current
// registration at fire time.
type scheduledDispatch struct {
	invocation string
	args       []any
	sch        *schedule.Schedule
}

func newScheduledDispatch(invocation string, args []any, sch *schedule.Schedule) *scheduledDispatch {
	return &scheduledDispatch{
		invocation: invocation,
		args:       args,
		sch:        sch,
	}
}
