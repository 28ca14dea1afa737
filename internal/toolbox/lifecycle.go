package toolbox

import (
	"sync"
	"time"

	"github.com/felixgeelhaar/statekit"
)

// Extension lifecycle states within one registry.
const (
	stateUnresolved statekit.StateID = "unresolved"
	stateResolved   statekit.StateID = "resolved"
)

const (
	eventResolve statekit.EventType = "RESOLVE"
	eventFail    statekit.EventType = "FAIL"
)

// lifecycle is the machine context of one extension.
type lifecycle struct {
	Extension  string
	Failures   int
	LastError  error
	ResolvedAt time.Time
}

func markResolved(c **lifecycle, _ statekit.Event) {
	if c == nil || *c == nil {
		return
	}
	(*c).ResolvedAt = time.Now()
	(*c).LastError = nil
}

func recordFailure(c **lifecycle, ev statekit.Event) {
	if c == nil || *c == nil {
		return
	}
	(*c).Failures++
	if err, ok := ev.Payload.(error); ok {
		(*c).LastError = err
	}
}

var lifecycleMachine = sync.OnceValues(func() (*statekit.MachineConfig[*lifecycle], error) {
	return statekit.NewMachine[*lifecycle]("extension").
		WithInitial(stateUnresolved).
		WithContext(&lifecycle{}).
		WithAction("markResolved", markResolved).
		WithAction("recordFailure", recordFailure).
		State(stateUnresolved).
		On(eventResolve).Target(stateResolved).Do("markResolved").
		On(eventFail).Target(stateUnresolved).Do("recordFailure").
		Done().
		State(stateResolved).
		Final().
		Done().
		Build()
})

// tracker follows one extension from unresolved to resolved.
type tracker struct {
	interp *statekit.Interpreter[*lifecycle]
	state  *lifecycle
}

func newTracker(extension string) (*tracker, error) {
	machine, err := lifecycleMachine()
	if err != nil {
		return nil, err
	}
	state := &lifecycle{Extension: extension}
	interp := statekit.NewInterpreter(machine)
	interp.UpdateContext(func(c **lifecycle) {
		*c = state
	})
	interp.Start()
	return &tracker{interp: interp, state: state}, nil
}

func (t *tracker) resolve() {
	t.interp.Send(statekit.Event{Type: eventResolve})
}

func (t *tracker) fail(err error) {
	t.interp.Send(statekit.Event{Type: eventFail, Payload: err})
}

func (t *tracker) resolved() bool {
	return t.interp.Matches(stateResolved)
}

func (t *tracker) stateName() string {
	return string(t.interp.State().Value)
}
