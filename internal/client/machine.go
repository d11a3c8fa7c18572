package client

import (
	"github.com/qmuntal/stateless"
)

// State is the phase of a conversation exchange
type State string

const (
	// StateIdle awaits user input
	StateIdle State = "idle"
	// StateSending has appended the user message and placeholder and issued the request
	StateSending State = "sending"
	// StateStreaming is appending response chunks to the placeholder
	StateStreaming State = "streaming"
	// StateFailed replaced the placeholder with the apology; it returns to idle at once
	StateFailed State = "failed"
)

type trigger string

const (
	triggerSend    trigger = "send"
	triggerOpened  trigger = "response_opened"
	triggerFinish  trigger = "finish"
	triggerFail    trigger = "fail"
	triggerRecover trigger = "recover"
)

// Machine tracks the exchange phase of a session
type Machine struct {
	fsm *stateless.StateMachine
}

// NewMachine returns a machine in StateIdle
func NewMachine() *Machine {
	fsm := stateless.NewStateMachine(StateIdle)

	fsm.Configure(StateIdle).
		Permit(triggerSend, StateSending)

	fsm.Configure(StateSending).
		Permit(triggerOpened, StateStreaming).
		Permit(triggerFail, StateFailed)

	fsm.Configure(StateStreaming).
		Permit(triggerFinish, StateIdle).
		Permit(triggerFail, StateFailed)

	fsm.Configure(StateFailed).
		Permit(triggerRecover, StateIdle)

	return &Machine{fsm: fsm}
}

// State returns the current phase
func (m *Machine) State() State {
	return m.fsm.MustState().(State)
}

func (m *Machine) fire(t trigger) error {
	return m.fsm.Fire(t)
}
