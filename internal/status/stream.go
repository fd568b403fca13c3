package status

import (
	"sync"

	"query-gateway/internal/model"
)

// MsgNoProgress is the diagnostic emitted when a stream terminates without
// any progress event.
const MsgNoProgress = "No progress updates were received before completion"

const defaultBuffer = 16

// Stream is a forward-only sequence of status events for one request.
// It carries exactly one terminal event (Final Answer or Error) and is closed
// right after it. Consumers must drain Events until it is closed.
type Stream struct {
	mu         sync.Mutex
	ch         chan model.StatusEvent
	progressed bool
	terminated bool
}

// New creates an open stream.
func New() *Stream {
	return &Stream{ch: make(chan model.StatusEvent, defaultBuffer)}
}

// Events returns the receive side of the stream.
func (s *Stream) Events() <-chan model.StatusEvent {
	return s.ch
}

// Emit appends an event. Terminal steps close the stream.
func (s *Stream) Emit(step model.Step, message any) error {
	if step.IsTerminal() {
		return s.terminate(step, message)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.terminated {
		return ErrTerminated
	}
	if step.IsProgress() {
		s.progressed = true
	}
	s.ch <- model.StatusEvent{Step: step, Message: message}
	return nil
}

// Finish closes the stream with a Final Answer.
func (s *Stream) Finish(answer any) error {
	return s.terminate(model.StepFinalAnswer, answer)
}

// Fail closes the stream with an Error naming err.
func (s *Stream) Fail(err error) error {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	return s.terminate(model.StepError, msg)
}

// Terminated reports whether the terminal event has been emitted.
func (s *Stream) Terminated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.terminated
}

func (s *Stream) terminate(step model.Step, message any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.terminated {
		return ErrTerminated
	}
	s.terminated = true
	if !s.progressed {
		s.ch <- model.StatusEvent{Step: model.StepIntermediateStep, Message: MsgNoProgress}
	}
	s.ch <- model.StatusEvent{Step: step, Message: message}
	close(s.ch)
	return nil
}

// Collect drains the stream and returns every event in order.
func Collect(s *Stream) []model.StatusEvent {
	var out []model.StatusEvent
	for ev := range s.Events() {
		out = append(out, ev)
	}
	return out
}
