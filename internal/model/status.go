package model

// Step labels a progress event on a status stream.
type Step string

const (
	StepInitializing     Step = "Initializing"
	StepProcessing       Step = "Processing"
	StepExecuting        Step = "Executing"
	StepIntermediateStep Step = "Intermediate Step"
	StepFinalizing       Step = "Finalizing"
	StepError            Step = "Error"
	StepFinalAnswer      Step = "Final Answer"
)

// IsTerminal reports whether the step closes a stream.
func (s Step) IsTerminal() bool {
	return s == StepError || s == StepFinalAnswer
}

// IsProgress reports whether the step shows work past initialization.
func (s Step) IsProgress() bool {
	switch s {
	case StepProcessing, StepExecuting, StepIntermediateStep, StepFinalizing:
		return true
	}
	return false
}

// StatusEvent is one line of a status stream. Message is a string or a JSON
// serializable payload.
type StatusEvent struct {
	Step    Step `json:"step"`
	Message any  `json:"message"`
}
