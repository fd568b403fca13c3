package correction

import "errors"

var (
	// ErrPolicyViolation means a candidate would modify data. Fatal, never retried.
	ErrPolicyViolation = errors.New("policy violation: mutating statement rejected")
	// ErrVerificationFailure means the reviewer rejected the candidate.
	ErrVerificationFailure = errors.New("verification failure")
	// ErrExecutionFailure means the candidate errored or returned no rows.
	ErrExecutionFailure = errors.New("execution failure")
	// ErrBudgetExhausted means the corrective cycle ceiling was passed.
	ErrBudgetExhausted = errors.New("budget exhausted")
	// ErrCollaboratorUnavailable means the backend or the database could not be reached.
	ErrCollaboratorUnavailable = errors.New("collaborator unavailable")
	// ErrMalformedTurn means the backend answered with an unexpected tool or no payload.
	ErrMalformedTurn = errors.New("malformed turn")
	// ErrEmptyQuestion is returned by Run for a blank question.
	ErrEmptyQuestion = errors.New("question is required")
)

// RetryError is a recoverable failure of one cycle. Feedback is what the
// backend is told before it tries again.
type RetryError struct {
	Kind     error
	Feedback string
}

func (e *RetryError) Error() string {
	return e.Kind.Error() + ": " + e.Feedback
}

func (e *RetryError) Unwrap() error {
	return e.Kind
}

func retry(kind error, feedback string) error {
	return &RetryError{Kind: kind, Feedback: feedback}
}

// IsRecoverable reports whether err sends the machine back to Generate.
func IsRecoverable(err error) bool {
	var re *RetryError
	return errors.As(err, &re)
}
