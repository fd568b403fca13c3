package sqlguard

import "errors"

var (
	// ErrEmptyStatement is returned when the input holds no SQL tokens.
	ErrEmptyStatement = errors.New("empty statement")

	// ErrMultipleStatements is returned when more than one statement is present.
	ErrMultipleStatements = errors.New("multiple statements are not allowed")

	// ErrMutatingStatement is returned when a statement would change data or schema.
	ErrMutatingStatement = errors.New("mutating statement")

	// ErrUnsupportedStatement is returned when the leading keyword is not a read.
	ErrUnsupportedStatement = errors.New("unsupported statement")

	// ErrUnterminated is returned when a string, quoted identifier, dollar
	// body or block comment is never closed.
	ErrUnterminated = errors.New("unterminated literal or comment")

	// ErrAmbiguousLiteral is returned for a backslash before a quote in a
	// standard string, which the server may read as an escape depending on
	// standard_conforming_strings.
	ErrAmbiguousLiteral = errors.New("ambiguous backslash in string literal")
)
